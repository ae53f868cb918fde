package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cuentas/internal/core/id"
	"cuentas/internal/domain/catalogs/currency"
	"cuentas/internal/domain/documents/ledger_entry"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func agingRegistry(t *testing.T) (*currency.Registry, *currency.Currency, *currency.Currency) {
	t.Helper()

	usd := currency.New("USD", "US Dollar", "USD")
	usd.IsBase = true

	ves := currency.New("VES", "Bolivar", "VES")
	ves.RateToBase = dec("36")

	reg, err := currency.NewRegistry([]*currency.Currency{usd, ves})
	require.NoError(t, err)
	return reg, usd, ves
}

func outstandingEntry(cp id.ID, cur *currency.Currency, balance string, due time.Time) *ledger_entry.Entry {
	e := ledger_entry.NewEntry(ledger_entry.KindReceivable, cp, cur.ID, dec(balance))
	e.Date = due.AddDate(0, 0, -15)
	e.DueDate = &due
	return e
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		daysLate int
		want     int
	}{
		{0, BucketCurrent},
		{30, BucketCurrent},
		{31, Bucket31to60},
		{60, Bucket31to60},
		{61, Bucket61to90},
		{90, Bucket61to90},
		{91, BucketOver90},
		{365, BucketOver90},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BucketFor(tt.daysLate), "daysLate=%d", tt.daysLate)
	}
}

func TestBuildAging(t *testing.T) {
	reg, usd, ves := agingRegistry(t)
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	acme := id.New()
	globex := id.New()
	names := map[id.ID]string{acme: "Acme", globex: "Globex"}

	entries := []*ledger_entry.Entry{
		// Acme: 100 USD due in 10 days (not late, bucket 0)
		outstandingEntry(acme, usd, "100", asOf.AddDate(0, 0, 10)),
		// Acme: 3600 VES = 100 USD, 45 days late (bucket 1)
		outstandingEntry(acme, ves, "3600", asOf.AddDate(0, 0, -45)),
		// Globex: 50 USD, 100 days late (bucket 3)
		outstandingEntry(globex, usd, "50", asOf.AddDate(0, 0, -100)),
	}

	report, err := BuildAging(entries, reg, names, AgingFilter{
		Kind: ledger_entry.KindReceivable,
		AsOf: asOf,
	})
	require.NoError(t, err)

	assert.Equal(t, "USD", report.Currency)
	assert.True(t, report.TotalOutstanding.Equal(dec("250")))
	assert.True(t, report.Totals[BucketCurrent].Equal(dec("100")))
	assert.True(t, report.Totals[Bucket31to60].Equal(dec("100")))
	assert.True(t, report.Totals[Bucket61to90].IsZero())
	assert.True(t, report.Totals[BucketOver90].Equal(dec("50")))

	// (100*0 + 100*45 + 50*100) / 250 = 38
	assert.True(t, report.WeightedAvgDaysLate.Equal(dec("38")),
		"got %s", report.WeightedAvgDaysLate)

	require.Len(t, report.Rows, 2)
	assert.Equal(t, "Acme", report.Rows[0].CounterpartyName, "largest exposure first")
	assert.True(t, report.Rows[0].TotalOutstanding.Equal(dec("200")))
	assert.Equal(t, 2, report.Rows[0].EntryCount)
	// (100*0 + 100*45) / 200 = 22.5
	assert.True(t, report.Rows[0].WeightedAvgDaysLate.Equal(dec("22.5")))

	assert.Equal(t, "Globex", report.Rows[1].CounterpartyName)
	assert.True(t, report.Rows[1].WeightedAvgDaysLate.Equal(dec("100")))
}

func TestBuildAging_ReportingCurrency(t *testing.T) {
	reg, usd, ves := agingRegistry(t)
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	cp := id.New()

	entries := []*ledger_entry.Entry{
		outstandingEntry(cp, usd, "100", asOf.AddDate(0, 0, -45)),
	}

	report, err := BuildAging(entries, reg, map[id.ID]string{cp: "Acme"}, AgingFilter{
		Kind:       ledger_entry.KindReceivable,
		AsOf:       asOf,
		CurrencyID: &ves.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, "VES", report.Currency)
	assert.True(t, report.TotalOutstanding.Equal(dec("3600")),
		"got %s", report.TotalOutstanding)
}

func TestBuildAging_SettledAndVoid(t *testing.T) {
	reg, usd, _ := agingRegistry(t)
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	cp := id.New()

	settled := outstandingEntry(cp, usd, "100", asOf.AddDate(0, 0, -5))
	settled.Status = ledger_entry.StatusSettled
	settled.Balance = decimal.Zero

	voided := outstandingEntry(cp, usd, "100", asOf.AddDate(0, 0, -5))
	voided.Status = ledger_entry.StatusVoid

	report, err := BuildAging(
		[]*ledger_entry.Entry{settled, voided},
		reg,
		map[id.ID]string{cp: "Acme"},
		AgingFilter{Kind: ledger_entry.KindReceivable, AsOf: asOf},
	)
	require.NoError(t, err)

	// The settled entry stays in the count but carries nothing; the void
	// entry disappears entirely.
	require.Len(t, report.Rows, 1)
	assert.Equal(t, 1, report.Rows[0].EntryCount)
	assert.True(t, report.Rows[0].TotalOutstanding.IsZero())
	assert.True(t, report.TotalOutstanding.IsZero())
	assert.True(t, report.WeightedAvgDaysLate.IsZero(), "no outstanding debt means zero, not NaN")
}

func TestBuildAging_EmptyInput(t *testing.T) {
	reg, _, _ := agingRegistry(t)

	report, err := BuildAging(nil, reg, nil, AgingFilter{
		Kind: ledger_entry.KindReceivable,
		AsOf: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Empty(t, report.Rows)
	assert.True(t, report.TotalOutstanding.IsZero())
	assert.True(t, report.WeightedAvgDaysLate.IsZero())
}

func TestBuildAging_SameDayNotLate(t *testing.T) {
	reg, usd, _ := agingRegistry(t)
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	cp := id.New()

	entry := outstandingEntry(cp, usd, "75", asOf)

	report, err := BuildAging(
		[]*ledger_entry.Entry{entry},
		reg,
		map[id.ID]string{cp: "Acme"},
		AgingFilter{Kind: ledger_entry.KindReceivable, AsOf: asOf},
	)
	require.NoError(t, err)

	assert.True(t, report.Totals[BucketCurrent].Equal(dec("75")))
	assert.True(t, report.WeightedAvgDaysLate.IsZero())
}

func TestBuildStatement(t *testing.T) {
	reg, usd, ves := agingRegistry(t)
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	cp := id.New()

	early := outstandingEntry(cp, ves, "3600", asOf.AddDate(0, 0, -40))
	early.Number = "CXC-2026-00001"
	late := outstandingEntry(cp, usd, "25", asOf.AddDate(0, 0, 5))
	late.Number = "CXC-2026-00002"

	st, err := BuildStatement(
		[]*ledger_entry.Entry{late, early},
		reg, cp, "Acme", asOf,
	)
	require.NoError(t, err)

	assert.Equal(t, "Acme", st.CounterpartyName)
	require.Len(t, st.Lines, 2)
	assert.Equal(t, "CXC-2026-00001", st.Lines[0].Number, "sorted by date")
	assert.Equal(t, ledger_entry.StatusOverdue, st.Lines[0].EffectiveStatus)
	assert.Equal(t, 40, st.Lines[0].DaysLate)
	assert.True(t, st.Lines[0].BalanceInBase.Equal(dec("100")))
	assert.Equal(t, ledger_entry.StatusOpen, st.Lines[1].EffectiveStatus)
	assert.True(t, st.TotalOutstanding.Equal(dec("125")))
}
