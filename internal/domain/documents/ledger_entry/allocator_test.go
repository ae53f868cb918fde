package ledger_entry

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cuentas/internal/core/apperror"
	"cuentas/internal/core/id"
	"cuentas/internal/domain/catalogs/currency"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testCurrency(iso string, rate string, places int, isBase bool) *currency.Currency {
	c := currency.New(iso, iso, iso)
	c.RateToBase = dec(rate)
	c.DecimalPlaces = places
	c.IsBase = isBase
	return c
}

// testRegistry builds USD (base), VES at 36/USD and EUR at 0.9/USD.
func testRegistry(t *testing.T) (*currency.Registry, *currency.Currency, *currency.Currency, *currency.Currency) {
	t.Helper()

	usd := testCurrency("USD", "1", 2, true)
	ves := testCurrency("VES", "36", 2, false)
	eur := testCurrency("EUR", "0.9", 2, false)

	reg, err := currency.NewRegistry([]*currency.Currency{usd, ves, eur})
	require.NoError(t, err)

	return reg, usd, ves, eur
}

func testEntry(cur *currency.Currency, total string) *Entry {
	return NewEntry(KindReceivable, id.New(), cur.ID, dec(total))
}

func paymentOf(cur *currency.Currency, amount string) NewPayment {
	return NewPayment{
		CurrencyID: cur.ID,
		Amount:     dec(amount),
		Date:       time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestAddPayment_SameCurrency(t *testing.T) {
	reg, usd, _, _ := testRegistry(t)
	entry := testEntry(usd, "100")

	p, err := AddPayment(entry, reg, paymentOf(usd, "40"))
	require.NoError(t, err)

	assert.Nil(t, p.ExchangeRateSnapshot, "same-currency payment carries no rate")
	assert.True(t, p.AmountInEntryCurrency.Equal(dec("40")))
	assert.True(t, entry.TotalPaid.Equal(dec("40")))
	assert.True(t, entry.Balance.Equal(dec("60")))
	assert.Equal(t, StatusPartial, entry.Status)
}

func TestAddPayment_CrossCurrency(t *testing.T) {
	reg, usd, ves, _ := testRegistry(t)
	entry := testEntry(usd, "100")

	// 1800 VES at 36 VES/USD credits 50 USD
	p, err := AddPayment(entry, reg, paymentOf(ves, "1800"))
	require.NoError(t, err)

	require.NotNil(t, p.ExchangeRateSnapshot)
	assert.True(t, p.ExchangeRateSnapshot.Equal(dec("1").Div(dec("36"))),
		"snapshot is the USD per VES cross rate")
	assert.True(t, p.AmountInEntryCurrency.Equal(dec("50")))
	assert.True(t, p.Amount.Equal(dec("1800")), "original amount preserved")
	assert.True(t, entry.Balance.Equal(dec("50")))
	assert.Equal(t, StatusPartial, entry.Status)
}

func TestAddPayment_SnapshotSurvivesRateChange(t *testing.T) {
	reg, usd, ves, _ := testRegistry(t)
	entry := testEntry(usd, "100")

	p, err := AddPayment(entry, reg, paymentOf(ves, "1800"))
	require.NoError(t, err)
	credited := p.AmountInEntryCurrency
	snapshot := *p.ExchangeRateSnapshot

	// Devaluation after the payment was taken
	ves.RateToBase = dec("72")

	assert.True(t, p.AmountInEntryCurrency.Equal(credited))
	assert.True(t, p.ExchangeRateSnapshot.Equal(snapshot))
	assert.True(t, entry.Balance.Equal(dec("50")))
}

func TestAddPayment_SettlesWithinEpsilon(t *testing.T) {
	reg, usd, ves, _ := testRegistry(t)
	entry := testEntry(usd, "100")

	// 3600 VES at 36 VES/USD is exactly the 100 USD balance
	_, err := AddPayment(entry, reg, paymentOf(ves, "3600"))
	require.NoError(t, err)

	assert.Equal(t, StatusSettled, entry.Status)
	assert.True(t, entry.Balance.IsZero(), "balance is %s", entry.Balance)
}

func TestAddPayment_Overpayment(t *testing.T) {
	reg, usd, _, _ := testRegistry(t)
	entry := testEntry(usd, "100")

	_, err := AddPayment(entry, reg, paymentOf(usd, "60"))
	require.NoError(t, err)

	_, err = AddPayment(entry, reg, paymentOf(usd, "50"))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeOverpayment))

	// Rejected whole: nothing was applied
	assert.True(t, entry.TotalPaid.Equal(dec("60")))
	assert.True(t, entry.Balance.Equal(dec("40")))
	assert.Len(t, entry.Payments, 1)
	assert.Equal(t, StatusPartial, entry.Status)
}

func TestAddPayment_OverpaymentWithinEpsilonAccepted(t *testing.T) {
	reg, usd, _, _ := testRegistry(t)
	entry := testEntry(usd, "100")

	// One cent over, exactly at the tolerance boundary
	_, err := AddPayment(entry, reg, paymentOf(usd, "100.01"))
	require.NoError(t, err)
	assert.Equal(t, StatusSettled, entry.Status)

	entry2 := testEntry(usd, "100")
	_, err = AddPayment(entry2, reg, paymentOf(usd, "100.02"))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeOverpayment))
}

func TestAddPayment_CrossCurrencyOverpayment(t *testing.T) {
	reg, usd, ves, _ := testRegistry(t)
	entry := testEntry(usd, "100")

	// 7200 VES converts to 200 USD against a 100 USD balance
	_, err := AddPayment(entry, reg, paymentOf(ves, "7200"))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeOverpayment))
	assert.Empty(t, entry.Payments)
	assert.Equal(t, StatusOpen, entry.Status)
}

func TestAddPayment_NonPositiveAmount(t *testing.T) {
	reg, usd, _, _ := testRegistry(t)
	entry := testEntry(usd, "100")

	for _, amount := range []string{"0", "-10"} {
		_, err := AddPayment(entry, reg, paymentOf(usd, amount))
		require.Error(t, err, "amount %s", amount)
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	}
}

func TestAddPayment_VoidEntry(t *testing.T) {
	reg, usd, _, _ := testRegistry(t)
	entry := testEntry(usd, "100")
	require.NoError(t, Void(entry))

	_, err := AddPayment(entry, reg, paymentOf(usd, "10"))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeVoidEntry))
}

func TestAddPayment_UnknownCurrency(t *testing.T) {
	reg, usd, _, _ := testRegistry(t)
	entry := testEntry(usd, "100")

	_, err := AddPayment(entry, reg, NewPayment{
		CurrencyID: id.New(),
		Amount:     dec("10"),
		Date:       time.Now(),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestAddPayment_MixedCurrencies(t *testing.T) {
	reg, usd, ves, eur := testRegistry(t)
	entry := testEntry(usd, "100")

	_, err := AddPayment(entry, reg, paymentOf(ves, "1800")) // 50 USD
	require.NoError(t, err)
	_, err = AddPayment(entry, reg, paymentOf(eur, "27")) // 30 USD
	require.NoError(t, err)
	_, err = AddPayment(entry, reg, paymentOf(usd, "20"))
	require.NoError(t, err)

	assert.True(t, entry.TotalPaid.Equal(dec("100")))
	assert.True(t, entry.Balance.IsZero())
	assert.Equal(t, StatusSettled, entry.Status)

	assert.Equal(t, []int{1, 2, 3}, []int{
		entry.Payments[0].LineNo,
		entry.Payments[1].LineNo,
		entry.Payments[2].LineNo,
	})
}

func TestRemovePayment_ReopensEntry(t *testing.T) {
	reg, usd, _, _ := testRegistry(t)
	entry := testEntry(usd, "100")

	p1, err := AddPayment(entry, reg, paymentOf(usd, "60"))
	require.NoError(t, err)
	firstID := p1.ID
	_, err = AddPayment(entry, reg, paymentOf(usd, "40"))
	require.NoError(t, err)
	require.Equal(t, StatusSettled, entry.Status)

	removed, err := RemovePayment(entry, reg, firstID)
	require.NoError(t, err)

	assert.True(t, removed.AmountInEntryCurrency.Equal(dec("60")))
	assert.True(t, entry.Balance.Equal(dec("60")))
	assert.Equal(t, StatusPartial, entry.Status)
	assert.Len(t, entry.Payments, 1)
}

func TestRemovePayment_LastPaymentBackToOpen(t *testing.T) {
	reg, usd, _, _ := testRegistry(t)
	entry := testEntry(usd, "100")

	p, err := AddPayment(entry, reg, paymentOf(usd, "30"))
	require.NoError(t, err)

	_, err = RemovePayment(entry, reg, p.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusOpen, entry.Status)
	assert.True(t, entry.Balance.Equal(dec("100")))
	assert.True(t, entry.TotalPaid.IsZero())
}

func TestRemovePayment_NotFound(t *testing.T) {
	reg, usd, _, _ := testRegistry(t)
	entry := testEntry(usd, "100")

	_, err := RemovePayment(entry, reg, id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestVoid_Terminal(t *testing.T) {
	reg, usd, _, _ := testRegistry(t)
	entry := testEntry(usd, "100")

	p, err := AddPayment(entry, reg, paymentOf(usd, "30"))
	require.NoError(t, err)

	require.NoError(t, Void(entry))
	assert.Equal(t, StatusVoid, entry.Status)

	// Payment table preserved, but frozen
	assert.Len(t, entry.Payments, 1)
	_, err = RemovePayment(entry, reg, p.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeVoidEntry))

	err = Void(entry)
	assert.True(t, apperror.IsCode(err, apperror.CodeVoidEntry), "double void rejected")
}

// Balance plus paid must equal total after any sequence of operations.
func TestBalanceInvariant(t *testing.T) {
	reg, usd, ves, eur := testRegistry(t)
	entry := testEntry(usd, "250.75")

	ops := []NewPayment{
		paymentOf(ves, "1000"),
		paymentOf(eur, "45.50"),
		paymentOf(usd, "33.33"),
		paymentOf(ves, "777.77"),
	}

	var lineIDs []id.ID
	for _, op := range ops {
		p, err := AddPayment(entry, reg, op)
		require.NoError(t, err)
		lineIDs = append(lineIDs, p.ID)
		assert.True(t, entry.TotalPaid.Add(entry.Balance).Equal(entry.Total),
			"paid %s + balance %s != total %s", entry.TotalPaid, entry.Balance, entry.Total)
		assert.False(t, entry.Balance.IsNegative())
	}

	for _, lineID := range lineIDs {
		_, err := RemovePayment(entry, reg, lineID)
		require.NoError(t, err)
		assert.True(t, entry.TotalPaid.Add(entry.Balance).Equal(entry.Total))
	}

	assert.Equal(t, StatusOpen, entry.Status)
}

// Round-then-sum: totals are computed over already-rounded line amounts,
// so reading lines back from storage gives identical results.
func TestRecompute_RoundThenSum(t *testing.T) {
	reg, usd, ves, _ := testRegistry(t)
	entry := testEntry(usd, "100")

	// 100.10 VES -> 2.780555... rounds to 2.78 per line
	for i := 0; i < 3; i++ {
		_, err := AddPayment(entry, reg, paymentOf(ves, "100.10"))
		require.NoError(t, err)
	}

	assert.True(t, entry.TotalPaid.Equal(dec("8.34")), "3 x 2.78, got %s", entry.TotalPaid)
	assert.True(t, entry.Balance.Equal(dec("91.66")))
}
