package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"cuentas/internal/core/id"
	"cuentas/internal/domain/catalogs/currency"
	"cuentas/internal/domain/documents/ledger_entry"
	"cuentas/internal/domain/fx"
)

// BuildAging computes the aging report over the given outstanding entries.
// Pure function: everything it needs, including the report date, is a
// parameter. Balances are converted to the reporting currency (base unless
// the filter picks another) at current rates.
//
// Void entries are skipped. Settled entries (and entries whose residual
// balance is within their currency's epsilon) contribute zero to every
// bucket and to the weighted average, but still count toward the
// counterparty's entry count.
func BuildAging(
	entries []*ledger_entry.Entry,
	reg *currency.Registry,
	names map[id.ID]string,
	filter AgingFilter,
) (*AgingReport, error) {
	reportCur := reg.Base()
	if filter.CurrencyID != nil {
		var err error
		reportCur, err = reg.Resolve(*filter.CurrencyID)
		if err != nil {
			return nil, err
		}
	}

	report := &AgingReport{
		Kind:     filter.Kind,
		AsOf:     filter.AsOf,
		Currency: reportCur.ISOCode,
		Rows:     make([]AgingRow, 0),
	}

	rowsByCounterparty := make(map[id.ID]*AgingRow)
	weighted := decimal.Zero // sum of balance*daysLate over all rows
	weightedByRow := make(map[id.ID]decimal.Decimal)

	for _, e := range entries {
		if e.Status == ledger_entry.StatusVoid {
			continue
		}

		cur, err := reg.Resolve(e.CurrencyID)
		if err != nil {
			return nil, err
		}

		row, ok := rowsByCounterparty[e.CounterpartyID]
		if !ok {
			row = &AgingRow{
				CounterpartyID:   e.CounterpartyID,
				CounterpartyName: names[e.CounterpartyID],
			}
			rowsByCounterparty[e.CounterpartyID] = row
		}
		row.EntryCount++

		// Paid-off entries stay in the count but carry no balance into
		// the buckets or the weighted average.
		if e.Balance.LessThanOrEqual(cur.Epsilon()) {
			continue
		}

		converted, err := fx.Convert(e.Balance, cur, reportCur)
		if err != nil {
			return nil, err
		}

		daysLate := e.DaysLate(filter.AsOf)
		bucket := BucketFor(daysLate)

		row.Buckets[bucket] = row.Buckets[bucket].Add(converted)
		row.TotalOutstanding = row.TotalOutstanding.Add(converted)

		contribution := converted.Mul(decimal.NewFromInt(int64(daysLate)))
		weightedByRow[e.CounterpartyID] = weightedByRow[e.CounterpartyID].Add(contribution)
		weighted = weighted.Add(contribution)

		report.Totals[bucket] = report.Totals[bucket].Add(converted)
		report.TotalOutstanding = report.TotalOutstanding.Add(converted)
	}

	places := int32(reportCur.DecimalPlaces)
	for cpID, row := range rowsByCounterparty {
		row.WeightedAvgDaysLate = weightedAvg(weightedByRow[cpID], row.TotalOutstanding)
		for i := range row.Buckets {
			row.Buckets[i] = row.Buckets[i].Round(places)
		}
		row.TotalOutstanding = row.TotalOutstanding.Round(places)
		report.Rows = append(report.Rows, *row)
	}

	report.WeightedAvgDaysLate = weightedAvg(weighted, report.TotalOutstanding)
	for i := range report.Totals {
		report.Totals[i] = report.Totals[i].Round(places)
	}
	report.TotalOutstanding = report.TotalOutstanding.Round(places)

	// Largest exposure first, name as tiebreaker for stable output
	sort.Slice(report.Rows, func(i, j int) bool {
		if !report.Rows[i].TotalOutstanding.Equal(report.Rows[j].TotalOutstanding) {
			return report.Rows[i].TotalOutstanding.GreaterThan(report.Rows[j].TotalOutstanding)
		}
		return report.Rows[i].CounterpartyName < report.Rows[j].CounterpartyName
	})

	return report, nil
}

// weightedAvg returns weighted/total rounded to one decimal, or zero when
// nothing is outstanding. Never divides by zero.
func weightedAvg(weighted, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return weighted.Div(total).Round(1)
}

// BuildStatement computes a counterparty statement over the given entries.
func BuildStatement(
	entries []*ledger_entry.Entry,
	reg *currency.Registry,
	counterpartyID id.ID,
	counterpartyName string,
	asOf time.Time,
) (*Statement, error) {
	st := &Statement{
		CounterpartyID:   counterpartyID,
		CounterpartyName: counterpartyName,
		AsOf:             asOf,
		Lines:            make([]StatementLine, 0, len(entries)),
	}

	for _, e := range entries {
		cur, err := reg.Resolve(e.CurrencyID)
		if err != nil {
			return nil, err
		}

		balanceInBase, err := fx.Convert(e.Balance, cur, reg.Base())
		if err != nil {
			return nil, err
		}

		st.Lines = append(st.Lines, StatementLine{
			EntryID:         e.ID,
			Number:          e.Number,
			Kind:            e.Kind,
			Date:            e.Date,
			DueDate:         e.DueDate,
			CurrencyCode:    cur.ISOCode,
			Total:           e.Total,
			TotalPaid:       e.TotalPaid,
			Balance:         e.Balance,
			BalanceInBase:   balanceInBase,
			EffectiveStatus: e.EffectiveStatus(asOf),
			DaysLate:        e.DaysLate(asOf),
		})

		if e.Status != ledger_entry.StatusVoid {
			st.TotalOutstanding = st.TotalOutstanding.Add(balanceInBase)
		}
	}

	st.TotalOutstanding = st.TotalOutstanding.Round(int32(reg.Base().DecimalPlaces))

	sort.Slice(st.Lines, func(i, j int) bool {
		return st.Lines[i].Date.Before(st.Lines[j].Date)
	})

	return st, nil
}
