// Package reports provides report generation services.
package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"cuentas/internal/core/id"
	"cuentas/internal/domain/documents/ledger_entry"
)

// --- Aging Report ---

// Aging bucket boundaries in days late. An entry that is not yet late
// sits in the first bucket.
const (
	BucketCurrent = 0
	Bucket31to60  = 1
	Bucket61to90  = 2
	BucketOver90  = 3
	BucketCount   = 4
)

// BucketLabels are the display names, index-aligned with bucket constants.
var BucketLabels = [BucketCount]string{"0-30", "31-60", "61-90", "90+"}

// BucketFor returns the bucket index for the given days late.
func BucketFor(daysLate int) int {
	switch {
	case daysLate <= 30:
		return BucketCurrent
	case daysLate <= 60:
		return Bucket31to60
	case daysLate <= 90:
		return Bucket61to90
	default:
		return BucketOver90
	}
}

// AgingFilter defines the aging report input. AsOf is the business date the
// report is computed against; it is always explicit, never defaulted to the
// server clock, so a report can be reproduced for any past day.
type AgingFilter struct {
	Kind ledger_entry.Kind
	AsOf time.Time

	// CurrencyID selects the reporting currency. Nil means base currency.
	CurrencyID *id.ID

	// Optional narrowing
	CounterpartyIDs []id.ID
}

// AgingRow is the aging breakdown for one counterparty. All amounts are in
// the report's currency.
type AgingRow struct {
	CounterpartyID   id.ID                        `json:"counterpartyId"`
	CounterpartyName string                       `json:"counterpartyName"`
	Buckets          [BucketCount]decimal.Decimal `json:"buckets"`
	TotalOutstanding decimal.Decimal              `json:"totalOutstanding"`

	// WeightedAvgDaysLate is the balance-weighted mean of days late.
	// Zero when nothing is outstanding.
	WeightedAvgDaysLate decimal.Decimal `json:"weightedAvgDaysLate"`

	// EntryCount is the number of entries rolled into the row, including
	// ones whose balance fell within epsilon and bucket as zero.
	EntryCount int `json:"entryCount"`
}

// AgingReport is the full aging report.
type AgingReport struct {
	Kind             ledger_entry.Kind            `json:"kind"`
	AsOf             time.Time                    `json:"asOf"`
	Currency         string                       `json:"currency"`
	Rows             []AgingRow                   `json:"rows"`
	Totals           [BucketCount]decimal.Decimal `json:"totals"`
	TotalOutstanding decimal.Decimal              `json:"totalOutstanding"`

	WeightedAvgDaysLate decimal.Decimal `json:"weightedAvgDaysLate"`
}

// --- Counterparty Statement ---

// StatementFilter defines the counterparty statement input.
type StatementFilter struct {
	CounterpartyID id.ID
	Kind           *ledger_entry.Kind
	DateFrom       *time.Time
	DateTo         *time.Time
	AsOf           time.Time
}

// StatementLine is one entry on a counterparty statement, with its
// effective status projected at the statement date.
type StatementLine struct {
	EntryID         id.ID               `json:"entryId"`
	Number          string              `json:"number"`
	Kind            ledger_entry.Kind   `json:"kind"`
	Date            time.Time           `json:"date"`
	DueDate         *time.Time          `json:"dueDate,omitempty"`
	CurrencyCode    string              `json:"currencyCode"`
	Total           decimal.Decimal     `json:"total"`
	TotalPaid       decimal.Decimal     `json:"totalPaid"`
	Balance         decimal.Decimal     `json:"balance"`
	BalanceInBase   decimal.Decimal     `json:"balanceInBase"`
	EffectiveStatus ledger_entry.Status `json:"effectiveStatus"`
	DaysLate        int                 `json:"daysLate"`
}

// Statement is the full counterparty statement.
type Statement struct {
	CounterpartyID   id.ID           `json:"counterpartyId"`
	CounterpartyName string          `json:"counterpartyName"`
	AsOf             time.Time       `json:"asOf"`
	Lines            []StatementLine `json:"lines"`
	TotalOutstanding decimal.Decimal `json:"totalOutstanding"`
}
