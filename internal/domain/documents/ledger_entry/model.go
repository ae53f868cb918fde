// Package ledger_entry provides the receivable/payable ledger documents and
// the payment reconciliation rules applied to them.
//
// An Entry is an invoice-like record with a total in its home currency and
// an ordered table of payments ("abonos"), each possibly made in another
// currency. Balance and totals are always derived from the payment table,
// never adjusted incrementally.
package ledger_entry

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"cuentas/internal/core/apperror"
	"cuentas/internal/core/entity"
	"cuentas/internal/core/id"
	"cuentas/internal/core/money"
	"cuentas/internal/domain/catalogs/currency"
)

// Kind distinguishes receivables (CxC) from payables (CxP).
// Both share the same shape; only the counterparty role differs.
type Kind string

const (
	KindReceivable Kind = "receivable"
	KindPayable    Kind = "payable"
)

// NumeratorPrefix returns the document number prefix for this kind.
func (k Kind) NumeratorPrefix() string {
	if k == KindPayable {
		return "CXP"
	}
	return "CXC"
}

// Entry represents a receivable or payable ledger entry.
type Entry struct {
	entity.Document

	// Kind is "receivable" or "payable"
	Kind Kind `db:"kind" json:"kind"`

	// CounterpartyID references the client (receivable) or supplier (payable)
	CounterpartyID id.ID `db:"counterparty_id" json:"counterpartyId"`

	// CurrencyID is the home currency of this entry
	CurrencyID id.ID `db:"currency_id" json:"currencyId"`

	// Total is the full amount owed, in the entry currency.
	// Immutable once the entry is issued.
	Total decimal.Decimal `db:"total" json:"total"`

	// TotalPaid and Balance are derived from the payment table.
	// Invariant: Total = TotalPaid + Balance, Balance >= 0.
	TotalPaid decimal.Decimal `db:"total_paid" json:"totalPaid"`
	Balance   decimal.Decimal `db:"balance" json:"balance"`

	// DueDate is optional; overdue reporting falls back to Date.
	DueDate *time.Time `db:"due_date" json:"dueDate,omitempty"`

	// Status is the stored lifecycle state (Open/Partial/Settled/Void).
	// Overdue is a read-time projection, never stored (see status.go).
	Status Status `db:"status" json:"status"`

	// Table part: payments in application order
	Payments []Payment `db:"-" json:"payments"`
}

// Payment represents one payment ("abono") applied against an entry.
type Payment struct {
	// Line identification
	ID      id.ID `db:"id" json:"id"`
	EntryID id.ID `db:"entry_id" json:"entryId"`
	LineNo  int   `db:"line_no" json:"lineNo"`

	// CurrencyID is the currency the payer actually used
	CurrencyID id.ID `db:"currency_id" json:"currencyId"`

	// Amount is in the payment's own currency
	Amount decimal.Decimal `db:"amount" json:"amount"`

	// ExchangeRateSnapshot is the cross rate applied at creation time.
	// Nil for same-currency payments. Never recomputed when catalog rates
	// change, so historical ledgers stay internally consistent.
	ExchangeRateSnapshot *decimal.Decimal `db:"exchange_rate_snapshot" json:"exchangeRateSnapshot,omitempty"`

	// AmountInEntryCurrency is the value actually credited against the
	// entry balance, rounded to the entry currency's precision. Immutable.
	AmountInEntryCurrency decimal.Decimal `db:"amount_in_entry_currency" json:"amountInEntryCurrency"`

	// PaymentMethodID is an opaque catalog reference
	PaymentMethodID *id.ID `db:"payment_method_id" json:"paymentMethodId,omitempty"`

	// Reference is free text (transfer number, check number)
	Reference *string `db:"reference" json:"reference,omitempty"`

	// Date is the business date of the payment
	Date time.Time `db:"date" json:"date"`
}

// NewEntry creates a new ledger entry with the full amount outstanding.
func NewEntry(kind Kind, counterpartyID, currencyID id.ID, total decimal.Decimal) *Entry {
	return &Entry{
		Document:       entity.NewDocument(),
		Kind:           kind,
		CounterpartyID: counterpartyID,
		CurrencyID:     currencyID,
		Total:          total,
		TotalPaid:      decimal.Zero,
		Balance:        total,
		Status:         StatusOpen,
		Payments:       make([]Payment, 0),
	}
}

// Validate implements entity.Validatable.
func (e *Entry) Validate(ctx context.Context) error {
	if err := e.Document.Validate(ctx); err != nil {
		return err
	}

	if e.Kind != KindReceivable && e.Kind != KindPayable {
		return apperror.NewValidation("kind must be receivable or payable").
			WithDetail("field", "kind").
			WithDetail("value", string(e.Kind))
	}

	if id.IsNil(e.CounterpartyID) {
		return apperror.NewValidation("counterparty is required").
			WithDetail("field", "counterpartyId")
	}

	if id.IsNil(e.CurrencyID) {
		return apperror.NewValidation("currency is required").
			WithDetail("field", "currencyId")
	}

	if !e.Total.IsPositive() {
		return apperror.NewValidation("total must be positive").
			WithDetail("field", "total").
			WithDetail("value", e.Total.String())
	}

	return nil
}

// recompute rebuilds TotalPaid, Balance and Status from the payment table.
// Summation is round-then-sum over the stored entry-currency amounts, so the
// result is deterministic regardless of payment order.
func (e *Entry) recompute(cur *currency.Currency) {
	amounts := make([]decimal.Decimal, len(e.Payments))
	for i, p := range e.Payments {
		amounts[i] = p.AmountInEntryCurrency
	}

	e.TotalPaid = money.SumRounded(amounts, cur.DecimalPlaces)
	e.Balance = e.Total.Sub(e.TotalPaid)
	e.Status = deriveStatus(e.Status, e.Balance, e.TotalPaid, cur.Epsilon())
}

// findPayment returns the index of the payment with the given id, or -1.
func (e *Entry) findPayment(paymentID id.ID) int {
	for i := range e.Payments {
		if e.Payments[i].ID == paymentID {
			return i
		}
	}
	return -1
}
