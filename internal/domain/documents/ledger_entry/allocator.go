package ledger_entry

import (
	"time"

	"github.com/shopspring/decimal"

	"cuentas/internal/core/apperror"
	"cuentas/internal/core/id"
	"cuentas/internal/domain/catalogs/currency"
	"cuentas/internal/domain/fx"
)

// NewPayment carries the user-supplied fields of a payment before
// allocation. Conversion and snapshot fields are computed here, never
// accepted from the caller.
type NewPayment struct {
	CurrencyID      id.ID
	Amount          decimal.Decimal
	PaymentMethodID *id.ID
	Reference       *string
	Date            time.Time
}

// AddPayment converts, validates and appends a payment to the entry, then
// recomputes the derived totals. The entry is mutated only when every check
// passes; on error it is left exactly as it was.
//
// The conversion rate is snapshotted on the payment line at this moment.
// Later catalog rate changes never touch existing lines.
func AddPayment(entry *Entry, reg *currency.Registry, np NewPayment) (*Payment, error) {
	if entry.Status.IsTerminal() {
		return nil, apperror.NewVoidEntry(entry.ID.String())
	}

	if !np.Amount.IsPositive() {
		return nil, apperror.NewValidation("payment amount must be positive").
			WithDetail("field", "amount").
			WithDetail("value", np.Amount.String())
	}

	entryCur, err := reg.Resolve(entry.CurrencyID)
	if err != nil {
		return nil, err
	}

	paymentCur, err := reg.Resolve(np.CurrencyID)
	if err != nil {
		return nil, err
	}

	var credited decimal.Decimal
	var snapshot *decimal.Decimal

	if paymentCur.ID == entryCur.ID {
		// Same currency: no conversion, just normalize precision
		credited = entryCur.Round(np.Amount)
	} else {
		credited, err = fx.Convert(np.Amount, paymentCur, entryCur)
		if err != nil {
			return nil, err
		}

		rate, err := fx.CrossRate(paymentCur, entryCur)
		if err != nil {
			return nil, err
		}
		snapshot = &rate
	}

	// No-overdraft check, with one smallest-unit of tolerance for
	// conversion rounding. A payment that exceeds it is rejected whole,
	// never clamped.
	tolerance := entry.Balance.Add(entryCur.Epsilon())
	if credited.GreaterThan(tolerance) {
		return nil, apperror.NewOverpayment(
			entry.ID.String(),
			credited.String(),
			entry.Balance.String(),
		)
	}

	payment := Payment{
		ID:                    id.New(),
		EntryID:               entry.ID,
		LineNo:                nextLineNo(entry),
		CurrencyID:            np.CurrencyID,
		Amount:                np.Amount,
		ExchangeRateSnapshot:  snapshot,
		AmountInEntryCurrency: credited,
		PaymentMethodID:       np.PaymentMethodID,
		Reference:             np.Reference,
		Date:                  np.Date,
	}

	entry.Payments = append(entry.Payments, payment)
	entry.recompute(entryCur)

	return &entry.Payments[len(entry.Payments)-1], nil
}

// RemovePayment deletes a payment line and recomputes the derived totals.
// Removing a payment can reopen a settled entry; that is intentional,
// reversal of a bounced check must bring the debt back.
func RemovePayment(entry *Entry, reg *currency.Registry, paymentID id.ID) (*Payment, error) {
	if entry.Status.IsTerminal() {
		return nil, apperror.NewVoidEntry(entry.ID.String())
	}

	idx := entry.findPayment(paymentID)
	if idx < 0 {
		return nil, apperror.NewNotFound("payment", paymentID.String())
	}

	entryCur, err := reg.Resolve(entry.CurrencyID)
	if err != nil {
		return nil, err
	}

	removed := entry.Payments[idx]
	entry.Payments = append(entry.Payments[:idx], entry.Payments[idx+1:]...)
	entry.recompute(entryCur)

	return &removed, nil
}

// Void marks the entry void. Terminal: no payments may be added or removed
// afterwards, and existing payment lines are preserved for the audit trail.
func Void(entry *Entry) error {
	if entry.Status == StatusVoid {
		return apperror.NewVoidEntry(entry.ID.String())
	}
	entry.Status = StatusVoid
	return nil
}

func nextLineNo(entry *Entry) int {
	max := 0
	for _, p := range entry.Payments {
		if p.LineNo > max {
			max = p.LineNo
		}
	}
	return max + 1
}
