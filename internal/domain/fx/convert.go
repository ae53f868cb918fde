// Package fx provides pure currency conversion arithmetic.
//
// All conversions pivot through the single base currency (star topology):
// each currency carries RateToBase, the number of its units equal to one
// base unit. A single pivot avoids pairwise rate tables and matches how
// rates are captured in the currency catalog.
//
// Every function here is deterministic and free of I/O; this is what makes
// the payment reconciliation engine testable.
package fx

import (
	"github.com/shopspring/decimal"

	"cuentas/internal/core/apperror"
	"cuentas/internal/domain/catalogs/currency"
)

// ToBase converts an amount from the given currency to the base currency.
// Identity when c is the base currency (RateToBase = 1).
func ToBase(amount decimal.Decimal, c *currency.Currency) (decimal.Decimal, error) {
	if !c.RateToBase.IsPositive() {
		return decimal.Zero, apperror.NewInvalidRate(c.ISOCode, c.RateToBase.String())
	}
	return amount.Div(c.RateToBase), nil
}

// FromBase converts an amount expressed in the base currency to the target.
func FromBase(amountInBase decimal.Decimal, target *currency.Currency) (decimal.Decimal, error) {
	if !target.RateToBase.IsPositive() {
		return decimal.Zero, apperror.NewInvalidRate(target.ISOCode, target.RateToBase.String())
	}
	return amountInBase.Mul(target.RateToBase), nil
}

// Convert converts an amount between two currencies and rounds the result
// to the target currency's precision.
//
// Mathematically equal to FromBase(ToBase(amount, from), to), but computed
// as a direct cross-multiplication so no intermediate rounding step leaks
// into the result.
func Convert(amount decimal.Decimal, from, to *currency.Currency) (decimal.Decimal, error) {
	// Same currency: return unchanged, no spurious precision loss.
	if from.ID == to.ID {
		return amount, nil
	}
	if !from.RateToBase.IsPositive() {
		return decimal.Zero, apperror.NewInvalidRate(from.ISOCode, from.RateToBase.String())
	}
	if !to.RateToBase.IsPositive() {
		return decimal.Zero, apperror.NewInvalidRate(to.ISOCode, to.RateToBase.String())
	}

	converted := amount.Mul(to.RateToBase).Div(from.RateToBase)
	return to.Round(converted), nil
}

// CrossRate returns the effective rate applied by Convert for one unit of
// the source currency, i.e. to.RateToBase / from.RateToBase. Payment
// reconciliation snapshots this value so historical entries stay internally
// consistent when catalog rates change later.
func CrossRate(from, to *currency.Currency) (decimal.Decimal, error) {
	if !from.RateToBase.IsPositive() {
		return decimal.Zero, apperror.NewInvalidRate(from.ISOCode, from.RateToBase.String())
	}
	if !to.RateToBase.IsPositive() {
		return decimal.Zero, apperror.NewInvalidRate(to.ISOCode, to.RateToBase.String())
	}
	return to.RateToBase.Div(from.RateToBase), nil
}
