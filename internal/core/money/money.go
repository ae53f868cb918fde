// Package money provides the monetary type and rounding rules shared by the
// ledger engine. All amounts are decimal.Decimal; binary floats never cross a
// currency boundary.
package money

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// New creates a Money value from a float.
// WARNING: Use NewFromString for precise values.
func New(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// Must creates a Money value from a string, panics on error.
// Use only for constants and tests.
func Must(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// Round rounds an amount to the given number of decimal places (half up).
// Every amount crossing a currency boundary is rounded exactly once, here.
func Round(amount Money, decimals int) Money {
	return amount.Round(int32(decimals))
}

// Epsilon returns one unit at the smallest decimal of a currency,
// e.g. 0.01 for 2 decimal places. Balances at or below epsilon are
// considered settled; payments exceeding balance+epsilon are overpayments.
func Epsilon(decimals int) Money {
	return decimal.New(1, -int32(decimals))
}

// SumRounded rounds each amount to decimals, then sums.
// Round-then-sum keeps totals deterministic when values are re-ordered and
// prevents float drift from compounding across many payments.
func SumRounded(amounts []Money, decimals int) Money {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(Round(a, decimals))
	}
	return total
}
