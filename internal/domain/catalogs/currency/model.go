// Package currency provides the Currency catalog.
// Currencies represent monetary units with exchange rates against a single
// base currency.
package currency

import (
	"context"
	"regexp"

	"github.com/shopspring/decimal"

	"cuentas/internal/core/apperror"
	"cuentas/internal/core/entity"
	"cuentas/internal/core/money"
)

// Currency represents a monetary unit.
type Currency struct {
	entity.Catalog

	// ISOCode is the ISO 4217 alphabetic code (e.g., "USD", "EUR", "VES")
	ISOCode string `db:"iso_code" json:"isoCode"`

	// Symbol is the currency symbol (e.g., "$", "Bs.")
	Symbol *string `db:"symbol" json:"symbol,omitempty"`

	// DecimalPlaces is the rounding precision for amounts in this currency
	DecimalPlaces int `db:"decimal_places" json:"decimalPlaces"`

	// RateToBase is the number of units of this currency equal to one unit
	// of the base currency. The base currency itself has RateToBase = 1.
	RateToBase decimal.Decimal `db:"rate_to_base" json:"rateToBase"`

	// IsBase indicates if this is the base (pivot) currency
	IsBase bool `db:"is_base" json:"isBase"`

	// Active indicates whether the currency participates in new operations
	Active bool `db:"active" json:"active"`
}

// New creates a new Currency with required fields.
func New(code, name, isoCode string) *Currency {
	return &Currency{
		Catalog:       entity.NewCatalog(code, name),
		ISOCode:       isoCode,
		DecimalPlaces: 2,
		RateToBase:    decimal.NewFromInt(1),
		Active:        true,
	}
}

// Validate implements entity.Validatable interface.
func (c *Currency) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isoCodeRe.MatchString(c.ISOCode) {
		return apperror.NewValidation("ISO code must be 3 uppercase letters").
			WithDetail("field", "isoCode").
			WithDetail("value", c.ISOCode)
	}

	if c.DecimalPlaces < 0 || c.DecimalPlaces > 8 {
		return apperror.NewValidation("decimal places must be between 0 and 8").
			WithDetail("field", "decimalPlaces")
	}

	if !c.RateToBase.IsPositive() {
		return apperror.NewInvalidRate(c.ISOCode, c.RateToBase.String())
	}

	// The base currency is the pivot of every conversion; any rate other
	// than 1 would silently scale the whole ledger.
	if c.IsBase && !c.RateToBase.Equal(decimal.NewFromInt(1)) {
		return apperror.NewValidation("base currency rate must be 1").
			WithDetail("field", "rateToBase").
			WithDetail("value", c.RateToBase.String())
	}

	return nil
}

// Epsilon returns one unit at this currency's smallest decimal.
func (c *Currency) Epsilon() decimal.Decimal {
	return money.Epsilon(c.DecimalPlaces)
}

// Round rounds an amount to this currency's precision.
func (c *Currency) Round(amount decimal.Decimal) decimal.Decimal {
	return money.Round(amount, c.DecimalPlaces)
}

// Format formats an amount according to currency settings.
func (c *Currency) Format(amount decimal.Decimal) string {
	formatted := c.Round(amount).StringFixed(int32(c.DecimalPlaces))
	if c.Symbol != nil {
		return formatted + *c.Symbol
	}
	return formatted + " " + c.ISOCode
}

var isoCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)
