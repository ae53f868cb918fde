package dto

import (
	"github.com/shopspring/decimal"

	"cuentas/internal/domain/catalogs/currency"
)

// --- Request DTOs ---

// CreateCurrencyRequest is the request body for creating a currency.
type CreateCurrencyRequest struct {
	Code          string          `json:"code"`
	Name          string          `json:"name" binding:"required"`
	ISOCode       string          `json:"isoCode" binding:"required"`
	Symbol        *string         `json:"symbol"`
	DecimalPlaces int             `json:"decimalPlaces"`
	RateToBase    decimal.Decimal `json:"rateToBase"`
	IsBase        bool            `json:"isBase"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCurrencyRequest) ToEntity() *currency.Currency {
	c := currency.New(r.Code, r.Name, r.ISOCode)
	c.Symbol = r.Symbol
	if r.DecimalPlaces > 0 {
		c.DecimalPlaces = r.DecimalPlaces
	}
	if !r.RateToBase.IsZero() {
		c.RateToBase = r.RateToBase
	}
	c.IsBase = r.IsBase
	return c
}

// UpdateCurrencyRequest is the request body for updating a currency.
type UpdateCurrencyRequest struct {
	Code          string  `json:"code"`
	Name          string  `json:"name" binding:"required"`
	ISOCode       string  `json:"isoCode" binding:"required"`
	Symbol        *string `json:"symbol"`
	DecimalPlaces int     `json:"decimalPlaces"`
	IsBase        bool    `json:"isBase"`
	Active        *bool   `json:"active"`
	Version       int     `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
// The exchange rate is deliberately not updatable here, it has its own endpoint.
func (r *UpdateCurrencyRequest) ApplyTo(c *currency.Currency) {
	c.Code = r.Code
	c.Name = r.Name
	c.ISOCode = r.ISOCode
	c.Symbol = r.Symbol
	if r.DecimalPlaces > 0 {
		c.DecimalPlaces = r.DecimalPlaces
	}
	c.IsBase = r.IsBase
	if r.Active != nil {
		c.Active = *r.Active
	}
	c.Version = r.Version
}

// UpdateExchangeRateRequest is the request body for updating exchange rate.
type UpdateExchangeRateRequest struct {
	Rate decimal.Decimal `json:"rate" binding:"required"`
}

// --- Response DTOs ---

// CurrencyResponse is the API representation of a currency.
type CurrencyResponse struct {
	CatalogResponse
	ISOCode       string          `json:"isoCode"`
	Symbol        *string         `json:"symbol,omitempty"`
	DecimalPlaces int             `json:"decimalPlaces"`
	RateToBase    decimal.Decimal `json:"rateToBase"`
	IsBase        bool            `json:"isBase"`
	Active        bool            `json:"active"`
}

// FromCurrency converts domain entity to response DTO.
func FromCurrency(c *currency.Currency) *CurrencyResponse {
	return &CurrencyResponse{
		CatalogResponse: FromCatalog(c.Catalog),
		ISOCode:         c.ISOCode,
		Symbol:          c.Symbol,
		DecimalPlaces:   c.DecimalPlaces,
		RateToBase:      c.RateToBase,
		IsBase:          c.IsBase,
		Active:          c.Active,
	}
}
