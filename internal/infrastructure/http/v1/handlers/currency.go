package handlers

import (
	"github.com/gin-gonic/gin"

	"cuentas/internal/core/apperror"
	"cuentas/internal/core/id"
	"cuentas/internal/domain/catalogs/currency"
	"cuentas/internal/infrastructure/http/v1/dto"
)

// CurrencyHTTPHandler is a type alias to keep signatures short.
type CurrencyHTTPHandler = CatalogHandler[
	*currency.Currency,
	dto.CreateCurrencyRequest,
	dto.UpdateCurrencyRequest,
]

// CurrencyHandler wraps the generic catalog handler with
// currency-specific endpoints.
type CurrencyHandler struct {
	*CurrencyHTTPHandler
	service *currency.Service
}

// NewCurrencyHandler builds a configured handler for the currency catalog.
func NewCurrencyHandler(
	base *BaseHandler,
	service *currency.Service,
) *CurrencyHandler {

	config := CatalogHandlerConfig[
		*currency.Currency,
		dto.CreateCurrencyRequest,
		dto.UpdateCurrencyRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "currency",

		MapCreateDTO: func(req dto.CreateCurrencyRequest) *currency.Currency {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateCurrencyRequest, existing *currency.Currency) *currency.Currency {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *currency.Currency) any {
			return dto.FromCurrency(entity)
		},
	}

	return &CurrencyHandler{
		CurrencyHTTPHandler: NewCatalogHandler(base, config),
		service:             service,
	}
}

// UpdateExchangeRate handles PUT /currencies/:id/rate.
// Existing payment lines keep their snapshotted rate.
func (h *CurrencyHandler) UpdateExchangeRate(c *gin.Context) {
	ctx := c.Request.Context()

	currencyID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateExchangeRateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.UpdateExchangeRate(ctx, currencyID, req.Rate); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "exchange rate updated")
}
