package handlers

import (
	"cuentas/internal/domain/catalogs/payment_method"
	"cuentas/internal/infrastructure/http/v1/dto"
)

// PaymentMethodHTTPHandler is a type alias to keep signatures short.
type PaymentMethodHTTPHandler = CatalogHandler[
	*payment_method.PaymentMethod,
	dto.CreatePaymentMethodRequest,
	dto.UpdatePaymentMethodRequest,
]

// NewPaymentMethodHandler builds a configured handler for the
// payment method catalog.
func NewPaymentMethodHandler(
	base *BaseHandler,
	service *payment_method.Service,
) *PaymentMethodHTTPHandler {

	config := CatalogHandlerConfig[
		*payment_method.PaymentMethod,
		dto.CreatePaymentMethodRequest,
		dto.UpdatePaymentMethodRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "payment_method",

		MapCreateDTO: func(req dto.CreatePaymentMethodRequest) *payment_method.PaymentMethod {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdatePaymentMethodRequest, existing *payment_method.PaymentMethod) *payment_method.PaymentMethod {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *payment_method.PaymentMethod) any {
			return dto.FromPaymentMethod(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
