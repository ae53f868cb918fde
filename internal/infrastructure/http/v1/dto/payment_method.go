package dto

import (
	"cuentas/internal/domain/catalogs/payment_method"
)

// CreatePaymentMethodRequest is the request body for creating a payment method.
type CreatePaymentMethodRequest struct {
	Code              string `json:"code"`
	Name              string `json:"name" binding:"required"`
	RequiresReference bool   `json:"requiresReference"`
}

// ToEntity converts DTO to domain entity.
func (r *CreatePaymentMethodRequest) ToEntity() *payment_method.PaymentMethod {
	m := payment_method.New(r.Code, r.Name)
	m.RequiresReference = r.RequiresReference
	return m
}

// UpdatePaymentMethodRequest is the request body for updating a payment method.
type UpdatePaymentMethodRequest struct {
	Code              string `json:"code"`
	Name              string `json:"name" binding:"required"`
	RequiresReference bool   `json:"requiresReference"`
	Version           int    `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdatePaymentMethodRequest) ApplyTo(m *payment_method.PaymentMethod) {
	m.Code = r.Code
	m.Name = r.Name
	m.RequiresReference = r.RequiresReference
	m.Version = r.Version
}

// PaymentMethodResponse is the API representation of a payment method.
type PaymentMethodResponse struct {
	CatalogResponse
	RequiresReference bool `json:"requiresReference"`
}

// FromPaymentMethod converts domain entity to response DTO.
func FromPaymentMethod(m *payment_method.PaymentMethod) *PaymentMethodResponse {
	return &PaymentMethodResponse{
		CatalogResponse:   FromCatalog(m.Catalog),
		RequiresReference: m.RequiresReference,
	}
}
