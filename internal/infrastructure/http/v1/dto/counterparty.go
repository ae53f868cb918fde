package dto

import (
	"cuentas/internal/domain/catalogs/counterparty"
)

// --- Request DTOs ---

// CreateCounterpartyRequest is the request body for creating a counterparty.
type CreateCounterpartyRequest struct {
	Code    string  `json:"code"`
	Name    string  `json:"name" binding:"required"`
	Role    string  `json:"role" binding:"required,oneof=client supplier"`
	TaxID   *string `json:"taxId"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCounterpartyRequest) ToEntity() *counterparty.Counterparty {
	c := counterparty.New(r.Code, r.Name, counterparty.Role(r.Role))
	c.TaxID = r.TaxID
	c.Email = r.Email
	c.Phone = r.Phone
	c.Address = r.Address
	return c
}

// UpdateCounterpartyRequest is the request body for updating a counterparty.
type UpdateCounterpartyRequest struct {
	Code    string  `json:"code"`
	Name    string  `json:"name" binding:"required"`
	Role    string  `json:"role" binding:"required,oneof=client supplier"`
	TaxID   *string `json:"taxId"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Version int     `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateCounterpartyRequest) ApplyTo(c *counterparty.Counterparty) {
	c.Code = r.Code
	c.Name = r.Name
	c.Role = counterparty.Role(r.Role)
	c.TaxID = r.TaxID
	c.Email = r.Email
	c.Phone = r.Phone
	c.Address = r.Address
	c.Version = r.Version
}

// --- Response DTOs ---

// CounterpartyResponse is the API representation of a counterparty.
type CounterpartyResponse struct {
	CatalogResponse
	Role    string  `json:"role"`
	TaxID   *string `json:"taxId,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// FromCounterparty converts domain entity to response DTO.
func FromCounterparty(c *counterparty.Counterparty) *CounterpartyResponse {
	return &CounterpartyResponse{
		CatalogResponse: FromCatalog(c.Catalog),
		Role:            string(c.Role),
		TaxID:           c.TaxID,
		Email:           c.Email,
		Phone:           c.Phone,
		Address:         c.Address,
	}
}
