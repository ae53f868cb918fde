// Package counterparty provides the Counterparty catalog.
// A counterparty is a client (receivables) or a supplier (payables).
package counterparty

import (
	"context"

	"cuentas/internal/core/apperror"
	"cuentas/internal/core/entity"
)

// Role distinguishes which side of the ledger a counterparty belongs to.
type Role string

const (
	RoleClient   Role = "client"
	RoleSupplier Role = "supplier"
)

// Counterparty represents a client or supplier.
type Counterparty struct {
	entity.Catalog

	// Role is "client" or "supplier"
	Role Role `db:"role" json:"role"`

	// TaxID is the fiscal identifier (RIF, NIT, etc.)
	TaxID *string `db:"tax_id" json:"taxId,omitempty"`

	// Contact details
	Email *string `db:"email" json:"email,omitempty"`
	Phone *string `db:"phone" json:"phone,omitempty"`

	// Address is a free-form postal address
	Address *string `db:"address" json:"address,omitempty"`
}

// New creates a new Counterparty with required fields.
func New(code, name string, role Role) *Counterparty {
	return &Counterparty{
		Catalog: entity.NewCatalog(code, name),
		Role:    role,
	}
}

// Validate implements entity.Validatable interface.
func (c *Counterparty) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.Role != RoleClient && c.Role != RoleSupplier {
		return apperror.NewValidation("role must be client or supplier").
			WithDetail("field", "role").
			WithDetail("value", string(c.Role))
	}

	return nil
}
