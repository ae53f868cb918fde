// Package payment_method provides the PaymentMethod catalog.
package payment_method

import (
	"context"

	"cuentas/internal/core/entity"
)

// PaymentMethod represents a way a payment was made (cash, transfer, card).
// The reconciliation engine treats it as an opaque reference; it only
// travels with payments for reporting.
type PaymentMethod struct {
	entity.Catalog

	// RequiresReference forces a reference (e.g. transfer number) on payments
	RequiresReference bool `db:"requires_reference" json:"requiresReference"`
}

// New creates a new PaymentMethod.
func New(code, name string) *PaymentMethod {
	return &PaymentMethod{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (p *PaymentMethod) Validate(ctx context.Context) error {
	return p.Catalog.Validate(ctx)
}
