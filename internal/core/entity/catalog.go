package entity

import (
	"context"

	"cuentas/internal/core/apperror"
)

// Catalog is the base for reference data rows: currencies, counterparties
// and payment methods all embed it.
type Catalog struct {
	BaseCatalog

	// Code is a unique human-readable identifier.
	Code string `db:"code" json:"code"`

	// Name is the display name.
	Name string `db:"name" json:"name"`
}

func NewCatalog(code, name string) Catalog {
	return Catalog{
		BaseCatalog: NewBaseCatalog(),
		Code:        code,
		Name:        name,
	}
}

// Validate implements Validatable. Code may still be blank here since
// some catalogs auto-generate it just before saving.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}
