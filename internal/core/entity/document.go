package entity

import (
	"context"
	"time"

	"cuentas/internal/core/apperror"
)

// Document is the base for posted business transactions such as
// receivable and payable ledger entries.
type Document struct {
	BaseDocument

	// Number is assigned by the numerator and is unique per type and period.
	Number string `db:"number" json:"number"`

	// Date is the business date, not the creation timestamp.
	Date time.Time `db:"date" json:"date"`

	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument returns a Document dated now in UTC with a fresh ID.
func NewDocument() Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		Date:         time.Now().UTC(),
	}
}

// Validate implements Validatable.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	return nil
}
