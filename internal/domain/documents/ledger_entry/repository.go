package ledger_entry

import (
	"context"
	"time"

	"cuentas/internal/core/id"
	"cuentas/internal/domain"
)

// Repository defines persistence operations for ledger entries.
type Repository interface {
	// Document operations
	Create(ctx context.Context, entry *Entry) error
	GetByID(ctx context.Context, entryID id.ID) (*Entry, error)
	GetByNumber(ctx context.Context, number string) (*Entry, error)
	Update(ctx context.Context, entry *Entry) error
	Delete(ctx context.Context, entryID id.ID) error

	// Payment table operations
	GetPayments(ctx context.Context, entryID id.ID) ([]Payment, error)
	CreatePayment(ctx context.Context, payment *Payment) error
	// CreatePayments inserts several payment rows in one round trip.
	CreatePayments(ctx context.Context, payments []Payment) error
	DeletePayment(ctx context.Context, paymentID id.ID) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Entry], error)
	ListOutstanding(ctx context.Context, kind Kind) ([]*Entry, error)

	// Locking. Returns the entry row locked for the current transaction
	// so concurrent payment application serializes on the database.
	GetForUpdate(ctx context.Context, entryID id.ID) (*Entry, error)
}

// ListFilter for filtering ledger entries.
type ListFilter struct {
	domain.ListFilter

	Kind           *Kind
	CounterpartyID *id.ID
	CurrencyID     *id.ID
	Status         *Status
	DateFrom       *time.Time
	DateTo         *time.Time
	DueBefore      *time.Time
}
