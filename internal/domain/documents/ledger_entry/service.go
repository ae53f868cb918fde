package ledger_entry

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"cuentas/internal/core/apperror"
	"cuentas/internal/core/id"
	"cuentas/internal/core/numerator"
	"cuentas/internal/core/tx"
	"cuentas/internal/domain"
	"cuentas/internal/domain/audit"
	"cuentas/internal/domain/catalogs/currency"
	"cuentas/internal/domain/events"
	"cuentas/pkg/logger"
)

// Service provides business operations for ledger entries. All mutations
// that touch the payment table run inside a transaction with the entry row
// locked, so two payers cannot both pass the overdraft check.
type Service struct {
	repo       Repository
	currencies *currency.Service
	numerator  numerator.Generator
	txManager  tx.Manager
	recorder   audit.Recorder
	publisher  events.Publisher
	hooks      *domain.HookRegistry[*Entry]
}

// NewService creates a new ledger entry service.
func NewService(
	repo Repository,
	currencies *currency.Service,
	num numerator.Generator,
	txManager tx.Manager,
	recorder audit.Recorder,
	publisher events.Publisher,
) *Service {
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:       repo,
		currencies: currencies,
		numerator:  num,
		txManager:  txManager,
		recorder:   recorder,
		publisher:  publisher,
		hooks:      domain.NewHookRegistry[*Entry](),
	}
}

func (s *Service) publish(ctx context.Context, entry *Entry, eventType string) error {
	return s.publisher.Publish(ctx, events.Event{
		AggregateType: "LedgerEntry",
		AggregateID:   entry.ID,
		Type:          eventType,
		Payload:       entry,
	})
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Entry] {
	return s.hooks
}

// Create creates a new ledger entry. Any payments supplied on the document
// are re-applied through the allocator, so conversion, snapshots and the
// overdraft check work exactly as for payments added later.
func (s *Service) Create(ctx context.Context, entry *Entry) error {
	if err := s.hooks.RunBeforeCreate(ctx, entry); err != nil {
		return err
	}

	audit.EnrichCreatedBy(ctx, &entry.CreatedBy, &entry.UpdatedBy)

	if err := entry.Validate(ctx); err != nil {
		return err
	}

	if entry.Number == "" {
		cfg := numerator.DefaultConfig(entry.Kind.NumeratorPrefix())
		number, err := s.numerator.GetNextNumber(ctx, cfg, numerator.DefaultOptions(), time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		entry.Number = number
	}

	// Re-apply supplied payments through the allocator
	initial := entry.Payments
	entry.Payments = nil
	entry.TotalPaid = decimal.Zero
	entry.Balance = entry.Total

	if len(initial) > 0 {
		reg, err := s.currencies.Registry(ctx)
		if err != nil {
			return err
		}
		for _, p := range initial {
			np := NewPayment{
				CurrencyID:      p.CurrencyID,
				Amount:          p.Amount,
				PaymentMethodID: p.PaymentMethodID,
				Reference:       p.Reference,
				Date:            p.Date,
			}
			if _, err := AddPayment(entry, reg, np); err != nil {
				return err
			}
		}
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, entry); err != nil {
			return fmt.Errorf("create entry: %w", err)
		}
		for i := range entry.Payments {
			entry.Payments[i].EntryID = entry.ID
		}
		if err := s.repo.CreatePayments(ctx, entry.Payments); err != nil {
			return fmt.Errorf("save payments: %w", err)
		}
		return s.publish(ctx, entry, events.TypeEntryCreated)
	})
	if err != nil {
		return err
	}

	s.recorder.Record(ctx, audit.Event{
		EntityID: entry.ID,
		Action:   audit.ActionEntryCreated,
		Payload:  entry,
	})

	if err := s.hooks.RunAfterCreate(ctx, entry); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "ledger entry created",
		"id", entry.ID,
		"number", entry.Number,
		"kind", entry.Kind,
		"total", entry.Total)

	return nil
}

// GetByID retrieves a ledger entry with its payment table.
func (s *Service) GetByID(ctx context.Context, entryID id.ID) (*Entry, error) {
	entry, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	payments, err := s.repo.GetPayments(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("get payments: %w", err)
	}
	entry.Payments = payments

	return entry, nil
}

// GetByNumber retrieves a ledger entry by its document number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*Entry, error) {
	entry, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, entry.ID)
}

// Update changes entry header fields. The total is immutable once any
// payment has been applied, and derived fields are always recomputed from
// the stored payment table, never trusted from the caller.
func (s *Service) Update(ctx context.Context, entry *Entry) error {
	if err := s.hooks.RunBeforeUpdate(ctx, entry); err != nil {
		return err
	}

	audit.EnrichUpdatedBy(ctx, &entry.UpdatedBy)

	if err := entry.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetForUpdate(ctx, entry.ID)
		if err != nil {
			return err
		}

		if current.Status.IsTerminal() {
			return apperror.NewVoidEntry(entry.ID.String())
		}

		payments, err := s.repo.GetPayments(ctx, entry.ID)
		if err != nil {
			return fmt.Errorf("get payments: %w", err)
		}

		if len(payments) > 0 && !current.Total.Equal(entry.Total) {
			return apperror.NewValidation("total cannot change after payments were applied").
				WithDetail("field", "total").
				WithDetail("stored", current.Total.String()).
				WithDetail("attempted", entry.Total.String())
		}

		reg, err := s.currencies.Registry(ctx)
		if err != nil {
			return err
		}
		cur, err := reg.Resolve(entry.CurrencyID)
		if err != nil {
			return err
		}

		entry.Payments = payments
		entry.Status = current.Status
		entry.recompute(cur)

		return s.repo.Update(ctx, entry)
	})
	if err != nil {
		return err
	}

	s.recorder.Record(ctx, audit.Event{
		EntityID: entry.ID,
		Action:   audit.ActionEntryUpdated,
		Payload:  entry,
	})

	return nil
}

// AddPayment applies one payment against the entry. The entry row is
// locked for the duration, so the overdraft check and the balance update
// are atomic even under concurrent payers.
func (s *Service) AddPayment(ctx context.Context, entryID id.ID, np NewPayment) (*Entry, error) {
	var entry *Entry
	var applied *Payment

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.repo.GetForUpdate(ctx, entryID)
		if err != nil {
			return err
		}

		entry.Payments, err = s.repo.GetPayments(ctx, entryID)
		if err != nil {
			return fmt.Errorf("get payments: %w", err)
		}

		reg, err := s.currencies.Registry(ctx)
		if err != nil {
			return err
		}

		applied, err = AddPayment(entry, reg, np)
		if err != nil {
			return err
		}

		if err := s.repo.CreatePayment(ctx, applied); err != nil {
			return fmt.Errorf("save payment: %w", err)
		}

		if err := s.repo.Update(ctx, entry); err != nil {
			return err
		}

		if err := s.publish(ctx, entry, events.TypePaymentApplied); err != nil {
			return err
		}
		if entry.Status == StatusSettled {
			return s.publish(ctx, entry, events.TypeEntrySettled)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.Event{
		EntityID: entry.ID,
		Action:   audit.ActionPaymentAdded,
		Payload:  entry,
		Details: map[string]any{
			"payment_id": applied.ID,
			"amount":     applied.Amount,
			"credited":   applied.AmountInEntryCurrency,
		},
	})

	logger.Info(ctx, "payment applied",
		"entry_id", entry.ID,
		"payment_id", applied.ID,
		"credited", applied.AmountInEntryCurrency,
		"balance", entry.Balance,
		"status", entry.Status)

	return entry, nil
}

// RemovePayment reverses a previously applied payment. The entry may move
// back from settled to partial or open.
func (s *Service) RemovePayment(ctx context.Context, entryID, paymentID id.ID) (*Entry, error) {
	var entry *Entry
	var removed *Payment

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.repo.GetForUpdate(ctx, entryID)
		if err != nil {
			return err
		}

		entry.Payments, err = s.repo.GetPayments(ctx, entryID)
		if err != nil {
			return fmt.Errorf("get payments: %w", err)
		}

		reg, err := s.currencies.Registry(ctx)
		if err != nil {
			return err
		}

		removed, err = RemovePayment(entry, reg, paymentID)
		if err != nil {
			return err
		}

		if err := s.repo.DeletePayment(ctx, removed.ID); err != nil {
			return fmt.Errorf("delete payment: %w", err)
		}

		if err := s.repo.Update(ctx, entry); err != nil {
			return err
		}

		return s.publish(ctx, entry, events.TypePaymentRemoved)
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.Event{
		EntityID: entry.ID,
		Action:   audit.ActionPaymentRemoved,
		Payload:  entry,
		Details: map[string]any{
			"payment_id": removed.ID,
			"credited":   removed.AmountInEntryCurrency,
		},
	})

	logger.Info(ctx, "payment removed",
		"entry_id", entry.ID,
		"payment_id", removed.ID,
		"balance", entry.Balance,
		"status", entry.Status)

	return entry, nil
}

// Void marks an entry void. The operation is terminal and keeps the
// payment table intact for the audit trail.
func (s *Service) Void(ctx context.Context, entryID id.ID) (*Entry, error) {
	var entry *Entry

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.repo.GetForUpdate(ctx, entryID)
		if err != nil {
			return err
		}

		if err := Void(entry); err != nil {
			return err
		}

		if err := s.repo.Update(ctx, entry); err != nil {
			return err
		}

		return s.publish(ctx, entry, events.TypeEntryVoided)
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.Event{
		EntityID: entry.ID,
		Action:   audit.ActionEntryVoided,
		Payload:  entry,
	})

	logger.Info(ctx, "ledger entry voided", "id", entry.ID, "number", entry.Number)

	return entry, nil
}

// Delete soft-deletes an entry. Entries that already received payments
// must be voided instead, so the money trail is never hidden.
func (s *Service) Delete(ctx context.Context, entryID id.ID) error {
	entry, err := s.GetByID(ctx, entryID)
	if err != nil {
		return err
	}

	if len(entry.Payments) > 0 && entry.Status != StatusVoid {
		return apperror.NewConflict("entry has payments, void it instead").
			WithDetail("entry_id", entryID.String())
	}

	return s.repo.Delete(ctx, entryID)
}

// List retrieves ledger entries with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Entry], error) {
	return s.repo.List(ctx, filter)
}

// ListOutstanding returns open and partial entries of the given kind,
// payments included. Used by the aging report.
func (s *Service) ListOutstanding(ctx context.Context, kind Kind) ([]*Entry, error) {
	return s.repo.ListOutstanding(ctx, kind)
}
