// Package events defines the integration event contract. Events are written
// to a transactional outbox in the same transaction as the business change
// and relayed to consumers by a background worker.
package events

import (
	"context"

	"cuentas/internal/core/id"
)

// Event types emitted by the ledger.
const (
	TypeEntryCreated   = "EntryCreated"
	TypeEntrySettled   = "EntrySettled"
	TypeEntryVoided    = "EntryVoided"
	TypePaymentApplied = "PaymentApplied"
	TypePaymentRemoved = "PaymentRemoved"
)

// Event is one integration event.
type Event struct {
	AggregateType string
	AggregateID   id.ID
	Type          string
	Payload       any
}

// Publisher writes events for later delivery. Must be called inside the
// transaction that produced the change, so events are never emitted for
// rolled-back work.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher discards all events. Used in tests and when no consumer
// is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) error { return nil }
