// Package audit provides the append-only audit trail for ledger mutations.
package audit

import (
	"context"
	"time"

	"cuentas/internal/core/id"
)

// Action identifies what happened to an entry.
type Action string

const (
	ActionEntryCreated   Action = "entry.created"
	ActionEntryUpdated   Action = "entry.updated"
	ActionEntryVoided    Action = "entry.voided"
	ActionPaymentAdded   Action = "payment.added"
	ActionPaymentRemoved Action = "payment.removed"
)

// Event is one audit trail record. Payload holds the full document state
// after the mutation, serialized by the recorder implementation.
type Event struct {
	ID       id.ID          `db:"id"`
	EntityID id.ID          `db:"entity_id"`
	Action   Action         `db:"action"`
	UserID   string         `db:"user_id"`
	At       time.Time      `db:"at"`
	Payload  any            `db:"-"`
	Details  map[string]any `db:"-"`
}

// Recorder persists audit events. Implementations must not fail the
// business transaction: persistence errors are logged, not returned.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// NopRecorder discards all events. Used in tests.
type NopRecorder struct{}

func (NopRecorder) Record(ctx context.Context, event Event) {}
