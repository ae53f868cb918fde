// Package numerator provides domain contracts for document auto-numbering.
package numerator

import (
	"context"
	"time"
)

// Generator hands out sequential document numbers such as CXC-2026-00001.
// The postgres implementation lives in the infrastructure layer; services
// only see this interface.
type Generator interface {
	// GetNextNumber draws the next number for cfg's sequence within
	// period. Strategy (strict vs cached) comes from opts.
	GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)

	// SetNextNumber overwrites a sequence's counter, for migrations.
	SetNextNumber(ctx context.Context, cfg Config, period time.Time, value int64) error
}
