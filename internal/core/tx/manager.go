// Package tx declares the transaction contract domain services depend
// on. The postgres implementation lives in infrastructure/storage.
package tx

import (
	"context"
)

// Manager runs a function inside a database transaction. The entry and
// catalog services use it to make multi-table writes atomic without
// knowing what database sits underneath.
type Manager interface {
	// RunInTransaction commits when fn returns nil and rolls back when
	// it returns an error. A nested call joins the transaction already
	// in ctx.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager adds read-only transactions, used by report queries
// that want one consistent snapshot across several reads.
type ReadOnlyManager interface {
	Manager

	// ReadOnly runs fn in a READ ONLY transaction; writes inside fn fail.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
