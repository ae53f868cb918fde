package reports

import (
	"context"

	"cuentas/internal/core/id"
	"cuentas/internal/domain/documents/ledger_entry"
)

// Repository collects the read-only queries that reports are built from.
// Reports never mutate ledger state.
type Repository interface {
	// ListOutstanding returns open and partially settled entries of one
	// kind. An empty counterpartyIDs slice means all counterparties.
	ListOutstanding(ctx context.Context, kind ledger_entry.Kind, counterpartyIDs []id.ID) ([]*ledger_entry.Entry, error)

	// ListByCounterparty returns a counterparty's entries, narrowed by
	// the filter's kind and date range when set.
	ListByCounterparty(ctx context.Context, filter StatementFilter) ([]*ledger_entry.Entry, error)

	// CounterpartyNames resolves display names for the given IDs. Missing
	// IDs are simply absent from the result map.
	CounterpartyNames(ctx context.Context, ids []id.ID) (map[id.ID]string, error)
}
