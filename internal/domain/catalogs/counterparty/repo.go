package counterparty

import (
	"context"

	"cuentas/internal/domain"
)

// Repository is the persistence contract for counterparties. It adds one
// role-scoped lookup on top of the generic catalog set.
type Repository interface {
	domain.CatalogRepository[*Counterparty]

	// ListByRole returns non-deleted counterparties matching the role.
	// A customer-and-supplier row satisfies either role.
	ListByRole(ctx context.Context, role Role) ([]*Counterparty, error)
}
