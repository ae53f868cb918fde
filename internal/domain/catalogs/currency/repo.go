package currency

import (
	"context"

	"github.com/shopspring/decimal"

	"cuentas/internal/core/id"
	"cuentas/internal/domain"
)

// Repository is the persistence contract for currencies.
type Repository interface {
	domain.CatalogRepository[*Currency]

	// FindByISOCode looks a currency up by its ISO 4217 code, which is
	// unique among non-deleted rows.
	FindByISOCode(ctx context.Context, isoCode string) (*Currency, error)

	// ListActive returns every active, non-deleted currency. The
	// conversion registry is rebuilt from this set.
	ListActive(ctx context.Context) ([]*Currency, error)

	// GetForUpdate fetches a currency under a row lock so a rate update
	// cannot race a concurrent edit.
	GetForUpdate(ctx context.Context, id id.ID) (*Currency, error)

	// UpdateExchangeRate stores a new rate to the base currency.
	UpdateExchangeRate(ctx context.Context, id id.ID, rate decimal.Decimal) error

	// ClearBase drops the base flag everywhere, done right before a new
	// base currency is flagged.
	ClearBase(ctx context.Context) error
}
