package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"cuentas/internal/core/apperror"
	"cuentas/internal/domain/catalogs/counterparty"
	"cuentas/internal/infrastructure/storage/postgres"
)

const counterpartyTable = "cat_counterparties"

// Compile-time check that CounterpartyRepo implements counterparty.Repository.
var _ counterparty.Repository = (*CounterpartyRepo)(nil)

// CounterpartyRepo implements counterparty.Repository.
type CounterpartyRepo struct {
	*BaseCatalogRepo[*counterparty.Counterparty]
}

// NewCounterpartyRepo creates a new counterparty repository.
func NewCounterpartyRepo(txManager *postgres.TxManager) *CounterpartyRepo {
	return &CounterpartyRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			counterpartyTable,
			postgres.ExtractDBColumns[counterparty.Counterparty](),
			func() *counterparty.Counterparty { return &counterparty.Counterparty{} },
		),
	}
}

// ListByRole retrieves non-deleted counterparties with the given role.
func (r *CounterpartyRepo) ListByRole(ctx context.Context, role counterparty.Role) ([]*counterparty.Counterparty, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"role": role}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name ASC")

	return r.FindAll(ctx, q)
}

// FindByTaxID retrieves counterparty by tax id.
func (r *CounterpartyRepo) FindByTaxID(ctx context.Context, taxID string) (*counterparty.Counterparty, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"tax_id": taxID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	cp, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("counterparty", taxID)
		}
		return nil, err
	}
	return cp, nil
}
