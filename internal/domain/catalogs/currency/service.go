package currency

import (
	"context"

	"github.com/shopspring/decimal"

	"cuentas/internal/core/apperror"
	"cuentas/internal/core/id"
	"cuentas/internal/core/numerator"
	"cuentas/internal/core/tx"
	"cuentas/internal/domain"
)

// Service provides business logic for Currency catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Currency]
	repo      Repository
	txManager tx.Manager

	// registrySource, when set, replaces the table scan in Registry.
	// Used to plug in the NOTIFY-invalidated rate cache.
	registrySource func(ctx context.Context) (*Registry, error)
}

// NewService creates a new Currency service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	numerator numerator.Generator,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Currency]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  numerator,
		EntityName: "currency",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		txManager:      txManager,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.prepareForUpdate)
	base.Hooks().OnBeforeDelete(svc.validateBeforeDelete)

	return svc
}

// Registry builds a conversion registry from the current set of active
// currencies. The registry is a snapshot: rate changes after this call do
// not affect it.
func (s *Service) Registry(ctx context.Context) (*Registry, error) {
	if s.registrySource != nil {
		return s.registrySource(ctx)
	}

	currencies, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return NewRegistry(currencies)
}

// SetRegistrySource installs an alternative registry provider, typically
// a cache. Pass nil to restore direct table reads.
func (s *Service) SetRegistrySource(source func(ctx context.Context) (*Registry, error)) {
	s.registrySource = source
}

// FindByISOCode retrieves currency by ISO code.
func (s *Service) FindByISOCode(ctx context.Context, isoCode string) (*Currency, error) {
	return s.repo.FindByISOCode(ctx, isoCode)
}

// UpdateExchangeRate sets a new rate to base for a currency. Rates on
// already applied payments are unaffected, only future conversions see
// the new rate.
func (s *Service) UpdateExchangeRate(ctx context.Context, currencyID id.ID, rate decimal.Decimal) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		curr, err := s.repo.GetForUpdate(ctx, currencyID)
		if err != nil {
			return err
		}

		if !rate.IsPositive() {
			return apperror.NewInvalidRate(curr.ISOCode, rate.String())
		}

		if curr.IsBase && !rate.Equal(decimal.NewFromInt(1)) {
			return apperror.NewInvalidRate(curr.ISOCode, rate.String()).
				WithDetail("reason", "base currency rate is fixed at 1")
		}

		return s.repo.UpdateExchangeRate(ctx, currencyID, rate)
	})
}

// prepareForCreate handles code generation and uniqueness checks.
func (s *Service) prepareForCreate(ctx context.Context, curr *Currency) error {
	// Use ISO code as code if not provided
	if curr.Code == "" {
		curr.Code = curr.ISOCode
	}

	if exists, _ := s.checkISOCodeExists(ctx, curr.ISOCode, curr.ID); exists {
		return apperror.NewDuplicate("currency", "isoCode", curr.ISOCode)
	}

	// Exactly one base currency at all times: setting a new base clears
	// the flag on the previous one in the same transaction.
	if curr.IsBase {
		if err := s.repo.ClearBase(ctx); err != nil {
			return err
		}
	}

	return nil
}

// prepareForUpdate handles uniqueness checks and base flag handover.
func (s *Service) prepareForUpdate(ctx context.Context, curr *Currency) error {
	if exists, _ := s.checkISOCodeExists(ctx, curr.ISOCode, curr.ID); exists {
		return apperror.NewDuplicate("currency", "isoCode", curr.ISOCode)
	}

	if curr.IsBase {
		if err := s.repo.ClearBase(ctx); err != nil {
			return err
		}
	}

	return nil
}

// validateBeforeDelete prevents deletion of base currency.
func (s *Service) validateBeforeDelete(ctx context.Context, curr *Currency) error {
	if curr.IsBase {
		return apperror.NewValidation("cannot delete base currency")
	}
	return nil
}

func (s *Service) checkISOCodeExists(ctx context.Context, isoCode string, excludeID id.ID) (bool, error) {
	if isoCode == "" {
		return false, nil
	}
	existing, err := s.repo.FindByISOCode(ctx, isoCode)
	if err != nil {
		return false, nil
	}
	return existing.ID != excludeID, nil
}
