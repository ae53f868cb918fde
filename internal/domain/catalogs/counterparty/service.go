package counterparty

import (
	"context"
	"fmt"
	"time"

	"cuentas/internal/core/numerator"
	"cuentas/internal/core/tx"
	"cuentas/internal/domain"
)

// Service provides business logic for Counterparty catalog.
type Service struct {
	*domain.CatalogService[*Counterparty]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Counterparty service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	gen numerator.Generator,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Counterparty]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  gen,
		EntityName: "counterparty",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      gen,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

// ListByRole retrieves counterparties with the given role.
func (s *Service) ListByRole(ctx context.Context, role Role) ([]*Counterparty, error) {
	return s.repo.ListByRole(ctx, role)
}

// prepareForCreate generates a code when none is given.
func (s *Service) prepareForCreate(ctx context.Context, cp *Counterparty) error {
	if cp.Code != "" {
		return nil
	}

	prefix := "CLI"
	if cp.Role == RoleSupplier {
		prefix = "PRV"
	}

	cfg := numerator.DefaultConfig(prefix)
	cfg.IncludeYear = false
	number, err := s.numerator.GetNextNumber(ctx, cfg, numerator.DefaultOptions(), time.Now())
	if err != nil {
		return fmt.Errorf("generate counterparty code: %w", err)
	}
	cp.Code = number

	return nil
}
