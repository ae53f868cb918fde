package reports

import (
	"context"
	"fmt"

	"cuentas/internal/core/apperror"
	"cuentas/internal/core/id"
	"cuentas/internal/domain/catalogs/currency"
)

// Service provides report generation operations.
type Service struct {
	repo       Repository
	currencies *currency.Service
}

// NewService creates a new reports service.
func NewService(repo Repository, currencies *currency.Service) *Service {
	return &Service{repo: repo, currencies: currencies}
}

// GetAging generates the aging report for the given kind and date.
func (s *Service) GetAging(ctx context.Context, filter AgingFilter) (*AgingReport, error) {
	if filter.AsOf.IsZero() {
		return nil, apperror.NewValidation("report date is required").
			WithDetail("field", "asOf")
	}

	reg, err := s.currencies.Registry(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListOutstanding(ctx, filter.Kind, filter.CounterpartyIDs)
	if err != nil {
		return nil, fmt.Errorf("list outstanding entries: %w", err)
	}

	ids := make([]id.ID, 0, len(entries))
	seen := make(map[id.ID]struct{})
	for _, e := range entries {
		if _, ok := seen[e.CounterpartyID]; !ok {
			seen[e.CounterpartyID] = struct{}{}
			ids = append(ids, e.CounterpartyID)
		}
	}

	names, err := s.repo.CounterpartyNames(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve counterparty names: %w", err)
	}

	return BuildAging(entries, reg, names, filter)
}

// GetStatement generates a counterparty statement.
func (s *Service) GetStatement(ctx context.Context, filter StatementFilter) (*Statement, error) {
	if id.IsNil(filter.CounterpartyID) {
		return nil, apperror.NewValidation("counterparty is required").
			WithDetail("field", "counterpartyId")
	}
	if filter.AsOf.IsZero() {
		return nil, apperror.NewValidation("report date is required").
			WithDetail("field", "asOf")
	}

	reg, err := s.currencies.Registry(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListByCounterparty(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list counterparty entries: %w", err)
	}

	names, err := s.repo.CounterpartyNames(ctx, []id.ID{filter.CounterpartyID})
	if err != nil {
		return nil, fmt.Errorf("resolve counterparty name: %w", err)
	}

	return BuildStatement(entries, reg, filter.CounterpartyID, names[filter.CounterpartyID], filter.AsOf)
}
