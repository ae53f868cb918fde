package payment_method

import (
	"cuentas/internal/core/numerator"
	"cuentas/internal/core/tx"
	"cuentas/internal/domain"
)

// Service provides business logic for PaymentMethod catalog.
type Service struct {
	*domain.CatalogService[*PaymentMethod]
	repo Repository
}

// NewService creates a new PaymentMethod service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	gen numerator.Generator,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*PaymentMethod]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  gen,
		EntityName: "payment_method",
	})

	return &Service{
		CatalogService: base,
		repo:           repo,
	}
}
