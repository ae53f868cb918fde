// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"
	"fmt"

	"cuentas/internal/core/apperror"
	"cuentas/internal/core/entity"
	"cuentas/internal/core/id"
	"cuentas/internal/core/numerator"
	"cuentas/internal/core/tx"
	"cuentas/pkg/logger"
)

// CatalogService is the shared write path for all catalog entities:
// validate, run before-hooks, mutate in a transaction, then run
// after-hooks outside it. Currency, counterparty and payment method
// services each wrap an instance of this.
type CatalogService[T entity.Validatable] struct {
	repo      CatalogRepository[T]
	txManager tx.Manager
	numerator numerator.Generator
	hooks     *HookRegistry[T]

	// entityName labels errors and the numerator sequence.
	entityName string
}

type CatalogServiceConfig[T entity.Validatable] struct {
	Repo       CatalogRepository[T]
	TxManager  tx.Manager
	Numerator  numerator.Generator
	EntityName string
}

func NewCatalogService[T entity.Validatable](cfg CatalogServiceConfig[T]) *CatalogService[T] {
	return &CatalogService[T]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		numerator:  cfg.Numerator,
		hooks:      NewHookRegistry[T](),
		entityName: cfg.EntityName,
	}
}

// Hooks exposes the registry so wrapping services can attach behavior,
// e.g. the currency service invalidating the rate cache after updates.
func (s *CatalogService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

func (s *CatalogService[T]) normalizeValidationErr(err error) error {
	if err == nil || apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

// normalizeGetErr rewrites repository lookup failures so not-found carries
// this catalog's entity name rather than a table name.
func (s *CatalogService[T]) normalizeGetErr(err error, idOrCode any) error {
	switch {
	case err == nil:
		return nil
	case apperror.IsNotFound(err):
		return apperror.NewNotFound(s.entityName, idOrCode)
	case apperror.IsAppError(err):
		return err
	default:
		return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("id", idOrCode)
	}
}

// Create validates and persists a new catalog entity.
func (s *CatalogService[T]) Create(ctx context.Context, entity T) error {
	if err := entity.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}
	if err := s.hooks.RunBeforeCreate(ctx, entity); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, entity); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// After-hooks run outside the transaction; the row is already
	// committed, so a hook failure only warns.
	if err := s.hooks.RunAfterCreate(ctx, entity); err != nil {
		logger.Warn(ctx, "after-create hook failed", "entity", s.entityName, "error", err)
	}
	return nil
}

func (s *CatalogService[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	found, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return found, s.normalizeGetErr(err, entityID.String())
	}
	return found, nil
}

func (s *CatalogService[T]) GetByCode(ctx context.Context, code string) (T, error) {
	found, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return found, s.normalizeGetErr(err, code)
	}
	return found, nil
}

// Update validates and persists changes to an existing entity. The
// repository enforces the optimistic version check.
func (s *CatalogService[T]) Update(ctx context.Context, entity T) error {
	if err := entity.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}
	if err := s.hooks.RunBeforeUpdate(ctx, entity); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, entity); err != nil {
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterUpdate(ctx, entity); err != nil {
		logger.Warn(ctx, "after-update hook failed", "entity", s.entityName, "error", err)
	}
	return nil
}

// Delete marks the entity deleted. Catalog rows referenced by ledger
// entries are never physically removed, so delete means the deletion mark.
func (s *CatalogService[T]) Delete(ctx context.Context, entityID id.ID) error {
	// Loaded first so delete hooks see the entity they are vetoing.
	found, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return s.normalizeGetErr(err, entityID.String())
	}
	if err := s.hooks.RunBeforeDelete(ctx, found); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.SetDeletionMark(ctx, entityID, true); err != nil {
			return fmt.Errorf("delete %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterDelete(ctx, found); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "entity", s.entityName, "error", err)
	}
	return nil
}

// SetDeletionMark sets or clears the deletion mark directly.
func (s *CatalogService[T]) SetDeletionMark(ctx context.Context, entityID id.ID, marked bool) error {
	return s.repo.SetDeletionMark(ctx, entityID, marked)
}

func (s *CatalogService[T]) List(ctx context.Context, filter ListFilter) (ListResult[T], error) {
	return s.repo.List(ctx, filter)
}

func (s *CatalogService[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	return s.repo.Exists(ctx, entityID)
}
