// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"

	"cuentas/internal/core/entity"
	"cuentas/internal/core/id"
	"cuentas/internal/domain/filter"
)

// ListFilter is the common query shape for catalog list endpoints.
type ListFilter struct {
	// Search matches against the catalog's searchable columns.
	Search string

	// IDs restricts the result to these identifiers.
	IDs []id.ID

	// IncludeDeleted also returns rows carrying the deletion mark.
	IncludeDeleted bool

	// AdvancedFilters are column conditions applied on top of the rest.
	AdvancedFilters []filter.Item

	// OrderBy names a column, with a leading "-" for descending.
	OrderBy string

	Limit  int
	Offset int
}

func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "name",
	}
}

// ListResult is one page of items plus the unpaginated total.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// CatalogRepository is the persistence contract for catalog entities.
// Deletion is always soft: rows referenced by ledger entries must remain
// resolvable, so there is no physical-removal operation.
type CatalogRepository[T entity.Validatable] interface {
	Create(ctx context.Context, entity T) error

	GetByID(ctx context.Context, id id.ID) (T, error)

	// GetByCode looks up by the catalog's unique code column.
	GetByCode(ctx context.Context, code string) (T, error)

	// Update applies changes under an optimistic version check.
	Update(ctx context.Context, entity T) error

	// Delete sets the deletion mark.
	Delete(ctx context.Context, id id.ID) error

	SetDeletionMark(ctx context.Context, id id.ID, marked bool) error

	List(ctx context.Context, filter ListFilter) (ListResult[T], error)

	Exists(ctx context.Context, id id.ID) (bool, error)

	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// HookEvent names a lifecycle point around a catalog mutation.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	AfterCreate  HookEvent = "after_create"
	BeforeUpdate HookEvent = "before_update"
	AfterUpdate  HookEvent = "after_update"
	BeforeDelete HookEvent = "before_delete"
	AfterDelete  HookEvent = "after_delete"
)

// Hook runs at a lifecycle point. A before-hook error vetoes the
// mutation; an after-hook error is only logged.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry holds the hooks registered for one entity type. The
// currency service uses it to invalidate the rate cache whenever a rate
// changes.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{hooks: make(map[HookEvent][]Hook[T])}
}

// On registers a hook for the given event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes the event's hooks in registration order, stopping at the
// first error.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

// Typed registration shorthands.

func (r *HookRegistry[T]) OnBeforeCreate(hook Hook[T]) { r.On(BeforeCreate, hook) }
func (r *HookRegistry[T]) OnAfterCreate(hook Hook[T])  { r.On(AfterCreate, hook) }
func (r *HookRegistry[T]) OnBeforeUpdate(hook Hook[T]) { r.On(BeforeUpdate, hook) }
func (r *HookRegistry[T]) OnAfterUpdate(hook Hook[T])  { r.On(AfterUpdate, hook) }
func (r *HookRegistry[T]) OnBeforeDelete(hook Hook[T]) { r.On(BeforeDelete, hook) }
func (r *HookRegistry[T]) OnAfterDelete(hook Hook[T])  { r.On(AfterDelete, hook) }

// Typed execution shorthands used by CatalogService.

func (r *HookRegistry[T]) RunBeforeCreate(ctx context.Context, entity T) error {
	return r.Run(ctx, BeforeCreate, entity)
}

func (r *HookRegistry[T]) RunAfterCreate(ctx context.Context, entity T) error {
	return r.Run(ctx, AfterCreate, entity)
}

func (r *HookRegistry[T]) RunBeforeUpdate(ctx context.Context, entity T) error {
	return r.Run(ctx, BeforeUpdate, entity)
}

func (r *HookRegistry[T]) RunAfterUpdate(ctx context.Context, entity T) error {
	return r.Run(ctx, AfterUpdate, entity)
}

func (r *HookRegistry[T]) RunBeforeDelete(ctx context.Context, entity T) error {
	return r.Run(ctx, BeforeDelete, entity)
}

func (r *HookRegistry[T]) RunAfterDelete(ctx context.Context, entity T) error {
	return r.Run(ctx, AfterDelete, entity)
}
