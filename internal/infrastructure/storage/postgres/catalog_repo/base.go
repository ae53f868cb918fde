// Package catalog_repo implements PostgreSQL persistence for the catalog
// entities (currencies, counterparties, payment methods).
package catalog_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"cuentas/internal/core/apperror"
	"cuentas/internal/core/id"
	"cuentas/internal/domain"
	"cuentas/internal/domain/filter"
	"cuentas/internal/infrastructure/storage/postgres"
)

const fkViolation = "23503"

// BaseCatalogRepo carries the CRUD plumbing shared by every catalog table:
// db-tag driven inserts and updates, optimistic locking on version, soft
// delete via deletion_mark, and whitelist-checked list queries. Concrete
// repos embed it and add their own lookups.
type BaseCatalogRepo[T any] struct {
	txManager *postgres.TxManager
	table     string
	columns   []string
	factory   func() T
}

// NewBaseCatalogRepo wires a base repo for one table. columns is the full
// db-tag column set of T; it doubles as the whitelist for ordering and
// advanced filters.
func NewBaseCatalogRepo[T any](
	txManager *postgres.TxManager,
	table string,
	columns []string,
	factory func() T,
) *BaseCatalogRepo[T] {
	return &BaseCatalogRepo[T]{
		txManager: txManager,
		table:     table,
		columns:   columns,
		factory:   factory,
	}
}

// Builder returns a squirrel builder configured for pgx ($N placeholders).
func (r *BaseCatalogRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseCatalogRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().Select(r.columns...).From(r.table)
}

// columnValues extracts the entity's db-tagged values, restricted to the
// columns this table actually has.
func (r *BaseCatalogRepo[T]) columnValues(entity T, skip ...string) (map[string]any, error) {
	tagged := postgres.StructToMap(entity)
	if len(tagged) == 0 {
		return nil, fmt.Errorf("%s: entity has no db tags", r.table)
	}

	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipped[s] = true
	}

	values := make(map[string]any, len(r.columns))
	for _, col := range r.columns {
		if skipped[col] {
			continue
		}
		if v, ok := tagged[col]; ok {
			values[col] = v
		}
	}
	return values, nil
}

// Create inserts a new catalog row.
func (r *BaseCatalogRepo[T]) Create(ctx context.Context, entity T) error {
	values, err := r.columnValues(entity)
	if err != nil {
		return err
	}

	sql, args, err := r.Builder().Insert(r.table).SetMap(values).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", r.table, err)
	}
	return nil
}

// Update writes the row back, guarded by the entity's version. A stale
// version means someone else saved first; the caller gets a concurrent
// modification error and must re-read.
func (r *BaseCatalogRepo[T]) Update(ctx context.Context, entity T) error {
	tagged := postgres.StructToMap(entity)
	entityID, ok := tagged["id"]
	if !ok {
		return fmt.Errorf("%s: entity has no id column", r.table)
	}
	version, ok := tagged["version"].(int)
	if !ok {
		return fmt.Errorf("%s: entity has no int version column", r.table)
	}

	// id is immutable; version is advanced here, not by the caller
	values, err := r.columnValues(entity, "id", "version")
	if err != nil {
		return err
	}

	sql, args, err := r.Builder().
		Update(r.table).
		SetMap(values).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": entityID, "version": version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.table, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(r.table, entityID)
	}
	return nil
}

// fetchOne runs q expecting a single row; notFoundKey identifies the
// missing row in the error.
func (r *BaseCatalogRepo[T]) fetchOne(ctx context.Context, q squirrel.SelectBuilder, notFoundKey string) (T, error) {
	entity := r.factory()

	sql, args, err := q.ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewNotFound(r.table, notFoundKey)
		}
		return entity, fmt.Errorf("query %s: %w", r.table, err)
	}
	return entity, nil
}

// GetByID retrieves a row by primary key, deleted or not.
func (r *BaseCatalogRepo[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": entityID}).Limit(1)
	return r.fetchOne(ctx, q, entityID.String())
}

// GetByCode retrieves a live (non-deleted) row by its code.
func (r *BaseCatalogRepo[T]) GetByCode(ctx context.Context, code string) (T, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"code": code, "deletion_mark": false}).
		Limit(1)
	return r.fetchOne(ctx, q, code)
}

// GetForUpdate retrieves a row and holds its lock until the surrounding
// transaction ends. Callers must be inside RunInTransaction.
func (r *BaseCatalogRepo[T]) GetForUpdate(ctx context.Context, entityID id.ID) (T, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": entityID}).
		Suffix("FOR UPDATE")
	return r.fetchOne(ctx, q, entityID.String())
}

// FindOne runs an arbitrary select built on Builder() and scans one row.
func (r *BaseCatalogRepo[T]) FindOne(ctx context.Context, q squirrel.SelectBuilder) (T, error) {
	return r.fetchOne(ctx, q, "matching query")
}

// FindAll runs an arbitrary select and scans every row.
func (r *BaseCatalogRepo[T]) FindAll(ctx context.Context, q squirrel.SelectBuilder) ([]T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []T
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("query %s: %w", r.table, err)
	}
	return items, nil
}

// List pages through the catalog with search, soft-delete visibility and
// advanced filters. The total count is taken over the filtered set before
// limit/offset are applied.
func (r *BaseCatalogRepo[T]) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{Limit: f.Limit, Offset: f.Offset}

	q := r.baseSelect()
	if !f.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"code": pattern},
		})
	}
	if len(f.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": f.IDs})
	}

	q, err := r.applyAdvancedFilters(q, f.AdvancedFilters)
	if err != nil {
		return domain.ListResult[T]{}, err
	}

	countSQL, countArgs, err := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count %s: %w", r.table, err)
	}

	orderBy, err := r.parseOrderBy(f.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list %s: %w", r.table, err)
	}
	return result, nil
}

// applyAdvancedFilters translates filter items into WHERE clauses. Field
// names go through the column whitelist, never into SQL verbatim.
func (r *BaseCatalogRepo[T]) applyAdvancedFilters(q squirrel.SelectBuilder, items []filter.Item) (squirrel.SelectBuilder, error) {
	known := make(map[string]bool, len(r.columns)+1)
	for _, col := range r.columns {
		known[col] = true
	}
	known["id"] = true

	for _, item := range items {
		if !known[item.Field] {
			return q, fmt.Errorf("unknown filter column %q", item.Field)
		}

		switch item.Operator {
		case filter.Equal, filter.InList:
			q = q.Where(squirrel.Eq{item.Field: item.Value})
		case filter.NotEqual, filter.NotInList:
			q = q.Where(squirrel.NotEq{item.Field: item.Value})
		case filter.Less:
			q = q.Where(squirrel.Lt{item.Field: item.Value})
		case filter.LessOrEqual:
			q = q.Where(squirrel.LtOrEq{item.Field: item.Value})
		case filter.Greater:
			q = q.Where(squirrel.Gt{item.Field: item.Value})
		case filter.GreaterOrEqual:
			q = q.Where(squirrel.GtOrEq{item.Field: item.Value})
		case filter.IsNull:
			q = q.Where(squirrel.Eq{item.Field: nil})
		case filter.IsNotNull:
			q = q.Where(squirrel.NotEq{item.Field: nil})
		case filter.Contains:
			q = q.Where(squirrel.ILike{item.Field: fmt.Sprintf("%%%v%%", item.Value)})
		case filter.NotContains:
			q = q.Where(squirrel.NotILike{item.Field: fmt.Sprintf("%%%v%%", item.Value)})
		}
	}
	return q, nil
}

func (r *BaseCatalogRepo[T]) rowExists(ctx context.Context, where squirrel.Eq) (bool, error) {
	sql, args, err := r.Builder().
		Select("1").
		From(r.table).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", r.table, err)
	}
	return true, nil
}

// Exists reports whether a row with this id is present, deleted or not.
func (r *BaseCatalogRepo[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	return r.rowExists(ctx, squirrel.Eq{"id": entityID})
}

// ExistsByCode reports whether a live row with this code is present.
func (r *BaseCatalogRepo[T]) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return r.rowExists(ctx, squirrel.Eq{"code": code, "deletion_mark": false})
}

// SetDeletionMark soft-deletes or restores a row.
func (r *BaseCatalogRepo[T]) SetDeletionMark(ctx context.Context, entityID id.ID, marked bool) error {
	sql, args, err := r.Builder().
		Update(r.table).
		Set("deletion_mark", marked).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": entityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build deletion mark update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set deletion mark on %s: %w", r.table, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(r.table, entityID.String())
	}
	return nil
}

// Delete removes the row physically. Referential integrity is the last
// line of defense here: a currency still referenced by ledger entries
// comes back as a conflict, not a database error.
func (r *BaseCatalogRepo[T]) Delete(ctx context.Context, entityID id.ID) error {
	sql, args, err := r.Builder().
		Delete(r.table).
		Where(squirrel.Eq{"id": entityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == fkViolation {
			return apperror.NewConflict("cannot delete: still referenced by documents or other catalogs").
				WithDetail("entity", r.table).
				WithDetail("id", entityID.String()).
				WithCause(err)
		}
		return fmt.Errorf("delete from %s: %w", r.table, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(r.table, entityID.String())
	}
	return nil
}

func (r *BaseCatalogRepo[T]) parseOrderBy(orderBy string) (string, error) {
	if orderBy == "" {
		return "name ASC", nil
	}

	// "-field" sorts descending, an optional "+" is tolerated
	direction := "ASC"
	field := orderBy
	switch {
	case strings.HasPrefix(orderBy, "-"):
		direction = "DESC"
		field = orderBy[1:]
	case strings.HasPrefix(orderBy, "+"):
		field = orderBy[1:]
	}

	field = strings.TrimSpace(field)
	if field == "" {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
	}

	allowed := map[string]struct{}{"id": {}, "code": {}, "name": {}}
	for _, col := range r.columns {
		allowed[col] = struct{}{}
	}
	if _, ok := allowed[field]; !ok {
		return "", apperror.NewValidation("invalid orderBy").
			WithDetail("orderBy", orderBy).
			WithDetail("field", field)
	}

	return field + " " + direction, nil
}
