// Package document_repo implements PostgreSQL persistence for ledger
// documents.
package document_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"cuentas/internal/core/apperror"
	"cuentas/internal/core/id"
	"cuentas/internal/domain"
	"cuentas/internal/infrastructure/storage/postgres"
)

// BaseDocumentRepo carries the persistence plumbing shared by document
// tables: db-tag driven writes, optimistic locking, soft delete, FOR UPDATE
// row locks and count-then-page listing. Documents are never physically
// deleted; Delete sets the deletion mark.
type BaseDocumentRepo[T any] struct {
	txManager *postgres.TxManager
	table     string
	columns   []string
	factory   func() T
}

// NewBaseDocumentRepo wires a base repo for one document table.
func NewBaseDocumentRepo[T any](
	txManager *postgres.TxManager,
	table string,
	columns []string,
	factory func() T,
) *BaseDocumentRepo[T] {
	return &BaseDocumentRepo[T]{
		txManager: txManager,
		table:     table,
		columns:   columns,
		factory:   factory,
	}
}

// Builder returns a squirrel builder configured for pgx ($N placeholders).
func (r *BaseDocumentRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseDocumentRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().Select(r.columns...).From(r.table)
}

// Create inserts a new document row.
func (r *BaseDocumentRepo[T]) Create(ctx context.Context, entity T) error {
	tagged := postgres.StructToMap(entity)
	if len(tagged) == 0 {
		return fmt.Errorf("%s: entity has no db tags", r.table)
	}

	values := make(map[string]any, len(r.columns))
	for _, col := range r.columns {
		if v, ok := tagged[col]; ok {
			values[col] = v
		}
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

// Update writes the document back, guarded by its version. The creation
// audit columns never change after insert; updated_at and version are
// advanced here rather than trusted from the entity.
func (r *BaseDocumentRepo[T]) Update(ctx context.Context, entity T) error {
	tagged := postgres.StructToMap(entity)
	entityID, ok := tagged["id"]
	if !ok {
		return fmt.Errorf("%s: entity has no id column", r.table)
	}
	version, ok := tagged["version"].(int)
	if !ok {
		return fmt.Errorf("%s: entity has no int version column", r.table)
	}

	immutable := map[string]bool{
		"id": true, "created_at": true, "created_by": true,
		"version": true, "updated_at": true,
	}
	values := make(map[string]any, len(r.columns))
	for _, col := range r.columns {
		if immutable[col] {
			continue
		}
		if v, ok := tagged[col]; ok {
			values[col] = v
		}
	}

	sql, args, err := r.Builder().
		Update(r.table).
		SetMap(values).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
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

// Delete soft-deletes the document. The row and its payment lines stay
// readable for history.
func (r *BaseDocumentRepo[T]) Delete(ctx context.Context, entityID id.ID) error {
	sql, args, err := r.Builder().
		Update(r.table).
		Set("deletion_mark", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": entityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.table, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(r.table, entityID.String())
	}
	return nil
}

func (r *BaseDocumentRepo[T]) fetchOne(ctx context.Context, q squirrel.SelectBuilder, notFoundKey string) (T, error) {
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

// GetByID retrieves a document by primary key.
func (r *BaseDocumentRepo[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	return r.fetchOne(ctx, r.baseSelect().Where(squirrel.Eq{"id": entityID}), entityID.String())
}

// GetByNumber retrieves a document by its printed number.
func (r *BaseDocumentRepo[T]) GetByNumber(ctx context.Context, number string) (T, error) {
	return r.fetchOne(ctx, r.baseSelect().Where(squirrel.Eq{"number": number}), number)
}

// GetForUpdate retrieves the document and holds its row lock until the
// surrounding transaction ends. This is what serializes concurrent payment
// application against one entry: the second payer blocks here until the
// first commits, then sees the reduced balance.
func (r *BaseDocumentRepo[T]) GetForUpdate(ctx context.Context, entityID id.ID) (T, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": entityID}).
		Suffix("FOR UPDATE")
	return r.fetchOne(ctx, q, entityID.String())
}

// List pages through documents with the standard filter.
func (r *BaseDocumentRepo[T]) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[T], error) {
	q := r.baseSelect()
	if !f.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if f.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + f.Search + "%"})
	}
	return r.RunList(ctx, q, f)
}

// RunList counts, orders and pages an already-filtered select. Concrete
// repos add their own WHERE clauses first and hand the builder over.
func (r *BaseDocumentRepo[T]) RunList(ctx context.Context, q squirrel.SelectBuilder, f domain.ListFilter) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{Limit: f.Limit, Offset: f.Offset}

	countSQL, countArgs, err := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
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

func (r *BaseDocumentRepo[T]) parseOrderBy(orderBy string) (string, error) {
	if strings.TrimSpace(orderBy) == "" {
		return "date DESC", nil
	}

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

	allowed := map[string]struct{}{
		"id": {}, "number": {}, "date": {},
		"created_at": {}, "updated_at": {}, "version": {},
	}
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
