// Package report_repo provides PostgreSQL read models for report generation.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"cuentas/internal/core/id"
	"cuentas/internal/domain/documents/ledger_entry"
	"cuentas/internal/domain/reports"
	"cuentas/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ reports.Repository = (*ReportRepo)(nil)

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ReportRepo) entrySelect() squirrel.SelectBuilder {
	return r.builder.
		Select(postgres.ExtractDBColumns[ledger_entry.Entry]()...).
		From("doc_ledger_entries").
		Where(squirrel.Eq{"deletion_mark": false})
}

// ListOutstanding returns open and partial entries of a kind for aging.
func (r *ReportRepo) ListOutstanding(ctx context.Context, kind ledger_entry.Kind, counterpartyIDs []id.ID) ([]*ledger_entry.Entry, error) {
	q := r.entrySelect().
		Where(squirrel.Eq{"kind": kind}).
		Where(squirrel.Eq{"status": []ledger_entry.Status{
			ledger_entry.StatusOpen,
			ledger_entry.StatusPartial,
		}})

	if len(counterpartyIDs) > 0 {
		q = q.Where(squirrel.Eq{"counterparty_id": counterpartyIDs})
	}

	q = q.OrderBy("counterparty_id", "date")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []*ledger_entry.Entry
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list outstanding: %w", err)
	}

	return entries, nil
}

// ListByCounterparty returns all entries for a counterparty statement.
func (r *ReportRepo) ListByCounterparty(ctx context.Context, filter reports.StatementFilter) ([]*ledger_entry.Entry, error) {
	q := r.entrySelect().
		Where(squirrel.Eq{"counterparty_id": filter.CounterpartyID})

	if filter.Kind != nil {
		q = q.Where(squirrel.Eq{"kind": *filter.Kind})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	q = q.OrderBy("date", "number")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []*ledger_entry.Entry
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list by counterparty: %w", err)
	}

	return entries, nil
}

// CounterpartyNames resolves display names for the given counterparty IDs.
func (r *ReportRepo) CounterpartyNames(ctx context.Context, ids []id.ID) (map[id.ID]string, error) {
	names := make(map[id.ID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	q := r.builder.
		Select("id", "name").
		From("cat_counterparties").
		Where(squirrel.Eq{"id": ids})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	type row struct {
		ID   id.ID  `db:"id"`
		Name string `db:"name"`
	}

	var rows []row
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("counterparty names: %w", err)
	}

	for _, rw := range rows {
		names[rw.ID] = rw.Name
	}

	return names, nil
}
