package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"cuentas/internal/core/apperror"
	"cuentas/internal/core/id"
	"cuentas/internal/domain"
	"cuentas/internal/domain/documents/ledger_entry"
	"cuentas/internal/infrastructure/storage/postgres"
)

const (
	ledgerEntriesTable = "doc_ledger_entries"
	paymentsTable      = "doc_ledger_payments"
)

// LedgerEntryRepo implements ledger_entry.Repository.
type LedgerEntryRepo struct {
	*BaseDocumentRepo[*ledger_entry.Entry]
}

var _ ledger_entry.Repository = (*LedgerEntryRepo)(nil)

// NewLedgerEntryRepo creates a new ledger entry repository.
func NewLedgerEntryRepo(txManager *postgres.TxManager) *LedgerEntryRepo {
	return &LedgerEntryRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			ledgerEntriesTable,
			postgres.ExtractDBColumns[ledger_entry.Entry](),
			func() *ledger_entry.Entry { return &ledger_entry.Entry{} },
		),
	}
}

// GetPayments retrieves payments applied to an entry, ordered by line number.
func (r *LedgerEntryRepo) GetPayments(ctx context.Context, entryID id.ID) ([]ledger_entry.Payment, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[ledger_entry.Payment]()...).
		From(paymentsTable).
		Where(squirrel.Eq{"entry_id": entryID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var payments []ledger_entry.Payment
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &payments, sql, args...); err != nil {
		return nil, fmt.Errorf("get payments: %w", err)
	}

	return payments, nil
}

// CreatePayment inserts a single payment row.
func (r *LedgerEntryRepo) CreatePayment(ctx context.Context, payment *ledger_entry.Payment) error {
	data := postgres.StructToMap(payment)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in payment")
	}

	q := r.Builder().
		Insert(paymentsTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	return nil
}

// CreatePayments inserts the payment rows of a new entry as one batch.
// Requires a transaction in ctx since the batch rides the entry's commit.
func (r *LedgerEntryRepo) CreatePayments(ctx context.Context, payments []ledger_entry.Payment) error {
	if len(payments) == 0 {
		return nil
	}

	queries := make([]postgres.BatchQuery, 0, len(payments))
	for i := range payments {
		data := postgres.StructToMap(&payments[i])
		if len(data) == 0 {
			return fmt.Errorf("no db tags found in payment")
		}

		sql, args, err := r.Builder().Insert(paymentsTable).SetMap(data).ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		queries = append(queries, postgres.BatchQuery{SQL: sql, Args: args})
	}

	executor := postgres.NewBatchExecutor(r.txManager)
	if err := executor.ExecuteBatch(ctx, queries); err != nil {
		return fmt.Errorf("insert payments: %w", err)
	}
	return nil
}

// DeletePayment removes a payment row. Payments are immutable; a correction
// is a delete followed by a fresh application at the current rate.
func (r *LedgerEntryRepo) DeletePayment(ctx context.Context, paymentID id.ID) error {
	q := r.Builder().
		Delete(paymentsTable).
		Where(squirrel.Eq{"id": paymentID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(paymentsTable, paymentID.String())
	}

	return nil
}

// List retrieves ledger entries with filtering.
func (r *LedgerEntryRepo) List(ctx context.Context, filter ledger_entry.ListFilter) (domain.ListResult[*ledger_entry.Entry], error) {
	q := r.baseSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.Kind != nil {
		q = q.Where(squirrel.Eq{"kind": *filter.Kind})
	}

	if filter.CounterpartyID != nil {
		q = q.Where(squirrel.Eq{"counterparty_id": *filter.CounterpartyID})
	}

	if filter.CurrencyID != nil {
		q = q.Where(squirrel.Eq{"currency_id": *filter.CurrencyID})
	}

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	if filter.DueBefore != nil {
		q = q.Where(squirrel.Lt{"due_date": *filter.DueBefore})
	}

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
	}

	return r.RunList(ctx, q, filter.ListFilter)
}

// ListOutstanding returns open and partially paid entries of a kind.
// Settled and void entries carry no balance and are excluded in SQL.
func (r *LedgerEntryRepo) ListOutstanding(ctx context.Context, kind ledger_entry.Kind) ([]*ledger_entry.Entry, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Eq{"kind": kind}).
		Where(squirrel.Eq{"status": []ledger_entry.Status{
			ledger_entry.StatusOpen,
			ledger_entry.StatusPartial,
		}}).
		OrderBy("date")

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
