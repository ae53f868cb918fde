package dto

import (
	"time"

	"cuentas/internal/core/apperror"
	"cuentas/internal/core/id"
	"cuentas/internal/domain/documents/ledger_entry"
	"cuentas/internal/domain/reports"
)

// AgingReportRequest holds the query parameters for the aging report.
type AgingReportRequest struct {
	Kind            string   `form:"kind" binding:"required,oneof=receivable payable"`
	AsOf            string   `form:"asOf"`
	CurrencyID      string   `form:"currencyId"`
	CounterpartyIDs []string `form:"counterpartyId"`
}

// ToFilter converts the request to the domain filter.
// AsOf defaults to today when the parameter is absent.
func (r *AgingReportRequest) ToFilter() (reports.AgingFilter, error) {
	filter := reports.AgingFilter{
		Kind: ledger_entry.Kind(r.Kind),
		AsOf: time.Now().UTC(),
	}

	if r.AsOf != "" {
		asOf, err := time.Parse("2006-01-02", r.AsOf)
		if err != nil {
			return filter, apperror.NewValidation("invalid asOf date, expected YYYY-MM-DD").
				WithDetail("value", r.AsOf)
		}
		filter.AsOf = asOf
	}

	if r.CurrencyID != "" {
		parsed, err := id.Parse(r.CurrencyID)
		if err != nil {
			return filter, apperror.NewValidation("invalid currencyId").WithDetail("value", r.CurrencyID)
		}
		filter.CurrencyID = &parsed
	}

	for _, raw := range r.CounterpartyIDs {
		parsed, err := id.Parse(raw)
		if err != nil {
			return filter, apperror.NewValidation("invalid counterpartyId").WithDetail("value", raw)
		}
		filter.CounterpartyIDs = append(filter.CounterpartyIDs, parsed)
	}

	return filter, nil
}

// StatementRequest holds the query parameters for a counterparty statement.
type StatementRequest struct {
	Kind     string `form:"kind" binding:"omitempty,oneof=receivable payable"`
	AsOf     string `form:"asOf"`
	DateFrom string `form:"dateFrom"`
	DateTo   string `form:"dateTo"`
}

// ToFilter converts the request to the domain filter.
func (r *StatementRequest) ToFilter(counterpartyID id.ID) (reports.StatementFilter, error) {
	filter := reports.StatementFilter{
		CounterpartyID: counterpartyID,
		AsOf:           time.Now().UTC(),
	}

	if r.Kind != "" {
		kind := ledger_entry.Kind(r.Kind)
		filter.Kind = &kind
	}

	parseDate := func(raw, field string) (*time.Time, error) {
		if raw == "" {
			return nil, nil
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, apperror.NewValidation("invalid "+field+" date, expected YYYY-MM-DD").
				WithDetail("value", raw)
		}
		return &t, nil
	}

	if asOf, err := parseDate(r.AsOf, "asOf"); err != nil {
		return filter, err
	} else if asOf != nil {
		filter.AsOf = *asOf
	}

	dateFrom, err := parseDate(r.DateFrom, "dateFrom")
	if err != nil {
		return filter, err
	}
	filter.DateFrom = dateFrom

	dateTo, err := parseDate(r.DateTo, "dateTo")
	if err != nil {
		return filter, err
	}
	filter.DateTo = dateTo

	return filter, nil
}
