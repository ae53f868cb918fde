package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"cuentas/internal/core/apperror"
	"cuentas/internal/core/id"
	"cuentas/internal/domain/documents/ledger_entry"
)

// --- Request DTOs ---

// EntryPaymentInput is one payment supplied on entry creation.
type EntryPaymentInput struct {
	CurrencyID      string          `json:"currencyId" binding:"required,uuid"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethodID *string         `json:"paymentMethodId"`
	Reference       *string         `json:"reference"`
	Date            *time.Time      `json:"date"`
}

// CreateEntryRequest is the request body for creating a ledger entry.
type CreateEntryRequest struct {
	Kind           string              `json:"kind" binding:"required,oneof=receivable payable"`
	CounterpartyID string              `json:"counterpartyId" binding:"required,uuid"`
	CurrencyID     string              `json:"currencyId" binding:"required,uuid"`
	Total          decimal.Decimal     `json:"total" binding:"required"`
	Date           *time.Time          `json:"date"`
	DueDate        *time.Time          `json:"dueDate"`
	Comment        string              `json:"comment"`
	Payments       []EntryPaymentInput `json:"payments"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateEntryRequest) ToEntity() (*ledger_entry.Entry, error) {
	counterpartyID, err := id.Parse(r.CounterpartyID)
	if err != nil {
		return nil, apperror.NewValidation("invalid counterpartyId").WithDetail("value", r.CounterpartyID)
	}
	currencyID, err := id.Parse(r.CurrencyID)
	if err != nil {
		return nil, apperror.NewValidation("invalid currencyId").WithDetail("value", r.CurrencyID)
	}

	entry := ledger_entry.NewEntry(ledger_entry.Kind(r.Kind), counterpartyID, currencyID, r.Total)
	if r.Date != nil {
		entry.Date = *r.Date
	}
	entry.DueDate = r.DueDate
	entry.Comment = r.Comment

	for _, p := range r.Payments {
		payment, err := p.toPayment()
		if err != nil {
			return nil, err
		}
		entry.Payments = append(entry.Payments, *payment)
	}

	return entry, nil
}

func (p *EntryPaymentInput) toPayment() (*ledger_entry.Payment, error) {
	currencyID, err := id.Parse(p.CurrencyID)
	if err != nil {
		return nil, apperror.NewValidation("invalid payment currencyId").WithDetail("value", p.CurrencyID)
	}

	payment := ledger_entry.Payment{
		CurrencyID: currencyID,
		Amount:     p.Amount,
		Reference:  p.Reference,
		Date:       time.Now().UTC(),
	}
	if p.Date != nil {
		payment.Date = *p.Date
	}
	if p.PaymentMethodID != nil {
		methodID, err := id.Parse(*p.PaymentMethodID)
		if err != nil {
			return nil, apperror.NewValidation("invalid paymentMethodId").WithDetail("value", *p.PaymentMethodID)
		}
		payment.PaymentMethodID = &methodID
	}

	return &payment, nil
}

// UpdateEntryRequest is the request body for updating entry header fields.
type UpdateEntryRequest struct {
	Total   *decimal.Decimal `json:"total"`
	Date    *time.Time       `json:"date"`
	DueDate *time.Time       `json:"dueDate"`
	Comment *string          `json:"comment"`
	Version int              `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateEntryRequest) ApplyTo(e *ledger_entry.Entry) {
	if r.Total != nil {
		e.Total = *r.Total
	}
	if r.Date != nil {
		e.Date = *r.Date
	}
	if r.DueDate != nil {
		e.DueDate = r.DueDate
	}
	if r.Comment != nil {
		e.Comment = *r.Comment
	}
	e.Version = r.Version
}

// AddPaymentRequest is the request body for applying a payment to an entry.
type AddPaymentRequest struct {
	CurrencyID      string          `json:"currencyId" binding:"required,uuid"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethodID *string         `json:"paymentMethodId"`
	Reference       *string         `json:"reference"`
	Date            *time.Time      `json:"date"`
}

// ToNewPayment converts DTO to the allocator input.
func (r *AddPaymentRequest) ToNewPayment() (ledger_entry.NewPayment, error) {
	currencyID, err := id.Parse(r.CurrencyID)
	if err != nil {
		return ledger_entry.NewPayment{}, apperror.NewValidation("invalid currencyId").WithDetail("value", r.CurrencyID)
	}

	np := ledger_entry.NewPayment{
		CurrencyID: currencyID,
		Amount:     r.Amount,
		Reference:  r.Reference,
		Date:       time.Now().UTC(),
	}
	if r.Date != nil {
		np.Date = *r.Date
	}
	if r.PaymentMethodID != nil {
		methodID, err := id.Parse(*r.PaymentMethodID)
		if err != nil {
			return ledger_entry.NewPayment{}, apperror.NewValidation("invalid paymentMethodId").WithDetail("value", *r.PaymentMethodID)
		}
		np.PaymentMethodID = &methodID
	}

	return np, nil
}

// --- Response DTOs ---

// PaymentResponse is the API representation of an applied payment.
type PaymentResponse struct {
	ID                    string           `json:"id"`
	LineNo                int              `json:"lineNo"`
	CurrencyID            string           `json:"currencyId"`
	Amount                decimal.Decimal  `json:"amount"`
	ExchangeRateSnapshot  *decimal.Decimal `json:"exchangeRateSnapshot,omitempty"`
	AmountInEntryCurrency decimal.Decimal  `json:"amountInEntryCurrency"`
	PaymentMethodID       *string          `json:"paymentMethodId,omitempty"`
	Reference             *string          `json:"reference,omitempty"`
	Date                  time.Time        `json:"date"`
}

// FromPayment converts a payment line to response DTO.
func FromPayment(p ledger_entry.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:                    p.ID.String(),
		LineNo:                p.LineNo,
		CurrencyID:            p.CurrencyID.String(),
		Amount:                p.Amount,
		ExchangeRateSnapshot:  p.ExchangeRateSnapshot,
		AmountInEntryCurrency: p.AmountInEntryCurrency,
		Reference:             p.Reference,
		Date:                  p.Date,
	}
	if p.PaymentMethodID != nil {
		methodID := p.PaymentMethodID.String()
		resp.PaymentMethodID = &methodID
	}
	return resp
}

// EntryResponse is the API representation of a ledger entry.
// Status is the effective status: overdue is projected at read time.
type EntryResponse struct {
	DocumentResponse
	Kind           string            `json:"kind"`
	CounterpartyID string            `json:"counterpartyId"`
	CurrencyID     string            `json:"currencyId"`
	Total          decimal.Decimal   `json:"total"`
	TotalPaid      decimal.Decimal   `json:"totalPaid"`
	Balance        decimal.Decimal   `json:"balance"`
	DueDate        *time.Time        `json:"dueDate,omitempty"`
	Status         string            `json:"status"`
	DaysLate       int               `json:"daysLate"`
	Payments       []PaymentResponse `json:"payments"`
}

// FromEntry converts domain entity to response DTO.
func FromEntry(e *ledger_entry.Entry) *EntryResponse {
	now := time.Now().UTC()

	payments := make([]PaymentResponse, len(e.Payments))
	for i, p := range e.Payments {
		payments[i] = FromPayment(p)
	}

	return &EntryResponse{
		DocumentResponse: FromDocument(e.Document),
		Kind:             string(e.Kind),
		CounterpartyID:   e.CounterpartyID.String(),
		CurrencyID:       e.CurrencyID.String(),
		Total:            e.Total,
		TotalPaid:        e.TotalPaid,
		Balance:          e.Balance,
		DueDate:          e.DueDate,
		Status:           string(e.EffectiveStatus(now)),
		DaysLate:         e.DaysLate(now),
		Payments:         payments,
	}
}
