// Package apperror defines the typed errors the ledger engine and its API
// surface share. Every business failure is an *AppError with a stable
// machine code; the HTTP layer maps the code to a status and renders the
// message untranslated.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable error codes. API clients switch on these, so they never change.
const (
	// 5xx
	CodeInternal      = "INTERNAL_ERROR"
	CodeDatabase      = "DATABASE_ERROR"
	CodeConfiguration = "CONFIGURATION_ERROR"

	// 400
	CodeValidation   = "VALIDATION_ERROR"
	CodeInvalidInput = "INVALID_INPUT"

	// 422, the ledger business rules
	CodeBusinessRule           = "BUSINESS_RULE_VIOLATION"
	CodeInvalidRate            = "INVALID_EXCHANGE_RATE"
	CodeOverpayment            = "OVERPAYMENT"
	CodeVoidEntry              = "VOID_ENTRY"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"

	// 401 / 403
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// 404
	CodeNotFound = "NOT_FOUND"

	// 409
	CodeConflict    = "CONFLICT"
	CodeDuplicate   = "DUPLICATE_ENTRY"
	CodeIdempotency = "IDEMPOTENCY_CONFLICT"
)

// AppError carries a machine code, a human message and structured context.
type AppError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the status the API layer should respond with.
	HTTPStatus int `json:"-"`

	// Err is the wrapped cause, kept out of API responses.
	Err error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail attaches one key-value pair of context and returns the error
// for chaining.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause wraps an underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

func newError(code, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// NewValidation reports malformed or missing input.
func NewValidation(message string) *AppError {
	return newError(CodeValidation, message, http.StatusBadRequest)
}

// NewNotFound reports a missing entity, identified by kind and key.
func NewNotFound(entity string, key any) *AppError {
	return newError(CodeNotFound, entity+" not found", http.StatusNotFound).
		WithDetail("entity", entity).
		WithDetail("id", key)
}

// NewBusinessRule reports a domain rule violation under a caller-chosen code.
func NewBusinessRule(code, message string) *AppError {
	return newError(code, message, http.StatusUnprocessableEntity)
}

// NewConfiguration reports broken reference data, e.g. zero or two base
// currencies. The engine refuses to guess, so this surfaces as a server
// fault, not a user error.
func NewConfiguration(message string) *AppError {
	return newError(CodeConfiguration, message, http.StatusInternalServerError)
}

// NewInvalidRate reports a non-positive exchange rate on a currency.
func NewInvalidRate(currencyCode string, rate any) *AppError {
	return newError(CodeInvalidRate, "Exchange rate must be positive", http.StatusUnprocessableEntity).
		WithDetail("currency", currencyCode).
		WithDetail("rate", rate)
}

// NewOverpayment reports a payment that would drive an entry's balance
// negative. The engine never clamps; the caller must resubmit a corrected
// amount.
func NewOverpayment(entryID any, attempted, pending any) *AppError {
	return newError(CodeOverpayment, "Payment amount exceeds pending balance", http.StatusUnprocessableEntity).
		WithDetail("entry_id", entryID).
		WithDetail("attempted", attempted).
		WithDetail("pending", pending)
}

// NewVoidEntry reports a mutation attempted against a voided entry.
func NewVoidEntry(entryID any) *AppError {
	return newError(CodeVoidEntry, "Entry is void and cannot be modified", http.StatusUnprocessableEntity).
		WithDetail("entry_id", entryID)
}

// NewConcurrentModification reports a lost optimistic-lock race.
func NewConcurrentModification(entity string, key any) *AppError {
	return newError(CodeConcurrentModification,
		"Record was modified by another user. Please refresh and try again.",
		http.StatusConflict).
		WithDetail("entity", entity).
		WithDetail("id", key)
}

// NewInternal wraps an unexpected error without leaking it to clients.
func NewInternal(err error) *AppError {
	e := newError(CodeInternal, "Internal server error", http.StatusInternalServerError)
	e.Err = err
	return e
}

// NewUnauthorized reports a missing or failed authentication.
func NewUnauthorized(message string) *AppError {
	return newError(CodeUnauthorized, message, http.StatusUnauthorized)
}

// NewForbidden reports an authenticated but unpermitted request.
func NewForbidden(message string) *AppError {
	return newError(CodeForbidden, message, http.StatusForbidden)
}

// NewIdempotencyConflict reports a key whose operation is still running or
// already finished.
func NewIdempotencyConflict(key string) *AppError {
	return newError(CodeIdempotency, "Operation already in progress or completed", http.StatusConflict).
		WithDetail("idempotency_key", key)
}

// NewIdempotencyMismatch reports a key reused for a different request
// (different user, operation or body hash).
func NewIdempotencyMismatch(key string) *AppError {
	return newError(CodeIdempotency, "Idempotency key mismatch", http.StatusConflict).
		WithDetail("idempotency_key", key)
}

// NewConflict reports a state conflict that is not a duplicate.
func NewConflict(message string) *AppError {
	return newError(CodeConflict, message, http.StatusConflict)
}

// NewDuplicate reports a uniqueness violation on a named field.
func NewDuplicate(entity, field, value string) *AppError {
	return newError(CodeDuplicate,
		fmt.Sprintf("%s with this %s already exists", entity, field),
		http.StatusConflict).
		WithDetail("entity", entity).
		WithDetail("field", field).
		WithDetail("value", value)
}

// IsAppError reports whether err wraps an *AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError unwraps the first *AppError in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus maps any error to a response status, defaulting to 500.
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound reports whether err carries CodeNotFound.
func IsNotFound(err error) bool {
	return IsCode(err, CodeNotFound)
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}
