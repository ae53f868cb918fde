package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cuentas/internal/core/apperror"
	"cuentas/internal/core/id"
	"cuentas/internal/domain/documents/ledger_entry"
	"cuentas/internal/infrastructure/http/v1/dto"
	"cuentas/internal/infrastructure/storage/postgres"
)

// LedgerEntryHandler handles receivable and payable ledger entries.
type LedgerEntryHandler struct {
	*BaseHandler
	service *ledger_entry.Service
	audit   *postgres.AuditService
}

// NewLedgerEntryHandler creates a new ledger entry handler.
func NewLedgerEntryHandler(
	base *BaseHandler,
	service *ledger_entry.Service,
	audit *postgres.AuditService,
) *LedgerEntryHandler {
	return &LedgerEntryHandler{
		BaseHandler: base,
		service:     service,
		audit:       audit,
	}
}

// Create handles POST /ledger-entries.
func (h *LedgerEntryHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(ctx, entry); err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromEntry(entry)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// Get handles GET /ledger-entries/:id.
func (h *LedgerEntryHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	entryID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	entry, err := h.service.GetByID(ctx, entryID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEntry(entry))
}

// GetByNumber handles GET /ledger-entries/by-number/:number.
func (h *LedgerEntryHandler) GetByNumber(c *gin.Context) {
	ctx := c.Request.Context()

	entry, err := h.service.GetByNumber(ctx, c.Param("number"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEntry(entry))
}

// List handles GET /ledger-entries.
func (h *LedgerEntryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter, err := h.parseListFilter(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, entry := range result.Items {
		items[i] = dto.FromEntry(entry)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Update handles PUT /ledger-entries/:id.
// Only header fields change here; payments have their own endpoints.
func (h *LedgerEntryHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	entryID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.GetByID(ctx, entryID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(existing)

	if err := h.service.Update(ctx, existing); err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromEntry(existing)
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}

// Delete handles DELETE /ledger-entries/:id.
func (h *LedgerEntryHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	entryID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(ctx, entryID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddPayment handles POST /ledger-entries/:id/payments.
func (h *LedgerEntryHandler) AddPayment(c *gin.Context) {
	ctx := c.Request.Context()

	entryID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.AddPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	np, err := req.ToNewPayment()
	if err != nil {
		h.Error(c, err)
		return
	}

	entry, err := h.service.AddPayment(ctx, entryID, np)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromEntry(entry)
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}

// RemovePayment handles DELETE /ledger-entries/:id/payments/:paymentId.
// A payment correction is remove plus re-apply; the new line gets the
// rate in effect at re-application time.
func (h *LedgerEntryHandler) RemovePayment(c *gin.Context) {
	ctx := c.Request.Context()

	entryID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	paymentID, err := id.Parse(c.Param("paymentId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid paymentId format"))
		return
	}

	entry, err := h.service.RemovePayment(ctx, entryID, paymentID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEntry(entry))
}

// Void handles POST /ledger-entries/:id/void.
func (h *LedgerEntryHandler) Void(c *gin.Context) {
	ctx := c.Request.Context()

	entryID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	entry, err := h.service.Void(ctx, entryID)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromEntry(entry)
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}

// History handles GET /ledger-entries/:id/history.
func (h *LedgerEntryHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	entryID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	limit := h.ParseIntQuery(c, "limit", 100)

	records, err := h.audit.GetEntityHistory(ctx, entryID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]gin.H, len(records))
	for i, rec := range records {
		items[i] = gin.H{
			"id":        rec.ID.String(),
			"action":    rec.Action,
			"userId":    rec.UserID,
			"payload":   rec.Payload,
			"details":   rec.Details,
			"createdAt": rec.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *LedgerEntryHandler) parseListFilter(c *gin.Context) (ledger_entry.ListFilter, error) {
	filter := ledger_entry.ListFilter{}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.Query("orderBy")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	if kind := c.Query("kind"); kind != "" {
		k := ledger_entry.Kind(kind)
		if k != ledger_entry.KindReceivable && k != ledger_entry.KindPayable {
			return filter, apperror.NewValidation("invalid kind").WithDetail("value", kind)
		}
		filter.Kind = &k
	}

	if raw := c.Query("counterpartyId"); raw != "" {
		parsed, err := id.Parse(raw)
		if err != nil {
			return filter, apperror.NewValidation("invalid counterpartyId").WithDetail("value", raw)
		}
		filter.CounterpartyID = &parsed
	}

	if raw := c.Query("currencyId"); raw != "" {
		parsed, err := id.Parse(raw)
		if err != nil {
			return filter, apperror.NewValidation("invalid currencyId").WithDetail("value", raw)
		}
		filter.CurrencyID = &parsed
	}

	if status := c.Query("status"); status != "" {
		s := ledger_entry.Status(status)
		filter.Status = &s
	}

	parseDate := func(raw, field string) (*time.Time, error) {
		if raw == "" {
			return nil, nil
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, apperror.NewValidation("invalid " + field + " date, expected YYYY-MM-DD").
				WithDetail("value", raw)
		}
		return &t, nil
	}

	dateFrom, err := parseDate(c.Query("dateFrom"), "dateFrom")
	if err != nil {
		return filter, err
	}
	filter.DateFrom = dateFrom

	dateTo, err := parseDate(c.Query("dateTo"), "dateTo")
	if err != nil {
		return filter, err
	}
	filter.DateTo = dateTo

	dueBefore, err := parseDate(c.Query("dueBefore"), "dueBefore")
	if err != nil {
		return filter, err
	}
	filter.DueBefore = dueBefore

	return filter, nil
}
