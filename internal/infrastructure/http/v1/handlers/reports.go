package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cuentas/internal/core/apperror"
	"cuentas/internal/core/id"
	"cuentas/internal/domain/reports"
	"cuentas/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles reporting endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Aging handles GET /reports/aging.
// Buckets outstanding balances by days late, expressed in base currency.
func (h *ReportsHandler) Aging(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AgingReportRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.GetAging(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Statement handles GET /reports/statement/:counterpartyId.
func (h *ReportsHandler) Statement(c *gin.Context) {
	ctx := c.Request.Context()

	counterpartyID, err := id.Parse(c.Param("counterpartyId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid counterpartyId format"))
		return
	}

	var req dto.StatementRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter, err := req.ToFilter(counterpartyID)
	if err != nil {
		h.Error(c, err)
		return
	}

	statement, err := h.service.GetStatement(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, statement)
}
