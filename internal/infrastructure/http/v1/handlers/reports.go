package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stationops/internal/domain/accountability"
	"stationops/internal/infrastructure/http/v1/dto"
)

// ReportsHandler serves the accountability reconciliation reports.
type ReportsHandler struct {
	*BaseHandler
	service *accountability.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *accountability.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// Accountability builds the per-shift reconciliation report. A partial
// report (one or more sibling categories unavailable) still returns 200;
// clients check the partial flag and category statuses.
// GET /api/v1/reports/accountability
func (h *ReportsHandler) Accountability(c *gin.Context) {
	var q dto.AccountabilityQuery
	if !h.BindQuery(c, &q) {
		return
	}

	scope, err := q.ToScope()
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.ComputeAccountability(c.Request.Context(), scope)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Daily builds the report across all shifts of one date.
// GET /api/v1/reports/daily
func (h *ReportsHandler) Daily(c *gin.Context) {
	var q dto.DailyReportQuery
	if !h.BindQuery(c, &q) {
		return
	}

	date, err := dto.ParseDate("date", q.Date)
	if err != nil {
		h.Error(c, err)
		return
	}
	branchID, err := dto.ParseOptionalID("branchId", q.BranchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.ComputeDailyReport(c.Request.Context(), branchID, !q.AnyBranch, date)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
