package handlers

import (
	"github.com/gin-gonic/gin"

	"stationops/internal/domain/finance"
	"stationops/internal/infrastructure/http/v1/dto"
)

// FinanceHandler serves per-shift financial records and charge invoices.
type FinanceHandler struct {
	*BaseHandler
	service *finance.Service
}

// NewFinanceHandler creates a new finance handler.
func NewFinanceHandler(base *BaseHandler, service *finance.Service) *FinanceHandler {
	return &FinanceHandler{BaseHandler: base, service: service}
}

// --- Charge invoices ---

// CreateInvoice records a credit sale.
// POST /api/v1/charge-invoices
func (h *FinanceHandler) CreateInvoice(c *gin.Context) {
	var req dto.CreateChargeInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.CreateChargeInvoice(c.Request.Context(), inv); err != nil {
		h.Error(c, err)
		return
	}
	h.CreatedWith(c, dto.FromChargeInvoice(inv))
}

// GetInvoice returns one invoice.
// GET /api/v1/charge-invoices/:id
func (h *FinanceHandler) GetInvoice(c *gin.Context) {
	invID, err := dto.ParseID("id", c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	inv, err := h.service.GetChargeInvoice(c.Request.Context(), invID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromChargeInvoice(inv))
}

// ListInvoices returns invoices in a date range.
// GET /api/v1/charge-invoices
func (h *FinanceHandler) ListInvoices(c *gin.Context) {
	var q dto.InvoicesQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	invs, err := h.service.ListChargeInvoices(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromChargeInvoices(invs))
}

// MarkInvoicePaid settles an invoice.
// POST /api/v1/charge-invoices/:id/pay
func (h *FinanceHandler) MarkInvoicePaid(c *gin.Context) {
	invID, err := dto.ParseID("id", c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	inv, err := h.service.MarkInvoicePaid(c.Request.Context(), invID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromChargeInvoice(inv))
}

// --- Per-shift records ---

// CreateDeposit records a remittance slip.
// POST /api/v1/deposits
func (h *FinanceHandler) CreateDeposit(c *gin.Context) {
	var req dto.CreateDepositRequest
	if !h.BindJSON(c, &req) {
		return
	}

	d, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := h.service.CreateDeposit(c.Request.Context(), d); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, d.ID.String())
}

// ListDeposits returns deposits for a shift.
// GET /api/v1/deposits
func (h *FinanceHandler) ListDeposits(c *gin.Context) {
	filter, ok := h.shiftFilter(c)
	if !ok {
		return
	}
	rows, err := h.service.ListDeposits(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rows)
}

// CreateCheck records a check remittance.
// POST /api/v1/checks
func (h *FinanceHandler) CreateCheck(c *gin.Context) {
	var req dto.CreateCheckRequest
	if !h.BindJSON(c, &req) {
		return
	}

	chk, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := h.service.CreateCheck(c.Request.Context(), chk); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, chk.ID.String())
}

// ListChecks returns checks for a shift.
// GET /api/v1/checks
func (h *FinanceHandler) ListChecks(c *gin.Context) {
	filter, ok := h.shiftFilter(c)
	if !ok {
		return
	}
	rows, err := h.service.ListChecks(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rows)
}

// CreateExpense records a cash outflow.
// POST /api/v1/expenses
func (h *FinanceHandler) CreateExpense(c *gin.Context) {
	var req dto.CreateExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	e, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := h.service.CreateExpense(c.Request.Context(), e); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, e.ID.String())
}

// ListExpenses returns expenses for a shift.
// GET /api/v1/expenses
func (h *FinanceHandler) ListExpenses(c *gin.Context) {
	filter, ok := h.shiftFilter(c)
	if !ok {
		return
	}
	rows, err := h.service.ListExpenses(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rows)
}

// CreateDisbursement records a purchase paid from shift proceeds.
// POST /api/v1/disbursements
func (h *FinanceHandler) CreateDisbursement(c *gin.Context) {
	var req dto.CreateDisbursementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	d, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := h.service.CreateDisbursement(c.Request.Context(), d); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, d.ID.String())
}

// ListDisbursements returns purchases for a shift.
// GET /api/v1/disbursements
func (h *FinanceHandler) ListDisbursements(c *gin.Context) {
	filter, ok := h.shiftFilter(c)
	if !ok {
		return
	}
	rows, err := h.service.ListDisbursements(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rows)
}

// CreateProductSale records a non-fuel sale.
// POST /api/v1/product-sales
func (h *FinanceHandler) CreateProductSale(c *gin.Context) {
	var req dto.CreateProductSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := h.service.CreateProductSale(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p.ID.String())
}

// ListProductSales returns non-fuel sales for a shift.
// GET /api/v1/product-sales
func (h *FinanceHandler) ListProductSales(c *gin.Context) {
	filter, ok := h.shiftFilter(c)
	if !ok {
		return
	}
	rows, err := h.service.ListProductSales(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rows)
}

func (h *FinanceHandler) shiftFilter(c *gin.Context) (finance.ShiftFilter, bool) {
	var q dto.ShiftRecordsQuery
	if !h.BindQuery(c, &q) {
		return finance.ShiftFilter{}, false
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return finance.ShiftFilter{}, false
	}
	return filter, true
}
