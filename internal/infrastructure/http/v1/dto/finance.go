package dto

import (
	"time"

	"stationops/internal/core/types"
	"stationops/internal/domain/finance"
)

// ShiftScopeRequest carries the shift a financial record belongs to.
type ShiftScopeRequest struct {
	BranchID    string `json:"branchId"`
	ShiftDate   string `json:"shiftDate" binding:"required"`
	ShiftNumber int    `json:"shiftNumber" binding:"required,min=1"`
}

// ToScope converts the request to a domain shift scope.
func (r ShiftScopeRequest) ToScope() (finance.ShiftScope, error) {
	date, err := ParseDate("shiftDate", r.ShiftDate)
	if err != nil {
		return finance.ShiftScope{}, err
	}
	branchID, err := ParseOptionalID("branchId", r.BranchID)
	if err != nil {
		return finance.ShiftScope{}, err
	}
	return finance.ShiftScope{
		BranchID:    branchID,
		ShiftDate:   date,
		ShiftNumber: r.ShiftNumber,
	}, nil
}

// ShiftRecordsQuery filters per-shift record listings.
type ShiftRecordsQuery struct {
	BranchID    string `form:"branchId"`
	AnyBranch   bool   `form:"anyBranch"`
	ShiftDate   string `form:"shiftDate" binding:"required"`
	ShiftNumber *int   `form:"shiftNumber"`
}

// ToFilter converts the query to a domain shift filter.
func (q ShiftRecordsQuery) ToFilter() (finance.ShiftFilter, error) {
	date, err := ParseDate("shiftDate", q.ShiftDate)
	if err != nil {
		return finance.ShiftFilter{}, err
	}
	branchID, err := ParseOptionalID("branchId", q.BranchID)
	if err != nil {
		return finance.ShiftFilter{}, err
	}
	return finance.ShiftFilter{
		BranchID:    branchID,
		HasBranch:   !q.AnyBranch,
		ShiftDate:   date,
		ShiftNumber: q.ShiftNumber,
	}, nil
}

// --- Charge invoices ---

// CreateChargeInvoiceRequest records a credit sale. Number is assigned
// by the service when omitted.
type CreateChargeInvoiceRequest struct {
	BranchID     string        `json:"branchId"`
	InvoiceDate  string        `json:"invoiceDate"`
	CustomerName string        `json:"customerName" binding:"required"`
	FuelTypeID   string        `json:"fuelTypeId"`
	Liters       *types.Liters `json:"liters"`
	Amount       types.Money   `json:"amount"`
}

// ToEntity converts the request to a domain entity.
func (r CreateChargeInvoiceRequest) ToEntity() (*finance.ChargeInvoice, error) {
	inv := &finance.ChargeInvoice{
		CustomerName: r.CustomerName,
		Liters:       r.Liters,
		Amount:       r.Amount,
	}

	branchID, err := ParseOptionalID("branchId", r.BranchID)
	if err != nil {
		return nil, err
	}
	inv.BranchID = branchID

	if r.InvoiceDate != "" {
		date, err := ParseDate("invoiceDate", r.InvoiceDate)
		if err != nil {
			return nil, err
		}
		inv.InvoiceDate = date
	}

	fuelTypeID, err := ParseOptionalID("fuelTypeId", r.FuelTypeID)
	if err != nil {
		return nil, err
	}
	inv.FuelTypeID = fuelTypeID
	return inv, nil
}

// InvoicesQuery filters charge invoice listings by date range.
type InvoicesQuery struct {
	BranchID  string `form:"branchId"`
	AnyBranch bool   `form:"anyBranch"`
	From      string `form:"from" binding:"required"`
	To        string `form:"to" binding:"required"`
	Unpaid    bool   `form:"unpaid"`
}

// ToFilter converts the query to a domain invoice filter. The To date is
// inclusive on the wire; internally the range is half-open.
func (q InvoicesQuery) ToFilter() (finance.InvoiceFilter, error) {
	from, err := ParseDate("from", q.From)
	if err != nil {
		return finance.InvoiceFilter{}, err
	}
	to, err := ParseDate("to", q.To)
	if err != nil {
		return finance.InvoiceFilter{}, err
	}
	branchID, err := ParseOptionalID("branchId", q.BranchID)
	if err != nil {
		return finance.InvoiceFilter{}, err
	}
	return finance.InvoiceFilter{
		BranchID:  branchID,
		HasBranch: !q.AnyBranch,
		From:      from,
		To:        to.AddDate(0, 0, 1),
		Unpaid:    q.Unpaid,
	}, nil
}

// ChargeInvoiceResponse is the wire representation of a charge invoice.
type ChargeInvoiceResponse struct {
	ID           string        `json:"id"`
	Version      int           `json:"version"`
	Number       string        `json:"number"`
	BranchID     *string       `json:"branchId,omitempty"`
	InvoiceDate  string        `json:"invoiceDate"`
	CustomerName string        `json:"customerName"`
	FuelTypeID   *string       `json:"fuelTypeId,omitempty"`
	Liters       *types.Liters `json:"liters,omitempty"`
	Amount       types.Money   `json:"amount"`
	Paid         bool          `json:"paid"`
	PaidAt       *time.Time    `json:"paidAt,omitempty"`
	CreatedBy    string        `json:"createdBy,omitempty"`
}

// FromChargeInvoice creates ChargeInvoiceResponse from the domain entity.
func FromChargeInvoice(inv *finance.ChargeInvoice) ChargeInvoiceResponse {
	resp := ChargeInvoiceResponse{
		ID:           inv.ID.String(),
		Version:      inv.Version,
		Number:       inv.Number,
		InvoiceDate:  inv.InvoiceDate.Format(DateLayout),
		CustomerName: inv.CustomerName,
		Liters:       inv.Liters,
		Amount:       inv.Amount,
		Paid:         inv.Paid,
		PaidAt:       inv.PaidAt,
		CreatedBy:    inv.CreatedBy,
	}
	if inv.BranchID != nil {
		s := inv.BranchID.String()
		resp.BranchID = &s
	}
	if inv.FuelTypeID != nil {
		s := inv.FuelTypeID.String()
		resp.FuelTypeID = &s
	}
	return resp
}

// FromChargeInvoices maps a slice of invoices.
func FromChargeInvoices(invs []*finance.ChargeInvoice) []ChargeInvoiceResponse {
	result := make([]ChargeInvoiceResponse, 0, len(invs))
	for _, inv := range invs {
		result = append(result, FromChargeInvoice(inv))
	}
	return result
}

// --- Per-shift records ---

// CreateDepositRequest records a remittance slip.
type CreateDepositRequest struct {
	ShiftScopeRequest
	DepositNumber int         `json:"depositNumber" binding:"required,min=1"`
	PaymentMethod string      `json:"paymentMethod" binding:"required"`
	Amount        types.Money `json:"amount"`
	Reference     *string     `json:"reference"`
}

// ToEntity converts the request to a domain entity.
func (r CreateDepositRequest) ToEntity() (*finance.Deposit, error) {
	scope, err := r.ToScope()
	if err != nil {
		return nil, err
	}
	return &finance.Deposit{
		ShiftScope:    scope,
		DepositNumber: r.DepositNumber,
		PaymentMethod: finance.PaymentMethod(r.PaymentMethod),
		Amount:        r.Amount,
		Reference:     r.Reference,
	}, nil
}

// CreateCheckRequest records a check remittance.
type CreateCheckRequest struct {
	ShiftScopeRequest
	Bank         string      `json:"bank" binding:"required"`
	CheckNumber  string      `json:"checkNumber" binding:"required"`
	CheckDate    string      `json:"checkDate" binding:"required"`
	CustomerName string      `json:"customerName"`
	Amount       types.Money `json:"amount"`
}

// ToEntity converts the request to a domain entity.
func (r CreateCheckRequest) ToEntity() (*finance.Check, error) {
	scope, err := r.ToScope()
	if err != nil {
		return nil, err
	}
	checkDate, err := ParseDate("checkDate", r.CheckDate)
	if err != nil {
		return nil, err
	}
	return &finance.Check{
		ShiftScope:   scope,
		Bank:         r.Bank,
		CheckNumber:  r.CheckNumber,
		CheckDate:    checkDate,
		CustomerName: r.CustomerName,
		Amount:       r.Amount,
	}, nil
}

// CreateExpenseRequest records a cash outflow.
type CreateExpenseRequest struct {
	ShiftScopeRequest
	Nature string      `json:"nature" binding:"required"`
	Amount types.Money `json:"amount"`
}

// ToEntity converts the request to a domain entity.
func (r CreateExpenseRequest) ToEntity() (*finance.Expense, error) {
	scope, err := r.ToScope()
	if err != nil {
		return nil, err
	}
	return &finance.Expense{
		ShiftScope: scope,
		Nature:     r.Nature,
		Amount:     r.Amount,
	}, nil
}

// CreateDisbursementRequest records a purchase paid from shift proceeds.
type CreateDisbursementRequest struct {
	ShiftScopeRequest
	Particulars string      `json:"particulars" binding:"required"`
	Amount      types.Money `json:"amount"`
}

// ToEntity converts the request to a domain entity.
func (r CreateDisbursementRequest) ToEntity() (*finance.Disbursement, error) {
	scope, err := r.ToScope()
	if err != nil {
		return nil, err
	}
	return &finance.Disbursement{
		ShiftScope:  scope,
		Particulars: r.Particulars,
		Amount:      r.Amount,
	}, nil
}

// CreateProductSaleRequest records a non-fuel sale.
type CreateProductSaleRequest struct {
	ShiftScopeRequest
	Category    string      `json:"category" binding:"required"`
	Description string      `json:"description"`
	Amount      types.Money `json:"amount"`
}

// ToEntity converts the request to a domain entity.
func (r CreateProductSaleRequest) ToEntity() (*finance.ProductSale, error) {
	scope, err := r.ToScope()
	if err != nil {
		return nil, err
	}
	return &finance.ProductSale{
		ShiftScope:  scope,
		Category:    finance.ProductCategory(r.Category),
		Description: r.Description,
		Amount:      r.Amount,
	}, nil
}
