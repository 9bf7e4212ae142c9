package finance

import (
	"context"
	"time"

	"stationops/internal/core/id"
)

// ShiftFilter narrows listings to one shift; HasBranch distinguishes
// "any branch" from "branch IS NULL".
type ShiftFilter struct {
	BranchID    *id.ID
	HasBranch   bool
	ShiftDate   time.Time
	ShiftNumber *int
}

// InvoiceFilter narrows charge invoice listings. Charge invoices are
// date-scoped (full calendar day boundaries, inclusive), not shift-scoped.
type InvoiceFilter struct {
	BranchID  *id.ID
	HasBranch bool
	From      time.Time
	To        time.Time
	Unpaid    bool
}

// Repository is the storage port for financial records.
type Repository interface {
	CreateChargeInvoice(ctx context.Context, inv *ChargeInvoice) error
	UpdateChargeInvoice(ctx context.Context, inv *ChargeInvoice) error
	GetChargeInvoiceByID(ctx context.Context, invID id.ID) (*ChargeInvoice, error)
	ListChargeInvoices(ctx context.Context, filter InvoiceFilter) ([]*ChargeInvoice, error)

	CreateDeposit(ctx context.Context, d *Deposit) error
	ListDeposits(ctx context.Context, filter ShiftFilter) ([]*Deposit, error)

	CreateCheck(ctx context.Context, c *Check) error
	ListChecks(ctx context.Context, filter ShiftFilter) ([]*Check, error)

	CreateExpense(ctx context.Context, e *Expense) error
	ListExpenses(ctx context.Context, filter ShiftFilter) ([]*Expense, error)

	CreateDisbursement(ctx context.Context, d *Disbursement) error
	ListDisbursements(ctx context.Context, filter ShiftFilter) ([]*Disbursement, error)

	CreateProductSale(ctx context.Context, p *ProductSale) error
	ListProductSales(ctx context.Context, filter ShiftFilter) ([]*ProductSale, error)
}
