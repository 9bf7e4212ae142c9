// Package finance holds the per-shift financial records that reconcile
// against fuel sales: charge invoices (credit sales), deposits, checks,
// expenses, disbursements and non-fuel product sales.
package finance

import (
	"context"
	"time"

	"stationops/internal/core/apperror"
	"stationops/internal/core/entity"
	"stationops/internal/core/id"
	"stationops/internal/core/types"
)

// ShiftScope identifies the shift a financial record belongs to.
type ShiftScope struct {
	BranchID    *id.ID    `db:"branch_id" json:"branchId,omitempty"`
	ShiftDate   time.Time `db:"shift_date" json:"shiftDate"`
	ShiftNumber int       `db:"shift_number" json:"shiftNumber"`
}

func (s ShiftScope) validate() error {
	if s.ShiftNumber <= 0 {
		return apperror.NewValidation("shift number must be positive").
			WithDetail("field", "shiftNumber").
			WithDetail("value", s.ShiftNumber)
	}
	return nil
}

// PaymentMethod for deposits.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentGcash PaymentMethod = "gcash"
)

// ProductCategory groups non-fuel sales.
type ProductCategory string

const (
	CategoryOilLubes      ProductCategory = "oil_lubes"
	CategoryAccessories   ProductCategory = "accessories"
	CategoryServices      ProductCategory = "services"
	CategoryMiscellaneous ProductCategory = "miscellaneous"
)

// ChargeInvoice is a credit sale: fuel dispensed without immediate
// payment, tracked as receivable until marked paid.
type ChargeInvoice struct {
	entity.BaseRecord

	Number       string        `db:"number" json:"number"`
	BranchID     *id.ID        `db:"branch_id" json:"branchId,omitempty"`
	InvoiceDate  time.Time     `db:"invoice_date" json:"invoiceDate"`
	CustomerName string        `db:"customer_name" json:"customerName"`
	FuelTypeID   *id.ID        `db:"fuel_type_id" json:"fuelTypeId,omitempty"`
	Liters       *types.Liters `db:"liters" json:"liters,omitempty"`
	Amount       types.Money   `db:"amount" json:"amount"`
	Paid         bool          `db:"paid" json:"paid"`
	PaidAt       *time.Time    `db:"paid_at" json:"paidAt,omitempty"`
}

// Validate implements entity.Validatable.
func (c *ChargeInvoice) Validate(ctx context.Context) error {
	if c.CustomerName == "" {
		return apperror.NewValidation("customer name is required").
			WithDetail("field", "customerName")
	}
	if !c.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount").
			WithDetail("value", c.Amount.String())
	}
	if c.Liters != nil && c.Liters.IsNegative() {
		return apperror.NewValidation("liters must not be negative").
			WithDetail("field", "liters")
	}
	return nil
}

// Deposit is a cash or electronic remittance for a shift. Stations number
// their deposit slips per shift (deposit 1, deposit 2, ...).
type Deposit struct {
	entity.BaseRecord
	ShiftScope

	DepositNumber int           `db:"deposit_number" json:"depositNumber"`
	PaymentMethod PaymentMethod `db:"payment_method" json:"paymentMethod"`
	Amount        types.Money   `db:"amount" json:"amount"`
	Reference     *string       `db:"reference" json:"reference,omitempty"`
}

// Validate implements entity.Validatable.
func (d *Deposit) Validate(ctx context.Context) error {
	if err := d.ShiftScope.validate(); err != nil {
		return err
	}
	if d.DepositNumber <= 0 {
		return apperror.NewValidation("deposit number must be positive").
			WithDetail("field", "depositNumber")
	}
	if d.PaymentMethod != PaymentCash && d.PaymentMethod != PaymentGcash {
		return apperror.NewValidation("unknown payment method").
			WithDetail("field", "paymentMethod").
			WithDetail("value", string(d.PaymentMethod))
	}
	if !d.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}
	return nil
}

// Check is a check remittance for a shift.
type Check struct {
	entity.BaseRecord
	ShiftScope

	Bank         string      `db:"bank" json:"bank"`
	CheckNumber  string      `db:"check_number" json:"checkNumber"`
	CheckDate    time.Time   `db:"check_date" json:"checkDate"`
	CustomerName string      `db:"customer_name" json:"customerName"`
	Amount       types.Money `db:"amount" json:"amount"`
}

// Validate implements entity.Validatable.
func (c *Check) Validate(ctx context.Context) error {
	if err := c.ShiftScope.validate(); err != nil {
		return err
	}
	if c.Bank == "" {
		return apperror.NewValidation("bank is required").
			WithDetail("field", "bank")
	}
	if !c.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}
	return nil
}

// Expense is a cash outflow paid from shift proceeds.
type Expense struct {
	entity.BaseRecord
	ShiftScope

	Nature string      `db:"nature" json:"nature"`
	Amount types.Money `db:"amount" json:"amount"`
}

// Validate implements entity.Validatable.
func (e *Expense) Validate(ctx context.Context) error {
	if err := e.ShiftScope.validate(); err != nil {
		return err
	}
	if e.Nature == "" {
		return apperror.NewValidation("nature is required").
			WithDetail("field", "nature")
	}
	if !e.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}
	return nil
}

// Disbursement is a purchase paid from shift proceeds (stock, supplies).
type Disbursement struct {
	entity.BaseRecord
	ShiftScope

	Particulars string      `db:"particulars" json:"particulars"`
	Amount      types.Money `db:"amount" json:"amount"`
}

// Validate implements entity.Validatable.
func (d *Disbursement) Validate(ctx context.Context) error {
	if err := d.ShiftScope.validate(); err != nil {
		return err
	}
	if d.Particulars == "" {
		return apperror.NewValidation("particulars is required").
			WithDetail("field", "particulars")
	}
	if !d.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}
	return nil
}

// ProductSale is a non-fuel sale entry, grouped by category for the
// accountability report.
type ProductSale struct {
	entity.BaseRecord
	ShiftScope

	Category    ProductCategory `db:"category" json:"category"`
	Description string          `db:"description" json:"description,omitempty"`
	Amount      types.Money     `db:"amount" json:"amount"`
}

// Validate implements entity.Validatable.
func (p *ProductSale) Validate(ctx context.Context) error {
	if err := p.ShiftScope.validate(); err != nil {
		return err
	}
	switch p.Category {
	case CategoryOilLubes, CategoryAccessories, CategoryServices, CategoryMiscellaneous:
	default:
		return apperror.NewValidation("unknown product category").
			WithDetail("field", "category").
			WithDetail("value", string(p.Category))
	}
	if !p.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}
	return nil
}
