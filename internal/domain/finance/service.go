package finance

import (
	"context"
	"time"

	"stationops/internal/core/apperror"
	appctx "stationops/internal/core/context"
	"stationops/internal/core/entity"
	"stationops/internal/core/id"
	"stationops/internal/core/tx"
	"stationops/internal/domain/audit"
)

// NumberGenerator issues sequential document numbers (charge invoices).
type NumberGenerator interface {
	Next(ctx context.Context, prefix string) (string, error)
}

const invoicePrefix = "CI"

// Service provides business logic for financial records.
type Service struct {
	repo      Repository
	numerator NumberGenerator
	txManager tx.Manager
	audit     audit.Recorder
}

// NewService creates the finance service.
func NewService(repo Repository, numerator NumberGenerator, txManager tx.Manager, recorder audit.Recorder) *Service {
	return &Service{
		repo:      repo,
		numerator: numerator,
		txManager: txManager,
		audit:     recorder,
	}
}

// CreateChargeInvoice assigns a sequential number (CI-YYYY-NNNNN) and
// stores the credit sale.
func (s *Service) CreateChargeInvoice(ctx context.Context, inv *ChargeInvoice) error {
	if inv.ID == id.Nil() {
		inv.BaseRecord = entity.NewBaseRecord()
	}
	if inv.InvoiceDate.IsZero() {
		inv.InvoiceDate = time.Now().UTC()
	}
	if err := inv.Validate(ctx); err != nil {
		return err
	}

	if inv.Number == "" {
		number, err := s.numerator.Next(ctx, invoicePrefix)
		if err != nil {
			return apperror.NewCollaborator("invoice numbering", err)
		}
		inv.Number = number
	}

	s.stamp(ctx, &inv.BaseRecord)
	if err := s.repo.CreateChargeInvoice(ctx, inv); err != nil {
		return err
	}

	audit.BestEffort(ctx, s.audit, audit.Entry{
		Action:      audit.ActionCreate,
		EntityType:  "charge_invoice",
		EntityID:    inv.ID,
		Description: "charge invoice " + inv.Number + " for " + inv.CustomerName,
		NewValues:   map[string]any{"number": inv.Number, "amount": inv.Amount.String()},
		BranchID:    inv.BranchID,
	})
	return nil
}

// MarkInvoicePaid settles a charge invoice. Paying twice is a state error.
func (s *Service) MarkInvoicePaid(ctx context.Context, invID id.ID) (*ChargeInvoice, error) {
	var inv *ChargeInvoice

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.repo.GetChargeInvoiceByID(ctx, invID)
		if err != nil {
			return err
		}
		if inv.Paid {
			return apperror.NewInvalidState("invoice is already paid").
				WithDetail("invoiceId", invID).
				WithDetail("number", inv.Number)
		}
		now := time.Now().UTC()
		inv.Paid = true
		inv.PaidAt = &now
		inv.Touch()
		inv.UpdatedBy = appctx.GetActorName(ctx)
		return s.repo.UpdateChargeInvoice(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	audit.BestEffort(ctx, s.audit, audit.Entry{
		Action:      audit.ActionMarkPaid,
		EntityType:  "charge_invoice",
		EntityID:    inv.ID,
		Description: "invoice " + inv.Number + " marked paid",
		BranchID:    inv.BranchID,
	})
	return inv, nil
}

// GetChargeInvoice returns one invoice.
func (s *Service) GetChargeInvoice(ctx context.Context, invID id.ID) (*ChargeInvoice, error) {
	return s.repo.GetChargeInvoiceByID(ctx, invID)
}

// ListChargeInvoices returns invoices in a date range.
func (s *Service) ListChargeInvoices(ctx context.Context, filter InvoiceFilter) ([]*ChargeInvoice, error) {
	return s.repo.ListChargeInvoices(ctx, filter)
}

// CreateDeposit records a remittance slip for a shift.
func (s *Service) CreateDeposit(ctx context.Context, d *Deposit) error {
	if d.ID == id.Nil() {
		d.BaseRecord = entity.NewBaseRecord()
	}
	d.ShiftDate = normalizeDate(d.ShiftDate)
	if err := d.Validate(ctx); err != nil {
		return err
	}

	s.stamp(ctx, &d.BaseRecord)
	if err := s.repo.CreateDeposit(ctx, d); err != nil {
		return err
	}
	s.auditCreate(ctx, "deposit", d.ID, d.BranchID, d.Amount.String())
	return nil
}

// ListDeposits returns deposits for a shift.
func (s *Service) ListDeposits(ctx context.Context, filter ShiftFilter) ([]*Deposit, error) {
	return s.repo.ListDeposits(ctx, filter)
}

// CreateCheck records a check remittance for a shift.
func (s *Service) CreateCheck(ctx context.Context, c *Check) error {
	if c.ID == id.Nil() {
		c.BaseRecord = entity.NewBaseRecord()
	}
	c.ShiftDate = normalizeDate(c.ShiftDate)
	if err := c.Validate(ctx); err != nil {
		return err
	}

	s.stamp(ctx, &c.BaseRecord)
	if err := s.repo.CreateCheck(ctx, c); err != nil {
		return err
	}
	s.auditCreate(ctx, "check", c.ID, c.BranchID, c.Amount.String())
	return nil
}

// ListChecks returns checks for a shift.
func (s *Service) ListChecks(ctx context.Context, filter ShiftFilter) ([]*Check, error) {
	return s.repo.ListChecks(ctx, filter)
}

// CreateExpense records a cash outflow for a shift.
func (s *Service) CreateExpense(ctx context.Context, e *Expense) error {
	if e.ID == id.Nil() {
		e.BaseRecord = entity.NewBaseRecord()
	}
	e.ShiftDate = normalizeDate(e.ShiftDate)
	if err := e.Validate(ctx); err != nil {
		return err
	}

	s.stamp(ctx, &e.BaseRecord)
	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return err
	}
	s.auditCreate(ctx, "expense", e.ID, e.BranchID, e.Amount.String())
	return nil
}

// ListExpenses returns expenses for a shift.
func (s *Service) ListExpenses(ctx context.Context, filter ShiftFilter) ([]*Expense, error) {
	return s.repo.ListExpenses(ctx, filter)
}

// CreateDisbursement records a purchase for a shift.
func (s *Service) CreateDisbursement(ctx context.Context, d *Disbursement) error {
	if d.ID == id.Nil() {
		d.BaseRecord = entity.NewBaseRecord()
	}
	d.ShiftDate = normalizeDate(d.ShiftDate)
	if err := d.Validate(ctx); err != nil {
		return err
	}

	s.stamp(ctx, &d.BaseRecord)
	if err := s.repo.CreateDisbursement(ctx, d); err != nil {
		return err
	}
	s.auditCreate(ctx, "disbursement", d.ID, d.BranchID, d.Amount.String())
	return nil
}

// ListDisbursements returns purchases for a shift.
func (s *Service) ListDisbursements(ctx context.Context, filter ShiftFilter) ([]*Disbursement, error) {
	return s.repo.ListDisbursements(ctx, filter)
}

// CreateProductSale records a non-fuel sale for a shift.
func (s *Service) CreateProductSale(ctx context.Context, p *ProductSale) error {
	if p.ID == id.Nil() {
		p.BaseRecord = entity.NewBaseRecord()
	}
	p.ShiftDate = normalizeDate(p.ShiftDate)
	if err := p.Validate(ctx); err != nil {
		return err
	}

	s.stamp(ctx, &p.BaseRecord)
	if err := s.repo.CreateProductSale(ctx, p); err != nil {
		return err
	}
	s.auditCreate(ctx, "product_sale", p.ID, p.BranchID, p.Amount.String())
	return nil
}

// ListProductSales returns non-fuel sales for a shift.
func (s *Service) ListProductSales(ctx context.Context, filter ShiftFilter) ([]*ProductSale, error) {
	return s.repo.ListProductSales(ctx, filter)
}

func (s *Service) stamp(ctx context.Context, b *entity.BaseRecord) {
	actor := appctx.GetActorName(ctx)
	if b.CreatedBy == "" {
		b.CreatedBy = actor
	}
	b.UpdatedBy = actor
}

func (s *Service) auditCreate(ctx context.Context, entityType string, entityID id.ID, branchID *id.ID, amount string) {
	audit.BestEffort(ctx, s.audit, audit.Entry{
		Action:     audit.ActionCreate,
		EntityType: entityType,
		EntityID:   entityID,
		NewValues:  map[string]any{"amount": amount},
		BranchID:   branchID,
	})
}

func normalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
