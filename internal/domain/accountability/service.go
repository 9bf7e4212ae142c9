package accountability

import (
	"context"
	"time"

	"stationops/internal/core/apperror"
	"stationops/internal/core/id"
	"stationops/internal/core/types"
	"stationops/internal/domain/catalogs/fueltype"
	"stationops/internal/domain/finance"
	"stationops/internal/domain/readings"
	"stationops/pkg/logger"
)

// ReadingSource supplies readings for a scope.
type ReadingSource interface {
	List(ctx context.Context, filter readings.ListFilter) ([]*readings.ShiftFuelReading, error)
}

// FuelCatalog supplies fuel type display fields for the per-fuel breakdown.
type FuelCatalog interface {
	ListActive(ctx context.Context) ([]*fueltype.FuelType, error)
}

// FinanceSource supplies the sibling financial categories.
type FinanceSource interface {
	ListChargeInvoices(ctx context.Context, filter finance.InvoiceFilter) ([]*finance.ChargeInvoice, error)
	ListDeposits(ctx context.Context, filter finance.ShiftFilter) ([]*finance.Deposit, error)
	ListChecks(ctx context.Context, filter finance.ShiftFilter) ([]*finance.Check, error)
	ListExpenses(ctx context.Context, filter finance.ShiftFilter) ([]*finance.Expense, error)
	ListDisbursements(ctx context.Context, filter finance.ShiftFilter) ([]*finance.Disbursement, error)
	ListProductSales(ctx context.Context, filter finance.ShiftFilter) ([]*finance.ProductSale, error)
}

// Service builds accountability reports. A readings fetch failure aborts
// the report (fuel is the backbone); a sibling category failure marks the
// category unavailable and flags the report partial.
type Service struct {
	readings  ReadingSource
	fuelTypes FuelCatalog
	finance   FinanceSource
}

// NewService creates the aggregator.
func NewService(readingSource ReadingSource, fuelTypes FuelCatalog, financeSource FinanceSource) *Service {
	return &Service{
		readings:  readingSource,
		fuelTypes: fuelTypes,
		finance:   financeSource,
	}
}

// ComputeAccountability builds the report for one shift.
func (s *Service) ComputeAccountability(ctx context.Context, scope Scope) (*Report, error) {
	if scope.ShiftNumber == nil {
		return nil, apperror.NewValidation("shift number is required").
			WithDetail("field", "shiftNumber")
	}
	if *scope.ShiftNumber <= 0 {
		return nil, apperror.NewValidation("shift number must be positive").
			WithDetail("field", "shiftNumber").
			WithDetail("value", *scope.ShiftNumber)
	}
	return s.compute(ctx, scope)
}

// ComputeDailyReport builds the report across all shifts of a date.
func (s *Service) ComputeDailyReport(ctx context.Context, branchID *id.ID, hasBranch bool, date time.Time) (*Report, error) {
	return s.compute(ctx, Scope{
		BranchID:  branchID,
		HasBranch: hasBranch,
		Date:      date,
	})
}

func (s *Service) compute(ctx context.Context, scope Scope) (*Report, error) {
	day := readings.NormalizeDate(scope.Date)

	report := &Report{
		BranchID:    scope.BranchID,
		Date:        day,
		ShiftNumber: scope.ShiftNumber,
		GeneratedAt: time.Now().UTC(),
		Categories: CategoryStatuses{
			ProductSales:   CategoryOK,
			ChargeInvoices: CategoryOK,
			Deposits:       CategoryOK,
			Checks:         CategoryOK,
			Expenses:       CategoryOK,
			Disbursements:  CategoryOK,
		},
	}

	rows, err := s.readings.List(ctx, readings.ListFilter{
		BranchID:    scope.BranchID,
		HasBranch:   scope.HasBranch,
		ShiftDate:   &day,
		ShiftNumber: scope.ShiftNumber,
	})
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewCollaborator("shift readings", err)
	}

	active, err := s.fuelTypes.ListActive(ctx)
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewCollaborator("fuel type catalog", err)
	}
	names := make(map[id.ID]*fueltype.FuelType, len(active))
	for _, ft := range active {
		names[ft.ID] = ft
	}

	totalFuel := types.Zero()
	for _, r := range rows {
		line := FuelLine{
			FuelTypeID:    r.FuelTypeID,
			Status:        r.Status,
			PricePerLiter: r.PricePerLiter,
		}
		if ft, ok := names[r.FuelTypeID]; ok {
			line.ShortCode = ft.ShortCode
			line.Name = ft.Name
		}
		// Open readings contribute zero: the report only ever reads the
		// persisted derived fields, never recomputes them.
		if r.LitersDispensed != nil {
			line.LitersDispensed = *r.LitersDispensed
		}
		if r.TotalValue != nil {
			line.TotalValue = *r.TotalValue
			totalFuel = totalFuel.Add(*r.TotalValue)
		}
		report.FuelLines = append(report.FuelLines, line)
	}
	report.TotalFuelSales = totalFuel

	shiftFilter := finance.ShiftFilter{
		BranchID:    scope.BranchID,
		HasBranch:   scope.HasBranch,
		ShiftDate:   day,
		ShiftNumber: scope.ShiftNumber,
	}

	// Sibling categories: a failed fetch must stay distinguishable from a
	// legitimately empty one, so it marks the category unavailable rather
	// than contributing a silent zero.
	if sales, err := s.finance.ListProductSales(ctx, shiftFilter); err != nil {
		s.markUnavailable(ctx, report, &report.Categories.ProductSales, "product_sales", err)
	} else {
		for _, p := range sales {
			switch p.Category {
			case finance.CategoryOilLubes:
				report.ProductSales.OilLubes = report.ProductSales.OilLubes.Add(p.Amount)
			case finance.CategoryAccessories:
				report.ProductSales.Accessories = report.ProductSales.Accessories.Add(p.Amount)
			case finance.CategoryServices:
				report.ProductSales.Services = report.ProductSales.Services.Add(p.Amount)
			case finance.CategoryMiscellaneous:
				report.ProductSales.Miscellaneous = report.ProductSales.Miscellaneous.Add(p.Amount)
			}
		}
	}

	invoiceFilter := finance.InvoiceFilter{
		BranchID:  scope.BranchID,
		HasBranch: scope.HasBranch,
		From:      day,
		To:        day.AddDate(0, 0, 1),
	}
	if invoices, err := s.finance.ListChargeInvoices(ctx, invoiceFilter); err != nil {
		s.markUnavailable(ctx, report, &report.Categories.ChargeInvoices, "charge_invoices", err)
	} else {
		for _, inv := range invoices {
			report.TotalChargeInvoices = report.TotalChargeInvoices.Add(inv.Amount)
		}
	}

	if deposits, err := s.finance.ListDeposits(ctx, shiftFilter); err != nil {
		s.markUnavailable(ctx, report, &report.Categories.Deposits, "deposits", err)
	} else {
		for _, d := range deposits {
			report.TotalDeposits = report.TotalDeposits.Add(d.Amount)
			switch d.PaymentMethod {
			case finance.PaymentCash:
				report.TotalCashDeposits = report.TotalCashDeposits.Add(d.Amount)
			case finance.PaymentGcash:
				report.TotalGcashDeposits = report.TotalGcashDeposits.Add(d.Amount)
			}
		}
	}

	if checks, err := s.finance.ListChecks(ctx, shiftFilter); err != nil {
		s.markUnavailable(ctx, report, &report.Categories.Checks, "checks", err)
	} else {
		for _, c := range checks {
			report.TotalChecks = report.TotalChecks.Add(c.Amount)
		}
	}

	if expenses, err := s.finance.ListExpenses(ctx, shiftFilter); err != nil {
		s.markUnavailable(ctx, report, &report.Categories.Expenses, "expenses", err)
	} else {
		for _, e := range expenses {
			report.TotalExpenses = report.TotalExpenses.Add(e.Amount)
		}
	}

	if purchases, err := s.finance.ListDisbursements(ctx, shiftFilter); err != nil {
		s.markUnavailable(ctx, report, &report.Categories.Disbursements, "disbursements", err)
	} else {
		for _, d := range purchases {
			report.TotalPurchases = report.TotalPurchases.Add(d.Amount)
		}
	}

	report.TotalAccountability = report.TotalFuelSales.Add(report.ProductSales.Sum())
	report.TotalRemittance = report.TotalDeposits.Add(report.TotalChecks)
	report.ShortOver = report.TotalRemittance.Sub(
		report.TotalAccountability.
			Sub(report.TotalChargeInvoices).
			Sub(report.TotalExpenses).
			Sub(report.TotalPurchases),
	)

	return report, nil
}

func (s *Service) markUnavailable(ctx context.Context, report *Report, status *CategoryStatus, category string, err error) {
	*status = CategoryUnavailable
	report.Partial = true
	logger.Warn(ctx, "accountability category fetch failed",
		"category", category,
		"error", err,
	)
}
