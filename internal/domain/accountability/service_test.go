package accountability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationops/internal/core/apperror"
	"stationops/internal/core/entity"
	"stationops/internal/core/types"
	"stationops/internal/domain/catalogs/fueltype"
	"stationops/internal/domain/finance"
	"stationops/internal/domain/readings"
)

// --- Fakes ---

type fakeReadings struct {
	rows []*readings.ShiftFuelReading
	err  error
}

func (f *fakeReadings) List(context.Context, readings.ListFilter) ([]*readings.ShiftFuelReading, error) {
	return f.rows, f.err
}

type fakeCatalog struct {
	types []*fueltype.FuelType
}

func (f *fakeCatalog) ListActive(context.Context) ([]*fueltype.FuelType, error) {
	return f.types, nil
}

type fakeFinance struct {
	invoices      []*finance.ChargeInvoice
	deposits      []*finance.Deposit
	checks        []*finance.Check
	expenses      []*finance.Expense
	disbursements []*finance.Disbursement
	sales         []*finance.ProductSale

	depositsErr error
	salesErr    error
}

func (f *fakeFinance) ListChargeInvoices(context.Context, finance.InvoiceFilter) ([]*finance.ChargeInvoice, error) {
	return f.invoices, nil
}

func (f *fakeFinance) ListDeposits(context.Context, finance.ShiftFilter) ([]*finance.Deposit, error) {
	return f.deposits, f.depositsErr
}

func (f *fakeFinance) ListChecks(context.Context, finance.ShiftFilter) ([]*finance.Check, error) {
	return f.checks, nil
}

func (f *fakeFinance) ListExpenses(context.Context, finance.ShiftFilter) ([]*finance.Expense, error) {
	return f.expenses, nil
}

func (f *fakeFinance) ListDisbursements(context.Context, finance.ShiftFilter) ([]*finance.Disbursement, error) {
	return f.disbursements, nil
}

func (f *fakeFinance) ListProductSales(context.Context, finance.ShiftFilter) ([]*finance.ProductSale, error) {
	return f.sales, f.salesErr
}

// --- Fixture helpers ---

var testDay = time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)

func closedReading(ft *fueltype.FuelType, liters, value string) *readings.ShiftFuelReading {
	r := readings.NewShiftFuelReading(readings.ScopeKey{
		ShiftDate:   testDay,
		ShiftNumber: 1,
		FuelTypeID:  ft.ID,
	}, types.MustLiters("0"))
	l := types.MustLiters(liters)
	v := types.MustMoney(value)
	r.LitersDispensed = &l
	r.TotalValue = &v
	r.PricePerLiter = ft.CurrentPrice
	r.Status = readings.StatusClosed
	return r
}

func deposit(method finance.PaymentMethod, amount string) *finance.Deposit {
	return &finance.Deposit{
		BaseRecord:    entity.NewBaseRecord(),
		ShiftScope:    finance.ShiftScope{ShiftDate: testDay, ShiftNumber: 1},
		PaymentMethod: method,
		DepositNumber: 1,
		Amount:        types.MustMoney(amount),
	}
}

func shiftScope() Scope {
	one := 1
	return Scope{Date: testDay, ShiftNumber: &one}
}

// A shift sells 23000 in fuel, issues 3000 in charge invoices and pays
// 500 of expenses from the drawer. Cash deposits of 18000 leave the
// shift 1500 short:
//
//	expected remittance = 23000 - 3000 - 500 = 19500
//	short/over          = 18000 - 19500     = -1500
func TestComputeAccountabilityShort(t *testing.T) {
	diesel := fueltype.NewFuelType("DSL", "Diesel", types.MustMoney("60.00"))
	svc := NewService(
		&fakeReadings{rows: []*readings.ShiftFuelReading{
			closedReading(diesel, "383.333", "23000.00"),
		}},
		&fakeCatalog{types: []*fueltype.FuelType{diesel}},
		&fakeFinance{
			invoices: []*finance.ChargeInvoice{{
				BaseRecord:   entity.NewBaseRecord(),
				Number:       "CI-000001",
				InvoiceDate:  testDay,
				CustomerName: "Hauler Co",
				Amount:       types.MustMoney("3000.00"),
			}},
			expenses: []*finance.Expense{{
				BaseRecord: entity.NewBaseRecord(),
				ShiftScope: finance.ShiftScope{ShiftDate: testDay, ShiftNumber: 1},
				Nature:     "ice and water",
				Amount:     types.MustMoney("500.00"),
			}},
			deposits: []*finance.Deposit{deposit(finance.PaymentCash, "18000.00")},
		},
	)

	report, err := svc.ComputeAccountability(context.Background(), shiftScope())
	require.NoError(t, err)

	assert.True(t, report.TotalFuelSales.Equal(types.MustMoney("23000.00")))
	assert.True(t, report.TotalAccountability.Equal(types.MustMoney("23000.00")))
	assert.True(t, report.TotalChargeInvoices.Equal(types.MustMoney("3000.00")))
	assert.True(t, report.TotalExpenses.Equal(types.MustMoney("500.00")))
	assert.True(t, report.TotalRemittance.Equal(types.MustMoney("18000.00")))
	assert.True(t, report.ShortOver.Equal(types.MustMoney("-1500.00")),
		"got %s", report.ShortOver.String())
	assert.False(t, report.Partial)

	require.Len(t, report.FuelLines, 1)
	assert.Equal(t, "DSL", report.FuelLines[0].ShortCode)
	assert.Equal(t, types.MustLiters("383.333"), report.FuelLines[0].LitersDispensed)
}

func TestComputeAccountabilityDepositSplit(t *testing.T) {
	diesel := fueltype.NewFuelType("DSL", "Diesel", types.MustMoney("60.00"))
	svc := NewService(
		&fakeReadings{},
		&fakeCatalog{types: []*fueltype.FuelType{diesel}},
		&fakeFinance{deposits: []*finance.Deposit{
			deposit(finance.PaymentCash, "10000.00"),
			deposit(finance.PaymentGcash, "2500.00"),
		}},
	)

	report, err := svc.ComputeAccountability(context.Background(), shiftScope())
	require.NoError(t, err)

	assert.True(t, report.TotalDeposits.Equal(types.MustMoney("12500.00")))
	assert.True(t, report.TotalCashDeposits.Equal(types.MustMoney("10000.00")))
	assert.True(t, report.TotalGcashDeposits.Equal(types.MustMoney("2500.00")))
	assert.True(t, report.TotalRemittance.Equal(types.MustMoney("12500.00")))
}

func TestComputeAccountabilityOpenReadingContributesZero(t *testing.T) {
	diesel := fueltype.NewFuelType("DSL", "Diesel", types.MustMoney("60.00"))

	open := readings.NewShiftFuelReading(readings.ScopeKey{
		ShiftDate:   testDay,
		ShiftNumber: 1,
		FuelTypeID:  diesel.ID,
	}, types.MustLiters("1000"))
	// An ending was entered but the reading was never closed: the report
	// must not recompute from raw fields.
	ending := types.MustLiters("1250.500")
	open.EndingReading = &ending

	svc := NewService(
		&fakeReadings{rows: []*readings.ShiftFuelReading{open}},
		&fakeCatalog{types: []*fueltype.FuelType{diesel}},
		&fakeFinance{},
	)

	report, err := svc.ComputeAccountability(context.Background(), shiftScope())
	require.NoError(t, err)

	require.Len(t, report.FuelLines, 1)
	assert.Equal(t, readings.StatusOpen, report.FuelLines[0].Status)
	assert.Equal(t, types.Liters(0), report.FuelLines[0].LitersDispensed)
	assert.True(t, report.TotalFuelSales.IsZero())
}

func TestComputeAccountabilityReadingsFailureAborts(t *testing.T) {
	svc := NewService(
		&fakeReadings{err: errors.New("connection reset")},
		&fakeCatalog{},
		&fakeFinance{},
	)

	_, err := svc.ComputeAccountability(context.Background(), shiftScope())
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeCollaborator, appErr.Code)
}

func TestComputeAccountabilitySiblingFailureIsPartial(t *testing.T) {
	diesel := fueltype.NewFuelType("DSL", "Diesel", types.MustMoney("60.00"))
	svc := NewService(
		&fakeReadings{rows: []*readings.ShiftFuelReading{
			closedReading(diesel, "100", "6000.00"),
		}},
		&fakeCatalog{types: []*fueltype.FuelType{diesel}},
		&fakeFinance{
			depositsErr: errors.New("timeout"),
			checks: []*finance.Check{{
				BaseRecord: entity.NewBaseRecord(),
				ShiftScope: finance.ShiftScope{ShiftDate: testDay, ShiftNumber: 1},
				Bank:       "BDO",
				Amount:     types.MustMoney("1000.00"),
			}},
		},
	)

	report, err := svc.ComputeAccountability(context.Background(), shiftScope())
	require.NoError(t, err)

	assert.True(t, report.Partial)
	assert.Equal(t, CategoryUnavailable, report.Categories.Deposits)
	assert.Equal(t, CategoryOK, report.Categories.Checks)
	// Unavailable category contributes zero but is flagged, never silent
	assert.True(t, report.TotalDeposits.IsZero())
	assert.True(t, report.TotalChecks.Equal(types.MustMoney("1000.00")))
	assert.True(t, report.TotalFuelSales.Equal(types.MustMoney("6000.00")))
}

func TestComputeAccountabilityProductCategories(t *testing.T) {
	sale := func(cat finance.ProductCategory, amount string) *finance.ProductSale {
		return &finance.ProductSale{
			BaseRecord: entity.NewBaseRecord(),
			ShiftScope: finance.ShiftScope{ShiftDate: testDay, ShiftNumber: 1},
			Category:   cat,
			Amount:     types.MustMoney(amount),
		}
	}

	svc := NewService(
		&fakeReadings{},
		&fakeCatalog{},
		&fakeFinance{sales: []*finance.ProductSale{
			sale(finance.CategoryOilLubes, "450.00"),
			sale(finance.CategoryOilLubes, "150.00"),
			sale(finance.CategoryServices, "200.00"),
		}},
	)

	report, err := svc.ComputeAccountability(context.Background(), shiftScope())
	require.NoError(t, err)

	assert.True(t, report.ProductSales.OilLubes.Equal(types.MustMoney("600.00")))
	assert.True(t, report.ProductSales.Services.Equal(types.MustMoney("200.00")))
	assert.True(t, report.ProductSales.Accessories.IsZero())
	assert.True(t, report.TotalAccountability.Equal(types.MustMoney("800.00")))
}

func TestComputeAccountabilityRequiresShiftNumber(t *testing.T) {
	svc := NewService(&fakeReadings{}, &fakeCatalog{}, &fakeFinance{})

	_, err := svc.ComputeAccountability(context.Background(), Scope{Date: testDay})
	assert.True(t, apperror.IsValidation(err))

	zero := 0
	_, err = svc.ComputeAccountability(context.Background(), Scope{Date: testDay, ShiftNumber: &zero})
	assert.True(t, apperror.IsValidation(err))
}

func TestComputeDailyReport(t *testing.T) {
	diesel := fueltype.NewFuelType("DSL", "Diesel", types.MustMoney("60.00"))

	shift1 := closedReading(diesel, "100", "6000.00")
	shift2 := closedReading(diesel, "200", "12000.00")
	shift2.ShiftNumber = 2

	svc := NewService(
		&fakeReadings{rows: []*readings.ShiftFuelReading{shift1, shift2}},
		&fakeCatalog{types: []*fueltype.FuelType{diesel}},
		&fakeFinance{},
	)

	report, err := svc.ComputeDailyReport(context.Background(), nil, false, testDay)
	require.NoError(t, err)

	assert.Nil(t, report.ShiftNumber)
	assert.Len(t, report.FuelLines, 2)
	assert.True(t, report.TotalFuelSales.Equal(types.MustMoney("18000.00")))
}
