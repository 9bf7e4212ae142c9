package finance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stationops/internal/core/apperror"
	"stationops/internal/core/entity"
	"stationops/internal/core/types"
)

var testScope = ShiftScope{
	ShiftDate:   time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC),
	ShiftNumber: 1,
}

func TestDepositValidate(t *testing.T) {
	d := &Deposit{
		BaseRecord:    entity.NewBaseRecord(),
		ShiftScope:    testScope,
		DepositNumber: 1,
		PaymentMethod: PaymentCash,
		Amount:        types.MustMoney("5000.00"),
	}
	assert.NoError(t, d.Validate(context.Background()))

	bad := *d
	bad.PaymentMethod = "credit"
	assert.True(t, apperror.IsValidation(bad.Validate(context.Background())))

	bad = *d
	bad.Amount = types.Zero()
	assert.True(t, apperror.IsValidation(bad.Validate(context.Background())))

	bad = *d
	bad.DepositNumber = 0
	assert.True(t, apperror.IsValidation(bad.Validate(context.Background())))

	bad = *d
	bad.ShiftNumber = 0
	assert.True(t, apperror.IsValidation(bad.Validate(context.Background())))
}

func TestChargeInvoiceValidate(t *testing.T) {
	inv := &ChargeInvoice{
		BaseRecord:   entity.NewBaseRecord(),
		Number:       "CI-000001",
		InvoiceDate:  testScope.ShiftDate,
		CustomerName: "Hauler Co",
		Amount:       types.MustMoney("3000.00"),
	}
	assert.NoError(t, inv.Validate(context.Background()))

	bad := *inv
	bad.CustomerName = ""
	assert.True(t, apperror.IsValidation(bad.Validate(context.Background())))

	bad = *inv
	bad.Amount = types.MustMoney("-1")
	assert.True(t, apperror.IsValidation(bad.Validate(context.Background())))

	bad = *inv
	negLiters := types.MustLiters("-10")
	bad.Liters = &negLiters
	assert.True(t, apperror.IsValidation(bad.Validate(context.Background())))
}

func TestCheckValidate(t *testing.T) {
	c := &Check{
		BaseRecord:  entity.NewBaseRecord(),
		ShiftScope:  testScope,
		Bank:        "BDO",
		CheckNumber: "0001234",
		CheckDate:   testScope.ShiftDate,
		Amount:      types.MustMoney("1500.00"),
	}
	assert.NoError(t, c.Validate(context.Background()))

	bad := *c
	bad.Bank = ""
	assert.True(t, apperror.IsValidation(bad.Validate(context.Background())))
}

func TestExpenseValidate(t *testing.T) {
	e := &Expense{
		BaseRecord: entity.NewBaseRecord(),
		ShiftScope: testScope,
		Nature:     "ice and water",
		Amount:     types.MustMoney("120.00"),
	}
	assert.NoError(t, e.Validate(context.Background()))

	bad := *e
	bad.Nature = ""
	assert.True(t, apperror.IsValidation(bad.Validate(context.Background())))
}

func TestProductSaleValidate(t *testing.T) {
	p := &ProductSale{
		BaseRecord: entity.NewBaseRecord(),
		ShiftScope: testScope,
		Category:   CategoryOilLubes,
		Amount:     types.MustMoney("450.00"),
	}
	assert.NoError(t, p.Validate(context.Background()))

	bad := *p
	bad.Category = "snacks"
	assert.True(t, apperror.IsValidation(bad.Validate(context.Background())))
}
