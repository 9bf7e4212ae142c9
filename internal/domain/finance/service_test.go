package finance

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationops/internal/core/apperror"
	"stationops/internal/core/id"
	"stationops/internal/core/types"
)

type fakeRepo struct {
	invoices map[id.ID]*ChargeInvoice
	deposits []*Deposit
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{invoices: make(map[id.ID]*ChargeInvoice)}
}

func (f *fakeRepo) CreateChargeInvoice(_ context.Context, inv *ChargeInvoice) error {
	for _, existing := range f.invoices {
		if existing.Number == inv.Number {
			return apperror.NewConflict("an invoice with this number already exists")
		}
	}
	cp := *inv
	f.invoices[inv.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateChargeInvoice(_ context.Context, inv *ChargeInvoice) error {
	if _, ok := f.invoices[inv.ID]; !ok {
		return apperror.NewNotFound("charge invoice", inv.ID)
	}
	cp := *inv
	f.invoices[inv.ID] = &cp
	return nil
}

func (f *fakeRepo) GetChargeInvoiceByID(_ context.Context, invID id.ID) (*ChargeInvoice, error) {
	inv, ok := f.invoices[invID]
	if !ok {
		return nil, apperror.NewNotFound("charge invoice", invID)
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeRepo) ListChargeInvoices(context.Context, InvoiceFilter) ([]*ChargeInvoice, error) {
	out := make([]*ChargeInvoice, 0, len(f.invoices))
	for _, inv := range f.invoices {
		out = append(out, inv)
	}
	return out, nil
}

func (f *fakeRepo) CreateDeposit(_ context.Context, d *Deposit) error {
	cp := *d
	f.deposits = append(f.deposits, &cp)
	return nil
}

func (f *fakeRepo) ListDeposits(context.Context, ShiftFilter) ([]*Deposit, error) {
	return f.deposits, nil
}

func (f *fakeRepo) CreateCheck(context.Context, *Check) error               { return nil }
func (f *fakeRepo) ListChecks(context.Context, ShiftFilter) ([]*Check, error) { return nil, nil }

func (f *fakeRepo) CreateExpense(context.Context, *Expense) error { return nil }
func (f *fakeRepo) ListExpenses(context.Context, ShiftFilter) ([]*Expense, error) {
	return nil, nil
}

func (f *fakeRepo) CreateDisbursement(context.Context, *Disbursement) error { return nil }
func (f *fakeRepo) ListDisbursements(context.Context, ShiftFilter) ([]*Disbursement, error) {
	return nil, nil
}

func (f *fakeRepo) CreateProductSale(context.Context, *ProductSale) error { return nil }
func (f *fakeRepo) ListProductSales(context.Context, ShiftFilter) ([]*ProductSale, error) {
	return nil, nil
}

type fakeNumerator struct {
	next int
	err  error
}

func (f *fakeNumerator) Next(_ context.Context, prefix string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.next++
	return fmt.Sprintf("%s-2026-%05d", prefix, f.next), nil
}

type fakeTx struct{}

func (fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*Service, *fakeRepo, *fakeNumerator) {
	repo := newFakeRepo()
	num := &fakeNumerator{}
	return NewService(repo, num, fakeTx{}, nil), repo, num
}

func testInvoice() *ChargeInvoice {
	return &ChargeInvoice{
		InvoiceDate:  time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC),
		CustomerName: "Hauler Co",
		Amount:       types.MustMoney("3000.00"),
	}
}

func TestCreateChargeInvoiceAssignsNumber(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	inv := testInvoice()
	require.NoError(t, svc.CreateChargeInvoice(ctx, inv))
	assert.Equal(t, "CI-2026-00001", inv.Number)
	assert.NotEqual(t, id.Nil(), inv.ID)

	second := testInvoice()
	require.NoError(t, svc.CreateChargeInvoice(ctx, second))
	assert.Equal(t, "CI-2026-00002", second.Number)
}

func TestCreateChargeInvoiceKeepsExplicitNumber(t *testing.T) {
	svc, _, num := newTestService()

	inv := testInvoice()
	inv.Number = "CI-MANUAL-1"
	require.NoError(t, svc.CreateChargeInvoice(context.Background(), inv))
	assert.Equal(t, "CI-MANUAL-1", inv.Number)
	assert.Zero(t, num.next)
}

func TestCreateChargeInvoiceNumberingFailure(t *testing.T) {
	svc, repo, num := newTestService()
	num.err = errors.New("sequence unavailable")

	err := svc.CreateChargeInvoice(context.Background(), testInvoice())
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeCollaborator, appErr.Code)
	assert.Empty(t, repo.invoices)
}

func TestMarkInvoicePaid(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	inv := testInvoice()
	require.NoError(t, svc.CreateChargeInvoice(ctx, inv))

	paid, err := svc.MarkInvoicePaid(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, paid.Paid)
	assert.NotNil(t, paid.PaidAt)

	// Paying twice is a state error
	_, err = svc.MarkInvoicePaid(ctx, inv.ID)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestCreateDepositNormalizesDate(t *testing.T) {
	svc, repo, _ := newTestService()

	d := &Deposit{
		ShiftScope: ShiftScope{
			ShiftDate:   time.Date(2026, 8, 14, 13, 45, 0, 0, time.UTC),
			ShiftNumber: 2,
		},
		DepositNumber: 1,
		PaymentMethod: PaymentGcash,
		Amount:        types.MustMoney("2500.00"),
	}
	require.NoError(t, svc.CreateDeposit(context.Background(), d))

	require.Len(t, repo.deposits, 1)
	assert.Equal(t, time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC), repo.deposits[0].ShiftDate)
}

func TestCreateDepositInvalid(t *testing.T) {
	svc, repo, _ := newTestService()

	d := &Deposit{
		ShiftScope:    ShiftScope{ShiftDate: time.Now(), ShiftNumber: 1},
		DepositNumber: 1,
		PaymentMethod: "credit",
		Amount:        types.MustMoney("2500.00"),
	}
	err := svc.CreateDeposit(context.Background(), d)
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, repo.deposits)
}
