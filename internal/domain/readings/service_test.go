package readings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationops/internal/core/apperror"
	"stationops/internal/core/id"
	"stationops/internal/core/types"
	"stationops/internal/domain/catalogs/branch"
	"stationops/internal/domain/catalogs/fueltype"
)

func newID(t *testing.T) id.ID {
	t.Helper()
	return id.New()
}

// --- Fakes ---

type fakeRepo struct {
	byID map[id.ID]*ShiftFuelReading
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[id.ID]*ShiftFuelReading)}
}

func (f *fakeRepo) Create(_ context.Context, r *ShiftFuelReading) error {
	for _, existing := range f.byID {
		if sameScope(existing.Scope(), r.Scope()) {
			return apperror.NewConflict("a reading already exists for this shift and fuel type")
		}
	}
	cp := *r
	f.byID[r.ID] = &cp
	return nil
}

func (f *fakeRepo) Update(_ context.Context, r *ShiftFuelReading) error {
	if _, ok := f.byID[r.ID]; !ok {
		return apperror.NewNotFound("reading", r.ID)
	}
	cp := *r
	f.byID[r.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, readingID id.ID) (*ShiftFuelReading, error) {
	r, ok := f.byID[readingID]
	if !ok {
		return nil, apperror.NewNotFound("reading", readingID)
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) GetByScope(_ context.Context, key ScopeKey) (*ShiftFuelReading, error) {
	for _, r := range f.byID {
		if sameScope(r.Scope(), key) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("reading", key)
}

func (f *fakeRepo) List(_ context.Context, _ ListFilter) ([]*ShiftFuelReading, error) {
	out := make([]*ShiftFuelReading, 0, len(f.byID))
	for _, r := range f.byID {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func sameScope(a, b ScopeKey) bool {
	if (a.BranchID == nil) != (b.BranchID == nil) {
		return false
	}
	if a.BranchID != nil && *a.BranchID != *b.BranchID {
		return false
	}
	return NormalizeDate(a.ShiftDate).Equal(NormalizeDate(b.ShiftDate)) &&
		a.ShiftNumber == b.ShiftNumber &&
		a.FuelTypeID == b.FuelTypeID
}

type fakePrices struct {
	types map[id.ID]*fueltype.FuelType
	err   error
}

func (f *fakePrices) GetByID(_ context.Context, ftID id.ID) (*fueltype.FuelType, error) {
	if f.err != nil {
		return nil, f.err
	}
	ft, ok := f.types[ftID]
	if !ok {
		return nil, apperror.NewNotFound("fuel type", ftID)
	}
	return ft, nil
}

func (f *fakePrices) ListActive(_ context.Context) ([]*fueltype.FuelType, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*fueltype.FuelType, 0, len(f.types))
	for _, ft := range f.types {
		out = append(out, ft)
	}
	return out, nil
}

type fakeShifts struct {
	plan branch.ShiftPlan
}

func (f *fakeShifts) ShiftPlanFor(context.Context, *id.ID) (branch.ShiftPlan, error) {
	if f.plan != nil {
		return f.plan, nil
	}
	return branch.DefaultShiftPlan(), nil
}

// fakeTx runs the function directly, no transaction semantics.
type fakeTx struct{}

func (fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- Fixture ---

type fixture struct {
	service *Service
	repo    *fakeRepo
	prices  *fakePrices
	diesel  *fueltype.FuelType
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	diesel := fueltype.NewFuelType("DSL", "Diesel", types.MustMoney("60.00"))
	repo := newFakeRepo()
	prices := &fakePrices{types: map[id.ID]*fueltype.FuelType{diesel.ID: diesel}}
	svc := NewService(repo, prices, &fakeShifts{}, fakeTx{}, nil)
	return &fixture{service: svc, repo: repo, prices: prices, diesel: diesel}
}

func (f *fixture) scope() ScopeKey {
	return ScopeKey{
		ShiftDate:   time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC),
		ShiftNumber: 1,
		FuelTypeID:  f.diesel.ID,
	}
}

func (f *fixture) startReading(t *testing.T) *ShiftFuelReading {
	t.Helper()
	r, err := f.service.StartReading(context.Background(), StartParams{
		Scope:            f.scope(),
		BeginningReading: types.MustLiters("1000.000"),
	})
	require.NoError(t, err)
	return r
}

func (f *fixture) closedReading(t *testing.T) *ShiftFuelReading {
	t.Helper()
	r := f.startReading(t)
	closed, err := f.service.CloseReading(context.Background(), r.ID, CloseParams{
		EndingReading:    types.MustLiters("1250.500"),
		AdjustmentLiters: types.MustLiters("0.500"),
	})
	require.NoError(t, err)
	return closed
}

// --- StartReading ---

func TestStartReading(t *testing.T) {
	f := newFixture(t)

	r := f.startReading(t)

	assert.Equal(t, StatusOpen, r.Status)
	assert.Equal(t, types.MustLiters("1000"), r.BeginningReading)
	assert.True(t, r.PricePerLiter.IsZero())

	stored, err := f.repo.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, stored.Status)
}

func TestStartReadingDuplicateScope(t *testing.T) {
	f := newFixture(t)
	f.startReading(t)

	_, err := f.service.StartReading(context.Background(), StartParams{
		Scope:            f.scope(),
		BeginningReading: types.MustLiters("2000"),
	})
	assert.True(t, apperror.IsConflict(err), "expected conflict, got %v", err)
}

func TestStartReadingDuplicateScopeAfterClose(t *testing.T) {
	f := newFixture(t)
	f.closedReading(t)

	// Closed readings still occupy the scope
	_, err := f.service.StartReading(context.Background(), StartParams{
		Scope:            f.scope(),
		BeginningReading: types.MustLiters("1250.5"),
	})
	assert.True(t, apperror.IsConflict(err))
}

func TestStartReadingNegativeBeginning(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.StartReading(context.Background(), StartParams{
		Scope:            f.scope(),
		BeginningReading: types.MustLiters("-1"),
	})
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, f.repo.byID)
}

func TestStartReadingShiftNumberOutsidePlan(t *testing.T) {
	f := newFixture(t)

	key := f.scope()
	key.ShiftNumber = 4 // default plan has shifts 1-3
	_, err := f.service.StartReading(context.Background(), StartParams{
		Scope:            key,
		BeginningReading: types.MustLiters("1000"),
	})
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, f.repo.byID)
}

// --- CloseReading ---

func TestCloseReading(t *testing.T) {
	f := newFixture(t)
	r := f.startReading(t)

	closed, err := f.service.CloseReading(context.Background(), r.ID, CloseParams{
		EndingReading:    types.MustLiters("1250.500"),
		AdjustmentLiters: types.MustLiters("0.500"),
	})
	require.NoError(t, err)

	assert.Equal(t, StatusClosed, closed.Status)
	require.NotNil(t, closed.LitersDispensed)
	assert.Equal(t, types.MustLiters("250.000"), *closed.LitersDispensed)
	require.NotNil(t, closed.TotalValue)
	assert.True(t, closed.TotalValue.Equal(types.MustMoney("15000.00")))
	assert.True(t, closed.PricePerLiter.Equal(types.MustMoney("60.00")))
	assert.NotNil(t, closed.ClosedAt)
}

func TestCloseReadingAlreadyClosed(t *testing.T) {
	f := newFixture(t)
	r := f.closedReading(t)

	_, err := f.service.CloseReading(context.Background(), r.ID, CloseParams{
		EndingReading: types.MustLiters("1300"),
	})
	assert.True(t, apperror.IsInvalidState(err))
}

func TestCloseReadingUnlocked(t *testing.T) {
	f := newFixture(t)
	r := f.closedReading(t)

	_, err := f.service.Unlock(context.Background(), r.ID)
	require.NoError(t, err)

	// Unlocked readings close through relock, not close
	_, err = f.service.CloseReading(context.Background(), r.ID, CloseParams{
		EndingReading: types.MustLiters("1300"),
	})
	assert.True(t, apperror.IsInvalidState(err))
}

func TestCloseReadingEndingBelowBeginning(t *testing.T) {
	f := newFixture(t)
	r := f.startReading(t)

	_, err := f.service.CloseReading(context.Background(), r.ID, CloseParams{
		EndingReading: types.MustLiters("999.999"),
	})
	assert.True(t, apperror.IsValidation(err))

	// Failed close mutates nothing
	stored, getErr := f.repo.GetByID(context.Background(), r.ID)
	require.NoError(t, getErr)
	assert.Equal(t, StatusOpen, stored.Status)
	assert.Nil(t, stored.EndingReading)
}

func TestCloseReadingPriceLookupFails(t *testing.T) {
	f := newFixture(t)
	r := f.startReading(t)
	f.prices.err = errors.New("connection refused")

	_, err := f.service.CloseReading(context.Background(), r.ID, CloseParams{
		EndingReading: types.MustLiters("1250.5"),
	})
	require.Error(t, err)

	stored, getErr := f.repo.GetByID(context.Background(), r.ID)
	require.NoError(t, getErr)
	assert.Equal(t, StatusOpen, stored.Status)
}

// --- EditWhileOpen ---

func TestEditWhileOpen(t *testing.T) {
	f := newFixture(t)
	r := f.startReading(t)

	ending := types.MustLiters("1100")
	edited, err := f.service.EditWhileOpen(context.Background(), r.ID, EditParams{
		BeginningReading: types.MustLiters("1000"),
		EndingReading:    &ending,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusOpen, edited.Status)
	require.NotNil(t, edited.EndingReading)
	assert.Equal(t, ending, *edited.EndingReading)
	// Derived fields stay unset while open
	assert.Nil(t, edited.LitersDispensed)
	assert.Nil(t, edited.TotalValue)

	preview := edited.PreviewNet()
	require.NotNil(t, preview)
	assert.Equal(t, types.MustLiters("100"), *preview)
}

func TestEditWhileOpenBeginningAboveSavedEnding(t *testing.T) {
	f := newFixture(t)
	r := f.startReading(t)

	ending := types.MustLiters("1100")
	_, err := f.service.EditWhileOpen(context.Background(), r.ID, EditParams{
		BeginningReading: types.MustLiters("1000"),
		EndingReading:    &ending,
	})
	require.NoError(t, err)

	// Raising only the beginning above the previously saved ending must
	// fail validation, not reach the repository.
	_, err = f.service.EditWhileOpen(context.Background(), r.ID, EditParams{
		BeginningReading: types.MustLiters("2000"),
	})
	assert.True(t, apperror.IsValidation(err), "expected validation error, got %v", err)

	stored, getErr := f.repo.GetByID(context.Background(), r.ID)
	require.NoError(t, getErr)
	assert.Equal(t, types.MustLiters("1000"), stored.BeginningReading)
	require.NotNil(t, stored.EndingReading)
	assert.Equal(t, ending, *stored.EndingReading)
}

func TestEditWhileOpenRejectedForClosed(t *testing.T) {
	f := newFixture(t)
	r := f.closedReading(t)

	_, err := f.service.EditWhileOpen(context.Background(), r.ID, EditParams{
		BeginningReading: types.MustLiters("900"),
	})
	assert.True(t, apperror.IsInvalidState(err))
}

// --- Unlock / Relock ---

func TestUnlock(t *testing.T) {
	f := newFixture(t)
	r := f.closedReading(t)

	unlocked, err := f.service.Unlock(context.Background(), r.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusUnlocked, unlocked.Status)
	// Data fields untouched
	require.NotNil(t, unlocked.LitersDispensed)
	assert.Equal(t, types.MustLiters("250.000"), *unlocked.LitersDispensed)

	// Persisted, not session-local
	stored, err := f.repo.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusUnlocked, stored.Status)
}

func TestUnlockRequiresClosed(t *testing.T) {
	f := newFixture(t)
	r := f.startReading(t)

	_, err := f.service.Unlock(context.Background(), r.ID)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestRelockKeepsCapturedPrice(t *testing.T) {
	f := newFixture(t)
	r := f.closedReading(t)

	_, err := f.service.Unlock(context.Background(), r.ID)
	require.NoError(t, err)

	// Price moves after close; relock must keep the captured 60.00
	f.diesel.CurrentPrice = types.MustMoney("72.00")

	relocked, err := f.service.Relock(context.Background(), r.ID, RelockParams{
		BeginningReading: types.MustLiters("1000"),
		EndingReading:    types.MustLiters("1300"),
	})
	require.NoError(t, err)

	assert.Equal(t, StatusClosed, relocked.Status)
	assert.True(t, relocked.PricePerLiter.Equal(types.MustMoney("60.00")))
	require.NotNil(t, relocked.LitersDispensed)
	assert.Equal(t, types.MustLiters("300"), *relocked.LitersDispensed)
	assert.True(t, relocked.TotalValue.Equal(types.MustMoney("18000.00")))
}

func TestRelockRecapturePrice(t *testing.T) {
	f := newFixture(t)
	r := f.closedReading(t)

	_, err := f.service.Unlock(context.Background(), r.ID)
	require.NoError(t, err)

	f.diesel.CurrentPrice = types.MustMoney("72.00")

	relocked, err := f.service.Relock(context.Background(), r.ID, RelockParams{
		BeginningReading: types.MustLiters("1000"),
		EndingReading:    types.MustLiters("1300"),
		RecapturePrice:   true,
	})
	require.NoError(t, err)

	assert.True(t, relocked.PricePerLiter.Equal(types.MustMoney("72.00")))
	assert.True(t, relocked.TotalValue.Equal(types.MustMoney("21600.00")))
}

func TestRelockRequiresUnlocked(t *testing.T) {
	f := newFixture(t)
	r := f.closedReading(t)

	_, err := f.service.Relock(context.Background(), r.ID, RelockParams{
		BeginningReading: types.MustLiters("1000"),
		EndingReading:    types.MustLiters("1300"),
	})
	assert.True(t, apperror.IsInvalidState(err))
}

// --- GetReading ---

func TestGetReadingMissingScopeIsNil(t *testing.T) {
	f := newFixture(t)

	r, err := f.service.GetReading(context.Background(), f.scope())
	require.NoError(t, err)
	assert.Nil(t, r)
}
