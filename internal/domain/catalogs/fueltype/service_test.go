package fueltype

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationops/internal/core/apperror"
	"stationops/internal/core/id"
	"stationops/internal/core/types"
)

type fakeRepo struct {
	byID    map[id.ID]*FuelType
	history []*PriceChange
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[id.ID]*FuelType)}
}

func (f *fakeRepo) Create(_ context.Context, ft *FuelType) error {
	cp := *ft
	f.byID[ft.ID] = &cp
	return nil
}

func (f *fakeRepo) Update(_ context.Context, ft *FuelType) error {
	if _, ok := f.byID[ft.ID]; !ok {
		return apperror.NewNotFound("fuel type", ft.ID)
	}
	cp := *ft
	f.byID[ft.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, ftID id.ID) (*FuelType, error) {
	ft, ok := f.byID[ftID]
	if !ok {
		return nil, apperror.NewNotFound("fuel type", ftID)
	}
	cp := *ft
	return &cp, nil
}

func (f *fakeRepo) GetByShortCode(_ context.Context, shortCode string) (*FuelType, error) {
	for _, ft := range f.byID {
		if ft.ShortCode == shortCode {
			cp := *ft
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("fuel type", shortCode)
}

func (f *fakeRepo) List(_ context.Context) ([]*FuelType, error) {
	out := make([]*FuelType, 0, len(f.byID))
	for _, ft := range f.byID {
		out = append(out, ft)
	}
	return out, nil
}

func (f *fakeRepo) ListActive(ctx context.Context) ([]*FuelType, error) {
	all, _ := f.List(ctx)
	out := all[:0]
	for _, ft := range all {
		if ft.IsActive {
			out = append(out, ft)
		}
	}
	return out, nil
}

func (f *fakeRepo) InsertPriceChange(_ context.Context, change *PriceChange) error {
	f.history = append(f.history, change)
	return nil
}

func (f *fakeRepo) ListPriceHistory(_ context.Context, ftID id.ID, limit int) ([]*PriceChange, error) {
	var out []*PriceChange
	for _, c := range f.history {
		if c.FuelTypeID == ftID {
			out = append(out, c)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeTx struct{}

func (fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, fakeTx{}, nil), repo
}

func TestCreateDuplicateShortCode(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, NewFuelType("DSL", "Diesel", types.MustMoney("60.00"))))

	err := svc.Create(ctx, NewFuelType("DSL", "Diesel Euro", types.MustMoney("61.00")))
	assert.True(t, apperror.IsConflict(err))
}

func TestUpdateRejectsPriceChange(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	ft := NewFuelType("DSL", "Diesel", types.MustMoney("60.00"))
	require.NoError(t, svc.Create(ctx, ft))

	ft.CurrentPrice = types.MustMoney("65.00")
	err := svc.Update(ctx, ft)
	assert.True(t, apperror.IsValidation(err))
}

func TestUpdatePriceRecordsHistory(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	ft := NewFuelType("DSL", "Diesel", types.MustMoney("60.00"))
	require.NoError(t, svc.Create(ctx, ft))

	updated, err := svc.UpdatePrice(ctx, ft.ID, types.MustMoney("63.50"))
	require.NoError(t, err)
	assert.True(t, updated.CurrentPrice.Equal(types.MustMoney("63.50")))

	require.Len(t, repo.history, 1)
	assert.True(t, repo.history[0].OldPrice.Equal(types.MustMoney("60.00")))
	assert.True(t, repo.history[0].NewPrice.Equal(types.MustMoney("63.50")))
}

func TestUpdatePriceNoopWhenUnchanged(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	ft := NewFuelType("DSL", "Diesel", types.MustMoney("60.00"))
	require.NoError(t, svc.Create(ctx, ft))

	_, err := svc.UpdatePrice(ctx, ft.ID, types.MustMoney("60.00"))
	require.NoError(t, err)
	assert.Empty(t, repo.history)
}

func TestUpdatePriceNegative(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.UpdatePrice(context.Background(), id.New(), types.MustMoney("-1"))
	assert.True(t, apperror.IsValidation(err))
}
