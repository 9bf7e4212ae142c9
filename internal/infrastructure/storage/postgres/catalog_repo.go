package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"stationops/internal/core/apperror"
	"stationops/internal/core/id"
	"stationops/internal/domain/catalogs/branch"
	"stationops/internal/domain/catalogs/fueltype"
)

const (
	fuelTypesTable    = "fuel_types"
	priceHistoryTable = "fuel_price_history"
	branchesTable     = "branches"
)

var (
	fuelTypeColumns    = ExtractDBColumns[fueltype.FuelType]()
	priceChangeColumns = ExtractDBColumns[fueltype.PriceChange]()
	branchColumns      = ExtractDBColumns[branch.Branch]()
)

// FuelTypeRepository is the PostgreSQL implementation of fueltype.Repository.
type FuelTypeRepository struct {
	txManager *TxManager
}

var _ fueltype.Repository = (*FuelTypeRepository)(nil)

// NewFuelTypeRepository creates a new fuel type repository.
func NewFuelTypeRepository(txManager *TxManager) *FuelTypeRepository {
	return &FuelTypeRepository{txManager: txManager}
}

func (r *FuelTypeRepository) Create(ctx context.Context, ft *fueltype.FuelType) error {
	sql, args, err := squirrel.Insert(fuelTypesTable).
		SetMap(StructToMap(ft)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	_, err = r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewConflict("a fuel type with this short code already exists").
				WithDetail("shortCode", ft.ShortCode).
				WithCause(err)
		}
		return fmt.Errorf("insert fuel type: %w", err)
	}
	return nil
}

func (r *FuelTypeRepository) Update(ctx context.Context, ft *fueltype.FuelType) error {
	values := StructToMap(ft)
	delete(values, "id")

	sql, args, err := squirrel.Update(fuelTypesTable).
		SetMap(values).
		Where(squirrel.Eq{"id": ft.ID}).
		Where(squirrel.Eq{"version": ft.Version - 1}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update fuel type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("fuel type", ft.ID)
	}
	return nil
}

func (r *FuelTypeRepository) GetByID(ctx context.Context, ftID id.ID) (*fueltype.FuelType, error) {
	return r.getBy(ctx, squirrel.Eq{"id": ftID}, ftID)
}

func (r *FuelTypeRepository) GetByShortCode(ctx context.Context, shortCode string) (*fueltype.FuelType, error) {
	return r.getBy(ctx, squirrel.Eq{"short_code": shortCode}, shortCode)
}

func (r *FuelTypeRepository) getBy(ctx context.Context, where squirrel.Eq, key any) (*fueltype.FuelType, error) {
	sql, args, err := squirrel.Select(fuelTypeColumns...).
		From(fuelTypesTable).
		Where(where).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var ft fueltype.FuelType
	err = pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &ft, sql, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("fuel type", key)
		}
		return nil, fmt.Errorf("get fuel type: %w", err)
	}
	return &ft, nil
}

func (r *FuelTypeRepository) List(ctx context.Context) ([]*fueltype.FuelType, error) {
	return r.list(ctx, nil)
}

func (r *FuelTypeRepository) ListActive(ctx context.Context) ([]*fueltype.FuelType, error) {
	return r.list(ctx, squirrel.Eq{"is_active": true})
}

func (r *FuelTypeRepository) list(ctx context.Context, where squirrel.Eq) ([]*fueltype.FuelType, error) {
	q := squirrel.Select(fuelTypeColumns...).
		From(fuelTypesTable).
		PlaceholderFormat(squirrel.Dollar).
		OrderBy("short_code")
	if where != nil {
		q = q.Where(where)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var result []*fueltype.FuelType
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &result, sql, args...); err != nil {
		return nil, fmt.Errorf("list fuel types: %w", err)
	}
	return result, nil
}

func (r *FuelTypeRepository) InsertPriceChange(ctx context.Context, change *fueltype.PriceChange) error {
	sql, args, err := squirrel.Insert(priceHistoryTable).
		SetMap(StructToMap(change)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert price change: %w", err)
	}
	return nil
}

func (r *FuelTypeRepository) ListPriceHistory(ctx context.Context, ftID id.ID, limit int) ([]*fueltype.PriceChange, error) {
	if limit <= 0 {
		limit = 50
	}

	sql, args, err := squirrel.Select(priceChangeColumns...).
		From(priceHistoryTable).
		Where(squirrel.Eq{"fuel_type_id": ftID}).
		OrderBy("changed_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var result []*fueltype.PriceChange
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &result, sql, args...); err != nil {
		return nil, fmt.Errorf("list price history: %w", err)
	}
	return result, nil
}

// BranchRepository is the PostgreSQL implementation of branch.Repository.
type BranchRepository struct {
	txManager *TxManager
}

var _ branch.Repository = (*BranchRepository)(nil)

// NewBranchRepository creates a new branch repository.
func NewBranchRepository(txManager *TxManager) *BranchRepository {
	return &BranchRepository{txManager: txManager}
}

func (r *BranchRepository) Create(ctx context.Context, b *branch.Branch) error {
	sql, args, err := squirrel.Insert(branchesTable).
		SetMap(StructToMap(b)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	_, err = r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewConflict("a branch with this code already exists").
				WithDetail("code", b.Code).
				WithCause(err)
		}
		return fmt.Errorf("insert branch: %w", err)
	}
	return nil
}

func (r *BranchRepository) Update(ctx context.Context, b *branch.Branch) error {
	values := StructToMap(b)
	delete(values, "id")

	sql, args, err := squirrel.Update(branchesTable).
		SetMap(values).
		Where(squirrel.Eq{"id": b.ID}).
		Where(squirrel.Eq{"version": b.Version - 1}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update branch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("branch", b.ID)
	}
	return nil
}

func (r *BranchRepository) GetByID(ctx context.Context, branchID id.ID) (*branch.Branch, error) {
	return r.getBy(ctx, squirrel.Eq{"id": branchID}, branchID)
}

func (r *BranchRepository) GetByCode(ctx context.Context, code string) (*branch.Branch, error) {
	return r.getBy(ctx, squirrel.Eq{"code": code}, code)
}

func (r *BranchRepository) getBy(ctx context.Context, where squirrel.Eq, key any) (*branch.Branch, error) {
	sql, args, err := squirrel.Select(branchColumns...).
		From(branchesTable).
		Where(where).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var b branch.Branch
	err = pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &b, sql, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("branch", key)
		}
		return nil, fmt.Errorf("get branch: %w", err)
	}
	return &b, nil
}

func (r *BranchRepository) List(ctx context.Context) ([]*branch.Branch, error) {
	return r.list(ctx, nil)
}

func (r *BranchRepository) ListActive(ctx context.Context) ([]*branch.Branch, error) {
	return r.list(ctx, squirrel.Eq{"is_active": true})
}

func (r *BranchRepository) list(ctx context.Context, where squirrel.Eq) ([]*branch.Branch, error) {
	q := squirrel.Select(branchColumns...).
		From(branchesTable).
		PlaceholderFormat(squirrel.Dollar).
		OrderBy("code")
	if where != nil {
		q = q.Where(where)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var result []*branch.Branch
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &result, sql, args...); err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return result, nil
}
