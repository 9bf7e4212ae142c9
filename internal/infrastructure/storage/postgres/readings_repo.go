package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"stationops/internal/core/apperror"
	"stationops/internal/core/id"
	"stationops/internal/domain/readings"
)

const readingsTable = "shift_fuel_readings"

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

var readingColumns = ExtractDBColumns[readings.ShiftFuelReading]()

// ReadingRepository is the PostgreSQL implementation of readings.Repository.
type ReadingRepository struct {
	txManager *TxManager
}

var _ readings.Repository = (*ReadingRepository)(nil)

// NewReadingRepository creates a new reading repository.
func NewReadingRepository(txManager *TxManager) *ReadingRepository {
	return &ReadingRepository{txManager: txManager}
}

// Create inserts a new reading. A unique-index violation on the natural
// key (branch, date, shift, fuel type) surfaces as a CONFLICT error so
// the race window between existence check and insert stays closed.
func (r *ReadingRepository) Create(ctx context.Context, reading *readings.ShiftFuelReading) error {
	sql, args, err := squirrel.Insert(readingsTable).
		SetMap(StructToMap(reading)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	_, err = r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewConflict("a reading already exists for this branch, date, shift and fuel type").
				WithDetail("shiftDate", reading.ShiftDate.Format("2006-01-02")).
				WithDetail("shiftNumber", reading.ShiftNumber).
				WithDetail("fuelTypeId", reading.FuelTypeID).
				WithCause(err)
		}
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

// Update persists the reading with optimistic locking. The caller must
// Touch() the entity first; the WHERE clause matches the previous version.
func (r *ReadingRepository) Update(ctx context.Context, reading *readings.ShiftFuelReading) error {
	values := StructToMap(reading)
	delete(values, "id")
	delete(values, "created_at")
	delete(values, "created_by")

	sql, args, err := squirrel.Update(readingsTable).
		SetMap(values).
		Where(squirrel.Eq{"id": reading.ID}).
		Where(squirrel.Eq{"version": reading.Version - 1}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update reading: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("reading", reading.ID)
	}
	return nil
}

// GetByID fetches a reading by primary key.
func (r *ReadingRepository) GetByID(ctx context.Context, readingID id.ID) (*readings.ShiftFuelReading, error) {
	sql, args, err := squirrel.Select(readingColumns...).
		From(readingsTable).
		Where(squirrel.Eq{"id": readingID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var reading readings.ShiftFuelReading
	err = pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &reading, sql, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("reading", readingID)
		}
		return nil, fmt.Errorf("get reading: %w", err)
	}
	return &reading, nil
}

// GetByScope fetches a reading by its natural key.
func (r *ReadingRepository) GetByScope(ctx context.Context, key readings.ScopeKey) (*readings.ShiftFuelReading, error) {
	q := squirrel.Select(readingColumns...).
		From(readingsTable).
		Where(squirrel.Eq{"shift_date": readings.NormalizeDate(key.ShiftDate)}).
		Where(squirrel.Eq{"shift_number": key.ShiftNumber}).
		Where(squirrel.Eq{"fuel_type_id": key.FuelTypeID}).
		PlaceholderFormat(squirrel.Dollar)

	if key.BranchID != nil {
		q = q.Where(squirrel.Eq{"branch_id": *key.BranchID})
	} else {
		q = q.Where("branch_id IS NULL")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var reading readings.ShiftFuelReading
	err = pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &reading, sql, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("reading", fmt.Sprintf("%s shift %d", key.ShiftDate.Format("2006-01-02"), key.ShiftNumber))
		}
		return nil, fmt.Errorf("get reading by scope: %w", err)
	}
	return &reading, nil
}

// List fetches readings matching the filter, ordered by date, shift and
// fuel type for stable report output.
func (r *ReadingRepository) List(ctx context.Context, filter readings.ListFilter) ([]*readings.ShiftFuelReading, error) {
	q := squirrel.Select(readingColumns...).
		From(readingsTable).
		PlaceholderFormat(squirrel.Dollar).
		OrderBy("shift_date", "shift_number", "fuel_type_id")

	if filter.HasBranch {
		if filter.BranchID != nil {
			q = q.Where(squirrel.Eq{"branch_id": *filter.BranchID})
		} else {
			q = q.Where("branch_id IS NULL")
		}
	}
	if filter.ShiftDate != nil {
		q = q.Where(squirrel.Eq{"shift_date": readings.NormalizeDate(*filter.ShiftDate)})
	}
	if filter.ShiftNumber != nil {
		q = q.Where(squirrel.Eq{"shift_number": *filter.ShiftNumber})
	}
	if filter.FuelTypeID != nil {
		q = q.Where(squirrel.Eq{"fuel_type_id": *filter.FuelTypeID})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": string(filter.Status)})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var result []*readings.ShiftFuelReading
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &result, sql, args...); err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	return result, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
