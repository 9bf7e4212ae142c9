package readings

import (
	"context"
	"time"

	"stationops/internal/core/id"
)

// ListFilter narrows reading queries. Nil fields are not applied.
// HasBranch distinguishes "any branch" from "branch IS NULL".
type ListFilter struct {
	BranchID    *id.ID
	HasBranch   bool
	ShiftDate   *time.Time
	ShiftNumber *int
	FuelTypeID  *id.ID
	Status      Status
}

// Repository is the storage port for shift fuel readings.
//
// Create must enforce the natural-key uniqueness of ScopeKey and surface
// a violation as a CONFLICT AppError. Update must apply optimistic
// locking on the version column.
type Repository interface {
	Create(ctx context.Context, r *ShiftFuelReading) error
	Update(ctx context.Context, r *ShiftFuelReading) error
	GetByID(ctx context.Context, readingID id.ID) (*ShiftFuelReading, error)
	GetByScope(ctx context.Context, key ScopeKey) (*ShiftFuelReading, error)
	List(ctx context.Context, filter ListFilter) ([]*ShiftFuelReading, error)
}
