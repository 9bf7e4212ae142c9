package readings

import (
	"context"
	"time"

	"stationops/internal/core/apperror"
	appctx "stationops/internal/core/context"
	"stationops/internal/core/id"
	"stationops/internal/core/tx"
	"stationops/internal/core/types"
	"stationops/internal/domain/audit"
	"stationops/internal/domain/catalogs/branch"
	"stationops/internal/domain/catalogs/fueltype"
)

// PriceLookup is the read contract on the fuel type catalog. The engine
// never writes through it.
type PriceLookup interface {
	GetByID(ctx context.Context, ftID id.ID) (*fueltype.FuelType, error)
	ListActive(ctx context.Context) ([]*fueltype.FuelType, error)
}

// ShiftPlanSource resolves the effective shift plan for a branch scope.
type ShiftPlanSource interface {
	ShiftPlanFor(ctx context.Context, branchID *id.ID) (branch.ShiftPlan, error)
}

// Service owns the reading lifecycle. All mutations run inside a single
// transaction; validation failures mutate nothing.
type Service struct {
	repo      Repository
	prices    PriceLookup
	shifts    ShiftPlanSource
	txManager tx.Manager
	audit     audit.Recorder
}

// NewService creates the reading service.
func NewService(
	repo Repository,
	prices PriceLookup,
	shifts ShiftPlanSource,
	txManager tx.Manager,
	recorder audit.Recorder,
) *Service {
	return &Service{
		repo:      repo,
		prices:    prices,
		shifts:    shifts,
		txManager: txManager,
		audit:     recorder,
	}
}

// StartParams are the inputs for StartReading.
type StartParams struct {
	Scope            ScopeKey
	BeginningReading types.Liters
}

// CloseParams are the inputs for CloseReading.
type CloseParams struct {
	EndingReading    types.Liters
	AdjustmentLiters types.Liters
	AdjustmentReason *string
}

// EditParams are the inputs for EditWhileOpen. Nil optional fields are
// left unchanged.
type EditParams struct {
	BeginningReading types.Liters
	EndingReading    *types.Liters
	AdjustmentLiters *types.Liters
	AdjustmentReason *string
}

// RelockParams are the inputs for Relock. RecapturePrice re-reads the
// fuel type's live price; by default the originally captured close price
// is preserved so historical reports stay stable.
type RelockParams struct {
	BeginningReading types.Liters
	EndingReading    types.Liters
	AdjustmentLiters types.Liters
	AdjustmentReason *string
	RecapturePrice   bool
}

// GetReading is a pure lookup by scope key. Returns nil when no reading
// exists for the key.
func (s *Service) GetReading(ctx context.Context, key ScopeKey) (*ShiftFuelReading, error) {
	r, err := s.repo.GetByScope(ctx, key)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return r, nil
}

// GetByID returns one reading by identifier.
func (s *Service) GetByID(ctx context.Context, readingID id.ID) (*ShiftFuelReading, error) {
	return s.repo.GetByID(ctx, readingID)
}

// ListReadings returns readings matching the filter.
func (s *Service) ListReadings(ctx context.Context, filter ListFilter) ([]*ShiftFuelReading, error) {
	return s.repo.List(ctx, filter)
}

// StartReading creates an open reading for a scope key. Fails with a
// CONFLICT error when any reading (open or closed) already exists for
// the key; the existence check and the insert share one transaction and
// the unique index backs the check under concurrency.
func (s *Service) StartReading(ctx context.Context, p StartParams) (*ShiftFuelReading, error) {
	if err := validateBeginning(p.BeginningReading); err != nil {
		return nil, err
	}
	if err := s.validateShiftNumber(ctx, p.Scope.BranchID, p.Scope.ShiftNumber); err != nil {
		return nil, err
	}

	r := NewShiftFuelReading(p.Scope, p.BeginningReading)
	actor := appctx.GetActorName(ctx)
	r.CreatedBy = actor
	r.UpdatedBy = actor

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByScope(ctx, p.Scope)
		if err != nil && !apperror.IsNotFound(err) {
			return err
		}
		if existing != nil {
			return scopeConflict(p.Scope)
		}
		return s.repo.Create(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	audit.BestEffort(ctx, s.audit, audit.Entry{
		Action:      audit.ActionCreate,
		EntityType:  "shift_fuel_reading",
		EntityID:    r.ID,
		Description: "started reading at " + p.BeginningReading.String(),
		NewValues:   r.snapshot(),
		BranchID:    r.BranchID,
	})
	return r, nil
}

// CloseReading supplies the ending value, captures the fuel type's
// current price, derives liters and value, and flips the reading to
// closed. The price read and the write share one transaction so a price
// change mid-operation cannot produce an inconsistent pairing.
func (s *Service) CloseReading(ctx context.Context, readingID id.ID, p CloseParams) (*ShiftFuelReading, error) {
	var r *ShiftFuelReading
	var before map[string]any

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		r, err = s.repo.GetByID(ctx, readingID)
		if err != nil {
			return err
		}

		switch r.Status {
		case StatusClosed:
			return apperror.NewInvalidState("reading is already closed; unlock it to make corrections").
				WithDetail("readingId", readingID).
				WithDetail("status", string(r.Status))
		case StatusUnlocked:
			return apperror.NewInvalidState("reading is unlocked; use relock to close it").
				WithDetail("readingId", readingID).
				WithDetail("status", string(r.Status))
		}

		if err := validateEnding(r.BeginningReading, p.EndingReading); err != nil {
			return err
		}
		if err := validateAdjustment(p.AdjustmentLiters); err != nil {
			return err
		}

		price, err := s.currentPrice(ctx, r.FuelTypeID)
		if err != nil {
			return err
		}

		before = r.snapshot()
		now := time.Now().UTC()
		r.applyClose(p.EndingReading, p.AdjustmentLiters, p.AdjustmentReason, price, now)
		r.UpdatedBy = appctx.GetActorName(ctx)
		return s.repo.Update(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	audit.BestEffort(ctx, s.audit, audit.Entry{
		Action:     audit.ActionClose,
		EntityType: "shift_fuel_reading",
		EntityID:   r.ID,
		OldValues:  before,
		NewValues:  r.snapshot(),
		BranchID:   r.BranchID,
	})
	return r, nil
}

// EditWhileOpen mutates raw fields of an open reading without
// transitioning state, for iterative save before closing. Derived fields
// stay unset until close; callers wanting a preview use PreviewNet.
func (s *Service) EditWhileOpen(ctx context.Context, readingID id.ID, p EditParams) (*ShiftFuelReading, error) {
	var r *ShiftFuelReading
	var before map[string]any

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		r, err = s.repo.GetByID(ctx, readingID)
		if err != nil {
			return err
		}

		if r.Status != StatusOpen {
			return apperror.NewInvalidState("only open readings can be edited in place").
				WithDetail("readingId", readingID).
				WithDetail("status", string(r.Status))
		}

		if err := validateBeginning(p.BeginningReading); err != nil {
			return err
		}
		// The new beginning must hold against whichever ending will be
		// in effect after the edit, including one saved earlier.
		effectiveEnding := p.EndingReading
		if effectiveEnding == nil {
			effectiveEnding = r.EndingReading
		}
		if effectiveEnding != nil {
			if err := validateEnding(p.BeginningReading, *effectiveEnding); err != nil {
				return err
			}
		}
		if p.AdjustmentLiters != nil {
			if err := validateAdjustment(*p.AdjustmentLiters); err != nil {
				return err
			}
		}

		before = r.snapshot()
		r.BeginningReading = p.BeginningReading
		if p.EndingReading != nil {
			r.EndingReading = p.EndingReading
		}
		if p.AdjustmentLiters != nil {
			r.AdjustmentLiters = *p.AdjustmentLiters
		}
		if p.AdjustmentReason != nil {
			r.AdjustmentReason = p.AdjustmentReason
		}
		r.Touch()
		r.UpdatedBy = appctx.GetActorName(ctx)
		return s.repo.Update(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	audit.BestEffort(ctx, s.audit, audit.Entry{
		Action:     audit.ActionUpdate,
		EntityType: "shift_fuel_reading",
		EntityID:   r.ID,
		OldValues:  before,
		NewValues:  r.snapshot(),
		BranchID:   r.BranchID,
	})
	return r, nil
}

// Unlock reopens a closed reading for correction. The state is persisted,
// so a second admin session (or a page refresh) sees the same fact.
// Data fields are untouched.
func (s *Service) Unlock(ctx context.Context, readingID id.ID) (*ShiftFuelReading, error) {
	var r *ShiftFuelReading

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		r, err = s.repo.GetByID(ctx, readingID)
		if err != nil {
			return err
		}

		if r.Status != StatusClosed {
			return apperror.NewInvalidState("only closed readings can be unlocked").
				WithDetail("readingId", readingID).
				WithDetail("status", string(r.Status))
		}

		r.Status = StatusUnlocked
		r.Touch()
		r.UpdatedBy = appctx.GetActorName(ctx)
		return s.repo.Update(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	audit.BestEffort(ctx, s.audit, audit.Entry{
		Action:      audit.ActionUnlock,
		EntityType:  "shift_fuel_reading",
		EntityID:    r.ID,
		Description: "unlocked for correction",
		BranchID:    r.BranchID,
	})
	return r, nil
}

// Relock applies corrected values to an unlocked reading, recomputes the
// derived fields and closes it again. The captured close price is kept
// unless RecapturePrice asks for the live price.
func (s *Service) Relock(ctx context.Context, readingID id.ID, p RelockParams) (*ShiftFuelReading, error) {
	var r *ShiftFuelReading
	var before map[string]any

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		r, err = s.repo.GetByID(ctx, readingID)
		if err != nil {
			return err
		}

		if r.Status != StatusUnlocked {
			return apperror.NewInvalidState("reading is not unlocked").
				WithDetail("readingId", readingID).
				WithDetail("status", string(r.Status))
		}

		if err := validateBeginning(p.BeginningReading); err != nil {
			return err
		}
		if err := validateEnding(p.BeginningReading, p.EndingReading); err != nil {
			return err
		}
		if err := validateAdjustment(p.AdjustmentLiters); err != nil {
			return err
		}

		price := r.PricePerLiter
		if p.RecapturePrice {
			price, err = s.currentPrice(ctx, r.FuelTypeID)
			if err != nil {
				return err
			}
		}

		before = r.snapshot()
		r.BeginningReading = p.BeginningReading
		now := time.Now().UTC()
		r.applyClose(p.EndingReading, p.AdjustmentLiters, p.AdjustmentReason, price, now)
		r.UpdatedBy = appctx.GetActorName(ctx)
		return s.repo.Update(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	audit.BestEffort(ctx, s.audit, audit.Entry{
		Action:     audit.ActionRelock,
		EntityType: "shift_fuel_reading",
		EntityID:   r.ID,
		OldValues:  before,
		NewValues:  r.snapshot(),
		BranchID:   r.BranchID,
	})
	return r, nil
}

// applyClose writes the ending value, derives liters/value at the given
// price and transitions to closed. The only place derived fields are set.
func (r *ShiftFuelReading) applyClose(
	ending types.Liters,
	adjustment types.Liters,
	reason *string,
	pricePerLiter types.Money,
	now time.Time,
) {
	r.EndingReading = &ending
	r.AdjustmentLiters = adjustment
	if reason != nil {
		r.AdjustmentReason = reason
	}
	r.PricePerLiter = pricePerLiter

	net := NetLiters(r.BeginningReading, ending, adjustment)
	value := TotalValue(net, pricePerLiter)
	r.LitersDispensed = &net
	r.TotalValue = &value

	r.Status = StatusClosed
	r.ClosedAt = &now
	r.Touch()
}

func (s *Service) currentPrice(ctx context.Context, ftID id.ID) (types.Money, error) {
	ft, err := s.prices.GetByID(ctx, ftID)
	if err != nil {
		if apperror.IsAppError(err) {
			return types.Zero(), err
		}
		return types.Zero(), apperror.NewCollaborator("fuel type lookup", err)
	}
	return ft.CurrentPrice, nil
}

func (s *Service) validateShiftNumber(ctx context.Context, branchID *id.ID, shiftNumber int) error {
	if shiftNumber <= 0 {
		return apperror.NewValidation("shift number must be positive").
			WithDetail("field", "shiftNumber").
			WithDetail("value", shiftNumber)
	}
	if s.shifts == nil {
		return nil
	}
	plan, err := s.shifts.ShiftPlanFor(ctx, branchID)
	if err != nil {
		if apperror.IsAppError(err) {
			return err
		}
		return apperror.NewCollaborator("branch shift configuration", err)
	}
	if !plan.Contains(shiftNumber) {
		return apperror.NewValidation("shift number is not defined for this branch").
			WithDetail("field", "shiftNumber").
			WithDetail("value", shiftNumber)
	}
	return nil
}

func scopeConflict(key ScopeKey) *apperror.AppError {
	e := apperror.NewConflict("a reading already exists for this shift and fuel type").
		WithDetail("shiftDate", key.ShiftDate.Format("2006-01-02")).
		WithDetail("shiftNumber", key.ShiftNumber).
		WithDetail("fuelTypeId", key.FuelTypeID)
	if key.BranchID != nil {
		e = e.WithDetail("branchId", *key.BranchID)
	}
	return e
}
