// Package readings implements the shift-based fuel reading engine:
// one record per (branch, date, shift, fuel type) holding pump totalizer
// values, with an open -> closed -> unlocked -> closed lifecycle and
// centrally derived dispensed volume and value.
package readings

import (
	"time"

	"stationops/internal/core/apperror"
	"stationops/internal/core/entity"
	"stationops/internal/core/id"
	"stationops/internal/core/types"
)

// Status is the reading lifecycle state. "unlocked" is a persisted state:
// an admin has reopened a closed reading for correction, and every session
// sees the same editability.
type Status string

const (
	StatusOpen     Status = "open"
	StatusClosed   Status = "closed"
	StatusUnlocked Status = "unlocked"
)

// ScopeKey is the natural key of a reading. Exactly one reading may exist
// per key; BranchID is nil when multi-branch scoping is off.
type ScopeKey struct {
	BranchID    *id.ID
	ShiftDate   time.Time
	ShiftNumber int
	FuelTypeID  id.ID
}

// ShiftFuelReading is the core entity of the engine.
type ShiftFuelReading struct {
	entity.BaseRecord

	BranchID    *id.ID    `db:"branch_id" json:"branchId,omitempty"`
	ShiftDate   time.Time `db:"shift_date" json:"shiftDate"`
	ShiftNumber int       `db:"shift_number" json:"shiftNumber"`
	FuelTypeID  id.ID     `db:"fuel_type_id" json:"fuelTypeId"`

	BeginningReading types.Liters  `db:"beginning_reading" json:"beginningReading"`
	EndingReading    *types.Liters `db:"ending_reading" json:"endingReading,omitempty"`

	// AdjustmentLiters is metered volume to exclude (test dispensing,
	// calibration), subtracted from gross before valuing the shift.
	AdjustmentLiters types.Liters `db:"adjustment_liters" json:"adjustmentLiters"`
	AdjustmentReason *string      `db:"adjustment_reason" json:"adjustmentReason,omitempty"`

	// PricePerLiter is captured from the fuel type at close time and kept
	// for historical reporting. Zero while the reading is open.
	PricePerLiter types.Money `db:"price_per_liter" json:"pricePerLiter"`

	// Derived fields, written only by the service at close/relock.
	LitersDispensed *types.Liters `db:"liters_dispensed" json:"litersDispensed,omitempty"`
	TotalValue      *types.Money  `db:"total_value" json:"totalValue,omitempty"`

	Status   Status     `db:"status" json:"status"`
	ClosedAt *time.Time `db:"closed_at" json:"closedAt,omitempty"`
}

// NewShiftFuelReading creates an open reading for a scope key.
func NewShiftFuelReading(key ScopeKey, beginning types.Liters) *ShiftFuelReading {
	return &ShiftFuelReading{
		BaseRecord:       entity.NewBaseRecord(),
		BranchID:         key.BranchID,
		ShiftDate:        NormalizeDate(key.ShiftDate),
		ShiftNumber:      key.ShiftNumber,
		FuelTypeID:       key.FuelTypeID,
		BeginningReading: beginning,
		Status:           StatusOpen,
	}
}

// Scope returns the reading's natural key.
func (r *ShiftFuelReading) Scope() ScopeKey {
	return ScopeKey{
		BranchID:    r.BranchID,
		ShiftDate:   r.ShiftDate,
		ShiftNumber: r.ShiftNumber,
		FuelTypeID:  r.FuelTypeID,
	}
}

// PreviewNet computes what liters_dispensed would be from the current raw
// fields, without persisting anything. Used while the reading is open.
// Returns nil when no ending reading has been entered yet.
func (r *ShiftFuelReading) PreviewNet() *types.Liters {
	if r.EndingReading == nil {
		return nil
	}
	n := NetLiters(r.BeginningReading, *r.EndingReading, r.AdjustmentLiters)
	return &n
}

// NormalizeDate truncates a timestamp to its UTC calendar date.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// --- Derivation (the single calculation contract) ---

// GrossLiters is max(0, ending - beginning).
func GrossLiters(beginning, ending types.Liters) types.Liters {
	g := ending.Sub(beginning)
	if g.IsNegative() {
		return 0
	}
	return g
}

// NetLiters is max(0, gross - adjustment). The adjustment must never
// drive the result negative; clamp to zero.
func NetLiters(beginning, ending, adjustment types.Liters) types.Liters {
	n := GrossLiters(beginning, ending).Sub(adjustment)
	if n.IsNegative() {
		return 0
	}
	return n
}

// TotalValue is liters x price at full precision. Rounding to two places
// happens only at display time.
func TotalValue(liters types.Liters, pricePerLiter types.Money) types.Money {
	return pricePerLiter.Mul(liters.Decimal())
}

// --- Input validation ---

func validateBeginning(beginning types.Liters) error {
	if beginning.IsNegative() {
		return apperror.NewValidation("beginning reading must not be negative").
			WithDetail("field", "beginningReading").
			WithDetail("value", beginning.String())
	}
	return nil
}

func validateEnding(beginning, ending types.Liters) error {
	if ending.Sub(beginning).IsNegative() {
		return apperror.NewValidation("ending reading must be greater than or equal to beginning reading").
			WithDetail("field", "endingReading").
			WithDetail("beginningReading", beginning.String()).
			WithDetail("endingReading", ending.String())
	}
	return nil
}

func validateAdjustment(adjustment types.Liters) error {
	if adjustment.IsNegative() {
		return apperror.NewValidation("adjustment liters must not be negative").
			WithDetail("field", "adjustmentLiters").
			WithDetail("value", adjustment.String())
	}
	return nil
}

// snapshot returns the audit representation of the reading.
func (r *ShiftFuelReading) snapshot() map[string]any {
	snap := map[string]any{
		"beginningReading": r.BeginningReading.String(),
		"adjustmentLiters": r.AdjustmentLiters.String(),
		"pricePerLiter":    r.PricePerLiter.String(),
		"status":           string(r.Status),
	}
	if r.EndingReading != nil {
		snap["endingReading"] = r.EndingReading.String()
	}
	if r.LitersDispensed != nil {
		snap["litersDispensed"] = r.LitersDispensed.String()
	}
	if r.TotalValue != nil {
		snap["totalValue"] = r.TotalValue.String()
	}
	if r.AdjustmentReason != nil {
		snap["adjustmentReason"] = *r.AdjustmentReason
	}
	return snap
}
