package dto

import (
	"time"

	"stationops/internal/core/id"
	"stationops/internal/core/types"
	"stationops/internal/domain/readings"
)

// ScopeQuery identifies one reading by its natural key.
type ScopeQuery struct {
	BranchID    string `form:"branchId"`
	ShiftDate   string `form:"shiftDate" binding:"required"`
	ShiftNumber int    `form:"shiftNumber" binding:"required,min=1"`
	FuelTypeID  string `form:"fuelTypeId" binding:"required"`
}

// ToScopeKey converts the query to a domain scope key.
func (q ScopeQuery) ToScopeKey() (readings.ScopeKey, error) {
	date, err := ParseDate("shiftDate", q.ShiftDate)
	if err != nil {
		return readings.ScopeKey{}, err
	}
	fuelTypeID, err := ParseID("fuelTypeId", q.FuelTypeID)
	if err != nil {
		return readings.ScopeKey{}, err
	}
	branchID, err := ParseOptionalID("branchId", q.BranchID)
	if err != nil {
		return readings.ScopeKey{}, err
	}
	return readings.ScopeKey{
		BranchID:    branchID,
		ShiftDate:   date,
		ShiftNumber: q.ShiftNumber,
		FuelTypeID:  fuelTypeID,
	}, nil
}

// ListReadingsQuery filters the reading list endpoint.
type ListReadingsQuery struct {
	BranchID    string `form:"branchId"`
	AnyBranch   bool   `form:"anyBranch"`
	ShiftDate   string `form:"shiftDate"`
	ShiftNumber *int   `form:"shiftNumber"`
	FuelTypeID  string `form:"fuelTypeId"`
	Status      string `form:"status"`
}

// ToFilter converts the query to a domain list filter. Branch scoping
// applies unless anyBranch is set; an empty branchId then means
// "records with no branch".
func (q ListReadingsQuery) ToFilter() (readings.ListFilter, error) {
	filter := readings.ListFilter{
		HasBranch: !q.AnyBranch,
		Status:    readings.Status(q.Status),
	}

	branchID, err := ParseOptionalID("branchId", q.BranchID)
	if err != nil {
		return readings.ListFilter{}, err
	}
	filter.BranchID = branchID

	if q.ShiftDate != "" {
		date, err := ParseDate("shiftDate", q.ShiftDate)
		if err != nil {
			return readings.ListFilter{}, err
		}
		filter.ShiftDate = &date
	}
	filter.ShiftNumber = q.ShiftNumber

	if q.FuelTypeID != "" {
		ftID, err := ParseID("fuelTypeId", q.FuelTypeID)
		if err != nil {
			return readings.ListFilter{}, err
		}
		filter.FuelTypeID = &ftID
	}
	return filter, nil
}

// StartReadingRequest opens a reading for a shift/fuel-type scope.
type StartReadingRequest struct {
	BranchID         string       `json:"branchId"`
	ShiftDate        string       `json:"shiftDate" binding:"required"`
	ShiftNumber      int          `json:"shiftNumber" binding:"required,min=1"`
	FuelTypeID       string       `json:"fuelTypeId" binding:"required"`
	BeginningReading types.Liters `json:"beginningReading"`
}

// ToParams converts the request to domain start params.
func (r StartReadingRequest) ToParams() (readings.StartParams, error) {
	date, err := ParseDate("shiftDate", r.ShiftDate)
	if err != nil {
		return readings.StartParams{}, err
	}
	fuelTypeID, err := ParseID("fuelTypeId", r.FuelTypeID)
	if err != nil {
		return readings.StartParams{}, err
	}
	branchID, err := ParseOptionalID("branchId", r.BranchID)
	if err != nil {
		return readings.StartParams{}, err
	}
	return readings.StartParams{
		Scope: readings.ScopeKey{
			BranchID:    branchID,
			ShiftDate:   date,
			ShiftNumber: r.ShiftNumber,
			FuelTypeID:  fuelTypeID,
		},
		BeginningReading: r.BeginningReading,
	}, nil
}

// CloseReadingRequest closes an open reading.
type CloseReadingRequest struct {
	EndingReading    types.Liters `json:"endingReading"`
	AdjustmentLiters types.Liters `json:"adjustmentLiters"`
	AdjustmentReason *string      `json:"adjustmentReason"`
}

// ToParams converts the request to domain close params.
func (r CloseReadingRequest) ToParams() readings.CloseParams {
	return readings.CloseParams{
		EndingReading:    r.EndingReading,
		AdjustmentLiters: r.AdjustmentLiters,
		AdjustmentReason: r.AdjustmentReason,
	}
}

// EditReadingRequest updates raw fields of an open reading.
type EditReadingRequest struct {
	BeginningReading types.Liters  `json:"beginningReading"`
	EndingReading    *types.Liters `json:"endingReading"`
	AdjustmentLiters *types.Liters `json:"adjustmentLiters"`
	AdjustmentReason *string       `json:"adjustmentReason"`
}

// ToParams converts the request to domain edit params.
func (r EditReadingRequest) ToParams() readings.EditParams {
	return readings.EditParams{
		BeginningReading: r.BeginningReading,
		EndingReading:    r.EndingReading,
		AdjustmentLiters: r.AdjustmentLiters,
		AdjustmentReason: r.AdjustmentReason,
	}
}

// RelockReadingRequest applies corrections to an unlocked reading and
// closes it again.
type RelockReadingRequest struct {
	BeginningReading types.Liters  `json:"beginningReading"`
	EndingReading    types.Liters  `json:"endingReading"`
	AdjustmentLiters types.Liters  `json:"adjustmentLiters"`
	AdjustmentReason *string       `json:"adjustmentReason"`
	RecapturePrice   bool          `json:"recapturePrice"`
}

// ToParams converts the request to domain relock params.
func (r RelockReadingRequest) ToParams() readings.RelockParams {
	return readings.RelockParams{
		BeginningReading: r.BeginningReading,
		EndingReading:    r.EndingReading,
		AdjustmentLiters: r.AdjustmentLiters,
		AdjustmentReason: r.AdjustmentReason,
		RecapturePrice:   r.RecapturePrice,
	}
}

// ReadingResponse is the wire representation of a reading. PreviewNet is
// an in-memory calculation for open readings; the persisted derived
// fields stay null until close.
type ReadingResponse struct {
	ID          string `json:"id"`
	Version     int    `json:"version"`
	BranchID    *id.ID `json:"branchId,omitempty"`
	ShiftDate   string `json:"shiftDate"`
	ShiftNumber int    `json:"shiftNumber"`
	FuelTypeID  string `json:"fuelTypeId"`

	BeginningReading types.Liters  `json:"beginningReading"`
	EndingReading    *types.Liters `json:"endingReading,omitempty"`
	AdjustmentLiters types.Liters  `json:"adjustmentLiters"`
	AdjustmentReason *string       `json:"adjustmentReason,omitempty"`

	PricePerLiter   types.Money   `json:"pricePerLiter"`
	LitersDispensed *types.Liters `json:"litersDispensed,omitempty"`
	TotalValue      *types.Money  `json:"totalValue,omitempty"`
	PreviewNet      *types.Liters `json:"previewNet,omitempty"`

	Status   string     `json:"status"`
	ClosedAt *time.Time `json:"closedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CreatedBy string    `json:"createdBy,omitempty"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
}

// FromReading creates ReadingResponse from the domain entity.
func FromReading(r *readings.ShiftFuelReading) ReadingResponse {
	resp := ReadingResponse{
		ID:               r.ID.String(),
		Version:          r.Version,
		BranchID:         r.BranchID,
		ShiftDate:        r.ShiftDate.Format(DateLayout),
		ShiftNumber:      r.ShiftNumber,
		FuelTypeID:       r.FuelTypeID.String(),
		BeginningReading: r.BeginningReading,
		EndingReading:    r.EndingReading,
		AdjustmentLiters: r.AdjustmentLiters,
		AdjustmentReason: r.AdjustmentReason,
		PricePerLiter:    r.PricePerLiter,
		LitersDispensed:  r.LitersDispensed,
		TotalValue:       r.TotalValue,
		Status:           string(r.Status),
		ClosedAt:         r.ClosedAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		CreatedBy:        r.CreatedBy,
		UpdatedBy:        r.UpdatedBy,
	}
	if r.Status == readings.StatusOpen {
		resp.PreviewNet = r.PreviewNet()
	}
	return resp
}

// FromReadings maps a slice of readings.
func FromReadings(rows []*readings.ShiftFuelReading) []ReadingResponse {
	result := make([]ReadingResponse, 0, len(rows))
	for _, r := range rows {
		result = append(result, FromReading(r))
	}
	return result
}
