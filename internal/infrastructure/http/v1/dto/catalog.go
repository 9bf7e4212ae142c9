package dto

import (
	"stationops/internal/core/types"
	"stationops/internal/domain/catalogs/branch"
	"stationops/internal/domain/catalogs/fueltype"
)

// --- Fuel types ---

// CreateFuelTypeRequest adds a fuel type to the catalog.
type CreateFuelTypeRequest struct {
	ShortCode    string      `json:"shortCode" binding:"required"`
	Name         string      `json:"name" binding:"required"`
	CurrentPrice types.Money `json:"currentPrice"`
	IsDiscounted bool        `json:"isDiscounted"`
}

// ToEntity converts the request to a domain entity.
func (r CreateFuelTypeRequest) ToEntity() *fueltype.FuelType {
	ft := fueltype.NewFuelType(r.ShortCode, r.Name, r.CurrentPrice)
	ft.IsDiscounted = r.IsDiscounted
	return ft
}

// UpdateFuelTypeRequest modifies catalog fields. Price changes must go
// through the price update endpoint.
type UpdateFuelTypeRequest struct {
	ShortCode    *string `json:"shortCode"`
	Name         *string `json:"name"`
	IsActive     *bool   `json:"isActive"`
	IsDiscounted *bool   `json:"isDiscounted"`
	Version      int     `json:"version" binding:"required,min=1"`
}

// ApplyTo mutates an existing entity with the request fields.
func (r UpdateFuelTypeRequest) ApplyTo(ft *fueltype.FuelType) {
	if r.ShortCode != nil {
		ft.ShortCode = *r.ShortCode
	}
	if r.Name != nil {
		ft.Name = *r.Name
	}
	if r.IsActive != nil {
		ft.IsActive = *r.IsActive
	}
	if r.IsDiscounted != nil {
		ft.IsDiscounted = *r.IsDiscounted
	}
	ft.SetVersion(r.Version + 1)
}

// UpdatePriceRequest changes the live per-liter price.
type UpdatePriceRequest struct {
	NewPrice types.Money `json:"newPrice"`
}

// FuelTypeResponse is the wire representation of a fuel type.
type FuelTypeResponse struct {
	ID           string      `json:"id"`
	Version      int         `json:"version"`
	ShortCode    string      `json:"shortCode"`
	Name         string      `json:"name"`
	CurrentPrice types.Money `json:"currentPrice"`
	IsActive     bool        `json:"isActive"`
	IsDiscounted bool        `json:"isDiscounted"`
}

// FromFuelType creates FuelTypeResponse from the domain entity.
func FromFuelType(ft *fueltype.FuelType) FuelTypeResponse {
	return FuelTypeResponse{
		ID:           ft.ID.String(),
		Version:      ft.Version,
		ShortCode:    ft.ShortCode,
		Name:         ft.Name,
		CurrentPrice: ft.CurrentPrice,
		IsActive:     ft.IsActive,
		IsDiscounted: ft.IsDiscounted,
	}
}

// FromFuelTypes maps a slice of fuel types.
func FromFuelTypes(fts []*fueltype.FuelType) []FuelTypeResponse {
	result := make([]FuelTypeResponse, 0, len(fts))
	for _, ft := range fts {
		result = append(result, FromFuelType(ft))
	}
	return result
}

// PriceChangeResponse is one price history row.
type PriceChangeResponse struct {
	ID        string      `json:"id"`
	OldPrice  types.Money `json:"oldPrice"`
	NewPrice  types.Money `json:"newPrice"`
	ChangedBy string      `json:"changedBy"`
	ChangedAt string      `json:"changedAt"`
}

// FromPriceChanges maps price history rows.
func FromPriceChanges(changes []*fueltype.PriceChange) []PriceChangeResponse {
	result := make([]PriceChangeResponse, 0, len(changes))
	for _, c := range changes {
		result = append(result, PriceChangeResponse{
			ID:        c.ID.String(),
			OldPrice:  c.OldPrice,
			NewPrice:  c.NewPrice,
			ChangedBy: c.ChangedBy,
			ChangedAt: c.ChangedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return result
}

// --- Branches ---

// ShiftDTO is one shift window of a branch plan.
type ShiftDTO struct {
	Number int    `json:"number" binding:"required,min=1"`
	Label  string `json:"label"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// CreateBranchRequest adds a branch.
type CreateBranchRequest struct {
	Code    string     `json:"code" binding:"required"`
	Name    string     `json:"name" binding:"required"`
	Address string     `json:"address"`
	Shifts  []ShiftDTO `json:"shifts"`
}

// ToEntity converts the request to a domain entity.
func (r CreateBranchRequest) ToEntity() *branch.Branch {
	b := branch.NewBranch(r.Code, r.Name)
	b.Address = r.Address
	b.Shifts = toShiftPlan(r.Shifts)
	return b
}

// UpdateBranchRequest modifies a branch, including its shift plan.
type UpdateBranchRequest struct {
	Code     *string    `json:"code"`
	Name     *string    `json:"name"`
	Address  *string    `json:"address"`
	IsActive *bool      `json:"isActive"`
	Shifts   []ShiftDTO `json:"shifts"`
	Version  int        `json:"version" binding:"required,min=1"`
}

// ApplyTo mutates an existing entity with the request fields.
func (r UpdateBranchRequest) ApplyTo(b *branch.Branch) {
	if r.Code != nil {
		b.Code = *r.Code
	}
	if r.Name != nil {
		b.Name = *r.Name
	}
	if r.Address != nil {
		b.Address = *r.Address
	}
	if r.IsActive != nil {
		b.IsActive = *r.IsActive
	}
	if r.Shifts != nil {
		b.Shifts = toShiftPlan(r.Shifts)
	}
	b.SetVersion(r.Version + 1)
}

func toShiftPlan(shifts []ShiftDTO) branch.ShiftPlan {
	if shifts == nil {
		return nil
	}
	plan := make(branch.ShiftPlan, 0, len(shifts))
	for _, s := range shifts {
		plan = append(plan, branch.Shift{
			Number: s.Number,
			Label:  s.Label,
			Start:  s.Start,
			End:    s.End,
		})
	}
	return plan
}

// BranchResponse is the wire representation of a branch. Shifts is the
// effective plan, after default fallback.
type BranchResponse struct {
	ID       string     `json:"id"`
	Version  int        `json:"version"`
	Code     string     `json:"code"`
	Name     string     `json:"name"`
	Address  string     `json:"address,omitempty"`
	IsActive bool       `json:"isActive"`
	Shifts   []ShiftDTO `json:"shifts"`
}

// FromBranch creates BranchResponse from the domain entity.
func FromBranch(b *branch.Branch) BranchResponse {
	plan := branch.ShiftsFor(b)
	shifts := make([]ShiftDTO, 0, len(plan))
	for _, s := range plan {
		shifts = append(shifts, ShiftDTO{
			Number: s.Number,
			Label:  s.Label,
			Start:  s.Start,
			End:    s.End,
		})
	}
	return BranchResponse{
		ID:       b.ID.String(),
		Version:  b.Version,
		Code:     b.Code,
		Name:     b.Name,
		Address:  b.Address,
		IsActive: b.IsActive,
		Shifts:   shifts,
	}
}

// FromBranches maps a slice of branches.
func FromBranches(bs []*branch.Branch) []BranchResponse {
	result := make([]BranchResponse, 0, len(bs))
	for _, b := range bs {
		result = append(result, FromBranch(b))
	}
	return result
}
