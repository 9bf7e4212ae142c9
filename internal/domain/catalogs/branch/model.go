// Package branch provides the branch catalog and per-branch shift
// configuration. Shift count and time windows vary by branch.
package branch

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"stationops/internal/core/apperror"
	"stationops/internal/core/entity"
	"stationops/internal/core/id"
)

// Shift is one station-defined time window. Times are 24h "15:04" strings;
// a shift may wrap past midnight (end < start).
type Shift struct {
	Number int    `json:"number"`
	Label  string `json:"label"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// ShiftPlan is the ordered set of shifts for a branch, stored as JSONB.
type ShiftPlan []Shift

// DefaultShiftPlan is the standard three-shift day used when a branch
// carries no plan of its own.
func DefaultShiftPlan() ShiftPlan {
	return ShiftPlan{
		{Number: 1, Label: "Shift 1 (4:00 AM - 12:00 PM)", Start: "04:00", End: "12:00"},
		{Number: 2, Label: "Shift 2 (12:00 PM - 8:00 PM)", Start: "12:00", End: "20:00"},
		{Number: 3, Label: "Shift 3 (8:00 PM - 4:00 AM)", Start: "20:00", End: "04:00"},
	}
}

// Scan implements sql.Scanner for reading from PostgreSQL JSONB.
func (p *ShiftPlan) Scan(src any) error {
	if src == nil {
		*p = nil
		return nil
	}

	var source []byte
	switch v := src.(type) {
	case []byte:
		source = v
	case string:
		source = []byte(v)
	default:
		return fmt.Errorf("unsupported type for ShiftPlan: %T", src)
	}

	if len(source) == 0 {
		*p = nil
		return nil
	}
	return json.Unmarshal(source, p)
}

// Value implements driver.Valuer for writing to PostgreSQL JSONB.
func (p ShiftPlan) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

// Contains reports whether the plan defines the given shift number.
func (p ShiftPlan) Contains(number int) bool {
	for _, s := range p {
		if s.Number == number {
			return true
		}
	}
	return false
}

// Branch is one fuel station location.
type Branch struct {
	entity.BaseCatalog

	Code     string    `db:"code" json:"code"`
	Name     string    `db:"name" json:"name"`
	Address  string    `db:"address" json:"address,omitempty"`
	IsActive bool      `db:"is_active" json:"isActive"`
	Shifts   ShiftPlan `db:"shifts" json:"shifts,omitempty"`
}

// NewBranch creates a branch with generated ID.
func NewBranch(code, name string) *Branch {
	return &Branch{
		BaseCatalog: entity.NewBaseCatalog(),
		Code:        code,
		Name:        name,
		IsActive:    true,
	}
}

// Validate implements entity.Validatable.
func (b *Branch) Validate(ctx context.Context) error {
	if b.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if b.Code == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}
	for _, s := range b.Shifts {
		if s.Number <= 0 {
			return apperror.NewValidation("shift number must be positive").
				WithDetail("field", "shifts").
				WithDetail("number", s.Number)
		}
	}
	return nil
}

// ShiftsFor returns the effective shift plan for a branch, falling back
// to the default plan. A nil branch means "no branch scoping".
func ShiftsFor(b *Branch) ShiftPlan {
	if b == nil || len(b.Shifts) == 0 {
		return DefaultShiftPlan()
	}
	return b.Shifts
}

// Repository is the storage port for branches.
type Repository interface {
	Create(ctx context.Context, b *Branch) error
	Update(ctx context.Context, b *Branch) error
	GetByID(ctx context.Context, branchID id.ID) (*Branch, error)
	GetByCode(ctx context.Context, code string) (*Branch, error)
	List(ctx context.Context) ([]*Branch, error)
	ListActive(ctx context.Context) ([]*Branch, error)
}
