// Package fueltype provides the fuel type catalog: the price source for
// shift reading close/relock operations.
package fueltype

import (
	"context"
	"time"

	"stationops/internal/core/apperror"
	"stationops/internal/core/entity"
	"stationops/internal/core/id"
	"stationops/internal/core/types"
)

// FuelType is a dispensable product with a single current price per liter.
type FuelType struct {
	entity.BaseCatalog

	// ShortCode is the pump label (e.g. "DSL", "PREM")
	ShortCode string `db:"short_code" json:"shortCode"`

	Name string `db:"name" json:"name"`

	// CurrentPrice is the live per-liter price. Captured onto readings
	// at close time; historical readings keep their captured price.
	CurrentPrice types.Money `db:"current_price" json:"currentPrice"`

	IsActive     bool `db:"is_active" json:"isActive"`
	IsDiscounted bool `db:"is_discounted" json:"isDiscounted"`
}

// NewFuelType creates a fuel type with generated ID.
func NewFuelType(shortCode, name string, price types.Money) *FuelType {
	return &FuelType{
		BaseCatalog:  entity.NewBaseCatalog(),
		ShortCode:    shortCode,
		Name:         name,
		CurrentPrice: price,
		IsActive:     true,
	}
}

// Validate implements entity.Validatable.
func (f *FuelType) Validate(ctx context.Context) error {
	if f.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if f.ShortCode == "" {
		return apperror.NewValidation("short code is required").
			WithDetail("field", "shortCode")
	}
	if f.CurrentPrice.IsNegative() {
		return apperror.NewValidation("price must not be negative").
			WithDetail("field", "currentPrice").
			WithDetail("value", f.CurrentPrice.String())
	}
	return nil
}

// PriceChange is one row of the fuel price history.
type PriceChange struct {
	ID         id.ID       `db:"id" json:"id"`
	FuelTypeID id.ID       `db:"fuel_type_id" json:"fuelTypeId"`
	OldPrice   types.Money `db:"old_price" json:"oldPrice"`
	NewPrice   types.Money `db:"new_price" json:"newPrice"`
	ChangedBy  string      `db:"changed_by" json:"changedBy"`
	ChangedAt  time.Time   `db:"changed_at" json:"changedAt"`
}

// Repository is the storage port for fuel types and their price history.
type Repository interface {
	Create(ctx context.Context, ft *FuelType) error
	Update(ctx context.Context, ft *FuelType) error
	GetByID(ctx context.Context, ftID id.ID) (*FuelType, error)
	GetByShortCode(ctx context.Context, shortCode string) (*FuelType, error)
	List(ctx context.Context) ([]*FuelType, error)
	ListActive(ctx context.Context) ([]*FuelType, error)

	InsertPriceChange(ctx context.Context, change *PriceChange) error
	ListPriceHistory(ctx context.Context, ftID id.ID, limit int) ([]*PriceChange, error)
}
