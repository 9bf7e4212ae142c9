// Package accountability computes the per-shift reconciliation report:
// recorded sales value versus cash/check/deposit remittance, producing a
// signed short/over figure.
package accountability

import (
	"time"

	"stationops/internal/core/id"
	"stationops/internal/core/types"
	"stationops/internal/domain/readings"
)

// Scope selects the readings and sibling records to aggregate.
// ShiftNumber nil means "the whole calendar day" (daily report).
type Scope struct {
	BranchID    *id.ID
	HasBranch   bool
	Date        time.Time
	ShiftNumber *int
}

// CategoryStatus tells whether a sibling category was fetched. A category
// that failed to load is "unavailable", never silently zero.
type CategoryStatus string

const (
	CategoryOK          CategoryStatus = "ok"
	CategoryUnavailable CategoryStatus = "unavailable"
)

// CategoryStatuses carries the per-category fetch outcome.
type CategoryStatuses struct {
	ProductSales   CategoryStatus `json:"productSales"`
	ChargeInvoices CategoryStatus `json:"chargeInvoices"`
	Deposits       CategoryStatus `json:"deposits"`
	Checks         CategoryStatus `json:"checks"`
	Expenses       CategoryStatus `json:"expenses"`
	Disbursements  CategoryStatus `json:"disbursements"`
}

// FuelLine is the per-fuel-type breakdown. Fuel types with no reading in
// scope are absent from the report, not rendered as zero.
type FuelLine struct {
	FuelTypeID      id.ID           `json:"fuelTypeId"`
	ShortCode       string          `json:"shortCode"`
	Name            string          `json:"name"`
	Status          readings.Status `json:"status"`
	LitersDispensed types.Liters    `json:"litersDispensed"`
	PricePerLiter   types.Money     `json:"pricePerLiter"`
	TotalValue      types.Money     `json:"totalValue"`
}

// ProductTotals holds non-fuel sales split by category.
type ProductTotals struct {
	OilLubes      types.Money `json:"oilLubes"`
	Accessories   types.Money `json:"accessories"`
	Services      types.Money `json:"services"`
	Miscellaneous types.Money `json:"miscellaneous"`
}

// Sum returns the combined product sales.
func (p ProductTotals) Sum() types.Money {
	return p.OilLubes.Add(p.Accessories).Add(p.Services).Add(p.Miscellaneous)
}

// Report is the computed accountability structure. It is transient: built
// on demand, never persisted.
type Report struct {
	BranchID    *id.ID     `json:"branchId,omitempty"`
	Date        time.Time  `json:"date"`
	ShiftNumber *int       `json:"shiftNumber,omitempty"`
	GeneratedAt time.Time  `json:"generatedAt"`

	FuelLines      []FuelLine    `json:"fuelLines"`
	TotalFuelSales types.Money   `json:"totalFuelSales"`
	ProductSales   ProductTotals `json:"productSales"`

	TotalChargeInvoices types.Money `json:"totalChargeInvoices"`
	TotalDeposits       types.Money `json:"totalDeposits"`
	TotalCashDeposits   types.Money `json:"totalCashDeposits"`
	TotalGcashDeposits  types.Money `json:"totalGcashDeposits"`
	TotalChecks         types.Money `json:"totalChecks"`
	TotalExpenses       types.Money `json:"totalExpenses"`
	TotalPurchases      types.Money `json:"totalPurchases"`

	// TotalAccountability = fuel + product categories.
	TotalAccountability types.Money `json:"totalAccountability"`
	// TotalRemittance = deposits + checks.
	TotalRemittance types.Money `json:"totalRemittance"`
	// ShortOver = remittance - (accountability - chargeInvoices - expenses - purchases).
	// Signed: positive is over, negative is short. Diagnostic only.
	ShortOver types.Money `json:"shortOver"`

	Categories CategoryStatuses `json:"categories"`
	// Partial is set when any sibling category was unavailable.
	Partial bool `json:"partial"`
}
