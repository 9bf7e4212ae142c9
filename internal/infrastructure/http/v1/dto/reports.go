package dto

import (
	"stationops/internal/domain/accountability"
)

// AccountabilityQuery selects one shift for the reconciliation report.
type AccountabilityQuery struct {
	BranchID    string `form:"branchId"`
	AnyBranch   bool   `form:"anyBranch"`
	Date        string `form:"date" binding:"required"`
	ShiftNumber int    `form:"shiftNumber" binding:"required,min=1"`
}

// ToScope converts the query to a domain scope.
func (q AccountabilityQuery) ToScope() (accountability.Scope, error) {
	date, err := ParseDate("date", q.Date)
	if err != nil {
		return accountability.Scope{}, err
	}
	branchID, err := ParseOptionalID("branchId", q.BranchID)
	if err != nil {
		return accountability.Scope{}, err
	}
	shift := q.ShiftNumber
	return accountability.Scope{
		BranchID:    branchID,
		HasBranch:   !q.AnyBranch,
		Date:        date,
		ShiftNumber: &shift,
	}, nil
}

// DailyReportQuery selects a full calendar day.
type DailyReportQuery struct {
	BranchID  string `form:"branchId"`
	AnyBranch bool   `form:"anyBranch"`
	Date      string `form:"date" binding:"required"`
}
