package branch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftsForFallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultShiftPlan(), ShiftsFor(nil))

	b := NewBranch("MAIN", "Main Station")
	assert.Equal(t, DefaultShiftPlan(), ShiftsFor(b))

	b.Shifts = ShiftPlan{
		{Number: 1, Label: "Morning", Start: "05:00", End: "13:00"},
		{Number: 2, Label: "Evening", Start: "13:00", End: "21:00"},
	}
	assert.Equal(t, b.Shifts, ShiftsFor(b))
}

func TestShiftPlanContains(t *testing.T) {
	plan := DefaultShiftPlan()

	assert.True(t, plan.Contains(1))
	assert.True(t, plan.Contains(3))
	assert.False(t, plan.Contains(0))
	assert.False(t, plan.Contains(4))
}

func TestShiftPlanScanValue(t *testing.T) {
	plan := ShiftPlan{
		{Number: 1, Label: "Shift 1", Start: "04:00", End: "12:00"},
	}

	v, err := plan.Value()
	require.NoError(t, err)

	var scanned ShiftPlan
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, plan, scanned)

	// Nil plan round-trips as NULL
	var empty ShiftPlan
	v, err = empty.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	var fromNull ShiftPlan
	require.NoError(t, fromNull.Scan(nil))
	assert.Nil(t, fromNull)
}

func TestBranchValidate(t *testing.T) {
	b := NewBranch("MAIN", "Main Station")
	assert.NoError(t, b.Validate(context.Background()))

	b.Code = ""
	assert.Error(t, b.Validate(context.Background()))

	b = NewBranch("BLGS", "Balingasag Station")
	b.Shifts = ShiftPlan{{Number: 0, Label: "bad", Start: "04:00", End: "12:00"}}
	assert.Error(t, b.Validate(context.Background()))
}
