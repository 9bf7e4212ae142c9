package readings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationops/internal/core/types"
)

func TestGrossLiters(t *testing.T) {
	assert.Equal(t, types.MustLiters("250.500"),
		GrossLiters(types.MustLiters("1000.000"), types.MustLiters("1250.500")))

	// Equal readings dispense nothing
	assert.Equal(t, types.Liters(0),
		GrossLiters(types.MustLiters("500"), types.MustLiters("500")))

	// Never negative
	assert.Equal(t, types.Liters(0),
		GrossLiters(types.MustLiters("500"), types.MustLiters("400")))
}

func TestNetLiters(t *testing.T) {
	net := NetLiters(types.MustLiters("1000"), types.MustLiters("1250.500"), types.MustLiters("0.500"))
	assert.Equal(t, types.MustLiters("250.000"), net)

	// Adjustment larger than gross clamps to zero
	net = NetLiters(types.MustLiters("1000"), types.MustLiters("1001"), types.MustLiters("5"))
	assert.Equal(t, types.Liters(0), net)
}

// A diesel pump goes 1000.000 -> 1250.500 with 0.5 L of calibration
// dispensing at 60 pesos per liter: 250 L net, 15000.00 value.
func TestDerivationDieselShift(t *testing.T) {
	net := NetLiters(
		types.MustLiters("1000.000"),
		types.MustLiters("1250.500"),
		types.MustLiters("0.500"),
	)
	require.Equal(t, types.MustLiters("250.000"), net)

	value := TotalValue(net, types.MustMoney("60.00"))
	assert.True(t, value.Equal(types.MustMoney("15000.00")), "got %s", value.String())
}

func TestNewShiftFuelReading(t *testing.T) {
	key := ScopeKey{
		ShiftDate:   time.Date(2026, 8, 14, 15, 30, 0, 0, time.UTC),
		ShiftNumber: 2,
		FuelTypeID:  newID(t),
	}

	r := NewShiftFuelReading(key, types.MustLiters("1000"))

	assert.Equal(t, StatusOpen, r.Status)
	assert.Equal(t, 1, r.Version)
	// Date is normalized to midnight UTC
	assert.Equal(t, time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC), r.ShiftDate)
	assert.Nil(t, r.EndingReading)
	assert.Nil(t, r.LitersDispensed)
	assert.Nil(t, r.TotalValue)
}

func TestPreviewNet(t *testing.T) {
	key := ScopeKey{ShiftNumber: 1, FuelTypeID: newID(t)}
	r := NewShiftFuelReading(key, types.MustLiters("1000"))

	// No ending yet: no preview
	assert.Nil(t, r.PreviewNet())

	ending := types.MustLiters("1250.500")
	r.EndingReading = &ending
	r.AdjustmentLiters = types.MustLiters("0.500")

	preview := r.PreviewNet()
	require.NotNil(t, preview)
	assert.Equal(t, types.MustLiters("250.000"), *preview)

	// Preview must not touch the persisted derived fields
	assert.Nil(t, r.LitersDispensed)
	assert.Nil(t, r.TotalValue)
	assert.Equal(t, StatusOpen, r.Status)
}

func TestValidateEnding(t *testing.T) {
	err := validateEnding(types.MustLiters("1000"), types.MustLiters("999.999"))
	assert.Error(t, err)

	assert.NoError(t, validateEnding(types.MustLiters("1000"), types.MustLiters("1000")))
	assert.NoError(t, validateEnding(types.MustLiters("1000"), types.MustLiters("1000.001")))
}

func TestValidateBeginning(t *testing.T) {
	assert.Error(t, validateBeginning(types.MustLiters("-0.001")))
	assert.NoError(t, validateBeginning(types.Liters(0)))
}

func TestValidateAdjustment(t *testing.T) {
	assert.Error(t, validateAdjustment(types.MustLiters("-1")))
	assert.NoError(t, validateAdjustment(types.Liters(0)))
}

func TestNormalizeDate(t *testing.T) {
	manila := time.FixedZone("PST", 8*3600)
	// 2026-08-14 02:00 +08 is 2026-08-13 18:00 UTC
	local := time.Date(2026, 8, 14, 2, 0, 0, 0, manila)
	assert.Equal(t, time.Date(2026, 8, 13, 0, 0, 0, 0, time.UTC), NormalizeDate(local))
}
