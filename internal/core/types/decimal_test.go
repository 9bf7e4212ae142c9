package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLitersParsing(t *testing.T) {
	tests := []struct {
		in   string
		want Liters
	}{
		{"0", 0},
		{"1", 1000},
		{"1.5", 1500},
		{"1250.500", 1250500},
		{"0.001", 1},
		{"-3.25", -3250},
		{".5", 500},
	}

	for _, tt := range tests {
		got, err := NewLitersFromString(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestLitersParsingErrors(t *testing.T) {
	inputs := []string{
		"", "abc", "1.2.3",
		// Exponent form is rejected, not parsed via float
		"1e3", "1.5E2",
		// More than 3 fractional digits would truncate
		"10.1234",
	}
	for _, in := range inputs {
		_, err := NewLitersFromString(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestLitersString(t *testing.T) {
	assert.Equal(t, "0.000", Liters(0).String())
	assert.Equal(t, "1250.500", MustLiters("1250.5").String())
	assert.Equal(t, "-3.250", MustLiters("-3.25").String())
	assert.Equal(t, "0.001", Liters(1).String())
}

func TestLitersArithmetic(t *testing.T) {
	a := MustLiters("1250.500")
	b := MustLiters("1000.000")

	assert.Equal(t, MustLiters("250.500"), a.Sub(b))
	assert.Equal(t, MustLiters("2250.500"), a.Add(b))
	assert.True(t, b.Sub(a).IsNegative())
	assert.Equal(t, MustLiters("250.500"), b.Sub(a).Abs())
}

func TestLitersDecimal(t *testing.T) {
	l := MustLiters("250.000")
	price := MustMoney("60.00")

	value := price.Mul(l.Decimal())
	assert.True(t, value.Equal(MustMoney("15000.00")), "got %s", value.String())
}

func TestLitersJSON(t *testing.T) {
	data, err := json.Marshal(MustLiters("1250.5"))
	require.NoError(t, err)
	assert.Equal(t, "1250.500", string(data))

	var fromNumber Liters
	require.NoError(t, json.Unmarshal([]byte("1250.5"), &fromNumber))
	assert.Equal(t, MustLiters("1250.5"), fromNumber)

	var fromString Liters
	require.NoError(t, json.Unmarshal([]byte(`"1250.500"`), &fromString))
	assert.Equal(t, MustLiters("1250.5"), fromString)

	var fromNull Liters
	require.NoError(t, json.Unmarshal([]byte("null"), &fromNull))
	assert.Equal(t, Liters(0), fromNull)
}
