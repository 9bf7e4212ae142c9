// Package types provides common type aliases and utilities.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// Liters is a fixed-point fuel volume with 3 decimal places (scale = 1e3),
// cubic-centimeter resolution for dispensed fuel.
//
// Rationale:
// - Matches Postgres NUMERIC(15,3) semantics without floating point errors
// - Easy to store as BIGINT in DB (scaled integer)
// - JSON remains a number with up to 3 decimals
type Liters int64

const LitersScale int64 = 1_000

func NewLitersFromFloat64(v float64) Liters {
	return Liters(math.Round(v * float64(LitersScale)))
}

func NewLitersFromInt64Scaled(v int64) Liters { return Liters(v) }

// NewLitersFromString parses a decimal string into fixed-point liters.
func NewLitersFromString(s string) (Liters, error) {
	return parseLitersString(s)
}

// MustLiters parses a decimal string, panics on error. Use only for tests.
func MustLiters(s string) Liters {
	l, err := parseLitersString(s)
	if err != nil {
		panic(err)
	}
	return l
}

func (l Liters) Int64Scaled() int64 { return int64(l) }

func (l Liters) Float64() float64 { return float64(l) / float64(LitersScale) }

// Decimal converts to decimal.Decimal for monetary multiplication.
func (l Liters) Decimal() decimal.Decimal {
	return decimal.New(int64(l), -3)
}

func (l Liters) IsZero() bool { return l == 0 }

func (l Liters) IsPositive() bool { return l > 0 }

func (l Liters) IsNegative() bool { return l < 0 }

func (l Liters) Add(other Liters) Liters { return l + other }

func (l Liters) Sub(other Liters) Liters { return l - other }

func (l Liters) Neg() Liters { return -l }

func (l Liters) Abs() Liters {
	if l < 0 {
		return -l
	}
	return l
}

// String returns a decimal string with 3 fractional digits.
func (l Liters) String() string {
	neg := l < 0
	v := l
	if neg {
		v = -v
	}
	intPart := int64(v) / LitersScale
	frac := int64(v) % LitersScale
	if neg {
		return fmt.Sprintf("-%d.%03d", intPart, frac)
	}
	return fmt.Sprintf("%d.%03d", intPart, frac)
}

// MarshalJSON encodes Liters as JSON number (not string), preserving 3 digits.
func (l Liters) MarshalJSON() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalJSON accepts either a JSON number or string and parses to fixed-point (3 digits).
func (l *Liters) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = 0
		return nil
	}

	// If string, unquote first.
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := parseLitersString(s)
		if err != nil {
			return err
		}
		*l = parsed
		return nil
	}

	// Otherwise treat as number token.
	parsed, err := parseLitersString(string(data))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func parseLitersString(s string) (Liters, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty liters value")
	}

	// Exponent form is not supported to keep parsing strict.
	if strings.ContainsAny(s, "eE") {
		return 0, fmt.Errorf("parse liters: exponent form not supported: %q", s)
	}

	sign := int64(1)
	if strings.HasPrefix(s, "-") {
		sign = -1
		s = strings.TrimPrefix(s, "-")
	} else if strings.HasPrefix(s, "+") {
		s = strings.TrimPrefix(s, "+")
	}

	parts := strings.SplitN(s, ".", 2)
	intPartStr := parts[0]
	fracStr := ""
	if len(parts) == 2 {
		fracStr = parts[1]
	}

	if intPartStr == "" {
		intPartStr = "0"
	}
	intPart, err := strconv.ParseInt(intPartStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse liters integer part: %w", err)
	}

	// Normalize fractional part to 3 digits. More than 3 digits would lose
	// precision silently, so it is rejected.
	if len(fracStr) > 3 {
		return 0, fmt.Errorf("parse liters: at most 3 fractional digits allowed: %q", s)
	}
	for len(fracStr) < 3 {
		fracStr += "0"
	}
	frac, err := strconv.ParseInt(fracStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse liters fractional part: %w", err)
	}

	return Liters(sign * (intPart*LitersScale + frac)), nil
}
