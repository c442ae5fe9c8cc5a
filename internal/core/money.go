// Package core holds the expense domain types shared by the ledger, the
// derived views and the component registry.
//
// Amounts are kept as integer cents. Parsing and display go through
// shopspring/decimal so that "12,345" and "12.345" round the same way.
package core

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a non-negative currency amount in cents.
type Money struct {
	Cents int64
}

// MaxAmount is the largest amount a single expense may carry.
var MaxAmount = decimal.New(1, 12)

// ParseAmount converts a decimal string to Money with half-up rounding on the
// third decimal place. Both dot and comma separators are accepted.
//
//	ParseAmount("12.34")  -> 1234
//	ParseAmount("12,345") -> 1235
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return FromDecimal(d)
}

// FromFloat converts a float amount (as sent in JSON props) to Money.
func FromFloat(f float64) (Money, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Money{}, ErrInvalidAmount
	}
	return FromDecimal(decimal.NewFromFloat(f))
}

// FromDecimal rounds d to two places and returns it as cents. Negative
// amounts and amounts above MaxAmount are rejected.
func FromDecimal(d decimal.Decimal) (Money, error) {
	d = d.Round(2)
	if d.IsNegative() || d.GreaterThan(MaxAmount) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: d.Shift(2).IntPart()}, nil
}

// Decimal returns the amount as a decimal with two places.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Float returns the amount for charting. Use Cents for arithmetic.
func (m Money) Float() float64 {
	f, _ := m.Decimal().Float64()
	return f
}

// String formats the amount with two decimals, e.g. "120.00".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Add returns m + o, saturating at math.MaxInt64.
func (m Money) Add(o Money) Money {
	if o.Cents > 0 && m.Cents > math.MaxInt64-o.Cents {
		return Money{Cents: math.MaxInt64}
	}
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// MarshalJSON encodes the amount as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := json.Unmarshal(b, &d); err != nil {
		return ErrInvalidAmount
	}
	v, err := FromDecimal(d)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
