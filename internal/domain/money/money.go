// Package money provides an exact decimal value type for account balances
// and transaction amounts. All arithmetic is performed with arbitrary
// precision; currency values carry at most two fractional digits.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount indicates a malformed, negative, or over-precise amount
var ErrInvalidAmount = errors.New("amount must be a non-negative decimal with at most 2 fractional digits")

// MaxScale is the number of fractional digits accepted for currency amounts
const MaxScale = 2

// Money is an exact decimal quantity. The zero value is zero money.
type Money struct {
	value decimal.Decimal
}

// New wraps a decimal as Money without validation. Use Parse for user input.
func New(d decimal.Decimal) Money {
	return Money{value: d}
}

// Zero returns zero money
func Zero() Money {
	return Money{}
}

// Parse validates user-supplied input and returns the corresponding Money.
// It fails with ErrInvalidAmount when the string is not a well-formed decimal,
// is negative, or carries more than MaxScale fractional digits.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.IsNegative() {
		return Money{}, ErrInvalidAmount
	}
	if d.Exponent() < -MaxScale && !d.Equal(d.Truncate(MaxScale)) {
		return Money{}, ErrInvalidAmount
	}
	return Money{value: d}, nil
}

// MustParse is a test helper that panics on invalid input
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Add returns m + other
func (m Money) Add(other Money) Money {
	return Money{value: m.value.Add(other.value)}
}

// Sub returns m - other
func (m Money) Sub(other Money) Money {
	return Money{value: m.value.Sub(other.value)}
}

// Neg returns -m
func (m Money) Neg() Money {
	return Money{value: m.value.Neg()}
}

// Cmp compares m with other: -1 if m < other, 0 if equal, +1 if m > other
func (m Money) Cmp(other Money) int {
	return m.value.Cmp(other.value)
}

// Equal reports whether m and other represent the same quantity
func (m Money) Equal(other Money) bool {
	return m.value.Equal(other.value)
}

// GreaterOrEqual reports whether m >= other
func (m Money) GreaterOrEqual(other Money) bool {
	return m.value.GreaterThanOrEqual(other.value)
}

// IsPositive reports whether m > 0
func (m Money) IsPositive() bool {
	return m.value.IsPositive()
}

// IsNegative reports whether m < 0
func (m Money) IsNegative() bool {
	return m.value.IsNegative()
}

// IsZero reports whether m == 0
func (m Money) IsZero() bool {
	return m.value.IsZero()
}

// String renders the amount with exactly MaxScale fractional digits
func (m Money) String() string {
	return m.value.StringFixed(MaxScale)
}

// Decimal exposes the underlying decimal value
func (m Money) Decimal() decimal.Decimal {
	return m.value
}

// MarshalJSON encodes the amount as a quoted decimal string
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON decodes either a quoted decimal string or a bare number.
// Negative values are accepted here because persisted transaction amounts
// are signed; Parse remains the strict entry point for user input.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	m.value = d
	return nil
}
