package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Cents is a monetary amount in minor currency units (1/100 of the unit).
// All balance and settlement arithmetic is done in Cents; conversion to and
// from 2-decimal numbers only happens at the API boundary.
type Cents int64

// MaxAmount bounds any single amount accepted at the API boundary. Sums of
// many such amounts stay far below the int64 range.
const MaxAmount Cents = 100_000_000_000 // 1,000,000,000.00

// ErrAmountOutOfRange is returned for amounts whose magnitude exceeds MaxAmount.
var ErrAmountOutOfRange = errors.New("amount out of range")

// FromFloat converts a currency amount to Cents, rounding half away from zero
// to 2 decimal places.
func FromFloat(amount float64) (Cents, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%w: %v", ErrAmountOutOfRange, amount)
	}
	return FromDecimal(decimal.NewFromFloat(amount))
}

// FromDecimal converts a decimal amount to Cents, rounding half away from zero.
func FromDecimal(amount decimal.Decimal) (Cents, error) {
	cents := amount.Round(2).Shift(2)
	if cents.Abs().GreaterThan(decimal.NewFromInt(int64(MaxAmount))) {
		return 0, fmt.Errorf("%w: %s exceeds %s", ErrAmountOutOfRange, amount.StringFixed(2), MaxAmount)
	}
	return Cents(cents.IntPart()), nil
}

// Decimal returns the amount as an exact 2-decimal value.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Float64 returns the amount in currency units for JSON responses.
func (c Cents) Float64() float64 {
	return c.Decimal().InexactFloat64()
}

// String formats the amount with exactly two decimals, e.g. "-18.50".
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// Abs returns the absolute value.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}
