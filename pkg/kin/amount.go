// Package kin provides conversion between KIN amounts and quarks, the
// smallest unit of the Kin ledger (1 KIN = 100,000 quarks).
package kin

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// QuarksPerKin is the number of quarks in one KIN.
const QuarksPerKin = 100_000

// MaxPrecision is the number of decimal places a KIN amount may carry.
const MaxPrecision = 5

var quarksPerKin = decimal.NewFromInt(QuarksPerKin)

// ToQuarks converts a KIN amount string into quarks.
// Amounts with more than five decimal places cannot be represented on
// the ledger and are rejected.
func ToQuarks(amount string) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.IsNegative() {
		return 0, ErrNegativeAmount
	}
	if d.Exponent() < -MaxPrecision {
		return 0, ErrTooPrecise
	}
	return d.Mul(quarksPerKin).IntPart(), nil
}

// FromQuarks converts a quark count into a KIN amount string.
func FromQuarks(quarks int64) string {
	return decimal.NewFromInt(quarks).Div(quarksPerKin).String()
}

// Validate reports whether amount is a well-formed, non-negative KIN
// amount representable on the ledger.
func Validate(amount string) error {
	_, err := ToQuarks(amount)
	return err
}
