package kin

import "errors"

var (
	// ErrNegativeAmount indicates that a negative amount was provided.
	ErrNegativeAmount = errors.New("amount must not be negative")
	// ErrTooPrecise indicates that an amount has more than five decimal places.
	ErrTooPrecise = errors.New("amount has more than five decimal places")
)
