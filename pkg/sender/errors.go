// Package sender orchestrates building, signing, and submitting Kin
// transactions, topping up channel accounts when a submission fast-fails
// on fees, and co-signing externally supplied envelopes (whitelisting).
package sender

import (
	"errors"
	"fmt"
)

var (
	// ErrNoOperations indicates that a builder holds no operations.
	ErrNoOperations = errors.New("transaction builder has no operations")
	// ErrMemoTooLong indicates that the rendered memo exceeds the 28-byte text memo limit.
	ErrMemoTooLong = errors.New("memo exceeds 28 bytes")
	// ErrMissingEnvelope indicates that a whitelist payload carries no envelope field.
	ErrMissingEnvelope = errors.New("whitelist payload missing envelope")
	// ErrEnvelopeNotString indicates that a whitelist payload envelope is not a string.
	ErrEnvelopeNotString = errors.New("whitelist payload envelope must be a string")
	// ErrUnsupportedEnvelope indicates an envelope kind this sender cannot co-sign.
	ErrUnsupportedEnvelope = errors.New("envelope does not contain a plain transaction")
)

// NetworkMismatchedError is returned when a whitelist payload declares a
// network other than the one this sender is configured for. Co-signing a
// transaction meant for another network is always refused.
type NetworkMismatchedError struct {
	Expected string
	Actual   string
}

func (e *NetworkMismatchedError) Error() string {
	return fmt.Sprintf("network mismatch: payload declares %q, sender configured for %q", e.Actual, e.Expected)
}
