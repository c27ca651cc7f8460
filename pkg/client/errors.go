// Package client provides Horizon client functionality with failover support.
package client

import (
	"errors"
	"fmt"

	"github.com/stellar/go/clients/horizonclient"
)

var (
	// ErrNoEndpointsRequired indicates that at least one Horizon endpoint is required.
	ErrNoEndpointsRequired = errors.New("at least one horizon endpoint is required")
	// ErrAllAttemptsFailed indicates that all attempts failed across Horizon endpoints.
	ErrAllAttemptsFailed = errors.New("all attempts failed across horizon endpoints")
)

// Transaction result codes returned by Horizon in the extras of a failed
// submission. Only the subset this subsystem reacts to is enumerated.
const (
	// TxInsufficientBalance is the fast-fail code Horizon returns when the
	// fee-paying account cannot cover the transaction fee. The sequence
	// number is not consumed, so verbatim resubmission is safe.
	TxInsufficientBalance = "tx_insufficient_balance"
	// TxBadSeq indicates a stale or already-consumed sequence number.
	TxBadSeq = "tx_bad_seq"
	// TxBadAuth indicates missing or invalid signatures.
	TxBadAuth = "tx_bad_auth"
	// TxInsufficientFee indicates the offered fee is below the network minimum.
	TxInsufficientFee = "tx_insufficient_fee"
	// TxFailed indicates one or more operations failed.
	TxFailed = "tx_failed"
)

// HorizonError is a submission or query rejection reported by Horizon,
// carrying the transaction result code when one was returned.
type HorizonError struct {
	ResultTransactionCode string
	Err                   error
}

func (e *HorizonError) Error() string {
	if e.ResultTransactionCode != "" {
		return fmt.Sprintf("horizon error (%s): %v", e.ResultTransactionCode, e.Err)
	}
	return fmt.Sprintf("horizon error: %v", e.Err)
}

func (e *HorizonError) Unwrap() error { return e.Err }

// NetworkError is any failure reaching or speaking to Horizon that did not
// produce a structured Horizon problem response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }

func (e *NetworkError) Unwrap() error { return e.Err }

// Translate classifies a raw client failure into a typed error. A
// structured Horizon problem becomes a *HorizonError with its transaction
// result code extracted; anything else becomes a *NetworkError.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var hErr *horizonclient.Error
	if !errors.As(err, &hErr) {
		return &NetworkError{Err: err}
	}

	translated := &HorizonError{Err: hErr}
	if codes, codesErr := hErr.ResultCodes(); codesErr == nil {
		translated.ResultTransactionCode = codes.TransactionCode
	}
	return translated
}

// IsInsufficientBalance reports whether err is a Horizon rejection with the
// insufficient-balance fast-fail result code.
func IsInsufficientBalance(err error) bool {
	var hErr *HorizonError
	return errors.As(err, &hErr) && hErr.ResultTransactionCode == TxInsufficientBalance
}
