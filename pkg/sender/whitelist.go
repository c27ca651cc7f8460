package sender

import (
	"encoding/json"
	"fmt"

	"github.com/stellar/go/txnbuild"

	"github.com/beeman/kin-sdk-go/pkg/metrics"
)

// WhitelistPayload is an externally built transaction envelope presented
// for co-signing, together with the network it was built for.
type WhitelistPayload struct {
	Envelope  string
	NetworkID string
}

// rawWhitelistPayload mirrors the wire form. One legacy producer spells
// the envelope field "envelop"; both spellings are accepted and
// normalized before validation.
type rawWhitelistPayload struct {
	Envelope       json.RawMessage `json:"envelope"`
	LegacyEnvelope json.RawMessage `json:"envelop"`
	NetworkID      string          `json:"networkId"`
}

// DecodeWhitelistPayload parses a whitelist payload from JSON. The input
// may be the payload object itself or a JSON string containing it.
func DecodeWhitelistPayload(data []byte) (*WhitelistPayload, error) {
	// Unwrap a JSON-string-encoded payload.
	var inner string
	if err := json.Unmarshal(data, &inner); err == nil {
		data = []byte(inner)
	}

	var raw rawWhitelistPayload
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse whitelist payload: %w", err)
	}

	envelope := raw.Envelope
	if envelope == nil {
		envelope = raw.LegacyEnvelope
	}
	if envelope == nil {
		return nil, ErrMissingEnvelope
	}

	var envelopeStr string
	if err := json.Unmarshal(envelope, &envelopeStr); err != nil {
		return nil, ErrEnvelopeNotString
	}

	return &WhitelistPayload{
		Envelope:  envelopeStr,
		NetworkID: raw.NetworkID,
	}, nil
}

// WhitelistTransaction co-signs an externally supplied envelope after
// validating it targets this sender's network, returning the re-encoded
// base64 envelope with this sender's signature appended. No network I/O
// occurs.
func (s *Sender) WhitelistTransaction(payload []byte) (string, error) {
	decoded, err := DecodeWhitelistPayload(payload)
	if err != nil {
		return "", err
	}
	return s.Whitelist(*decoded)
}

// Whitelist co-signs an already-decoded whitelist payload.
func (s *Sender) Whitelist(payload WhitelistPayload) (string, error) {
	if payload.NetworkID != s.networkPassphrase {
		return "", &NetworkMismatchedError{
			Expected: s.networkPassphrase,
			Actual:   payload.NetworkID,
		}
	}

	generic, err := txnbuild.TransactionFromXDR(payload.Envelope)
	if err != nil {
		return "", fmt.Errorf("failed to decode envelope: %w", err)
	}
	tx, ok := generic.Transaction()
	if !ok {
		return "", ErrUnsupportedEnvelope
	}

	signed, err := tx.Sign(s.networkPassphrase, s.keyPair)
	if err != nil {
		return "", fmt.Errorf("failed to co-sign envelope: %w", err)
	}

	encoded, err := signed.Base64()
	if err != nil {
		return "", fmt.Errorf("failed to encode envelope: %w", err)
	}

	metrics.WhitelistSigningsTotal.Inc()
	return encoded, nil
}
