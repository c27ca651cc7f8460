package sender

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildEnvelope creates a transaction built and signed by a third party,
// returning its base64 envelope.
func buildEnvelope(t *testing.T, owner *keypair.Full) string {
	t.Helper()

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount: &txnbuild.SimpleAccount{
			AccountID: owner.Address(),
			Sequence:  7,
		},
		Operations: []txnbuild.Operation{
			&txnbuild.Payment{
				Destination: keypair.MustRandom().Address(),
				Amount:      "25",
				Asset:       txnbuild.NativeAsset{},
			},
		},
		BaseFee: 100,
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewInfiniteTimeout(),
		},
	})
	require.NoError(t, err)

	signed, err := tx.Sign(testPassphrase, owner)
	require.NoError(t, err)

	envelope, err := signed.Base64()
	require.NoError(t, err)
	return envelope
}

// signatureCount decodes an envelope and returns its signature count.
func signatureCount(t *testing.T, envelope string) int {
	t.Helper()
	generic, err := txnbuild.TransactionFromXDR(envelope)
	require.NoError(t, err)
	tx, ok := generic.Transaction()
	require.True(t, ok)
	return len(tx.Signatures())
}

func TestWhitelistTransaction_AddsSignature(t *testing.T) {
	env := newTestEnv(t)
	envelope := buildEnvelope(t, keypair.MustRandom())
	require.Equal(t, 1, signatureCount(t, envelope))

	payload, err := json.Marshal(map[string]string{
		"envelope":  envelope,
		"networkId": testPassphrase,
	})
	require.NoError(t, err)

	signed, err := env.sender.WhitelistTransaction(payload)
	require.NoError(t, err)
	assert.Equal(t, 2, signatureCount(t, signed), "co-signing adds exactly one signature")
	assert.Zero(t, env.horizon.loadCalls, "whitelisting performs no network I/O")
	assert.Empty(t, env.horizon.submitted)
}

func TestWhitelistTransaction_LegacyEnvelopField(t *testing.T) {
	env := newTestEnv(t)
	envelope := buildEnvelope(t, keypair.MustRandom())

	payload, err := json.Marshal(map[string]string{
		"envelop":   envelope, // legacy producer spelling
		"networkId": testPassphrase,
	})
	require.NoError(t, err)

	signed, err := env.sender.WhitelistTransaction(payload)
	require.NoError(t, err)
	assert.Equal(t, 2, signatureCount(t, signed))
}

func TestWhitelistTransaction_StringPayload(t *testing.T) {
	env := newTestEnv(t)
	envelope := buildEnvelope(t, keypair.MustRandom())

	inner, err := json.Marshal(map[string]string{
		"envelope":  envelope,
		"networkId": testPassphrase,
	})
	require.NoError(t, err)
	// The payload itself arrives as a JSON string.
	payload, err := json.Marshal(string(inner))
	require.NoError(t, err)

	signed, err := env.sender.WhitelistTransaction(payload)
	require.NoError(t, err)
	assert.Equal(t, 2, signatureCount(t, signed))
}

func TestWhitelistTransaction_Repeatable(t *testing.T) {
	env := newTestEnv(t)
	envelope := buildEnvelope(t, keypair.MustRandom())

	payload, err := json.Marshal(map[string]string{
		"envelop":   envelope,
		"networkId": testPassphrase,
	})
	require.NoError(t, err)

	first, err := env.sender.WhitelistTransaction(payload)
	require.NoError(t, err)
	second, err := env.sender.WhitelistTransaction(payload)
	require.NoError(t, err)

	assert.Equal(t, first, second, "normalization and signing are pure")
	assert.Equal(t, 2, signatureCount(t, first))
	assert.Equal(t, 2, signatureCount(t, second))
}

func TestWhitelistTransaction_NetworkMismatch(t *testing.T) {
	env := newTestEnv(t)
	envelope := buildEnvelope(t, keypair.MustRandom())

	payload, err := json.Marshal(map[string]string{
		"envelope":  envelope,
		"networkId": "Kin Mainnet ; December 2018",
	})
	require.NoError(t, err)

	_, err = env.sender.WhitelistTransaction(payload)
	var mismatch *NetworkMismatchedError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, testPassphrase, mismatch.Expected)
	assert.Equal(t, "Kin Mainnet ; December 2018", mismatch.Actual)
}

func TestWhitelistTransaction_EnvelopeNotString(t *testing.T) {
	env := newTestEnv(t)

	// The envelope is malformed AND the network mismatches: the payload
	// type check must fire first.
	payload := []byte(fmt.Sprintf(`{"envelope": 42, "networkId": %q}`, "some other network"))

	_, err := env.sender.WhitelistTransaction(payload)
	require.ErrorIs(t, err, ErrEnvelopeNotString)
}

func TestWhitelistTransaction_MissingEnvelope(t *testing.T) {
	env := newTestEnv(t)

	payload := []byte(fmt.Sprintf(`{"networkId": %q}`, testPassphrase))

	_, err := env.sender.WhitelistTransaction(payload)
	require.ErrorIs(t, err, ErrMissingEnvelope)
}

func TestWhitelistTransaction_MalformedJSON(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.sender.WhitelistTransaction([]byte("{not json"))
	require.Error(t, err)
}

func TestWhitelistTransaction_UndecodableEnvelope(t *testing.T) {
	env := newTestEnv(t)

	payload, err := json.Marshal(map[string]string{
		"envelope":  "bm90IGFuIGVudmVsb3Bl",
		"networkId": testPassphrase,
	})
	require.NoError(t, err)

	_, err = env.sender.WhitelistTransaction(payload)
	require.Error(t, err)
}

func TestDecodeWhitelistPayload_CanonicalFieldWins(t *testing.T) {
	payload := []byte(`{"envelope": "canonical", "envelop": "legacy", "networkId": "net"}`)

	decoded, err := DecodeWhitelistPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, "canonical", decoded.Envelope)
	assert.Equal(t, "net", decoded.NetworkID)
}
