// Package channels provides deterministic derivation and pooling of
// channel accounts, the auxiliary fee-paying accounts used to parallelize
// transaction submission.
package channels

import (
	"crypto/sha256"
	"fmt"

	bip39 "github.com/cosmos/go-bip39"
	"github.com/stellar/go/keypair"
)

// Channel is an ephemeral auxiliary account that pays transaction fees on
// behalf of the primary account. It is borrowed from a Pool for the
// duration of one submission.
type Channel struct {
	KeyPair *keypair.Full
}

// Address returns the channel account's public address.
func (c *Channel) Address() string {
	return c.KeyPair.Address()
}

// DeriveKeyPairs deterministically derives count channel keypairs from a
// base seed and salt. The same inputs always produce the same keypairs, so
// a process restart recovers the same channel accounts.
//
// Each channel seed is derived independently: SHA-256 over the base seed,
// salt, and index yields entropy for a BIP-39 mnemonic, whose seed in turn
// yields the ed25519 keypair.
func DeriveKeyPairs(baseSeed, salt string, count int) ([]*keypair.Full, error) {
	if count <= 0 {
		return nil, ErrInvalidChannelCount
	}

	pairs := make([]*keypair.Full, count)
	for i := 0; i < count; i++ {
		entropy := sha256.Sum256([]byte(fmt.Sprintf("%s%s%d", baseSeed, salt, i)))

		mnemonic, err := bip39.NewMnemonic(entropy[:])
		if err != nil {
			return nil, fmt.Errorf("failed to derive mnemonic for channel %d: %w", i, err)
		}

		var raw [32]byte
		copy(raw[:], bip39.NewSeed(mnemonic, "")[:32])

		kp, err := keypair.FromRawSeed(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to derive keypair for channel %d: %w", i, err)
		}
		pairs[i] = kp
	}

	return pairs, nil
}
