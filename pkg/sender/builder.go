package sender

import (
	"fmt"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"

	"github.com/beeman/kin-sdk-go/pkg/channels"
)

// binding captures whether a builder pays its own fees or borrows a
// channel account. Fee-payer address and signer set are derived from this
// value alone.
type binding struct {
	channel *channels.Channel
}

func unbound() binding { return binding{} }

func boundTo(ch *channels.Channel) binding { return binding{channel: ch} }

func (b binding) isBound() bool { return b.channel != nil }

// feePayer returns the address whose account pays fees and supplies the
// sequence number: the channel's if bound, otherwise the primary's.
func (b binding) feePayer(primary string) string {
	if b.channel != nil {
		return b.channel.Address()
	}
	return primary
}

// signers returns the signature set in fixed order, primary first.
func (b binding) signers(primary *keypair.Full) []*keypair.Full {
	if b.channel != nil {
		return []*keypair.Full{primary, b.channel.KeyPair}
	}
	return []*keypair.Full{primary}
}

// TransactionBuilder accumulates the state of one logical transaction. It
// is created per transaction, consumed once by SubmitTransaction, and
// discarded. The account snapshot is taken at creation; rebuilding yields
// a transaction with the same sequence number, never a fresh fetch.
type TransactionBuilder struct {
	source  txnbuild.SimpleAccount
	baseFee int64
	memo    txnbuild.MemoText
	binding binding
	ops     []txnbuild.Operation
}

// AddOperation appends an operation to the transaction.
func (b *TransactionBuilder) AddOperation(op txnbuild.Operation) *TransactionBuilder {
	b.ops = append(b.ops, op)
	return b
}

// Operations returns the operations accumulated so far.
func (b *TransactionBuilder) Operations() []txnbuild.Operation {
	return b.ops
}

// Channel returns the bound channel, or nil if the builder is unbound.
func (b *TransactionBuilder) Channel() *channels.Channel {
	return b.binding.channel
}

// Build produces a signable transaction from the accumulated state.
// Timebounds are disabled: the transaction never expires and must rely on
// the submitter for timeliness.
func (b *TransactionBuilder) Build() (*txnbuild.Transaction, error) {
	if len(b.ops) == 0 {
		return nil, ErrNoOperations
	}

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &b.source,
		IncrementSequenceNum: false,
		Operations:           b.ops,
		BaseFee:              b.baseFee,
		Memo:                 b.memo,
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewInfiniteTimeout(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}
	return tx, nil
}
