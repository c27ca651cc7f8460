package sender

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stellar/go/keypair"
	hProtocol "github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/txnbuild"

	"github.com/beeman/kin-sdk-go/pkg/channels"
	"github.com/beeman/kin-sdk-go/pkg/client"
	"github.com/beeman/kin-sdk-go/pkg/kin"
	"github.com/beeman/kin-sdk-go/pkg/metrics"
)

// DefaultTopUpTxCount is the number of transactions a channel top-up
// should cover at the current minimum fee.
const DefaultTopUpTxCount = 1000

// maxTopUpRetries bounds the top-up-then-resubmit loop. The
// insufficient-balance rejection is a fast-fail, so each retry is safe,
// but a stale fee quote could otherwise loop forever.
const maxTopUpRetries = 3

// Horizon defines the ledger collaborators the sender needs.
type Horizon interface {
	LoadAccount(ctx context.Context, address string) (hProtocol.Account, error)
	SubmitTransaction(ctx context.Context, tx *txnbuild.Transaction) (hProtocol.Transaction, error)
	MinimumFee(ctx context.Context) (int64, error)
}

// Sender issues signed transactions on behalf of one account. It holds no
// mutable state after construction, so concurrent submissions through
// distinct builders are safe.
type Sender struct {
	horizon           Horizon
	keyPair           *keypair.Full
	appID             string
	networkPassphrase string
	topUpTxCount      int64
	logger            zerolog.Logger
}

// Config holds configuration for creating a Sender.
type Config struct {
	Horizon           Horizon       // Ledger client
	KeyPair           *keypair.Full // Primary signing key
	AppID             string        // Application identifier carried in memos (default "anon")
	NetworkPassphrase string        // Identity of the target network
	TopUpTxCount      int64         // Transactions one top-up should cover (default 1000)
	Logger            zerolog.Logger
}

// NewSender creates a new transaction sender.
func NewSender(cfg Config) *Sender {
	appID := cfg.AppID
	if appID == "" {
		appID = AnonAppID
	}
	topUpTxCount := cfg.TopUpTxCount
	if topUpTxCount <= 0 {
		topUpTxCount = DefaultTopUpTxCount
	}
	return &Sender{
		horizon:           cfg.Horizon,
		keyPair:           cfg.KeyPair,
		appID:             appID,
		networkPassphrase: cfg.NetworkPassphrase,
		topUpTxCount:      topUpTxCount,
		logger:            cfg.Logger,
	}
}

// AppID returns the application identifier carried in transaction memos.
func (s *Sender) AppID() string {
	return s.appID
}

// Address returns the primary account's public address.
func (s *Sender) Address() string {
	return s.keyPair.Address()
}

// GetTransactionBuilder returns a builder with no operations. The caller
// must add exactly one operation before submission. If channel is non-nil
// the channel account pays fees and supplies the sequence number.
func (s *Sender) GetTransactionBuilder(ctx context.Context, fee int64, memo string, channel *channels.Channel) (*TransactionBuilder, error) {
	return s.newBuilder(ctx, fee, memo, channel)
}

// BuildCreateAccount returns a builder holding a single create-account
// operation funding address with startingBalance KIN.
func (s *Sender) BuildCreateAccount(ctx context.Context, address, startingBalance string, fee int64, memo string, channel *channels.Channel) (*TransactionBuilder, error) {
	if err := kin.Validate(startingBalance); err != nil {
		return nil, err
	}
	builder, err := s.newBuilder(ctx, fee, memo, channel)
	if err != nil {
		return nil, err
	}
	return builder.AddOperation(&txnbuild.CreateAccount{
		Destination:   address,
		Amount:        startingBalance,
		SourceAccount: s.keyPair.Address(),
	}), nil
}

// BuildSendKin returns a builder holding a single payment operation
// sending amount KIN of the native asset to address.
func (s *Sender) BuildSendKin(ctx context.Context, address, amount string, fee int64, memo string, channel *channels.Channel) (*TransactionBuilder, error) {
	if err := kin.Validate(amount); err != nil {
		return nil, err
	}
	builder, err := s.newBuilder(ctx, fee, memo, channel)
	if err != nil {
		return nil, err
	}
	return builder.AddOperation(&txnbuild.Payment{
		Destination:   address,
		Amount:        amount,
		Asset:         txnbuild.NativeAsset{},
		SourceAccount: s.keyPair.Address(),
	}), nil
}

// newBuilder loads the fee payer's account snapshot and returns a builder
// whose sequence number is fixed for the builder's lifetime.
func (s *Sender) newBuilder(ctx context.Context, fee int64, memo string, channel *channels.Channel) (*TransactionBuilder, error) {
	bind := unbound()
	if channel != nil {
		bind = boundTo(channel)
	}

	memoText, err := buildMemo(s.appID, memo)
	if err != nil {
		return nil, err
	}

	address := bind.feePayer(s.keyPair.Address())
	account, err := s.horizon.LoadAccount(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to load account %s: %w", address, err)
	}
	sequence, err := account.GetSequenceNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to read sequence number for %s: %w", address, err)
	}

	return &TransactionBuilder{
		source: txnbuild.SimpleAccount{
			AccountID: address,
			Sequence:  sequence + 1,
		},
		baseFee: fee,
		memo:    memoText,
		binding: bind,
	}, nil
}

// SubmitTransaction builds, signs, and submits the builder's transaction,
// returning the transaction hash on success.
//
// A rejection with the insufficient-balance result code on a
// channel-bound builder is a fast-fail: the sequence number was not
// consumed, so after one top-up of the channel the identical transaction
// is rebuilt from the unchanged builder state and resubmitted. Every
// other failure is terminal and surfaces as the classified error.
func (s *Sender) SubmitTransaction(ctx context.Context, builder *TransactionBuilder) (string, error) {
	for attempt := 0; ; attempt++ {
		tx, err := builder.Build()
		if err != nil {
			return "", err
		}

		signed, err := tx.Sign(s.networkPassphrase, builder.binding.signers(s.keyPair)...)
		if err != nil {
			return "", fmt.Errorf("failed to sign transaction: %w", err)
		}

		// Never log the signed envelope.
		s.logger.Debug().
			Str("source", builder.source.AccountID).
			Int64("sequence", builder.source.Sequence).
			Int("operations", len(builder.ops)).
			Bool("channel_bound", builder.binding.isBound()).
			Msg("Submitting transaction")

		resp, err := s.horizon.SubmitTransaction(ctx, signed)
		if err == nil {
			metrics.SubmissionsTotal.WithLabelValues("success").Inc()
			s.logger.Info().Str("hash", resp.Hash).Msg("Transaction submitted")
			return resp.Hash, nil
		}

		translated := client.Translate(err)
		retryable := builder.binding.isBound() &&
			client.IsInsufficientBalance(translated) &&
			attempt < maxTopUpRetries
		if !retryable {
			metrics.SubmissionsTotal.WithLabelValues("failure").Inc()
			return "", translated
		}

		s.logger.Warn().
			Str("channel", builder.binding.channel.Address()).
			Int("attempt", attempt+1).
			Msg("Channel balance insufficient, topping up")

		if err := s.topUpChannel(ctx, builder.binding.channel); err != nil {
			return "", fmt.Errorf("failed to top up channel: %w", err)
		}
	}
}

// topUpChannel funds the channel from the primary account with enough KIN
// to cover topUpTxCount transactions at the current minimum fee. The
// top-up goes through the regular submission pipeline with an unbound
// builder, so its own failures are terminal.
func (s *Sender) topUpChannel(ctx context.Context, channel *channels.Channel) error {
	minFee, err := s.horizon.MinimumFee(ctx)
	if err != nil {
		return fmt.Errorf("failed to query minimum fee: %w", err)
	}

	amount := kin.FromQuarks(minFee * s.topUpTxCount)
	builder, err := s.BuildSendKin(ctx, channel.Address(), amount, minFee, "top-up", nil)
	if err != nil {
		return err
	}

	hash, err := s.SubmitTransaction(ctx, builder)
	if err != nil {
		return err
	}

	metrics.TopUpsTotal.Inc()
	s.logger.Info().
		Str("channel", channel.Address()).
		Str("amount", amount).
		Str("hash", hash).
		Msg("Channel topped up")
	return nil
}
