package config

import "errors"

var (
	// ErrNoHorizonEndpoints indicates that at least one horizon_endpoint must be specified.
	ErrNoHorizonEndpoints = errors.New("at least one horizon endpoint must be specified")
	// ErrPassphraseRequired indicates that the network passphrase must be specified.
	ErrPassphraseRequired = errors.New("network passphrase must be specified")
	// ErrSeedRequired indicates that either seed or seed_env must be specified.
	ErrSeedRequired = errors.New("either seed or seed_env must be specified")
	// ErrSeedEnvNotSet indicates that the seed environment variable is not set.
	ErrSeedEnvNotSet = errors.New("seed environment variable not set")
	// ErrInvalidSeed indicates that the configured seed is not a valid secret seed.
	ErrInvalidSeed = errors.New("invalid secret seed")
	// ErrInvalidBaseFee indicates that base_fee must be non-negative.
	ErrInvalidBaseFee = errors.New("base_fee must be non-negative")
	// ErrInvalidTopUpTxCount indicates that topup_tx_count must be positive.
	ErrInvalidTopUpTxCount = errors.New("topup_tx_count must be positive")
	// ErrChannelSaltRequired indicates that a channel salt must be specified when channels are enabled.
	ErrChannelSaltRequired = errors.New("channel salt must be specified when channels are enabled")
	// ErrInvalidChannelCount indicates that the channel count must be positive.
	ErrInvalidChannelCount = errors.New("channel count must be positive")
	// ErrInvalidLogLevel indicates that the log level is invalid.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidLogFormat indicates that the log format is invalid.
	ErrInvalidLogFormat = errors.New("invalid log format")
)
