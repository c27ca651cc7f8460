package config

import (
	"fmt"
	"strings"

	"github.com/stellar/go/keypair"
)

// Validate checks configuration for errors
func Validate(cfg *Config) error {
	if err := validateNetworkConfig(&cfg.Network); err != nil {
		return fmt.Errorf("network config: %w", err)
	}

	if err := validateSenderConfig(&cfg.Sender); err != nil {
		return fmt.Errorf("sender config: %w", err)
	}

	if cfg.Channels.Enabled {
		if err := validateChannelsConfig(&cfg.Channels); err != nil {
			return fmt.Errorf("channels config: %w", err)
		}
	}

	if err := validateLoggingConfig(&cfg.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

func validateNetworkConfig(cfg *NetworkConfig) error {
	if len(cfg.HorizonEndpoints) == 0 {
		return ErrNoHorizonEndpoints
	}
	if cfg.Passphrase == "" {
		return ErrPassphraseRequired
	}
	return nil
}

func validateSenderConfig(cfg *SenderConfig) error {
	seed, err := cfg.ResolveSeed()
	if err != nil {
		return err
	}
	if _, err := keypair.ParseFull(seed); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	if cfg.BaseFee < 0 {
		return ErrInvalidBaseFee
	}
	if cfg.TopUpTxCount <= 0 {
		return ErrInvalidTopUpTxCount
	}
	return nil
}

func validateChannelsConfig(cfg *ChannelsConfig) error {
	if cfg.Salt == "" {
		return ErrChannelSaltRequired
	}
	if cfg.Count <= 0 {
		return ErrInvalidChannelCount
	}
	return nil
}

func validateLoggingConfig(cfg *LoggingConfig) error {
	switch strings.ToLower(cfg.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return fmt.Errorf("%w: %s", ErrInvalidLogLevel, cfg.Level)
	}

	switch strings.ToLower(cfg.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: %s", ErrInvalidLogFormat, cfg.Format)
	}

	return nil
}
