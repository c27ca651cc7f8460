// Package config provides configuration loading and validation for the
// kin-sender service.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default network passphrases for the public Kin networks.
const (
	MainnetPassphrase = "Kin Mainnet ; December 2018"
	TestnetPassphrase = "Kin Testnet ; December 2018"
)

// Load loads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	data, err := os.ReadFile(absPath) // #nosec G304 -- Path sanitized with filepath.Clean and filepath.Abs
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in YAML
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// applyDefaults sets default values for optional fields.
func applyDefaults(cfg *Config) {
	if cfg.Network.Passphrase == "" {
		cfg.Network.Passphrase = TestnetPassphrase
	}

	if cfg.Sender.AppID == "" {
		cfg.Sender.AppID = "anon"
	}
	if cfg.Sender.BaseFee == 0 {
		cfg.Sender.BaseFee = 100
	}
	if cfg.Sender.TopUpTxCount == 0 {
		cfg.Sender.TopUpTxCount = 1000
	}

	if cfg.Channels.Enabled && cfg.Channels.Count == 0 {
		cfg.Channels.Count = 5
	}

	if cfg.Server.HTTP.Addr == "" {
		cfg.Server.HTTP.Addr = ":8000"
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9091"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// lookupSeedEnv reads a seed from the named environment variable.
func lookupSeedEnv(name string) (string, error) {
	seed, ok := os.LookupEnv(name)
	if !ok || seed == "" {
		return "", fmt.Errorf("%w: %s", ErrSeedEnvNotSet, name)
	}
	return seed, nil
}
