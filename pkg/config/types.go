package config

// Config is the root configuration structure
type Config struct {
	Network  NetworkConfig  `yaml:"network"`
	Sender   SenderConfig   `yaml:"sender"`
	Channels ChannelsConfig `yaml:"channels"`
	Server   ServerConfig   `yaml:"server"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// NetworkConfig identifies the target Kin network
type NetworkConfig struct {
	HorizonEndpoints []string `yaml:"horizon_endpoints"`
	Passphrase       string   `yaml:"passphrase"`
}

// SenderConfig configures the primary signing account
type SenderConfig struct {
	Seed         string `yaml:"seed"`     // Secret seed (prefer seed_env)
	SeedEnv      string `yaml:"seed_env"` // Environment variable holding the seed
	AppID        string `yaml:"app_id"`
	BaseFee      int64  `yaml:"base_fee"`       // Per-operation fee in quarks
	TopUpTxCount int64  `yaml:"topup_tx_count"` // Transactions one channel top-up should cover
}

// ChannelsConfig configures the channel account pool
type ChannelsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Salt    string `yaml:"salt"`
	Count   int    `yaml:"count"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	HTTP HTTPConfig `yaml:"http"`
}

// HTTPConfig configures the HTTP server
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LoggingConfig configures logging output
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// ResolveSeed returns the primary account seed, preferring the
// environment variable when configured.
func (c *SenderConfig) ResolveSeed() (string, error) {
	if c.SeedEnv != "" {
		return lookupSeedEnv(c.SeedEnv)
	}
	if c.Seed == "" {
		return "", ErrSeedRequired
	}
	return c.Seed, nil
}
