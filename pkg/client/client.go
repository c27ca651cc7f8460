package client

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/stellar/go/clients/horizonclient"
	hProtocol "github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/txnbuild"
)

// Horizon defines the subset of the Horizon client API this package uses.
type Horizon interface {
	AccountDetail(request horizonclient.AccountRequest) (hProtocol.Account, error)
	SubmitTransaction(transaction *txnbuild.Transaction) (hProtocol.Transaction, error)
	FeeStats() (hProtocol.FeeStats, error)
}

// Client wraps Horizon connections across multiple endpoints with failover.
type Client struct {
	logger    zerolog.Logger
	endpoints []string
	current   int
	mu        sync.RWMutex

	horizons []Horizon
}

// Config holds configuration for creating a new Client.
type Config struct {
	Endpoints []string      // Horizon endpoints, tried in order with failover
	Timeout   time.Duration // Per-request HTTP timeout (0 = 30s)
	Logger    zerolog.Logger
}

// NewClient creates a new Horizon client with failover support across
// multiple endpoints.
func NewClient(cfg Config) (*Client, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, ErrNoEndpointsRequired
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	horizons := make([]Horizon, len(cfg.Endpoints))
	for i, endpoint := range cfg.Endpoints {
		horizons[i] = &horizonclient.Client{
			HorizonURL: endpoint,
			HTTP:       &http.Client{Timeout: timeout},
		}
		cfg.Logger.Info().Str("endpoint", endpoint).Msg("Configured horizon endpoint")
	}

	return &Client{
		logger:    cfg.Logger,
		endpoints: cfg.Endpoints,
		horizons:  horizons,
	}, nil
}

// Horizon returns the currently active Horizon client.
func (c *Client) Horizon() Horizon {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.horizons[c.current]
}

// CurrentEndpoint returns the currently active endpoint.
func (c *Client) CurrentEndpoint() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.endpoints[c.current]
}

// Failover rotates to the next endpoint.
func (c *Client) Failover() {
	c.mu.Lock()
	defer c.mu.Unlock()

	oldIndex := c.current
	c.current = (c.current + 1) % len(c.endpoints)

	c.logger.Warn().
		Str("from", c.endpoints[oldIndex]).
		Str("to", c.endpoints[c.current]).
		Msg("Failing over to next horizon endpoint")
}

// isTransient reports whether err looks like a connectivity failure worth
// retrying on another endpoint, as opposed to a structured Horizon
// rejection that every endpoint would repeat.
func isTransient(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "no such host")
}

// WithFailover wraps a Horizon call with automatic failover on transient
// errors. Structured Horizon rejections are returned immediately since
// every endpoint would reject the same request identically.
func WithFailover[T any](ctx context.Context, c *Client, call func(h Horizon) (T, error)) (T, error) {
	var zero T
	baseDelay := 500 * time.Millisecond

	var lastErr error
	for attempt := 0; attempt < len(c.endpoints); attempt++ {
		resp, err := call(c.Horizon())
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !isTransient(err) {
			return zero, err
		}

		c.logger.Debug().
			Err(err).
			Str("endpoint", c.CurrentEndpoint()).
			Int("attempt", attempt+1).
			Int("max_attempts", len(c.endpoints)).
			Msg("Horizon call failed")

		if attempt == len(c.endpoints)-1 {
			break
		}
		c.Failover()

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(baseDelay * time.Duration(1<<min(attempt, 4))):
		}
	}

	c.logger.Error().Err(lastErr).Msg("All horizon endpoints failed")
	return zero, lastErr
}

// LoadAccount retrieves the current account entry (sequence number and
// balances) for the given address.
func (c *Client) LoadAccount(ctx context.Context, address string) (hProtocol.Account, error) {
	return WithFailover(ctx, c, func(h Horizon) (hProtocol.Account, error) {
		return h.AccountDetail(horizonclient.AccountRequest{AccountID: address})
	})
}

// SubmitTransaction submits a signed transaction to the network.
func (c *Client) SubmitTransaction(ctx context.Context, tx *txnbuild.Transaction) (hProtocol.Transaction, error) {
	return WithFailover(ctx, c, func(h Horizon) (hProtocol.Transaction, error) {
		return h.SubmitTransaction(tx)
	})
}

// MinimumFee queries the minimum fee currently accepted by the network.
func (c *Client) MinimumFee(ctx context.Context) (int64, error) {
	stats, err := WithFailover(ctx, c, func(h Horizon) (hProtocol.FeeStats, error) {
		return h.FeeStats()
	})
	if err != nil {
		return 0, err
	}
	return stats.LastLedgerBaseFee, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
