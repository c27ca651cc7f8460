package channels

import (
	"context"

	"github.com/rs/zerolog"
)

// Pool hands out channels for exclusive use, one in-flight submission per
// channel. Acquire blocks until a channel is free or the context is done.
type Pool struct {
	logger zerolog.Logger
	free   chan *Channel
	size   int
}

// PoolConfig holds configuration for creating a Pool.
type PoolConfig struct {
	BaseSeed string // Seed of the account funding the derivation
	Salt     string // Application-specific salt
	Count    int    // Number of channels to derive
	Logger   zerolog.Logger
}

// NewPool derives the configured channel keypairs and creates a pool with
// all channels free.
func NewPool(cfg PoolConfig) (*Pool, error) {
	pairs, err := DeriveKeyPairs(cfg.BaseSeed, cfg.Salt, cfg.Count)
	if err != nil {
		return nil, err
	}

	free := make(chan *Channel, len(pairs))
	for _, kp := range pairs {
		free <- &Channel{KeyPair: kp}
	}

	cfg.Logger.Info().Int("channels", len(pairs)).Msg("Channel pool initialized")

	return &Pool{
		logger: cfg.Logger,
		free:   free,
		size:   len(pairs),
	}, nil
}

// Size returns the total number of channels managed by the pool.
func (p *Pool) Size() int {
	return p.size
}

// Acquire borrows a free channel, blocking until one is available or ctx
// is done. The caller must Release the channel after its submission
// completes.
func (p *Pool) Acquire(ctx context.Context) (*Channel, error) {
	select {
	case ch := <-p.free:
		p.logger.Debug().Str("channel", ch.Address()).Msg("Channel acquired")
		return ch, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a borrowed channel to the pool.
func (p *Pool) Release(ch *Channel) {
	if ch == nil {
		return
	}
	select {
	case p.free <- ch:
		p.logger.Debug().Str("channel", ch.Address()).Msg("Channel released")
	default:
		// Double release; the pool is already full.
		p.logger.Warn().Str("channel", ch.Address()).Msg("Release of channel not borrowed from pool")
	}
}
