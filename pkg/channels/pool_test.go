package channels

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, count int) *Pool {
	t.Helper()
	pool, err := NewPool(PoolConfig{
		BaseSeed: testBaseSeed,
		Salt:     "pool-test",
		Count:    count,
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)
	return pool
}

func TestPool_AcquireRelease(t *testing.T) {
	pool := newTestPool(t, 2)
	assert.Equal(t, 2, pool.Size())

	ch1, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	ch2, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, ch1.Address(), ch2.Address())

	pool.Release(ch1)
	ch3, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ch1.Address(), ch3.Address())
}

func TestPool_AcquireBlocksUntilRelease(t *testing.T) {
	pool := newTestPool(t, 1)

	ch, err := pool.Acquire(context.Background())
	require.NoError(t, err)

	acquired := make(chan *Channel)
	go func() {
		next, err := pool.Acquire(context.Background())
		if err == nil {
			acquired <- next
		}
	}()

	select {
	case <-acquired:
		t.Fatal("Acquire should block while all channels are borrowed")
	case <-time.After(50 * time.Millisecond):
	}

	pool.Release(ch)

	select {
	case next := <-acquired:
		assert.Equal(t, ch.Address(), next.Address())
	case <-time.After(time.Second):
		t.Fatal("Acquire should return after a channel is released")
	}
}

func TestPool_AcquireHonorsContext(t *testing.T) {
	pool := newTestPool(t, 1)

	_, err := pool.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = pool.Acquire(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
