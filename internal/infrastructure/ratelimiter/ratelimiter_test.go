package ratelimiter

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func newTestLimiter(clock *manualClock) Limiter {
	return New(Options{
		MaxRatePerSecond: 2,
		MaxBurst:         3,
		StoreTTL:         time.Hour,
		Clock:            clock.Now,
	})
}

func TestAllow_BurstThenRefill(t *testing.T) {
	ctx := context.Background()
	clock := &manualClock{now: time.Unix(1_700_000_000, 0)}
	rl := newTestLimiter(clock)
	defer rl.Close()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow(ctx, "client"), "request %d", i)
	}
	assert.False(t, rl.Allow(ctx, "client"))
	assert.Equal(t, 0, rl.Remaining(ctx, "client"))

	// 2 tokens per second: 500ms buys exactly one.
	clock.now = clock.now.Add(500 * time.Millisecond)
	assert.True(t, rl.Allow(ctx, "client"))
	assert.False(t, rl.Allow(ctx, "client"))
}

func TestAllow_PartialRefillIsKept(t *testing.T) {
	ctx := context.Background()
	clock := &manualClock{now: time.Unix(1_700_000_000, 0)}
	rl := newTestLimiter(clock)

	for i := 0; i < 3; i++ {
		rl.Allow(ctx, "client")
	}

	clock.now = clock.now.Add(300 * time.Millisecond)
	assert.False(t, rl.Allow(ctx, "client"))

	clock.now = clock.now.Add(300 * time.Millisecond)
	assert.True(t, rl.Allow(ctx, "client"))
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	clock := &manualClock{now: time.Unix(1_700_000_000, 0)}
	rl := newTestLimiter(clock)

	for i := 0; i < 3; i++ {
		rl.Allow(ctx, "a")
	}
	assert.False(t, rl.Allow(ctx, "a"))
	assert.True(t, rl.Allow(ctx, "b"))
	assert.Equal(t, 3, rl.GetMaxBurst())
}

func TestGetSourceKey(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1})

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", rl.GetSourceKey(r))

	r.Header.Set("X-RateLimit-Key", "tenant")
	assert.Equal(t, "tenant", rl.GetSourceKey(r))
}

func TestInMemory_ExpiresBuckets(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	store := newInMemory(func() time.Time { return now }, 0)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "a", Bucket{Tokens: 3, LastFill: 1}, time.Second))
	require.NoError(t, store.Save(ctx, "b", Bucket{Tokens: 1}, 0))

	b, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 3, b.Tokens)

	now = now.Add(time.Second)

	_, err = store.Load(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Save(ctx, "c", Bucket{}, time.Millisecond))
	now = now.Add(time.Second)
	assert.Equal(t, 1, store.sweep())
	assert.Equal(t, 1, store.Len())
}
