package ratelimiter

import (
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"sync"
	"time"
)

const (
	bucketKeyPrefix  = "rl:bucket:"
	defaultSourceKey = "X-RateLimit-Key"
)

type Limiter interface {
	Allow(ctx context.Context, sourceKey string) bool
	GetSourceKey(r *http.Request) string
	Remaining(ctx context.Context, sourceKey string) int
	GetMaxBurst() int
	Close() error
}

// RateLimiter is a token bucket per source key.
type RateLimiter struct {
	maxRatePerMillisecond float64
	maxBurst              int
	store                 BucketStore
	storeTTL              time.Duration
	sourceHeaderKey       string
	now                   func() time.Time
	// Per-key locks to ensure atomic operations for each source
	locks sync.Map // map[string]*sync.Mutex
}

func (rl *RateLimiter) getLock(sourceKey string) *sync.Mutex {
	lock, _ := rl.locks.LoadOrStore(sourceKey, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (rl *RateLimiter) getBucketKeyFor(sourceKey string) string {
	return bucketKeyPrefix + sourceKey
}

func (rl *RateLimiter) getState(ctx context.Context, sourceKey string, now int64) Bucket {
	b, err := rl.store.Load(ctx, rl.getBucketKeyFor(sourceKey))
	if errors.Is(err, ErrCacheMiss) || err != nil {
		// Miss or store failure: fail open with a full bucket
		return Bucket{Tokens: rl.maxBurst, LastFill: now}
	}
	return b
}

func (rl *RateLimiter) setState(ctx context.Context, sourceKey string, b Bucket) {
	_ = rl.store.Save(ctx, rl.getBucketKeyFor(sourceKey), b, rl.storeTTL)
}

// refillTokens adds whole tokens for the elapsed time. LastFill only advances
// by the time those tokens account for, so partial progress is kept.
func (rl *RateLimiter) refillTokens(b Bucket, now int64) Bucket {
	elapsed := now - b.LastFill
	if elapsed <= 0 || rl.maxRatePerMillisecond <= 0 {
		return b
	}

	whole := int(math.Floor(float64(elapsed) * rl.maxRatePerMillisecond))
	if whole <= 0 {
		return b
	}

	if b.Tokens+whole >= rl.maxBurst {
		return Bucket{Tokens: rl.maxBurst, LastFill: now}
	}

	return Bucket{
		Tokens:   b.Tokens + whole,
		LastFill: b.LastFill + int64(math.Round(float64(whole)/rl.maxRatePerMillisecond)),
	}
}

func (rl *RateLimiter) Remaining(ctx context.Context, sourceKey string) int {
	lock := rl.getLock(sourceKey)
	lock.Lock()
	defer lock.Unlock()

	now := rl.now().UnixMilli()
	state := rl.getState(ctx, sourceKey, now)
	newState := rl.refillTokens(state, now)

	if newState != state {
		rl.setState(ctx, sourceKey, newState)
	}

	return newState.Tokens
}

func (rl *RateLimiter) GetMaxBurst() int {
	return rl.maxBurst
}

func (rl *RateLimiter) Allow(ctx context.Context, sourceKey string) bool {
	lock := rl.getLock(sourceKey)
	lock.Lock()
	defer lock.Unlock()

	now := rl.now().UnixMilli()
	state := rl.getState(ctx, sourceKey, now)
	newState := rl.refillTokens(state, now)

	if newState.Tokens > 0 {
		newState.Tokens--
		rl.setState(ctx, sourceKey, newState)
		return true
	}

	if newState.LastFill != state.LastFill {
		rl.setState(ctx, sourceKey, newState)
	}

	return false
}

// GetSourceKey prefers the explicit header, then the client IP without port.
func (rl *RateLimiter) GetSourceKey(r *http.Request) string {
	if key := r.Header.Get(rl.sourceHeaderKey); key != "" {
		return key
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func (rl *RateLimiter) Close() error {
	return rl.store.Close()
}

type Options struct {
	MaxRatePerSecond int
	MaxBurst         int
	Store            BucketStore
	StoreTTL         time.Duration
	SourceHeaderKey  string
	Clock            func() time.Time
}

func New(options Options) Limiter {
	if options.StoreTTL == 0 {
		options.StoreTTL = 10 * time.Second
	}

	if options.MaxBurst <= 0 {
		options.MaxBurst = options.MaxRatePerSecond
	}

	if options.SourceHeaderKey == "" {
		options.SourceHeaderKey = defaultSourceKey
	}

	if options.Clock == nil {
		options.Clock = time.Now
	}

	if options.Store == nil {
		options.Store = newInMemory(options.Clock, defaultSweepInterval)
	}

	return &RateLimiter{
		maxRatePerMillisecond: float64(options.MaxRatePerSecond) / 1000.0,
		maxBurst:              options.MaxBurst,
		store:                 options.Store,
		storeTTL:              options.StoreTTL,
		sourceHeaderKey:       options.SourceHeaderKey,
		now:                   options.Clock,
	}
}
