package ratelimiter

import (
	"context"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache miss")

// Bucket is the persisted token-bucket state of one source.
type Bucket struct {
	Tokens   int
	LastFill int64 // Unix milliseconds
}

// BucketStore persists buckets. Implementations must be safe for concurrent use.
type BucketStore interface {
	Load(ctx context.Context, key string) (Bucket, error)
	Save(ctx context.Context, key string, b Bucket, ttl time.Duration) error
	Close() error
}
