package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldTokens   = "tokens"
	fieldLastFill = "last_fill"
)

// Redis keeps buckets in hashes so several instances can share one limit.
type Redis struct {
	client *redis.Client
}

func NewRedis(ctx context.Context, addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &Redis{client: client}, nil
}

func (r *Redis) Load(ctx context.Context, key string) (Bucket, error) {
	values, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Bucket{}, ErrCacheMiss
		}
		return Bucket{}, err
	}
	if len(values) == 0 {
		return Bucket{}, ErrCacheMiss
	}

	tokens, err := strconv.Atoi(values[fieldTokens])
	if err != nil {
		return Bucket{}, ErrCacheMiss
	}
	lastFill, err := strconv.ParseInt(values[fieldLastFill], 10, 64)
	if err != nil {
		return Bucket{}, ErrCacheMiss
	}

	return Bucket{Tokens: tokens, LastFill: lastFill}, nil
}

func (r *Redis) Save(ctx context.Context, key string, b Bucket, ttl time.Duration) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldTokens, b.Tokens, fieldLastFill, b.LastFill)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	return err
}

func (r *Redis) Close() error {
	return r.client.Close()
}
