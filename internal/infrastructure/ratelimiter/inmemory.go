package ratelimiter

import (
	"context"
	"sync"
	"time"
)

const defaultSweepInterval = time.Minute

type storedBucket struct {
	Bucket
	expiresAt time.Time
}

func (s storedBucket) expired(now time.Time) bool {
	return !s.expiresAt.IsZero() && !now.Before(s.expiresAt)
}

// InMemory keeps buckets in process. Used when no Redis address is configured.
type InMemory struct {
	mu      sync.Mutex
	buckets map[string]storedBucket
	now     func() time.Time

	done      chan struct{}
	closeOnce sync.Once
}

func NewInMemory() *InMemory {
	return newInMemory(time.Now, defaultSweepInterval)
}

func newInMemory(now func() time.Time, sweepEvery time.Duration) *InMemory {
	m := &InMemory{
		buckets: make(map[string]storedBucket),
		now:     now,
		done:    make(chan struct{}),
	}

	if sweepEvery > 0 {
		go m.sweepLoop(sweepEvery)
	}

	return m
}

func (m *InMemory) Load(_ context.Context, key string) (Bucket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.buckets[key]
	if !ok {
		return Bucket{}, ErrCacheMiss
	}
	if stored.expired(m.now()) {
		delete(m.buckets, key)
		return Bucket{}, ErrCacheMiss
	}

	return stored.Bucket, nil
}

func (m *InMemory) Save(_ context.Context, key string, b Bucket, ttl time.Duration) error {
	stored := storedBucket{Bucket: b}
	if ttl > 0 {
		stored.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.buckets[key] = stored
	m.mu.Unlock()

	return nil
}

// Len counts stored buckets, expired or not.
func (m *InMemory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}

func (m *InMemory) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *InMemory) sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, stored := range m.buckets {
		if stored.expired(now) {
			delete(m.buckets, key)
			removed++
		}
	}
	return removed
}

func (m *InMemory) Close() error {
	m.closeOnce.Do(func() { close(m.done) })
	return nil
}
