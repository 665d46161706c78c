package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether a submission from the given source address may
// proceed. Implementations must be safe for concurrent use.
type Limiter interface {
	Allow(key string) bool
}

type hitRecord struct {
	count       int
	windowStart time.Time
}

// MemoryLimiter is a process-local fixed-window counter keyed by address.
// Fixed windows allow up to 2x the cap across a boundary; that's accepted as
// abuse deterrence, not precise throttling. Entries are never deleted, which
// is bounded only by process restart; fine for a single-instance deployment.
type MemoryLimiter struct {
	mu     sync.Mutex
	hits   map[string]*hitRecord
	window time.Duration
	max    int
	now    func() time.Time
}

func NewMemoryLimiter(window time.Duration, max int) *MemoryLimiter {
	return &MemoryLimiter{
		hits:   make(map[string]*hitRecord),
		window: window,
		max:    max,
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.hits[key]
	if !ok || now.Sub(rec.windowStart) > l.window {
		l.hits[key] = &hitRecord{count: 1, windowStart: now}
		return true
	}
	if rec.count >= l.max {
		return false
	}
	rec.count++
	return true
}

// RedisLimiter is the shared-counter variant for multi-instance deployments,
// same fixed-window semantics behind the same contract. Redis errors fail
// open: a broken counter shouldn't take the contact form down with it.
type RedisLimiter struct {
	rdb    *redis.Client
	window time.Duration
	max    int
	prefix string
}

func NewRedisLimiter(rdb *redis.Client, window time.Duration, max int) *RedisLimiter {
	return &RedisLimiter{
		rdb:    rdb,
		window: window,
		max:    max,
		prefix: "contact:ratelimit:",
	}
}

func (l *RedisLimiter) Allow(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	k := l.prefix + key
	pipe := l.rdb.Pipeline()
	incr := pipe.Incr(ctx, k)
	// ExpireNX on every hit, not just the first: if setting the TTL ever
	// fails transiently, the next hit repairs it instead of leaving a key
	// that counts forever.
	pipe.ExpireNX(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("rate limit counter unavailable, allowing", "error", err)
		return true
	}
	return incr.Val() <= int64(l.max)
}
