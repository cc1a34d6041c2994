package handler

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const (
	redeemLimiterSize   = 10000
	redeemRedisPrefix   = "folio:redeem:"
	redeemRedisDeadline = 500 * time.Millisecond
)

// FailureCounter counts secret attempts per key inside a window. Incr
// returns the count including the attempt it recorded.
type FailureCounter interface {
	Incr(ctx context.Context, key string) (int, error)
	Reset(ctx context.Context, key string) error
}

// RedeemLimiter caps the secret attempts one client may make against one
// link within the window. Attempts are counted before they are checked so
// concurrent guesses cannot slip past the cap.
type RedeemLimiter struct {
	counter     FailureCounter
	maxFailures int
}

func NewRedeemLimiter(counter FailureCounter, maxFailures int) *RedeemLimiter {
	return &RedeemLimiter{counter: counter, maxFailures: maxFailures}
}

func (l *RedeemLimiter) enabled() bool {
	return l != nil && l.counter != nil && l.maxFailures > 0
}

// admit records an attempt and reports whether it is still within the cap.
func (l *RedeemLimiter) admit(ctx context.Context, key string) bool {
	if !l.enabled() {
		return true
	}
	n, err := l.counter.Incr(ctx, key)
	if err != nil {
		logutil.GetLogger(ctx).Warn("record redeem attempt failed", zap.Error(err))
		return true
	}
	return n <= l.maxFailures
}

func (l *RedeemLimiter) reset(ctx context.Context, key string) {
	if !l.enabled() {
		return
	}
	if err := l.counter.Reset(ctx, key); err != nil {
		logutil.GetLogger(ctx).Warn("reset redeem failures failed", zap.Error(err))
	}
}

type MemoryFailureCounter struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, int]
}

func NewMemoryFailureCounter(window time.Duration) *MemoryFailureCounter {
	return &MemoryFailureCounter{cache: expirable.NewLRU[string, int](redeemLimiterSize, nil, window)}
}

func (c *MemoryFailureCounter) Incr(ctx context.Context, key string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := c.cache.Get(key)
	n++
	c.cache.Add(key, n)
	return n, nil
}

func (c *MemoryFailureCounter) Reset(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Remove(key)
	return nil
}

// RedisFailureCounter shares counters between instances.
type RedisFailureCounter struct {
	client redis.UniversalClient
	window time.Duration
}

func NewRedisFailureCounter(client redis.UniversalClient, window time.Duration) *RedisFailureCounter {
	return &RedisFailureCounter{client: client, window: window}
}

func (c *RedisFailureCounter) Incr(ctx context.Context, key string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, redeemRedisDeadline)
	defer cancel()
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, redeemRedisPrefix+key)
	pipe.Expire(ctx, redeemRedisPrefix+key, c.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

func (c *RedisFailureCounter) Reset(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, redeemRedisDeadline)
	defer cancel()
	return c.client.Del(ctx, redeemRedisPrefix+key).Err()
}
