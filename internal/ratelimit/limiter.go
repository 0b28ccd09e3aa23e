package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter answers whether one more hit for key fits the budget.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter counts hits per fixed window so all instances share the budget.
type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, prefix: prefix, limit: int64(limit), window: window, now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := l.now().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("%s%s:%d", l.prefix, key, bucket)

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit counter: %w", err)
	}
	return incr.Val() <= l.limit, nil
}

// LocalLimiter keeps a token bucket per key in process memory.
type LocalLimiter struct {
	buckets *cache.Cache
	limit   rate.Limit
	burst   int
}

// NewLocalLimiter allows limit hits per window with the full budget available as burst.
func NewLocalLimiter(limit int, window time.Duration) *LocalLimiter {
	return &LocalLimiter{
		buckets: cache.New(2*window, 10*time.Minute),
		limit:   rate.Every(window / time.Duration(limit)),
		burst:   limit,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	if v, ok := l.buckets.Get(key); ok {
		return v.(*rate.Limiter).Allow(), nil
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	l.buckets.SetDefault(key, lim)
	return lim.Allow(), nil
}

// New picks the shared limiter when redis is available.
func New(rdb *redis.Client, prefix string, limit int, window time.Duration) Limiter {
	if rdb != nil {
		return NewRedisLimiter(rdb, prefix, limit, window)
	}
	return NewLocalLimiter(limit, window)
}
