package enrich

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRateLimited signals that the hourly model-call budget is exhausted. It
// refuses the single enrichment call; the pipeline itself keeps running.
var ErrRateLimited = errors.New("enrich: hourly rate limit exceeded")

// Limiter gates calls to the external model with a fixed hourly window.
// Allow atomically consumes one slot or returns ErrRateLimited; the cap may
// never be exceeded by more than one in-flight request.
type Limiter interface {
	Allow(ctx context.Context) error
}

// WindowLimiter is the in-process limiter: a counter that resets one hour
// after the first call of the window.
type WindowLimiter struct {
	limit int
	now   func() time.Time

	mu          sync.Mutex
	count       int
	windowStart time.Time
}

func NewWindowLimiter(limit int) *WindowLimiter {
	if limit <= 0 {
		limit = 1000
	}
	return &WindowLimiter{limit: limit, now: time.Now}
}

func (l *WindowLimiter) Allow(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.windowStart) > time.Hour {
		l.count = 0
		l.windowStart = now
	}

	if l.count >= l.limit {
		return ErrRateLimited
	}
	l.count++
	return nil
}

// RedisLimiter shares the hourly budget across processes using an INCR on an
// hour-bucketed key. The key expires on its own after the window passes.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, limit int) *RedisLimiter {
	if limit <= 0 {
		limit = 1000
	}
	return &RedisLimiter{client: client, limit: limit, now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context) error {
	key := fmt.Sprintf("enrich:ratelimit:%s", l.now().UTC().Format("2006010215"))

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		l.client.Expire(ctx, key, time.Hour+time.Minute)
	}

	if count > int64(l.limit) {
		return ErrRateLimited
	}
	return nil
}
