package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window request limiter. Each client gets
// one counter per window; the first increment sets the expiry. When
// Redis is unreachable the limiter fails open so a cache outage never
// blocks chat traffic.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (r *RedisLimiter) Allow(ctx context.Context, clientID string) (bool, time.Duration, error) {
	windowStart := r.now().Truncate(r.window)
	key := fmt.Sprintf("ratelimit:%s:%d", clientID, windowStart.Unix())

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		log.Printf("[LIMITER] redis unavailable, failing open: %v", err)
		return true, 0, nil
	}
	if count == 1 {
		r.client.Expire(ctx, key, r.window)
	}

	if count > int64(r.limit) {
		retryAfter := windowStart.Add(r.window).Sub(r.now())
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return false, retryAfter, nil
	}
	return true, 0, nil
}
