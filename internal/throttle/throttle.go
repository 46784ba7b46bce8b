// Package throttle limits how often one account may submit essays for
// grading, independently of the free-check quota. Counters live in Redis
// so limits hold across server restarts and replicas.
package throttle

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter enforces a fixed-window submission cap per account.
type Limiter struct {
	rdb    *redis.Client
	max    int
	window time.Duration
}

// New connects to Redis and verifies the connection before returning.
func New(redisURL, password string, db, maxPerWindow int, window time.Duration) (*Limiter, error) {
	opt := &redis.Options{
		Addr:     redisURL,
		Password: password,
		DB:       db,
	}

	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Limiter{rdb: rdb, max: maxPerWindow, window: window}, nil
}

// Allow records one submission attempt and reports whether it fits the
// window. A nil Limiter allows everything, so callers can skip the nil
// check when throttling is not configured.
func (l *Limiter) Allow(ctx context.Context, accountID string) (bool, error) {
	if l == nil || l.rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("throttle:evaluate:%s", accountID)

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}

	// Set expiration if first time
	if count == 1 {
		l.rdb.Expire(ctx, key, l.window)
	}

	return count <= int64(l.max), nil
}
