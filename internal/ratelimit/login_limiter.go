package ratelimit

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CounterStore tracks attempt counts within a fixed window.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type redisCounterStore struct {
	client *redis.Client
}

// NewRedisCounterStore returns a Redis-backed counter store.
func NewRedisCounterStore(client *redis.Client) CounterStore {
	return &redisCounterStore{client: client}
}

func (s *redisCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		// First attempt in the window opens it.
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// LoginLimiter throttles login attempts per email and client address using a
// fixed window counter.
type LoginLimiter struct {
	store  CounterStore
	limit  int
	window time.Duration
	logger *zap.Logger
}

// NewLoginLimiter builds a limiter. A non-positive limit disables throttling.
func NewLoginLimiter(store CounterStore, limit int, window time.Duration, logger *zap.Logger) *LoginLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoginLimiter{store: store, limit: limit, window: window, logger: logger}
}

// Allow reports whether another login attempt is permitted. Store failures
// fail open: an unreachable Redis must not lock every user out.
func (l *LoginLimiter) Allow(ctx context.Context, email, addr string) bool {
	if l == nil || l.store == nil || l.limit <= 0 {
		return true
	}

	key := loginKey(email, addr)
	count, err := l.store.Incr(ctx, key, l.window)
	if err != nil {
		l.logger.Warn("rate limit store unavailable", zap.Error(err))
		return true
	}
	if count > int64(l.limit) {
		l.logger.Info("login attempt throttled", zap.String("key", key), zap.Int64("count", count))
		return false
	}
	return true
}

func loginKey(email, addr string) string {
	return "login_attempts:" + strings.ToLower(email) + ":" + addr
}
