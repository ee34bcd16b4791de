package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ResourceLimiter is a fixed-window counter kept in Redis. Each window is its
// own key, expiring one second after the window ends.
type ResourceLimiter struct {
	redis contracts.RedisRepository
	log   *zap.Logger
}

func NewResourceLimiter(redis contracts.RedisRepository, log *zap.Logger) *ResourceLimiter {
	return &ResourceLimiter{redis: redis, log: log}
}

type Quota struct {
	// Group namespaces the counter, for example "payment-verify".
	Group string
	// Subject is who is being limited, usually a user id.
	Subject  string
	Window   time.Duration
	MaxCalls int
	// Now is only set by tests.
	Now time.Time
}

type Decision struct {
	Allowed        bool
	RetryAfterSecs int
}

// Allow counts one call against q. A non-positive MaxCalls disables the limit.
func (l *ResourceLimiter) Allow(ctx context.Context, q Quota) (*Decision, error) {
	if q.MaxCalls <= 0 {
		return &Decision{Allowed: true}, nil
	}

	group := strings.ToLower(strings.TrimSpace(q.Group))
	subject := strings.TrimSpace(q.Subject)
	if group == "" || subject == "" {
		return nil, errors.New("ratelimiter: group and subject are required")
	}

	windowSec := int64(q.Window / time.Second)
	if windowSec <= 0 {
		windowSec = 60
	}

	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}
	windowID := now.Unix() / windowSec
	key := fmt.Sprintf("%s%s:%s:%d", constvars.RedisKeyRateLimitPrefix, group, subject, windowID)

	count, err := l.redis.IncrementWithTTL(ctx, key, time.Duration(windowSec+1)*time.Second)
	if err != nil {
		l.log.Error("ResourceLimiter.Allow increment failed",
			zap.String(constvars.LoggingRedisKey, key),
			zap.Error(err),
		)
		return nil, err
	}

	if count > q.MaxCalls {
		nextWindow := (windowID + 1) * windowSec
		return &Decision{Allowed: false, RetryAfterSecs: int(nextWindow - now.Unix())}, nil
	}
	return &Decision{Allowed: true}, nil
}
