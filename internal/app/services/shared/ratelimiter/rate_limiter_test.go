package ratelimiter

import (
	"context"
	"medibook-service/internal/app/contracts"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type counterRedis struct {
	contracts.RedisRepository
	mu     sync.Mutex
	counts map[string]int
	ttls   map[string]time.Duration
}

func newCounterRedis() *counterRedis {
	return &counterRedis{counts: map[string]int{}, ttls: map[string]time.Duration{}}
}

func (r *counterRedis) IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[key]++
	if r.counts[key] == 1 {
		r.ttls[key] = ttl
	}
	return r.counts[key], nil
}

func TestResourceLimiter_Allow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 7, 1, 10, 0, 15, 0, time.UTC)

	t.Run("allows up to quota then blocks until next window", func(t *testing.T) {
		redis := newCounterRedis()
		limiter := NewResourceLimiter(redis, zap.NewNop())
		quota := Quota{Group: "payment-verify", Subject: "user-1", Window: time.Minute, MaxCalls: 2, Now: now}

		for i := 0; i < 2; i++ {
			decision, err := limiter.Allow(ctx, quota)
			require.NoError(t, err)
			assert.True(t, decision.Allowed)
		}

		decision, err := limiter.Allow(ctx, quota)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, 45, decision.RetryAfterSecs)

		for _, ttl := range redis.ttls {
			assert.Equal(t, 61*time.Second, ttl)
		}
	})

	t.Run("subjects are counted separately", func(t *testing.T) {
		limiter := NewResourceLimiter(newCounterRedis(), zap.NewNop())

		first, err := limiter.Allow(ctx, Quota{Group: "g", Subject: "a", Window: time.Minute, MaxCalls: 1, Now: now})
		require.NoError(t, err)
		second, err := limiter.Allow(ctx, Quota{Group: "g", Subject: "b", Window: time.Minute, MaxCalls: 1, Now: now})
		require.NoError(t, err)

		assert.True(t, first.Allowed)
		assert.True(t, second.Allowed)
	})

	t.Run("new window resets the count", func(t *testing.T) {
		limiter := NewResourceLimiter(newCounterRedis(), zap.NewNop())
		quota := Quota{Group: "g", Subject: "a", Window: time.Minute, MaxCalls: 1, Now: now}

		_, err := limiter.Allow(ctx, quota)
		require.NoError(t, err)

		quota.Now = now.Add(time.Minute)
		decision, err := limiter.Allow(ctx, quota)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})

	t.Run("zero quota disables the limit", func(t *testing.T) {
		redis := newCounterRedis()
		limiter := NewResourceLimiter(redis, zap.NewNop())

		decision, err := limiter.Allow(ctx, Quota{Group: "g", Subject: "a"})
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Empty(t, redis.counts)
	})

	t.Run("missing subject", func(t *testing.T) {
		limiter := NewResourceLimiter(newCounterRedis(), zap.NewNop())

		_, err := limiter.Allow(ctx, Quota{Group: "g", MaxCalls: 1})
		assert.Error(t, err)
	})
}
