package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskpulse/deskpulse/infrastructure/service/logger"
)

func TestMemoryRateLimitService(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	limiter := NewMemoryRateLimitService(RateLimitConfig{Enabled: true, Limit: 2, Window: time.Minute}, clock)
	ctx := context.Background()

	allowed, remaining, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)

	allowed, remaining, _ = limiter.Allow(ctx, "10.0.0.1")
	assert.True(t, allowed)
	assert.Equal(t, 0, remaining)

	allowed, _, _ = limiter.Allow(ctx, "10.0.0.1")
	assert.False(t, allowed)

	allowed, _, _ = limiter.Allow(ctx, "10.0.0.2")
	assert.True(t, allowed, "keys are counted independently")

	now = now.Add(time.Minute)
	allowed, _, _ = limiter.Allow(ctx, "10.0.0.1")
	assert.True(t, allowed, "a new window resets the count")
}

func TestNewRateLimitServiceDisabled(t *testing.T) {
	limiter := NewRateLimitService(RateLimitConfig{Enabled: false}, nil, logger.NewNop())

	for i := 0; i < 100; i++ {
		allowed, _, err := limiter.Allow(context.Background(), "k")
		require.NoError(t, err)
		require.True(t, allowed)
	}
}

func TestNewRateLimitServiceFallsBackToMemory(t *testing.T) {
	limiter := NewRateLimitService(RateLimitConfig{Enabled: true, Limit: 1, Window: time.Hour}, nil, logger.NewNop())

	_, ok := limiter.(*memoryRateLimitService)
	assert.True(t, ok)
}

func TestRedisRateLimitService(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := NewRateLimitService(RateLimitConfig{
		Enabled:   true,
		Limit:     2,
		Window:    time.Minute,
		KeyPrefix: "deskpulse",
	}, client, logger.NewNop())
	ctx := context.Background()
	key := "deskpulse:ratelimit:ip:10.0.0.1"

	// First hit opens the window.
	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectTTL(key).SetVal(time.Duration(-1))
	mock.ExpectExpire(key, time.Minute).SetVal(true)

	allowed, remaining, err := limiter.Allow(ctx, "ip:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)

	mock.ExpectIncr(key).SetVal(3)
	mock.ExpectTTL(key).SetVal(30 * time.Second)

	allowed, _, err = limiter.Allow(ctx, "ip:10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRateLimitServiceRepairsMissingExpiry(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := NewRateLimitService(RateLimitConfig{
		Enabled:   true,
		Limit:     100,
		Window:    time.Minute,
		KeyPrefix: "deskpulse",
	}, client, logger.NewNop())
	ctx := context.Background()
	key := "deskpulse:ratelimit:ip:10.0.0.2"

	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectTTL(key).SetVal(time.Duration(-1))
	mock.ExpectExpire(key, time.Minute).SetErr(errors.New("timeout"))

	_, _, err := limiter.Allow(ctx, "ip:10.0.0.2")
	require.Error(t, err)

	// The counter survived without a TTL, so the next hit sets it.
	mock.ExpectIncr(key).SetVal(2)
	mock.ExpectTTL(key).SetVal(time.Duration(-1))
	mock.ExpectExpire(key, time.Minute).SetVal(true)

	allowed, _, err := limiter.Allow(ctx, "ip:10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)

	assert.NoError(t, mock.ExpectationsWereMet())
}
