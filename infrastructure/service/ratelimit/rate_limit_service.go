package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/deskpulse/deskpulse/infrastructure/service/logger"
)

// RateLimitService decides whether a caller may issue another request in the
// current window.
type RateLimitService interface {
	// Allow counts one hit for key and reports whether it is within the limit,
	// together with the hits left in the window.
	Allow(ctx context.Context, key string) (bool, int, error)
}

// RateLimitConfig configuration for rate limiting
type RateLimitConfig struct {
	Enabled   bool
	Limit     int
	Window    time.Duration
	KeyPrefix string
}

// NewRateLimitService picks the backend: a no-op when disabled, redis when a
// client is given, otherwise an in-process counter.
func NewRateLimitService(config RateLimitConfig, client *redis.Client, log logger.Logger) RateLimitService {
	ctx := context.Background()
	if !config.Enabled || config.Limit <= 0 {
		log.Info(ctx, "Rate limiting disabled", nil)
		return &noopRateLimitService{}
	}

	fields := map[string]interface{}{"limit": config.Limit, "window": config.Window.String()}
	if client != nil {
		fields["backend"] = "redis"
		log.Info(ctx, "Rate limiting service initialized", fields)
		return &redisRateLimitService{client: client, config: config, logger: log}
	}

	fields["backend"] = "memory"
	log.Info(ctx, "Rate limiting service initialized", fields)
	return NewMemoryRateLimitService(config, time.Now)
}

// redisRateLimitService counts hits with INCR on a key that expires with the
// window.
type redisRateLimitService struct {
	client *redis.Client
	config RateLimitConfig
	logger logger.Logger
}

func (s *redisRateLimitService) Allow(ctx context.Context, key string) (bool, int, error) {
	redisKey := fmt.Sprintf("%s:ratelimit:%s", s.config.KeyPrefix, key)

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		ttl = pipe.TTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "Failed to increment rate limit counter", err, map[string]interface{}{"key": key})
		return false, 0, fmt.Errorf("failed to increment rate limit: %w", err)
	}
	hits := incr.Val()

	// A counter without expiry opens the window, including one left behind
	// by an earlier failed EXPIRE.
	if ttl.Val() < 0 {
		if err := s.client.Expire(ctx, redisKey, s.config.Window).Err(); err != nil {
			return false, 0, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	count := int(hits)
	remaining := s.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	if count > s.config.Limit {
		s.logger.Warn(ctx, "Rate limit exceeded", map[string]interface{}{"key": key, "count": count})
		return false, 0, nil
	}
	return true, remaining, nil
}

type window struct {
	start time.Time
	count int
}

// memoryRateLimitService is a fixed-window counter kept in process memory.
type memoryRateLimitService struct {
	mu      sync.Mutex
	config  RateLimitConfig
	now     func() time.Time
	windows map[string]*window
}

// NewMemoryRateLimitService creates an in-process limiter using now as clock.
func NewMemoryRateLimitService(config RateLimitConfig, now func() time.Time) RateLimitService {
	return &memoryRateLimitService{
		config:  config,
		now:     now,
		windows: make(map[string]*window),
	}
}

func (s *memoryRateLimitService) Allow(ctx context.Context, key string) (bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || now.Sub(w.start) >= s.config.Window {
		s.evict(now)
		w = &window{start: now}
		s.windows[key] = w
	}
	w.count++

	if w.count > s.config.Limit {
		return false, 0, nil
	}
	return true, s.config.Limit - w.count, nil
}

// evict drops expired windows. Caller holds mu.
func (s *memoryRateLimitService) evict(now time.Time) {
	for k, w := range s.windows {
		if now.Sub(w.start) >= s.config.Window {
			delete(s.windows, k)
		}
	}
}

// noopRateLimitService is used when rate limiting is disabled
type noopRateLimitService struct{}

func (n *noopRateLimitService) Allow(ctx context.Context, key string) (bool, int, error) {
	return true, -1, nil
}
