package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/deskpulse/deskpulse/infrastructure/http/response"
	"github.com/deskpulse/deskpulse/infrastructure/service/logger"
	"github.com/deskpulse/deskpulse/infrastructure/service/ratelimit"
)

type RateLimitMiddleware struct {
	rateLimitService ratelimit.RateLimitService
	logger           logger.Logger
	retryAfter       int
}

// NewRateLimitMiddleware creates the per-IP limiter. retryAfterSeconds is sent
// back on rejected requests.
func NewRateLimitMiddleware(rateLimitService ratelimit.RateLimitService, logger logger.Logger, retryAfterSeconds int) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rateLimitService: rateLimitService,
		logger:           logger,
		retryAfter:       retryAfterSeconds,
	}
}

func (m *RateLimitMiddleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.rateLimitService == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		clientIP := getClientIP(r)

		allowed, remaining, err := m.rateLimitService.Allow(ctx, "ip:"+clientIP)
		if err != nil {
			// Continue with request on error
			m.logger.Error(ctx, "Failed to check rate limit", err, map[string]interface{}{"ip": clientIP})
			next.ServeHTTP(w, r)
			return
		}

		if !allowed {
			m.logger.Warn(ctx, "Rate limit exceeded", map[string]interface{}{
				"ip":        clientIP,
				"path":      r.URL.Path,
				"userAgent": r.UserAgent(),
			})
			w.Header().Set("Retry-After", strconv.Itoa(m.retryAfter))
			response.TooManyRequests(w)
			return
		}

		if remaining >= 0 {
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		}
		next.ServeHTTP(w, r)
	})
}

// getClientIP extracts client IP from request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
