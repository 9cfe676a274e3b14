package middleware

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/concert-events-dashboard/pkg/response"
	"github.com/prohmpiriya/concert-events-dashboard/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// RateLimitConfig holds per-client token bucket settings
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
	CleanupInterval   time.Duration
	EntryTTL          time.Duration
}

// DefaultRateLimitConfig returns default rate limit configuration
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 120,
		Burst:             20,
		CleanupInterval:   time.Minute,
		EntryTTL:          5 * time.Minute,
	}
}

type bucket struct {
	mu         sync.Mutex
	tokens     float64
	lastUpdate time.Time
}

// LocalRateLimiter is an in-memory token bucket keyed by client
type LocalRateLimiter struct {
	config RateLimitConfig
	now    func() time.Time

	buckets sync.Map

	allowed  atomic.Uint64
	rejected atomic.Uint64
}

// NewLocalRateLimiter creates a limiter. Stale buckets are swept until ctx is done.
func NewLocalRateLimiter(ctx context.Context, config RateLimitConfig) *LocalRateLimiter {
	def := DefaultRateLimitConfig()
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = def.RequestsPerMinute
	}
	if config.Burst <= 0 {
		config.Burst = def.Burst
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = def.CleanupInterval
	}
	if config.EntryTTL <= 0 {
		config.EntryTTL = def.EntryTTL
	}

	rl := &LocalRateLimiter{config: config, now: time.Now}
	go rl.cleanup(ctx)
	return rl
}

// Allow takes one token for key
func (rl *LocalRateLimiter) Allow(key string) (bool, int) {
	now := rl.now()
	v, _ := rl.buckets.LoadOrStore(key, &bucket{tokens: float64(rl.config.Burst), lastUpdate: now})
	b := v.(*bucket)

	b.mu.Lock()
	defer b.mu.Unlock()

	perSecond := float64(rl.config.RequestsPerMinute) / 60
	b.tokens = min(float64(rl.config.Burst), b.tokens+now.Sub(b.lastUpdate).Seconds()*perSecond)
	b.lastUpdate = now

	if b.tokens >= 1 {
		b.tokens--
		rl.allowed.Add(1)
		return true, int(b.tokens)
	}
	rl.rejected.Add(1)
	return false, 0
}

// Stats returns allowed and rejected totals
func (rl *LocalRateLimiter) Stats() (allowed, rejected uint64) {
	return rl.allowed.Load(), rl.rejected.Load()
}

func (rl *LocalRateLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-ctx.Done():
			return
		}
	}
}

func (rl *LocalRateLimiter) sweep() {
	cutoff := rl.now().Add(-rl.config.EntryTTL)
	rl.buckets.Range(func(key, value any) bool {
		b := value.(*bucket)
		b.mu.Lock()
		if b.lastUpdate.Before(cutoff) {
			rl.buckets.Delete(key)
		}
		b.mu.Unlock()
		return true
	})
}

// RateLimit rejects clients that exceed their bucket with 429
func RateLimit(rl *LocalRateLimiter) gin.HandlerFunc {
	limit := strconv.Itoa(rl.config.RequestsPerMinute)

	return func(c *gin.Context) {
		_, span := telemetry.StartSpan(c.Request.Context(), "middleware.rate_limiter")
		defer span.End()

		clientIP := c.ClientIP()
		allowed, remaining := rl.Allow(clientIP)
		span.SetAttributes(
			attribute.String("client_ip", clientIP),
			attribute.Bool("allowed", allowed),
		)

		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			span.SetStatus(codes.Error, "rate limit exceeded")
			retryAfter := max(1, 60/rl.config.RequestsPerMinute)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			response.Fail(c, response.CodeRateLimited,
				"Rate limit exceeded. Please retry after "+strconv.Itoa(retryAfter)+" second(s).")
			c.Abort()
			return
		}

		c.Next()
	}
}
