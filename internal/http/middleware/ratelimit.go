// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the per-session token-bucket limiter. Every advice
// turn costs a completion call, so buckets are keyed by session ID on
// session routes and by client IP elsewhere. Buckets live in process memory
// and idle ones are swept periodically; a replay flagged by
// IdempotencyValidator never spends a token.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	visitorTTL   = 10 * time.Minute
	sweepEveryN  = 5000
	maxRetryWait = time.Hour
)

// keyFunc maps a request to its bucket, prefixed by namespace
// ("session:" or "ip:").
type keyFunc func(*gin.Context) string

// KeyBySessionOrIP keys by the :id route parameter, falling back to the
// client IP.
func KeyBySessionOrIP() keyFunc {
	return func(c *gin.Context) string {
		if id := c.Param("id"); id != "" {
			return "session:" + id
		}
		return "ip:" + c.ClientIP()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter holds one token bucket per key. Safe for concurrent use.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	keyFn keyFunc

	mu       sync.Mutex
	visitors map[string]*visitor
	ttl      time.Duration
	lookups  uint64
}

// NewRateLimiter returns a limiter refilling rps tokens per second up to
// burst (coerced to at least 1).
func NewRateLimiter(rps float64, burst int, keyFn keyFunc) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		keyFn:    keyFn,
		visitors: make(map[string]*visitor),
		ttl:      visitorTTL,
	}
}

// getVisitor returns the bucket for key, creating it on first use. Every
// sweepEveryN lookups, buckets idle for ttl are dropped before the requested
// one is touched.
func (rl *RateLimiter) getVisitor(key string) *rate.Limiter {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.lookups++
	if rl.lookups >= sweepEveryN {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) >= rl.ttl {
				delete(rl.visitors, k)
			}
		}
		rl.lookups = 0
	}

	if v, ok := rl.visitors[key]; ok {
		v.lastSeen = now
		return v.limiter
	}
	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.visitors[key] = &visitor{limiter: lim, lastSeen: now}
	return lim
}

// IsRateBypass reports whether IdempotencyValidator exempted this request.
func IsRateBypass(c *gin.Context) bool {
	return c.GetBool(ctxKeyRateBypass)
}

// Handler enforces the limits. A rejected request gets 429 with the
// standard error envelope and a Retry-After of the whole seconds until the
// next token.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}

		key := rl.keyFn(c)
		res := rl.getVisitor(key).Reserve()
		wait := res.Delay()
		if wait == 0 {
			c.Next()
			return
		}
		res.Cancel()

		scope, _, _ := strings.Cut(key, ":")
		httpRateLimited.WithLabelValues(scope).Inc()

		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get(requestIDHeader),
			"code":       "too_many_requests",
			"message":    "rate limit exceeded",
		})
	}
}

// retryAfterSeconds rounds wait up to whole seconds, at least 1. A limiter
// that can never refill (rps 0) reports an infinite delay, capped here.
func retryAfterSeconds(wait time.Duration) int {
	if wait <= 0 {
		return 1
	}
	if wait > maxRetryWait {
		wait = maxRetryWait
	}
	return int(math.Max(1, math.Ceil(wait.Seconds())))
}
