// Package ratelimit limits requests per client IP with token buckets.
package ratelimit

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/handler"
)

const (
	// MsgTooManyRequests is returned with HTTP 429.
	MsgTooManyRequests = "Too many requests. Please slow down."

	defaultRPS   = 1
	defaultBurst = 5

	idleTTL = 10 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one bucket per key.
type Limiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewLimiter returns a limiter for cfg, zero values fall back to 1 request per second with a burst of 5.
func NewLimiter(cfg config.RateLimit) *Limiter {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRPS
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}

	return &Limiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow reports whether key may make a request now.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweepLocked(now)

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}

	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

// Len returns the number of tracked clients.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.visitors)
}

// sweepLocked drops idle clients at most once per idleTTL.
func (l *Limiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastSweep) < idleTTL {
		return
	}

	l.lastSweep = now

	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) >= idleTTL {
			delete(l.visitors, key)
		}
	}
}

// Handler rejects requests over the limit with 429.
func (l *Limiter) Handler(c *fiber.Ctx) error {
	if l.Allow(c.IP()) {
		return c.Next()
	}

	c.Set(fiber.HeaderRetryAfter, "1")

	if handler.WantsJSON(c) {
		return handler.JSONError(c, fiber.StatusTooManyRequests, MsgTooManyRequests)
	}

	return c.Status(fiber.StatusTooManyRequests).SendString(MsgTooManyRequests)
}

// New returns the middleware of a fresh limiter.
func New(cfg config.RateLimit) fiber.Handler {
	return NewLimiter(cfg).Handler
}
