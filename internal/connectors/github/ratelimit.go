package github

import (
	"context"
	"sync"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/time/rate"
)

const (
	// SearchRateLimit is the authenticated search quota (30/minute).
	SearchRateLimit = 30

	// ProactiveRate is the proactive throttle rate (0.45 req/sec = 27/min).
	ProactiveRate = 0.45

	// ProactiveBurst lets a single search run its ladder without waiting.
	ProactiveBurst = 3

	// MinBuffer is the minimum remaining requests before failing fast.
	MinBuffer = 1
)

// RateLimiter implements dual-strategy rate limiting for the search API.
type RateLimiter struct {
	mu        sync.Mutex
	remaining int           // From API response
	limit     int           // From API response
	resetTime time.Time     // From API response
	bucket    *rate.Limiter // Proactive throttling
	minBuffer int           // Reserve requests
	now       func() time.Time
}

// NewRateLimiter creates a new rate limiter with proactive throttling.
func NewRateLimiter() *RateLimiter {
	return newRateLimiter(rate.Limit(ProactiveRate), ProactiveBurst)
}

func newRateLimiter(r rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		remaining: SearchRateLimit, // Assume full quota initially
		limit:     SearchRateLimit,
		bucket:    rate.NewLimiter(r, burst),
		minBuffer: MinBuffer,
		now:       time.Now,
	}
}

// Wait blocks until the token bucket admits a request. When the reported
// quota is exhausted it returns a *RateLimitError instead of waiting for
// the reset.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	remaining, limit, resetTime := r.remaining, r.limit, r.resetTime
	now := r.now()
	r.mu.Unlock()

	if remaining < r.minBuffer && now.Before(resetTime) {
		return &RateLimitError{ResetAt: resetTime, Remaining: remaining, Limit: limit}
	}

	return r.bucket.Wait(ctx)
}

// UpdateFromRate records the quota go-github parsed from a response.
func (r *RateLimiter) UpdateFromRate(rt gh.Rate) {
	if rt.Limit == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.remaining = rt.Remaining
	r.limit = rt.Limit
	r.resetTime = rt.Reset.Time
}

// Exhaust marks the quota as used up until resetAt.
func (r *RateLimiter) Exhaust(resetAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remaining = 0
	if resetAt.After(r.resetTime) {
		r.resetTime = resetAt
	}
}

// Remaining returns the current remaining requests.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// Limit returns the rate limit.
func (r *RateLimiter) Limit() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limit
}

// ResetTime returns the rate limit reset time.
func (r *RateLimiter) ResetTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetTime
}
