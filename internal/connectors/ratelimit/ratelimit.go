// Package ratelimit provides per-provider request throttling shared by
// the search connectors.
package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

// DefaultBackoff applies when a 429 carries no usable Retry-After.
const DefaultBackoff = 60 * time.Second

// Config holds rate limiting configuration for a provider.
type Config struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// Defaults are conservative per-provider limits, well below the
// documented quotas.
var Defaults = map[domain.SourceName]Config{
	domain.SourceGoogleDrive: {RequestsPerSecond: 8, BurstSize: 10},
	domain.SourceJira:        {RequestsPerSecond: 5, BurstSize: 10},
	domain.SourceNotion:      {RequestsPerSecond: 3, BurstSize: 3},
	domain.SourceGitHub:      {RequestsPerSecond: 0.5, BurstSize: 10},
}

var fallback = Config{RequestsPerSecond: 5, BurstSize: 10}

// Limiter is a token bucket with a backoff window set after 429 responses.
type Limiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	now     func() time.Time
}

// For returns a limiter with the default configuration for source.
func For(source domain.SourceName) *Limiter {
	cfg, ok := Defaults[source]
	if !ok {
		cfg = fallback
	}
	return New(cfg)
}

// New creates a limiter with explicit configuration.
func New(cfg Config) *Limiter {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = fallback.RequestsPerSecond
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = 1
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		now:     time.Now,
	}
}

// Wait blocks until a request may be sent. A pending backoff window is
// honoured first. Returns the context error if ctx ends while waiting.
func (l *Limiter) Wait(ctx context.Context) error {
	if until := l.backoffRemaining(); until > 0 {
		timer := time.NewTimer(until)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return l.limiter.Wait(ctx)
}

// Allow reports whether a request may be sent immediately.
func (l *Limiter) Allow() bool {
	if l.backoffRemaining() > 0 {
		return false
	}
	return l.limiter.Allow()
}

// Backoff starts a backoff window after a 429 response.
// A non-positive duration uses DefaultBackoff.
func (l *Limiter) Backoff(d time.Duration) {
	if d <= 0 {
		d = DefaultBackoff
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if next := l.now().Add(d); next.After(l.retryAt) {
		l.retryAt = next
	}
}

// BackoffRemaining returns how long the current backoff window lasts.
func (l *Limiter) BackoffRemaining() time.Duration {
	return l.backoffRemaining()
}

func (l *Limiter) backoffRemaining() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.retryAt.Sub(l.now())
}

// ParseRetryAfter parses a Retry-After header value in seconds or HTTP-date
// form. Returns zero when the value is missing or unparseable.
func ParseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
