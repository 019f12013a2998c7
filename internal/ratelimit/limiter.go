// Package ratelimit wraps golang.org/x/time/rate for outbound provider calls.
package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Limiter throttles calls to a named external service. A nil *Limiter is
// valid and applies no throttling, which keeps test fakes simple.
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// New creates a limiter allowing requestsPerSecond sustained, with a burst of
// the same size. A non-positive rate returns a nil (unlimited) limiter.
func New(name string, requestsPerSecond int) *Limiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		name:    name,
	}
}

// Wait blocks until the limiter allows a request, or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", l.name, err)
	}
	return nil
}

// Allow reports whether a request can proceed without blocking.
func (l *Limiter) Allow() bool {
	if l == nil {
		return true
	}
	return l.limiter.Allow()
}

// Name returns the service name this limiter guards.
func (l *Limiter) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}
