// Package retry provides a bounded retry wrapper for calls to the catalog
// store and the embedding provider.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultMaxAttempts bounds how many times an operation is tried in total.
	DefaultMaxAttempts = 3
	// defaultInitialInterval is the first backoff delay.
	defaultInitialInterval = 100 * time.Millisecond
)

// Policy describes how an operation is retried.
type Policy struct {
	MaxAttempts     uint64
	InitialInterval time.Duration
}

// DefaultPolicy returns the retry policy used for store and provider calls.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     DefaultMaxAttempts,
		InitialInterval: defaultInitialInterval,
	}
}

// Do runs op with exponential backoff until it succeeds, the attempt budget
// is exhausted, or ctx is cancelled. The name is only used for logging.
func Do(ctx context.Context, name string, op func() error) error {
	return DoWithPolicy(ctx, name, DefaultPolicy(), op)
}

// DoWithPolicy runs op under an explicit retry policy.
func DoWithPolicy(ctx context.Context, name string, policy Policy, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = policy.InitialInterval

	attempt := 0
	wrapped := func() error {
		attempt++
		err := op()
		if err != nil && attempt < int(policy.MaxAttempts) {
			slog.Debug("Retrying operation", "name", name, "attempt", attempt, "error", err)
		}
		return err
	}

	maxRetries := policy.MaxAttempts
	if maxRetries > 0 {
		maxRetries-- // WithMaxRetries counts retries, not attempts
	}

	return backoff.Retry(wrapped, backoff.WithContext(backoff.WithMaxRetries(bo, maxRetries), ctx))
}

// DoValue runs op with the default policy and returns its value.
func DoValue[T any](ctx context.Context, name string, op func() (T, error)) (T, error) {
	var result T
	err := Do(ctx, name, func() error {
		var opErr error
		result, opErr = op()
		return opErr
	})
	return result, err
}

// Permanent marks err as non-retryable so Do returns it immediately.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
