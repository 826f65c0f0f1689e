package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable marks a backend that cannot be reached.
var ErrUnavailable = errors.New("cache backend unavailable")

// RetryableError marks an error as transient.
type RetryableError struct{ Err error }

// Retryable wraps err so [RetryPolicy.Do] retries it. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was wrapped with [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryPolicy is an exponential backoff schedule.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration // first wait, doubled after each failure
}

// DefaultRetryPolicy makes three attempts waiting 1s then 2s.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, Delay: time.Second}

// Do calls fn until it succeeds, returns a non-retryable error, runs out
// of attempts, or ctx is done.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay
	var lastErr error

	for i := range attempts {
		if lastErr = fn(); lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return lastErr
}

// RetryWithBackoff runs fn under [DefaultRetryPolicy].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultRetryPolicy.Do(ctx, fn)
}
