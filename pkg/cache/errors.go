package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned for transient backend failures (connection
// errors, timeouts) where a retry may succeed.
var ErrUnavailable = errors.New("cache unavailable")

// retryAttempts caps how often RetryWithBackoff re-runs fn.
const retryAttempts = 3

// RetryableError marks an error as transient.
type RetryableError struct{ Err error }

// Retryable wraps err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Error returns the message of the wrapped error unchanged.
func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is marked transient anywhere in its chain.
func IsRetryable(err error) bool {
	var r *RetryableError
	return errors.As(err, &r)
}

// RetryWithBackoff runs fn, retrying transient failures with doubling
// delays starting at one second. Errors not wrapped with Retryable are
// returned from the first attempt; the server boot path sits in this loop
// while Redis comes up.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	var err error
	for attempt, delay := 1, time.Second; ; attempt, delay = attempt+1, delay*2 {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if attempt == retryAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
