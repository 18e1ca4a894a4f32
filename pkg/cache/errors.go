package cache

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a failure as transient. Backend errors are
// permanent unless wrapped, so only the call sites that know an
// operation is safe to repeat opt in.
type RetryableError struct{ Err error }

// Retryable wraps err so RetryWithBackoff will try it again. A nil
// err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether a RetryableError sits anywhere in err's
// chain.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff runs fn up to three times, doubling the wait
// between attempts starting at one second. Permanent errors and
// context cancellation stop the loop immediately.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := time.Second
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
