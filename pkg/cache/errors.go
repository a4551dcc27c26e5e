package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable reports a remote backend that could not be reached.
var ErrUnavailable = errors.New("cache backend unavailable")

// retryable marks a transient failure.
type retryable struct{ err error }

func (e retryable) Error() string { return e.err.Error() }
func (e retryable) Unwrap() error { return e.err }

// Retryable marks err as transient so that [RetryWithBackoff] tries again.
// A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return retryable{err: err}
}

// IsRetryable reports whether err, or an error it wraps, was marked with
// [Retryable].
func IsRetryable(err error) bool {
	var r retryable
	return errors.As(err, &r)
}

const retryAttempts = 3

// retryDelay is the pause after the first failed attempt. It doubles after
// every further failure.
var retryDelay = 100 * time.Millisecond

// RetryWithBackoff calls fn until it succeeds, fails permanently, or has
// failed retryAttempts times. Cancelling ctx stops the wait between attempts.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
