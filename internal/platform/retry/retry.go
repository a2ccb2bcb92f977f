// Package retry runs fallible operations under a bounded exponential
// backoff loop. Callers classify each error as permanent, transient, or
// rate-limited, which picks between aborting, the normal backoff, and a
// longer cool-down wait.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Action is the caller's verdict on one attempt's error.
type Action int

const (
	// Stop aborts immediately and wraps the error in PermanentError.
	Stop Action = iota
	// Retry waits the current exponential backoff and tries again.
	Retry
	// After waits the rate-limit backoff instead.
	After
)

// Classify maps an attempt's error to the Action to take.
type Classify func(err error) Action

// Operation is one attempt that yields a value.
type Operation[T any] func() (T, error)

// VoidOperation is one attempt with no result beyond the error.
type VoidOperation func() error

// Policy bounds the loop. MaxAttempts must be at least 1.
type Policy struct {
	MaxAttempts      int
	InitialBackoff   time.Duration
	RateLimitBackoff time.Duration
	// MaxBackoff caps the doubled backoff. Zero means uncapped.
	MaxBackoff time.Duration
	// OnRetry is invoked before each wait, never after the final attempt.
	OnRetry func(attempt int, err error, backoff time.Duration)
}

// Do runs op until it succeeds, classify says Stop, the attempt budget
// runs out, or ctx is cancelled while waiting between attempts.
func Do[T any](ctx context.Context, p Policy, classify Classify, op Operation[T]) (T, error) {
	var zero T
	wait := p.InitialBackoff

	for attempt := 1; ; attempt++ {
		val, err := op()
		if err == nil {
			return val, nil
		}

		action := classify(err)
		if action == Stop {
			return zero, &PermanentError{Err: err}
		}
		if attempt >= p.MaxAttempts {
			return zero, fmt.Errorf("failed after %d attempts: %w", attempt, err)
		}
		if action == After {
			wait = p.RateLimitBackoff
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, err, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		}

		wait *= 2
		if p.MaxBackoff > 0 && wait > p.MaxBackoff {
			wait = p.MaxBackoff
		}
	}
}

// DoVoid is Do for operations without a result.
func DoVoid(ctx context.Context, p Policy, classify Classify, op VoidOperation) error {
	_, err := Do(ctx, p, classify, func() (struct{}, error) { return struct{}{}, op() })
	return err
}

// PermanentError marks an error the classifier declared not worth
// retrying. Unwrap exposes the original.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }
