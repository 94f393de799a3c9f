// Package retry runs upstream operations under a bounded attempt budget with
// failure classification. Both protocol phases (credential exchange and
// session handshake) share it so backoff logic exists exactly once.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/codyjhsieh/axlepolicy/internal/carrier/upstream"
	dErrors "github.com/codyjhsieh/axlepolicy/pkg/domain-errors"
)

// DefaultMaxAttempts is the shared attempt cap per call.
const DefaultMaxAttempts = 3

// Class tags a failed attempt with what to do next. Classification is an
// explicit result so control flow never depends on rethrowing errors.
type Class int

const (
	// ClassFatal stops immediately and propagates the original error.
	ClassFatal Class = iota
	// ClassInvalidCredentials stops immediately with a credentials error (401).
	ClassInvalidCredentials
	// ClassRateLimited backs off (server-directed or attempt-scaled) and
	// retries; a rate-limited attempt still consumes the budget (429).
	ClassRateLimited
	// ClassTransient backs off attempt*1s and retries (502/503/504).
	ClassTransient
)

// Classifier maps an attempt error to a Class.
type Classifier func(err error) Class

// Classify is the default classifier over upstream status errors. Anything
// that is not an upstream status error is fatal.
func Classify(err error) Class {
	var ue *upstream.Error
	if !errors.As(err, &ue) {
		return ClassFatal
	}
	switch ue.Status {
	case 401:
		return ClassInvalidCredentials
	case 429:
		return ClassRateLimited
	case 502, 503, 504:
		return ClassTransient
	default:
		return ClassFatal
	}
}

// Operation is one attemptable upstream call.
type Operation[T any] func(ctx context.Context) (T, error)

type options struct {
	maxAttempts int
	classify    Classifier
	sleep       func(ctx context.Context, d time.Duration) error
	notify      func(attempt int, err error)
}

// Option customizes Do.
type Option func(*options)

// WithMaxAttempts overrides the attempt cap.
func WithMaxAttempts(n int) Option {
	return func(o *options) { o.maxAttempts = n }
}

// WithClassifier overrides the failure classifier.
func WithClassifier(c Classifier) Option {
	return func(o *options) { o.classify = c }
}

// WithSleep overrides the backoff wait, used by tests to observe delays.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(o *options) { o.sleep = fn }
}

// WithNotify installs a per-attempt observer (err is nil on success).
func WithNotify(fn func(attempt int, err error)) Option {
	return func(o *options) { o.notify = fn }
}

// Do runs op up to the attempt cap, classifying each failure. The attempt
// counter starts at 1. Backoff waits are cooperative and respect ctx.
func Do[T any](ctx context.Context, op Operation[T], opts ...Option) (T, error) {
	o := options{
		maxAttempts: DefaultMaxAttempts,
		classify:    Classify,
		sleep:       sleepCtx,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var zero T
	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		result, err := op(ctx)
		if o.notify != nil {
			o.notify(attempt, err)
		}
		if err == nil {
			return result, nil
		}

		switch o.classify(err) {
		case ClassInvalidCredentials:
			return zero, dErrors.Wrap(err, dErrors.CodeInvalidCredentials,
				"Authentication failed: invalid username or password.")

		case ClassRateLimited:
			if attempt == o.maxAttempts {
				return zero, dErrors.Wrap(err, dErrors.CodeRateLimited,
					"carrier rate limit exceeded")
			}
			if sleepErr := o.sleep(ctx, rateLimitDelay(err, attempt)); sleepErr != nil {
				return zero, sleepErr
			}

		case ClassTransient:
			if attempt == o.maxAttempts {
				return zero, dErrors.Wrap(err, dErrors.CodeUnavailable,
					"Service temporarily unavailable. Please try again later.")
			}
			if sleepErr := o.sleep(ctx, backoffDelay(attempt)); sleepErr != nil {
				return zero, sleepErr
			}

		default:
			return zero, err
		}
	}
	// Unreachable: every branch either returns or retries within the cap.
	return zero, dErrors.New(dErrors.CodeInternal, "retry budget exhausted")
}

// rateLimitDelay honors a server-directed Retry-After when present, falling
// back to the attempt-scaled delay.
func rateLimitDelay(err error, attempt int) time.Duration {
	var ue *upstream.Error
	if errors.As(err, &ue) && ue.RetryAfter > 0 {
		return ue.RetryAfter
	}
	return backoffDelay(attempt)
}

func backoffDelay(attempt int) time.Duration {
	return time.Duration(attempt) * time.Second
}

// sleepCtx is a non-blocking timed wait that stops early when the request
// context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
