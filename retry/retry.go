// Package retry runs fallible operations a bounded number of times.
//
// Failures are never classified: any error causes another attempt after a
// fixed delay, and once the attempts are used up the operation is reported
// as absent instead of failed.
package retry

import (
	"context"
	"io"
	"log/slog"
	"time"
)

const (
	DefaultMaxAttempts = 3
	DefaultDelay       = 5 * time.Second
)

// Operation is a single attempt of a retryable unit of work
type Operation[T any] func(context.Context) (T, error)

type config struct {
	logger      *slog.Logger
	name        string
	maxAttempts int
	delay       time.Duration
}

// Do executes op until it succeeds or the attempts are exhausted.
// The boolean result is false when no attempt succeeded; the error
// of the last attempt is only logged
func Do[T any](ctx context.Context, op Operation[T], opts ...Option) (T, bool) {
	c := &config{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxAttempts: DefaultMaxAttempts,
		delay:       DefaultDelay,
	}

	for _, opt := range opts {
		opt(c)
	}

	var zero T

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, true
		}

		if attempt == c.maxAttempts {
			c.logger.Error(
				"giving up",
				"name", c.name,
				"attempts", c.maxAttempts,
				"err", err,
			)

			break
		}

		c.logger.Warn(
			"attempt failed",
			"name", c.name,
			"attempt", attempt,
			"max_attempts", c.maxAttempts,
			"err", err,
		)

		if !sleep(ctx, c.delay) {
			c.logger.Warn(
				"retry interrupted",
				"name", c.name,
				"err", ctx.Err(),
			)

			break
		}
	}

	return zero, false
}

// sleep waits for d, returning false if the context ends first
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
