package ingest

import (
	"log/slog"
	"time"
)

type Option func(o *Orchestrator)

// WithLogger specifies the logger for the orchestrator
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// WithMaxAttempts specifies how many times a failing provider is tried per run.
// Defaults to 3
func WithMaxAttempts(n int) Option {
	return func(o *Orchestrator) {
		o.maxAttempts = n
	}
}

// WithRetryDelay specifies the wait between provider attempts.
// Defaults to 5s
func WithRetryDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.retryDelay = d
	}
}
