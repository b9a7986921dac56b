package retry

import (
	"log/slog"
	"time"
)

type Option func(c *config)

// WithMaxAttempts specifies the total number of attempts (first run included).
// Values below 1 are ignored
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithDelay specifies the fixed wait between attempts
func WithDelay(d time.Duration) Option {
	return func(c *config) {
		if d >= 0 {
			c.delay = d
		}
	}
}

// WithLogger specifies the logger used to report failed attempts
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithName specifies the operation name attached to log lines
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}
