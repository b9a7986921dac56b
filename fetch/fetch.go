// Package fetch turns a URL into a queryable HTML document.
//
// A Browser opens one Session per fetch job. Sessions are never shared
// between goroutines, and Close is safe to call more than once, including
// on a session whose connection already broke.
package fetch

import (
	"context"
	"errors"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrFetch is returned when a document can't be acquired
	ErrFetch = errors.New("unable to fetch document")

	// ErrTimeout is returned when an expected element doesn't show up in time
	ErrTimeout = errors.New("timed out waiting for element")
)

const (
	DefaultPageLoadTimeout = 30 * time.Second
	DefaultScriptTimeout   = 30 * time.Second
)

// Timeouts bounds the session operations
type Timeouts struct {
	PageLoad time.Duration // navigation bound
	Script   time.Duration // document extraction bound
}

// DefaultTimeouts returns the default session timeouts
func DefaultTimeouts() Timeouts {
	return Timeouts{
		PageLoad: DefaultPageLoadTimeout,
		Script:   DefaultScriptTimeout,
	}
}

// Browser opens fetch sessions
type Browser interface {
	// Open starts a new session bounded by the given timeouts
	Open(context.Context, Timeouts) (Session, error)
}

// Session is a single-owner page handle
type Session interface {
	// Navigate loads the given URL
	Navigate(ctx context.Context, url string) error

	// WaitForElement waits up to the bound for the selector to match
	WaitForElement(ctx context.Context, selector string, bound time.Duration) error

	// Document returns a snapshot of the loaded page
	Document(context.Context) (*goquery.Document, error)

	// Close releases the session resources
	Close() error
}
