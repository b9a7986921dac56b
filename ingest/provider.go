package ingest

import (
	"context"

	"github.com/sig-0/mepquotes/quote"
)

// Provider is a single quote source
type Provider interface {
	// Name returns the human-readable name of the provider
	Name() string

	// Source returns the source the provider reports quotes for
	Source() quote.Source

	// Fetch is the provider's fetch job, yielding a single quote.
	// A nil quote with no error means the source had no quote
	Fetch(context.Context) (*quote.Result, error)
}
