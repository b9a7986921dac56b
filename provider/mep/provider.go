package mep

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sig-0/mepquotes/fetch"
	"github.com/sig-0/mepquotes/quote"
)

var errInvalidDefinition = errors.New("invalid source definition")

type Option func(p *Provider)

// WithLogger specifies the logger for the provider
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = l
	}
}

// WithClock specifies the time source used for timestamps and timing
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		p.now = now
	}
}

// Provider fetches a single source page and extracts its MEP quote
type Provider struct {
	browser   fetch.Browser
	extractor Extractor
	logger    *slog.Logger
	now       func() time.Time

	def Definition
}

// NewProvider creates a new provider for the given source definition
func NewProvider(def Definition, browser fetch.Browser, opts ...Option) (*Provider, error) {
	if def.Source == "" || def.URL == "" || browser == nil {
		return nil, errInvalidDefinition
	}

	extractor, err := NewExtractor(def.Layout, def.Marker)
	if err != nil {
		return nil, fmt.Errorf("unable to create extractor for %s: %w", def.Source, err)
	}

	p := &Provider{
		browser:   browser,
		extractor: extractor,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
		def:       def,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

func (p *Provider) Name() string {
	return p.def.Source.String()
}

func (p *Provider) Source() quote.Source {
	return p.def.Source
}

// Fetch loads the source page and extracts the quote.
// A page without the quote yields a nil result and no error
func (p *Provider) Fetch(ctx context.Context) (*quote.Result, error) {
	start := p.now()

	session, err := p.browser.Open(ctx, p.def.Timeouts)
	if err != nil {
		return nil, fmt.Errorf("unable to open session: %w", err)
	}

	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			p.logger.Warn(
				"unable to close session",
				"source", p.def.Source,
				"err", closeErr,
			)
		}
	}()

	if err = session.Navigate(ctx, p.def.URL); err != nil {
		return nil, err
	}

	if p.def.WaitSelector != "" {
		if err = session.WaitForElement(ctx, p.def.WaitSelector, p.def.WaitTimeout); err != nil {
			return nil, err
		}
	}

	doc, err := session.Document(ctx)
	if err != nil {
		return nil, err
	}

	if doc == nil {
		return nil, fmt.Errorf("%w: empty document", fetch.ErrFetch)
	}

	raw, err := p.extractor.Extract(doc)
	if errors.Is(err, ErrNotFound) {
		p.logger.Info(
			"marker not found",
			"source", p.def.Source,
			"err", err,
		)

		return nil, nil //nolint:nilnil // absent quote is a valid outcome
	}

	if err != nil {
		return nil, fmt.Errorf("unable to extract quote: %w", err)
	}

	value, err := quote.Normalize(raw)
	if err != nil {
		return nil, err
	}

	observedAt := p.now()

	return &quote.Result{
		ObservedAt: observedAt,
		Source:     p.def.Source,
		Value:      value,
		Elapsed:    max(observedAt.Sub(start), 0),
	}, nil
}
