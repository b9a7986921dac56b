package ingest

import (
	"context"
	"time"

	"github.com/sig-0/mepquotes/quote"
)

type (
	nameDelegate   func() string
	sourceDelegate func() quote.Source
	fetchDelegate  func(context.Context) (*quote.Result, error)
)

type mockProvider struct {
	nameFn   nameDelegate
	sourceFn sourceDelegate
	fetchFn  fetchDelegate
}

func (m *mockProvider) Name() string {
	if m.nameFn != nil {
		return m.nameFn()
	}

	return ""
}

func (m *mockProvider) Source() quote.Source {
	if m.sourceFn != nil {
		return m.sourceFn()
	}

	return quote.Source(m.Name())
}

func (m *mockProvider) Fetch(ctx context.Context) (*quote.Result, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx)
	}

	return nil, nil
}

// staticProvider returns a provider yielding the given value after the delay
func staticProvider(source quote.Source, value float64, delay time.Duration) *mockProvider {
	return &mockProvider{
		nameFn: func() string {
			return source.String()
		},
		fetchFn: func(ctx context.Context) (*quote.Result, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}

			return &quote.Result{
				ObservedAt: time.Now(),
				Source:     source,
				Value:      value,
				Elapsed:    delay,
			}, nil
		},
	}
}
