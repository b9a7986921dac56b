package mock

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sig-0/mepquotes/fetch"
)

type (
	OpenDelegate           func(context.Context, fetch.Timeouts) (fetch.Session, error)
	NavigateDelegate       func(context.Context, string) error
	WaitForElementDelegate func(context.Context, string, time.Duration) error
	DocumentDelegate       func(context.Context) (*goquery.Document, error)
	CloseDelegate          func() error
)

type Browser struct {
	OpenFn OpenDelegate
}

func (m *Browser) Open(ctx context.Context, timeouts fetch.Timeouts) (fetch.Session, error) {
	if m.OpenFn != nil {
		return m.OpenFn(ctx, timeouts)
	}

	return &Session{}, nil
}

type Session struct {
	NavigateFn       NavigateDelegate
	WaitForElementFn WaitForElementDelegate
	DocumentFn       DocumentDelegate
	CloseFn          CloseDelegate
}

func (m *Session) Navigate(ctx context.Context, url string) error {
	if m.NavigateFn != nil {
		return m.NavigateFn(ctx, url)
	}

	return nil
}

func (m *Session) WaitForElement(ctx context.Context, selector string, bound time.Duration) error {
	if m.WaitForElementFn != nil {
		return m.WaitForElementFn(ctx, selector, bound)
	}

	return nil
}

func (m *Session) Document(ctx context.Context) (*goquery.Document, error) {
	if m.DocumentFn != nil {
		return m.DocumentFn(ctx)
	}

	return nil, nil
}

func (m *Session) Close() error {
	if m.CloseFn != nil {
		return m.CloseFn()
	}

	return nil
}
