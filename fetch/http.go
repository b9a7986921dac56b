package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0 Safari/537.36"

// HTTPBrowser fetches pages with a plain HTTP client.
// No scripts are executed, so element waits only inspect the served markup
type HTTPBrowser struct {
	transport http.RoundTripper
	userAgent string
}

// NewHTTPBrowser creates a new HTTP browser
func NewHTTPBrowser() *HTTPBrowser {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	return &HTTPBrowser{
		transport: tr,
		userAgent: defaultUserAgent,
	}
}

func (b *HTTPBrowser) Open(_ context.Context, timeouts Timeouts) (Session, error) {
	return &httpSession{
		client: &http.Client{
			Timeout:   timeouts.PageLoad,
			Transport: b.transport,
		},
		userAgent: b.userAgent,
	}, nil
}

type httpSession struct {
	client    *http.Client
	doc       *goquery.Document
	userAgent string

	closeOnce sync.Once
}

func (s *httpSession) Navigate(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: unable to create GET request: %w", ErrFetch, err)
	}

	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: unable to execute GET request: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: invalid status code received: %d", ErrFetch, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: unable to construct query doc: %w", ErrFetch, err)
	}

	s.doc = doc

	return nil
}

func (s *httpSession) WaitForElement(_ context.Context, selector string, _ time.Duration) error {
	if s.doc == nil {
		return fmt.Errorf("%w: no page loaded", ErrFetch)
	}

	// The markup is static, there is nothing to wait for
	if s.doc.Find(selector).Length() == 0 {
		return fmt.Errorf("%w: %q", ErrTimeout, selector)
	}

	return nil
}

func (s *httpSession) Document(_ context.Context) (*goquery.Document, error) {
	if s.doc == nil {
		return nil, fmt.Errorf("%w: no page loaded", ErrFetch)
	}

	return s.doc, nil
}

func (s *httpSession) Close() error {
	s.closeOnce.Do(func() {
		s.client.CloseIdleConnections()
		s.doc = nil
	})

	return nil
}
