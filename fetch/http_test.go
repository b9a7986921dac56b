package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = `<html><body><ul id="market-scrll-1"><li><span class="name">DÓLAR MEP</span></li></ul></body></html>`

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)

		_, _ = w.Write([]byte(body))
	}))

	t.Cleanup(srv.Close)

	return srv
}

func openSession(t *testing.T) Session {
	t.Helper()

	s, err := NewHTTPBrowser().Open(context.Background(), DefaultTimeouts())
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, s.Close())
	})

	return s
}

func TestHTTPSession(t *testing.T) {
	t.Parallel()

	t.Run("document loaded", func(t *testing.T) {
		t.Parallel()

		var (
			srv = newTestServer(t, http.StatusOK, testPage)
			s   = openSession(t)
			ctx = context.Background()
		)

		require.NoError(t, s.Navigate(ctx, srv.URL))
		require.NoError(t, s.WaitForElement(ctx, "ul#market-scrll-1", time.Second))

		doc, err := s.Document(ctx)
		require.NoError(t, err)

		assert.Equal(t, "DÓLAR MEP", doc.Find("span.name").Text())
	})

	t.Run("invalid status code", func(t *testing.T) {
		t.Parallel()

		var (
			srv = newTestServer(t, http.StatusServiceUnavailable, "")
			s   = openSession(t)
		)

		assert.ErrorIs(t, s.Navigate(context.Background(), srv.URL), ErrFetch)
	})

	t.Run("missing element", func(t *testing.T) {
		t.Parallel()

		var (
			srv = newTestServer(t, http.StatusOK, testPage)
			s   = openSession(t)
			ctx = context.Background()
		)

		require.NoError(t, s.Navigate(ctx, srv.URL))

		assert.ErrorIs(t, s.WaitForElement(ctx, "div.value", time.Second), ErrTimeout)
	})

	t.Run("no page loaded", func(t *testing.T) {
		t.Parallel()

		var (
			s   = openSession(t)
			ctx = context.Background()
		)

		assert.ErrorIs(t, s.WaitForElement(ctx, "tr", time.Second), ErrFetch)

		_, err := s.Document(ctx)
		assert.ErrorIs(t, err, ErrFetch)
	})

	t.Run("page load timeout", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}

			w.WriteHeader(http.StatusOK)
		}))
		t.Cleanup(srv.Close)

		s, err := NewHTTPBrowser().Open(context.Background(), Timeouts{PageLoad: 10 * time.Millisecond})
		require.NoError(t, err)

		assert.ErrorIs(t, s.Navigate(context.Background(), srv.URL), ErrFetch)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		s, err := NewHTTPBrowser().Open(context.Background(), DefaultTimeouts())
		require.NoError(t, err)

		assert.NoError(t, s.Close())
		assert.NoError(t, s.Close())
	})
}
