package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	cronistaPage = `<html><body><ul id="market-scrll-1">
<li><span class="name">DÓLAR MEP</span><span class="value">$ 1.180,00</span></li>
</ul></body></html>`

	// The table loads, but has no MEP row
	iolPage = `<html><body><table>
<tr><td><strong>Dólar Oficial</strong></td><td class="tar">1.010,00</td><td class="tar">1.050,00</td></tr>
</table></body></html>`

	dolarHoyPage = `<html><body>
<div class="value">$1.170,00</div><div class="value">$1.190,00</div>
</body></html>`
)

func newSourcesServer(t *testing.T) *httptest.Server {
	t.Helper()

	pages := map[string]string{
		"/cronista": cronistaPage,
		"/iol":      iolPage,
		"/dolarhoy": dolarHoyPage,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)

			return
		}

		_, _ = w.Write([]byte(page))
	}))

	t.Cleanup(srv.Close)

	return srv
}

func writeTestConfig(t *testing.T, baseURL string) string {
	t.Helper()

	content := fmt.Sprintf(`
[retry]
max_attempts = 2
delay_seconds = 0

[sources.Cronista]
url = "%[1]s/cronista"

[sources.IOL]
url = "%[1]s/iol"

[sources.DolarHoy]
url = "%[1]s/dolarhoy"
`, baseURL)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestCompare_Exec(t *testing.T) {
	t.Parallel()

	var (
		out       bytes.Buffer
		srv       = newSourcesServer(t)
		outputDir = t.TempDir()
		at        = time.Date(2026, time.October, 17, 12, 7, 0, 0, time.UTC)
	)

	cmd := newRootCmd(&out, func() time.Time {
		return at
	})

	require.NoError(t, cmd.ParseAndRun(context.Background(), []string{
		"-config", writeTestConfig(t, srv.URL),
		"-output-dir", outputDir,
		"-log-level", "error",
	}))

	for _, mode := range []string{"sequential", "concurrent"} {
		path := filepath.Join(outputDir, fmt.Sprintf("mep_dollar_report_%s_20261017_1207.txt", mode))

		content, err := os.ReadFile(path)
		require.NoError(t, err, "missing %s report", mode)

		text := string(content)

		// IOL has no MEP quote, the other two are kept in declared order
		var (
			cronista = strings.Index(text, "| Cronista")
			dolarHoy = strings.Index(text, "| DolarHoy")
		)

		require.NotEqual(t, -1, cronista)
		require.NotEqual(t, -1, dolarHoy)
		assert.Less(t, cronista, dolarHoy)
		assert.NotContains(t, text, "| IOL")

		assert.Contains(t, text, "Mean value: $1185.00")
		assert.Contains(t, text, "Max spread between sources: $10.00")
		assert.Contains(t, text, "Standard deviation: $7.07")

		assert.Contains(t, out.String(), path)
	}

	assert.Contains(t, out.String(), "Performance comparison:")
	assert.Contains(t, out.String(), "Sequential run time:")
	assert.Contains(t, out.String(), "Concurrent run time:")
}

func TestCompare_InvalidConfig(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	err := newRootCmd(&out, time.Now).ParseAndRun(context.Background(), []string{
		"-browser", "netscape",
		"-output-dir", t.TempDir(),
	})

	assert.Error(t, err)
}
