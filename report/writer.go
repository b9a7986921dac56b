package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sig-0/mepquotes/quote"
)

const (
	DefaultDir    = "output"
	DefaultPrefix = "mep_dollar_report"

	fileTimeLayout = "20060102_1504"
)

// Writer persists reports as text files
type Writer struct {
	Dir    string
	Prefix string
}

// Path returns the report path for the given time (minute granularity)
func (w *Writer) Path(at time.Time) string {
	return filepath.Join(w.Dir, fmt.Sprintf("%s_%s.txt", w.Prefix, at.Format(fileTimeLayout)))
}

// Write saves the report, overwriting any report from the same minute.
// Returns the report path
func (w *Writer) Write(text string, at time.Time) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("unable to create report directory: %w", err)
	}

	path := w.Path(at)

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil { //nolint:gosec // reports are public
		return "", fmt.Errorf("unable to write report: %w", err)
	}

	return path, nil
}

// Generate renders the report and persists it.
// Returns the report text and path
func Generate(
	w *Writer,
	title string,
	results []*quote.Result,
	total time.Duration,
	at time.Time,
) (string, string, error) {
	text := Render(title, results, total, at)

	path, err := w.Write(text, at)
	if err != nil {
		return "", "", err
	}

	return text, path, nil
}
