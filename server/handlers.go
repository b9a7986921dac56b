package server

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sig-0/mepquotes/ingest"
	"github.com/sig-0/mepquotes/report"
)

var errInvalidMode = errors.New("invalid mode (must be sequential or concurrent)")

func (s *Server) Sources(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, &SourcesResponse{
		Results: s.runner.Sources(),
	})
}

func (s *Server) Compare(w http.ResponseWriter, r *http.Request) {
	mode, err := parseMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	var run *ingest.Run

	switch mode {
	case ingest.ModeSequential:
		run = s.runner.RunSequential(r.Context())
	default:
		run = s.runner.RunConcurrent(r.Context())
	}

	s.logger.Debug(
		"comparison run served",
		"id", run.ID.String(),
		"mode", run.Mode,
		"quotes", len(run.Results),
	)

	writeJSON(w, http.StatusOK, newCompareResponse(run))
}

func newCompareResponse(run *ingest.Run) *CompareResponse {
	resp := &CompareResponse{
		Summary:        newSummaryResponse(report.Summarize(run.Results)),
		RunID:          run.ID.String(),
		Mode:           run.Mode.String(),
		Results:        make([]QuoteResponse, 0, len(run.Results)),
		ElapsedSeconds: roundSeconds(run.Elapsed),
	}

	for _, res := range run.Results {
		resp.Results = append(resp.Results, QuoteResponse{
			Source:         res.Source,
			ObservedAt:     res.DisplayTime(),
			Value:          res.Value,
			ElapsedSeconds: res.ElapsedSeconds(),
		})
	}

	return resp
}

func newSummaryResponse(s *report.Summary) *SummaryResponse {
	if s == nil {
		return nil
	}

	return &SummaryResponse{
		StdDev:             s.StdDev,
		Count:              s.Count,
		Mean:               s.Mean,
		Max:                s.Max,
		Min:                s.Min,
		Spread:             s.Spread,
		MeanElapsedSeconds: roundSeconds(s.MeanElapsed),
	}
}

// roundSeconds converts the duration to seconds, rounded to 2 decimals
func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}

// parseMode parses the run mode (defaults to concurrent)
func parseMode(v string) (ingest.Mode, error) {
	switch ingest.Mode(strings.ToLower(strings.TrimSpace(v))) {
	case "", ingest.ModeConcurrent:
		return ingest.ModeConcurrent, nil
	case ingest.ModeSequential:
		return ingest.ModeSequential, nil
	default:
		return "", errInvalidMode
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Fine to ignore
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := &ErrorResponse{
		Error: err.Error(),
	}

	writeJSON(w, status, resp)
}
