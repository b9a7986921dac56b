package server

import (
	"github.com/sig-0/mepquotes/quote"
)

type SourcesResponse struct {
	Results []quote.Source `json:"results"`
}

type QuoteResponse struct {
	Source         quote.Source `json:"source"`
	ObservedAt     string       `json:"observed_at"`
	Value          float64      `json:"value"`
	ElapsedSeconds float64      `json:"elapsed_seconds"`
}

type SummaryResponse struct {
	StdDev             *float64 `json:"std_dev,omitempty"`
	Count              int      `json:"count"`
	Mean               float64  `json:"mean"`
	Max                float64  `json:"max"`
	Min                float64  `json:"min"`
	Spread             float64  `json:"spread"`
	MeanElapsedSeconds float64  `json:"mean_elapsed_seconds"`
}

type CompareResponse struct {
	Summary        *SummaryResponse `json:"summary,omitempty"`
	RunID          string           `json:"run_id"`
	Mode           string           `json:"mode"`
	Results        []QuoteResponse  `json:"results"`
	ElapsedSeconds float64          `json:"elapsed_seconds"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
