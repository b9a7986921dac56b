package report

import (
	"math"
	"time"

	"github.com/sig-0/mepquotes/quote"
)

// Summary holds the descriptive statistics of a run's quotes
type Summary struct {
	StdDev      *float64      `json:"std_dev,omitempty"` // nil with fewer than 2 quotes
	Count       int           `json:"count"`
	Mean        float64       `json:"mean"`
	Max         float64       `json:"max"`
	Min         float64       `json:"min"`
	Spread      float64       `json:"spread"`
	MeanElapsed time.Duration `json:"mean_elapsed"`
}

// Summarize computes the quote statistics.
// Returns nil if there are no results
func Summarize(results []*quote.Result) *Summary {
	if len(results) == 0 {
		return nil
	}

	var (
		n       = float64(len(results))
		sum     float64
		elapsed time.Duration

		s = &Summary{
			Count: len(results),
			Max:   math.Inf(-1),
			Min:   math.Inf(1),
		}
	)

	for _, r := range results {
		sum += r.Value
		elapsed += r.Elapsed

		s.Max = math.Max(s.Max, r.Value)
		s.Min = math.Min(s.Min, r.Value)
	}

	s.Mean = sum / n
	s.Spread = s.Max - s.Min
	s.MeanElapsed = elapsed / time.Duration(len(results))

	if len(results) > 1 {
		// Sample standard deviation
		var sq float64

		for _, r := range results {
			d := r.Value - s.Mean
			sq += d * d
		}

		stdDev := math.Sqrt(sq / (n - 1))
		s.StdDev = &stdDev
	}

	return s
}
