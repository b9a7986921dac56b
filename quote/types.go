package quote

import (
	"math"
	"time"
)

// Source identifies the website a quote was taken from
type Source string

const (
	SourceCronista Source = "Cronista" // https://www.cronista.com/
	SourceIOL      Source = "IOL"      // https://iol.invertironline.com/
	SourceDolarHoy Source = "DolarHoy" // https://dolarhoy.com/
)

func (s Source) String() string {
	return string(s)
}

// DisplayLayout is the minute-precision layout used when printing observation times
const DisplayLayout = "02/01/06 15:04"

// Result is a single quote extracted from a source during a run
type Result struct {
	ObservedAt time.Time     `json:"observed_at"`
	Source     Source        `json:"source"`
	Value      float64       `json:"value"`
	Elapsed    time.Duration `json:"elapsed"`
}

// DisplayTime returns the observation time formatted for reports
func (r *Result) DisplayTime() string {
	return r.ObservedAt.Format(DisplayLayout)
}

// ElapsedSeconds returns the fetch duration in seconds, rounded to 2dp
func (r *Result) ElapsedSeconds() float64 {
	return math.Round(r.Elapsed.Seconds()*100) / 100
}
