package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sig-0/iq"
	"golang.org/x/sync/errgroup"

	"github.com/sig-0/mepquotes/quote"
	"github.com/sig-0/mepquotes/retry"
)

var (
	errInvalidProvider   = errors.New("invalid provider")
	errDuplicateProvider = errors.New("duplicate provider source")
)

// Mode is the way providers are executed in a run
type Mode string

const (
	ModeSequential Mode = "sequential"
	ModeConcurrent Mode = "concurrent"
)

func (m Mode) String() string {
	return string(m)
}

// Run is the outcome of executing every registered provider once
type Run struct {
	ID      xid.ID
	Mode    Mode
	Results []*quote.Result // ordered by registration, absent sources omitted
	Elapsed time.Duration
}

// Orchestrator runs the registered providers, one after another or all at once
type Orchestrator struct {
	logger *slog.Logger

	providers []Provider
	sources   map[quote.Source]struct{}

	maxAttempts int
	retryDelay  time.Duration
}

// New creates a new Orchestrator instance
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		sources:     make(map[quote.Source]struct{}),
		maxAttempts: retry.DefaultMaxAttempts,
		retryDelay:  retry.DefaultDelay,
	}

	// Apply the options
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Register registers a new provider with the orchestrator.
// Providers run (and are reported) in registration order
func (o *Orchestrator) Register(p Provider) error {
	if p == nil || p.Name() == "" || p.Source() == "" {
		return errInvalidProvider
	}

	if _, exists := o.sources[p.Source()]; exists {
		return errDuplicateProvider
	}

	o.sources[p.Source()] = struct{}{}
	o.providers = append(o.providers, p)

	o.logger.Info(
		"registered new provider",
		"name", p.Name(),
	)

	return nil
}

// Sources returns the registered sources, in registration order
func (o *Orchestrator) Sources() []quote.Source {
	out := make([]quote.Source, 0, len(o.providers))

	for _, p := range o.providers {
		out = append(out, p.Source())
	}

	return out
}

// RunSequential executes the providers one after another [BLOCKING]
func (o *Orchestrator) RunSequential(ctx context.Context) *Run {
	run := o.newRun(ModeSequential)
	start := time.Now()

	results := make([]*quote.Result, 0, len(o.providers))

	for _, p := range o.providers {
		if res := o.handleJob(ctx, p); res != nil {
			results = append(results, res)
		}
	}

	return o.finishRun(run, results, time.Since(start))
}

// RunConcurrent executes every provider on its own worker [BLOCKING]
func (o *Orchestrator) RunConcurrent(ctx context.Context) *Run {
	run := o.newRun(ModeConcurrent)
	start := time.Now()

	var (
		q   = iq.NewQueue[indexedResult]()
		qMu sync.Mutex
	)

	group, gCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(len(o.providers), 1))

	for index, p := range o.providers {
		group.Go(func() error {
			res := o.handleJob(gCtx, p)
			if res == nil {
				return nil
			}

			qMu.Lock()
			q.Push(indexedResult{
				result: res,
				index:  index,
			})
			qMu.Unlock()

			return nil
		})
	}

	// Workers never fail, source errors are contained in handleJob
	_ = group.Wait() //nolint:errcheck // always nil

	results := make([]*quote.Result, 0, q.Len())

	for q.Len() > 0 {
		results = append(results, q.PopFront().result)
	}

	return o.finishRun(run, results, time.Since(start))
}

func (o *Orchestrator) newRun(mode Mode) *Run {
	run := &Run{
		ID:   xid.New(),
		Mode: mode,
	}

	o.logger.Info(
		"starting run",
		"id", run.ID.String(),
		"mode", mode,
		"providers", len(o.providers),
	)

	return run
}

func (o *Orchestrator) finishRun(run *Run, results []*quote.Result, elapsed time.Duration) *Run {
	run.Results = results
	run.Elapsed = elapsed

	o.logger.Info(
		"run complete",
		"id", run.ID.String(),
		"mode", run.Mode,
		"quotes", len(results),
		"elapsed", elapsed.String(),
	)

	return run
}
