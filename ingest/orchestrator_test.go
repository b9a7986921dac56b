package ingest

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/mepquotes/quote"
	"github.com/sig-0/mepquotes/retry"
)

const testProviderName = "test-provider"

func values(run *Run) []float64 {
	out := make([]float64, 0, len(run.Results))

	for _, r := range run.Results {
		out = append(out, r.Value)
	}

	return out
}

func sources(run *Run) []quote.Source {
	out := make([]quote.Source, 0, len(run.Results))

	for _, r := range run.Results {
		out = append(out, r.Source)
	}

	return out
}

func TestOrchestrator_New(t *testing.T) {
	t.Parallel()

	t.Run("default orchestrator", func(t *testing.T) {
		t.Parallel()

		o := New()

		require.NotNil(t, o)

		assert.NotNil(t, o.logger)
		assert.Equal(t, retry.DefaultMaxAttempts, o.maxAttempts)
		assert.Equal(t, retry.DefaultDelay, o.retryDelay)
	})

	t.Run("retry options", func(t *testing.T) {
		t.Parallel()

		o := New(WithMaxAttempts(5), WithRetryDelay(time.Minute))

		require.NotNil(t, o)
		assert.Equal(t, 5, o.maxAttempts)
		assert.Equal(t, time.Minute, o.retryDelay)
	})
}

func TestOrchestrator_Register(t *testing.T) {
	t.Parallel()

	t.Run("nil provider", func(t *testing.T) {
		t.Parallel()

		assert.ErrorIs(t, New().Register(nil), errInvalidProvider)
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		provider := &mockProvider{
			nameFn: func() string {
				return ""
			},
		}

		assert.ErrorIs(t, New().Register(provider), errInvalidProvider)
	})

	t.Run("duplicate source", func(t *testing.T) {
		t.Parallel()

		o := New()

		require.NoError(t, o.Register(staticProvider(quote.SourceIOL, 1, 0)))
		assert.ErrorIs(t, o.Register(staticProvider(quote.SourceIOL, 2, 0)), errDuplicateProvider)
	})

	t.Run("registration order", func(t *testing.T) {
		t.Parallel()

		o := New()

		for _, src := range []quote.Source{quote.SourceDolarHoy, quote.SourceCronista, quote.SourceIOL} {
			require.NoError(t, o.Register(staticProvider(src, 1, 0)))
		}

		assert.Equal(
			t,
			[]quote.Source{quote.SourceDolarHoy, quote.SourceCronista, quote.SourceIOL},
			o.Sources(),
		)
	})
}

func TestOrchestrator_RunSequential(t *testing.T) {
	t.Parallel()

	t.Run("no providers", func(t *testing.T) {
		t.Parallel()

		run := New().RunSequential(context.Background())

		assert.Equal(t, ModeSequential, run.Mode)
		assert.Empty(t, run.Results)
		assert.False(t, run.ID.IsNil())
	})

	t.Run("providers run one after another", func(t *testing.T) {
		t.Parallel()

		var (
			o      = New()
			active atomic.Int32
			peak   atomic.Int32
		)

		for i, src := range []quote.Source{"A", "B", "C"} {
			p := &mockProvider{
				nameFn: func() string {
					return src.String()
				},
				fetchFn: func(_ context.Context) (*quote.Result, error) {
					n := active.Add(1)
					defer active.Add(-1)

					if n > peak.Load() {
						peak.Store(n)
					}

					time.Sleep(5 * time.Millisecond)

					return &quote.Result{Source: src, Value: float64(i + 1)}, nil
				},
			}

			require.NoError(t, o.Register(p))
		}

		run := o.RunSequential(context.Background())

		assert.Equal(t, []quote.Source{"A", "B", "C"}, sources(run))
		assert.Equal(t, int32(1), peak.Load())
		assert.GreaterOrEqual(t, run.Elapsed, 15*time.Millisecond)
	})
}

func TestOrchestrator_RunConcurrent(t *testing.T) {
	t.Parallel()

	t.Run("no providers", func(t *testing.T) {
		t.Parallel()

		run := New().RunConcurrent(context.Background())

		assert.Equal(t, ModeConcurrent, run.Mode)
		assert.Empty(t, run.Results)
	})

	t.Run("declaration order kept", func(t *testing.T) {
		t.Parallel()

		o := New()

		// C finishes first, A last
		require.NoError(t, o.Register(staticProvider("A", 10, 60*time.Millisecond)))
		require.NoError(t, o.Register(staticProvider("B", 12, 30*time.Millisecond)))
		require.NoError(t, o.Register(staticProvider("C", 14, 0)))

		run := o.RunConcurrent(context.Background())

		assert.Equal(t, []quote.Source{"A", "B", "C"}, sources(run))
		assert.Equal(t, []float64{10, 12, 14}, values(run))
	})

	t.Run("providers run in parallel", func(t *testing.T) {
		t.Parallel()

		var (
			o       = New()
			arrived = make(chan struct{}, 3)
			release = make(chan struct{})
		)

		for _, src := range []quote.Source{"A", "B", "C"} {
			p := &mockProvider{
				nameFn: func() string {
					return src.String()
				},
				fetchFn: func(_ context.Context) (*quote.Result, error) {
					arrived <- struct{}{}
					<-release

					return &quote.Result{Source: src, Value: 1}, nil
				},
			}

			require.NoError(t, o.Register(p))
		}

		done := make(chan *Run, 1)

		go func() {
			done <- o.RunConcurrent(context.Background())
		}()

		// Every provider must be in flight at the same time
		for range 3 {
			select {
			case <-arrived:
			case <-time.After(5 * time.Second):
				t.Fatal("providers were not started concurrently")
			}
		}

		close(release)

		select {
		case run := <-done:
			assert.Len(t, run.Results, 3)
		case <-time.After(5 * time.Second):
			t.Fatal("run did not complete in time")
		}
	})
}

func TestOrchestrator_Retries(t *testing.T) {
	t.Parallel()

	t.Run("failing provider retried then dropped", func(t *testing.T) {
		t.Parallel()

		var (
			buf      bytes.Buffer
			attempts atomic.Int32

			o = New(
				WithMaxAttempts(3),
				WithRetryDelay(time.Millisecond),
				WithLogger(slog.New(slog.NewJSONHandler(&buf, nil))),
			)

			failing = &mockProvider{
				nameFn: func() string {
					return testProviderName
				},
				fetchFn: func(_ context.Context) (*quote.Result, error) {
					attempts.Add(1)

					return nil, errors.New("fetch error")
				},
			}
		)

		require.NoError(t, o.Register(staticProvider("A", 10, 0)))
		require.NoError(t, o.Register(failing))
		require.NoError(t, o.Register(staticProvider("C", 14, 0)))

		for _, run := range []*Run{
			o.RunSequential(context.Background()),
			o.RunConcurrent(context.Background()),
		} {
			assert.Equal(t, []quote.Source{"A", "C"}, sources(run))
		}

		assert.Equal(t, int32(6), attempts.Load())
		assert.Contains(t, buf.String(), `"msg":"source unavailable"`)
		assert.Contains(t, buf.String(), `"msg":"attempt failed"`)
	})

	t.Run("absent quote not retried", func(t *testing.T) {
		t.Parallel()

		var (
			attempts atomic.Int32

			o = New(WithRetryDelay(time.Millisecond))

			absent = &mockProvider{
				nameFn: func() string {
					return testProviderName
				},
				fetchFn: func(_ context.Context) (*quote.Result, error) {
					attempts.Add(1)

					return nil, nil
				},
			}
		)

		require.NoError(t, o.Register(absent))

		run := o.RunSequential(context.Background())

		assert.Empty(t, run.Results)
		assert.Equal(t, int32(1), attempts.Load())
	})

	t.Run("transient failure recovered", func(t *testing.T) {
		t.Parallel()

		var (
			attempts atomic.Int32

			o = New(WithRetryDelay(time.Millisecond))

			flaky = &mockProvider{
				nameFn: func() string {
					return testProviderName
				},
				fetchFn: func(_ context.Context) (*quote.Result, error) {
					if attempts.Add(1) < 3 {
						return nil, errors.New("fetch error")
					}

					return &quote.Result{Source: testProviderName, Value: 1200}, nil
				},
			}
		)

		require.NoError(t, o.Register(flaky))

		run := o.RunConcurrent(context.Background())

		require.Len(t, run.Results, 1)
		assert.InDelta(t, 1200, run.Results[0].Value, 1e-9)
		assert.Equal(t, int32(3), attempts.Load())
	})
}
