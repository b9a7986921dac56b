package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v3"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/sig-0/mepquotes/config"
	"github.com/sig-0/mepquotes/ingest"
	"github.com/sig-0/mepquotes/quote"
)

var errInvalidRunner = errors.New("invalid runner")

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// Runner executes quote comparison runs
type Runner interface {
	// Sources returns the sources taking part in a run
	Sources() []quote.Source

	// RunSequential fetches every source one after another
	RunSequential(context.Context) *ingest.Run

	// RunConcurrent fetches every source at once
	RunConcurrent(context.Context) *ingest.Run
}

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type Server struct {
	logger *slog.Logger
	config *config.Server

	runner Runner

	mux *chi.Mux
}

// New creates a new server instance
func New(runner Runner, opts ...Option) (*Server, error) {
	if runner == nil {
		return nil, errInvalidRunner
	}

	s := &Server{
		logger: noopLogger,
		runner: runner,
		config: config.DefaultServerConfig(),
		mux:    chi.NewMux(),
	}

	// Apply the options
	for _, opt := range opts {
		opt(s)
	}

	// Validate the configuration
	if err := config.ValidateServerConfig(s.config); err != nil {
		return nil, fmt.Errorf("invalid configuration, %w", err)
	}

	// Set up the CORS middleware
	if s.config.CORSConfig != nil {
		corsMiddleware := cors.New(cors.Options{
			AllowedOrigins: s.config.CORSConfig.AllowedOrigins,
			AllowedMethods: s.config.CORSConfig.AllowedMethods,
			AllowedHeaders: s.config.CORSConfig.AllowedHeaders,
		})

		s.mux.Use(corsMiddleware.Handler)
	}

	s.mux.Use(httplog.RequestLogger(s.logger, &httplog.Options{
		Level:         slog.LevelInfo,
		Schema:        httplog.SchemaOTEL,
		RecoverPanics: true,
		Skip: func(_ *http.Request, respStatus int) bool {
			return respStatus == 404 || respStatus == 405
		},
	}))

	// Register the health check handler
	s.mux.Get("/health", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/sources", s.Sources)
		r.Get("/compare", s.Compare)
	})

	return s, nil
}

// ServeHTTP dispatches the request to the server routes
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Serve listens on the configured address and serves the comparison API
// until the context is cancelled [BLOCKING]
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("unable to listen on %s: %w", s.config.ListenAddress, err)
	}

	return s.serve(ctx, ln)
}

// serve runs the API on the given listener, draining in-flight
// comparison runs on shutdown
func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	group, gCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		s.logger.Info("comparison API listening", "address", ln.Addr().String())

		err := httpServer.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	})

	group.Go(func() error {
		<-gCtx.Done()

		// In-flight comparison runs get a bounded window to finish
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("unable to shut down server: %w", err)
		}

		s.logger.Info("comparison API stopped")

		return nil
	})

	return group.Wait()
}
