// Package bootstrap wires the configuration into runnable components
package bootstrap

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sig-0/mepquotes/config"
	"github.com/sig-0/mepquotes/fetch"
	"github.com/sig-0/mepquotes/ingest"
	"github.com/sig-0/mepquotes/provider/mep"
)

// Flags are the options shared by every command.
// Zero values keep the configured (or default) setting
type Flags struct {
	ConfigPath  string
	OutputDir   string
	Browser     string
	LogLevel    string
	MaxAttempts int
	RetryDelay  time.Duration
}

// RegisterFlags registers the shared flags on the given set
func (f *Flags) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&f.ConfigPath,
		"config",
		"",
		"the path to the TOML configuration, if any",
	)

	fs.StringVar(
		&f.OutputDir,
		"output-dir",
		"",
		"the directory the reports are written to",
	)

	fs.StringVar(
		&f.Browser,
		"browser",
		"",
		"the page fetching engine (http, chrome)",
	)

	fs.StringVar(
		&f.LogLevel,
		"log-level",
		"info",
		"the log level (debug, info, warn, error)",
	)

	fs.IntVar(
		&f.MaxAttempts,
		"max-attempts",
		0,
		"the number of fetch attempts per source",
	)

	fs.DurationVar(
		&f.RetryDelay,
		"retry-delay",
		0,
		"the wait between fetch attempts, in whole seconds (0 keeps the configured delay)",
	)
}

// Config reads the configuration file, if any, and applies the flag overrides
func (f *Flags) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()

	if f.ConfigPath != "" {
		read, err := config.Read(f.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read config, %w", err)
		}

		cfg = read
	}

	if f.OutputDir != "" {
		cfg.OutputDir = f.OutputDir
	}

	if f.Browser != "" {
		cfg.Browser = f.Browser
	}

	if f.MaxAttempts > 0 {
		cfg.Retry.MaxAttempts = f.MaxAttempts
	}

	if f.RetryDelay < 0 || f.RetryDelay%time.Second != 0 {
		return nil, fmt.Errorf("%w: retry delay %s is not a whole number of seconds", config.ErrInvalidRetry, f.RetryDelay)
	}

	if f.RetryDelay > 0 {
		cfg.Retry.DelaySeconds = int(f.RetryDelay / time.Second)
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration, %w", err)
	}

	return cfg, nil
}

// Logger creates the CLI logger, writing to stderr so reports stay clean on stdout
func (f *Flags) Logger() *slog.Logger {
	var level slog.Level

	if err := level.UnmarshalText([]byte(strings.TrimSpace(f.LogLevel))); err != nil {
		level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewBrowser creates the configured page fetching engine
func NewBrowser(cfg *config.Config) (fetch.Browser, error) {
	switch cfg.Browser {
	case config.BrowserHTTP:
		return fetch.NewHTTPBrowser(), nil
	case config.BrowserChrome:
		return fetch.NewChromeBrowser(cfg.ChromePath), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidBrowser, cfg.Browser)
	}
}

// NewOrchestrator creates the orchestrator with every configured source registered
func NewOrchestrator(cfg *config.Config, logger *slog.Logger) (*ingest.Orchestrator, error) {
	browser, err := NewBrowser(cfg)
	if err != nil {
		return nil, err
	}

	orchestrator := ingest.New(
		ingest.WithLogger(logger),
		ingest.WithMaxAttempts(cfg.Retry.MaxAttempts),
		ingest.WithRetryDelay(cfg.Retry.Delay()),
	)

	for _, def := range cfg.Definitions() {
		provider, err := mep.NewProvider(def, browser, mep.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("unable to create provider: %w", err)
		}

		if err = orchestrator.Register(provider); err != nil {
			return nil, fmt.Errorf("unable to register provider: %w", err)
		}
	}

	return orchestrator, nil
}
