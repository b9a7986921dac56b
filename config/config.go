package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/pelletier/go-toml"

	"github.com/sig-0/mepquotes/provider/mep"
	"github.com/sig-0/mepquotes/report"
	"github.com/sig-0/mepquotes/retry"
)

const (
	DefaultListenAddress = "0.0.0.0:8545"

	BrowserHTTP   = "http"
	BrowserChrome = "chrome"
)

var (
	ErrInvalidListenAddress = errors.New("invalid listen address")
	ErrInvalidBrowser       = errors.New("invalid browser")
	ErrInvalidRetry         = errors.New("invalid retry configuration")
	ErrInvalidOutput        = errors.New("invalid report output")
	ErrInvalidSource        = errors.New("invalid source configuration")
)

var listenAddressRegex = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}:\d+$`)

// Config defines the quote comparison configuration
type Config struct {
	// Per-source overrides, keyed by source name (Cronista, IOL, DolarHoy)
	Sources map[string]Source `toml:"sources"`

	// The HTTP server config, used by the serve command
	Server *Server `toml:"server"`

	// The fetch retry policy
	Retry *Retry `toml:"retry"`

	// The directory the reports are written to
	OutputDir string `toml:"output_dir"`

	// The report file name prefix
	ReportPrefix string `toml:"report_prefix"`

	// The page fetching engine, "http" or "chrome"
	Browser string `toml:"browser"`

	// The Chrome binary path, if not on PATH
	ChromePath string `toml:"chrome_path"`
}

// Retry is the bounded retry policy applied to every source
type Retry struct {
	MaxAttempts  int `toml:"max_attempts"`
	DelaySeconds int `toml:"delay_seconds"`
}

// Delay returns the inter-attempt delay
func (r Retry) Delay() time.Duration {
	return time.Duration(r.DelaySeconds) * time.Second
}

// Source overrides the defaults of a single source.
// Zero values keep the default
type Source struct {
	URL                 string `toml:"url"`
	PageLoadTimeoutSecs int    `toml:"page_load_timeout_seconds"`
	ScriptTimeoutSecs   int    `toml:"script_timeout_seconds"`
	WaitTimeoutSecs     int    `toml:"wait_timeout_seconds"`
	Disabled            bool   `toml:"disabled"`
}

// Server defines the HTTP server configuration
type Server struct {
	// The associated CORS config, if any
	CORSConfig *CORS `toml:"cors_config"`

	// The address at which the server will be served.
	// Format should be: <IP>:<PORT>
	ListenAddress string `toml:"listen_address"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Sources:      map[string]Source{},
		Server:       DefaultServerConfig(),
		Retry:        DefaultRetryConfig(),
		OutputDir:    report.DefaultDir,
		ReportPrefix: report.DefaultPrefix,
		Browser:      BrowserHTTP,
	}
}

// DefaultRetryConfig returns the default retry policy
func DefaultRetryConfig() *Retry {
	return &Retry{
		MaxAttempts:  retry.DefaultMaxAttempts,
		DelaySeconds: int(retry.DefaultDelay / time.Second),
	}
}

// DefaultServerConfig returns the default server configuration
func DefaultServerConfig() *Server {
	return &Server{
		ListenAddress: DefaultListenAddress,
		CORSConfig:    DefaultCORSConfig(),
	}
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if config.Browser != BrowserHTTP && config.Browser != BrowserChrome {
		return fmt.Errorf("%w: %q", ErrInvalidBrowser, config.Browser)
	}

	if config.Retry == nil || config.Retry.MaxAttempts < 1 || config.Retry.DelaySeconds < 0 {
		return ErrInvalidRetry
	}

	if config.OutputDir == "" || config.ReportPrefix == "" {
		return ErrInvalidOutput
	}

	known := make(map[string]struct{})
	for _, def := range mep.DefaultDefinitions() {
		known[def.Source.String()] = struct{}{}
	}

	for name, src := range config.Sources {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("%w: unknown source %q", ErrInvalidSource, name)
		}

		if src.PageLoadTimeoutSecs < 0 || src.ScriptTimeoutSecs < 0 || src.WaitTimeoutSecs < 0 {
			return fmt.Errorf("%w: negative timeout for %q", ErrInvalidSource, name)
		}
	}

	if config.Server != nil {
		return ValidateServerConfig(config.Server)
	}

	return nil
}

// ValidateServerConfig validates the server configuration
func ValidateServerConfig(config *Server) error {
	// Validate the listen address
	if !listenAddressRegex.MatchString(config.ListenAddress) {
		return ErrInvalidListenAddress
	}

	return nil
}

// Definitions returns the source definitions with the overrides applied,
// in report order. Disabled sources are left out
func (c *Config) Definitions() []mep.Definition {
	defaults := mep.DefaultDefinitions()
	out := make([]mep.Definition, 0, len(defaults))

	for _, def := range defaults {
		src, ok := c.Sources[def.Source.String()]
		if !ok {
			out = append(out, def)

			continue
		}

		if src.Disabled {
			continue
		}

		if src.URL != "" {
			def.URL = src.URL
		}

		if src.PageLoadTimeoutSecs > 0 {
			def.Timeouts.PageLoad = seconds(src.PageLoadTimeoutSecs)
		}

		if src.ScriptTimeoutSecs > 0 {
			def.Timeouts.Script = seconds(src.ScriptTimeoutSecs)
		}

		if src.WaitTimeoutSecs > 0 {
			def.WaitTimeout = seconds(src.WaitTimeoutSecs)
		}

		out = append(out, def)
	}

	return out
}

// Read reads the configuration from the given path.
// Values missing from the file are set to their defaults
func Read(path string) (*Config, error) {
	// Read the config file
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Parse it
	tree, err := toml.LoadBytes(content)
	if err != nil {
		return nil, err
	}

	var cfg Config

	if err := tree.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults(tree)

	return &cfg, nil
}

// applyDefaults fills in the values left out of the parsed config tree.
// An explicit delay_seconds = 0 is kept, an absent one takes the default
func (c *Config) applyDefaults(tree *toml.Tree) {
	defaults := DefaultConfig()

	if c.Sources == nil {
		c.Sources = defaults.Sources
	}

	if c.Server == nil {
		c.Server = defaults.Server
	}

	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = DefaultListenAddress
	}

	if c.Retry == nil {
		c.Retry = defaults.Retry
	}

	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = retry.DefaultMaxAttempts
	}

	if !tree.Has("retry.delay_seconds") {
		c.Retry.DelaySeconds = defaults.Retry.DelaySeconds
	}

	if c.OutputDir == "" {
		c.OutputDir = defaults.OutputDir
	}

	if c.ReportPrefix == "" {
		c.ReportPrefix = defaults.ReportPrefix
	}

	if c.Browser == "" {
		c.Browser = defaults.Browser
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
