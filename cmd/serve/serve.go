package serve

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/sync/errgroup"

	"github.com/sig-0/mepquotes/cmd/bootstrap"
	"github.com/sig-0/mepquotes/cmd/env"
	"github.com/sig-0/mepquotes/server"
)

// serveCfg wraps the serve configuration
type serveCfg struct {
	flags bootstrap.Flags

	listenAddress string
}

// NewServeCmd creates the serve subcommand
func NewServeCmd() *ffcli.Command {
	cfg := &serveCfg{}

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "serve",
		ShortUsage: "serve [flags]",
		LongHelp:   "Serves on-demand quote comparisons over HTTP",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *serveCfg) registerFlags(fs *flag.FlagSet) {
	c.flags.RegisterFlags(fs)

	fs.StringVar(
		&c.listenAddress,
		"listen",
		"",
		"the IP:PORT URL for the server",
	)
}

// exec executes the serve command
func (c *serveCfg) exec(ctx context.Context, _ []string) error {
	logger := c.flags.Logger()

	cfg, err := c.flags.Config()
	if err != nil {
		return err
	}

	if c.listenAddress != "" {
		cfg.Server.ListenAddress = c.listenAddress
	}

	orchestrator, err := bootstrap.NewOrchestrator(cfg, logger)
	if err != nil {
		return err
	}

	s, err := server.New(
		orchestrator,
		server.WithLogger(logger),
		server.WithConfig(cfg.Server),
	)
	if err != nil {
		return fmt.Errorf("unable to create server, %w", err)
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelFn()

	group, gCtx := errgroup.WithContext(runCtx)

	group.Go(func() error {
		return s.Serve(gCtx)
	})

	return group.Wait()
}
