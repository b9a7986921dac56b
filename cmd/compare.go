package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/mepquotes/cmd/bootstrap"
	"github.com/sig-0/mepquotes/cmd/env"
	"github.com/sig-0/mepquotes/cmd/serve"
	"github.com/sig-0/mepquotes/ingest"
	"github.com/sig-0/mepquotes/report"
)

// compareCfg wraps the root (compare) configuration
type compareCfg struct {
	out   io.Writer
	flags bootstrap.Flags

	now func() time.Time
}

// newRootCmd creates the root command, which runs the quote comparison
func newRootCmd(out io.Writer, now func() time.Time) *ffcli.Command {
	cfg := &compareCfg{
		out: out,
		now: now,
	}

	fs := flag.NewFlagSet("mepquotes", flag.ExitOnError)
	cfg.flags.RegisterFlags(fs)

	return &ffcli.Command{
		ShortUsage: "mepquotes [flags] | mepquotes <sub-command> [flags]",
		LongHelp: "Fetches the MEP dollar quote from every source, sequentially and concurrently, " +
			"and writes a comparison report for each run",
		FlagSet: fs,
		Exec:    cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
		Subcommands: []*ffcli.Command{
			serve.NewServeCmd(),
		},
	}
}

func (c *compareCfg) exec(ctx context.Context, _ []string) error {
	logger := c.flags.Logger()

	cfg, err := c.flags.Config()
	if err != nil {
		return err
	}

	orchestrator, err := bootstrap.NewOrchestrator(cfg, logger)
	if err != nil {
		return err
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelFn()

	// The modes run one after the other, never interleaved
	_, _ = fmt.Fprintln(c.out, "\nSequential run:")
	sequential := orchestrator.RunSequential(runCtx)

	_, _ = fmt.Fprintln(c.out, "\nConcurrent run:")
	concurrent := orchestrator.RunConcurrent(runCtx)

	for _, run := range []*ingest.Run{sequential, concurrent} {
		if err = c.writeReport(cfg.OutputDir, cfg.ReportPrefix, run); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(c.out, "\nPerformance comparison:")
	_, _ = fmt.Fprintf(c.out, "Sequential run time: %.2f seconds\n", sequential.Elapsed.Seconds())
	_, _ = fmt.Fprintf(c.out, "Concurrent run time: %.2f seconds\n", concurrent.Elapsed.Seconds())

	return nil
}

// writeReport persists the run report and prints it
func (c *compareCfg) writeReport(dir, prefix string, run *ingest.Run) error {
	w := &report.Writer{
		Dir:    dir,
		Prefix: fmt.Sprintf("%s_%s", prefix, run.Mode),
	}

	text, path, err := report.Generate(
		w,
		fmt.Sprintf("%s (%s)", report.DefaultTitle, run.Mode),
		run.Results,
		run.Elapsed,
		c.now(),
	)
	if err != nil {
		return fmt.Errorf("unable to generate %s report: %w", run.Mode, err)
	}

	_, _ = fmt.Fprintf(c.out, "\n%s report saved to %s\n", run.Mode, path)
	_, _ = fmt.Fprintln(c.out, text)

	return nil
}
