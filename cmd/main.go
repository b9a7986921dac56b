package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env, if any, before the flags are resolved from the environment
	_ = godotenv.Load() //nolint:errcheck // the file is optional

	cmd := newRootCmd(os.Stdout, time.Now)

	if err := cmd.ParseAndRun(context.Background(), os.Args[1:]); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}
