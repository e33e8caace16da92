package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	nullbench "github.com/tphakala/go-nullbench"
)

func main() {
	opts := parseArgs(os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, opts, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		log.Fatalf("Benchmark failed: %v", err)
	}
}

// run builds the bench, prints the parameter echo and then the results.
// Results finished before a failure are still written.
func run(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	logger := nullbench.NewTextLogger(stderr, opts.logLevel)

	bench, err := nullbench.New(&opts.config, nullbench.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("create benchmark: %w", err)
	}
	defer bench.Close()

	if err := nullbench.WriteParams(stdout, &opts.config, bench.Info()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	results, runErr := bench.Run(ctx)
	if err := nullbench.WriteResults(stdout, results); err != nil && runErr == nil {
		return fmt.Errorf("write report: %w", err)
	}
	return runErr
}
