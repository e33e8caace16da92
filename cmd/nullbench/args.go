package main

import (
	"flag"
	"io"
	"log/slog"
	"strings"

	nullbench "github.com/tphakala/go-nullbench"
	"github.com/tphakala/go-nullbench/internal/harness"
)

// options is the parsed command line.
type options struct {
	config   nullbench.Config
	logLevel slog.Level
}

// boolFlag is implemented by flag values that take no argument.
type boolFlag interface {
	IsBoolFlag() bool
}

// parseArgs reads the command line best-effort. Recognised flags may be
// written as -name value, --name value, -name=value or --name=value.
// Unknown flags, stray arguments and values that fail to parse are ignored
// and the defaults kept; range checks are left to Config.Validate.
func parseArgs(args []string) options {
	var (
		seed       uint64 = defaultSeed
		n                 = defaultN
		p                 = defaultP
		nthreads          = defaultNThreads
		iterations        = 0
		policy            = harness.PerIteration.String()
		verify            = true
		kernels           = ""
		logLevel          = defaultLogLevel
	)

	fs := flag.NewFlagSet("nullbench", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Uint64Var(&seed, flagSeed, seed, "Seed for value and null-pattern generation")
	fs.IntVar(&n, flagN, n, "Dataset element count")
	fs.Float64Var(&p, flagP, p, "Null probability per element, in [0, 1]")
	fs.IntVar(&nthreads, flagNThreads, nthreads, "Worker count for parallel kernels")
	fs.IntVar(&iterations, flagIterations, iterations, "Timed calls per kernel (0: policy default)")
	fs.StringVar(&policy, flagPolicy, policy, "Timing policy: per-iteration, aggregate")
	fs.BoolVar(&verify, flagVerify, verify, "Cross-check kernel sums before timing")
	fs.StringVar(&kernels, flagKernels, kernels, "Comma-separated kernel names (default all)")
	fs.StringVar(&logLevel, flagLogLevel, logLevel, "Log level: debug, info, warn, error")

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name := strings.TrimLeft(arg, "-")
		name, value, hasValue := strings.Cut(name, "=")

		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if !hasValue {
			if bf, ok := f.Value.(boolFlag); ok && bf.IsBoolFlag() {
				value = "true"
			} else if i+1 < len(args) {
				i++
				value = args[i]
			} else {
				continue
			}
		}
		// flag setters store the zero value before reporting a parse error,
		// so a malformed value restores the previous one.
		prev := f.Value.String()
		if err := fs.Set(name, value); err != nil {
			_ = fs.Set(name, prev)
		}
	}

	config := nullbench.DefaultConfig()
	config.Seed = seed
	config.N = n
	config.P = p
	config.Threads = nthreads
	config.Iterations = iterations
	config.Verify = verify
	if parsed, ok := harness.ParsePolicy(policy); ok {
		config.Policy = parsed
	}
	config.Kernels = splitKernels(kernels)

	opts := options{config: config, logLevel: slog.LevelInfo}
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err == nil {
		opts.logLevel = level
	}
	return opts
}

func splitKernels(s string) []string {
	var names []string
	for name := range strings.SplitSeq(s, kernelListSeparator) {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
