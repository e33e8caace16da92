package main

// Default command-line flag values
const (
	defaultSeed     = 1         // Seeds values and null pattern
	defaultN        = 1_000_000 // Dataset element count
	defaultP        = 0.1       // Null probability per element
	defaultNThreads = 8         // Worker count for parallel kernels
	defaultLogLevel = "info"
)

// Flag names
const (
	flagSeed       = "seed"
	flagN          = "n"
	flagP          = "p"
	flagNThreads   = "nthreads"
	flagIterations = "iterations"
	flagPolicy     = "policy"
	flagVerify     = "verify"
	flagKernels    = "kernels"
	flagLogLevel   = "log-level"
)

// kernelListSeparator splits the --kernels value.
const kernelListSeparator = ","
