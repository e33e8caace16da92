package nullbench

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-nullbench/internal/harness"
)

// Policy selects how kernel iterations are timed.
type Policy = harness.Policy

// Timing policies.
const (
	// PolicyPerIteration timestamps every call and reports mean and stddev.
	PolicyPerIteration = harness.PerIteration

	// PolicyAggregate times all calls of a kernel with one pair of timestamps.
	PolicyAggregate = harness.Aggregate
)

// Result is the timing summary of one kernel.
type Result = harness.Result

// Config holds benchmark configuration.
type Config struct {
	// Seed seeds both value and null-pattern generation.
	Seed uint64

	// N is the dataset element count.
	N int

	// P is the probability that an element is null, in [0, 1].
	P float64

	// Threads is the worker count of the pool used by the parallel kernels.
	Threads int

	// Policy selects per-iteration or aggregate timing. Every kernel in one
	// run is timed with the same policy.
	Policy Policy

	// Iterations is the number of timed calls per kernel.
	// Set to 0 to use the policy default (100 per-iteration, 10 aggregate).
	Iterations int

	// Verify runs every null-aware kernel once before timing and fails the
	// run if any of them disagrees with the reference sum.
	Verify bool

	// Kernels restricts the run to the named kernels, in report order.
	// Empty means all kernels.
	Kernels []string
}

// DefaultConfig returns the configuration used when no flags are given.
func DefaultConfig() Config {
	return Config{
		Seed:    defaultSeed,
		N:       defaultN,
		P:       defaultP,
		Threads: defaultThreads,
		Policy:  PolicyPerIteration,
		Verify:  true,
	}
}

// Common errors returned by the benchmark.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid benchmark configuration")

	// ErrUnknownKernel indicates a kernel name that is not registered.
	ErrUnknownKernel = errors.New("unknown kernel")

	// ErrSumMismatch indicates that a null-aware kernel disagreed with the
	// reference sum, or that two null encodings disagreed.
	ErrSumMismatch = errors.New("kernel sum mismatch")
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.N <= 0 {
		return fmt.Errorf("%w: n must be positive", ErrInvalidConfig)
	}

	if c.N > maxN {
		return fmt.Errorf("%w: n must be at most %d", ErrInvalidConfig, maxN)
	}

	if math.IsNaN(c.P) || c.P < 0 || c.P > 1 {
		return fmt.Errorf("%w: p must be in [0, 1]", ErrInvalidConfig)
	}

	if c.Threads < 1 {
		return fmt.Errorf("%w: nthreads must be at least 1", ErrInvalidConfig)
	}

	if c.Threads > maxThreads {
		return fmt.Errorf("%w: too many threads (max %d)", ErrInvalidConfig, maxThreads)
	}

	if c.Iterations < 0 {
		return fmt.Errorf("%w: iterations must not be negative", ErrInvalidConfig)
	}

	if c.Policy != PolicyPerIteration && c.Policy != PolicyAggregate {
		return fmt.Errorf("%w: unknown timing policy %v", ErrInvalidConfig, c.Policy)
	}

	return nil
}

// iterations resolves the iteration count for the configured policy.
func (c *Config) iterations() int {
	if c.Iterations > 0 {
		return c.Iterations
	}
	return harness.DefaultIterations(c.Policy)
}
