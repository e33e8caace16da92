// Package harness times repeated invocations of a reduction and reports
// mean and sample standard deviation of the wall-clock time.
package harness

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Policy selects how iterations are timed.
type Policy int

const (
	// PerIteration timestamps every call and reports mean and stddev.
	PerIteration Policy = iota
	// Aggregate takes one timestamp around all calls and reports the mean only.
	Aggregate
)

// String returns the policy name accepted by ParsePolicy.
func (p Policy) String() string {
	switch p {
	case PerIteration:
		return "per-iteration"
	case Aggregate:
		return "aggregate"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses a policy name.
func ParsePolicy(s string) (Policy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "per-iteration", "periteration", "iteration":
		return PerIteration, true
	case "aggregate", "total":
		return Aggregate, true
	default:
		return PerIteration, false
	}
}

// DefaultIterations returns the iteration count used with a policy when none
// is configured.
func DefaultIterations(p Policy) int {
	if p == Aggregate {
		return defaultAggregateIterations
	}
	return defaultPerIterationIterations
}

// State is the runner's position in its measurement cycle.
type State int

const (
	Idle State = iota
	Warmup
	Running
	Reporting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Warmup:
		return "warmup"
	case Running:
		return "running"
	case Reporting:
		return "reporting"
	default:
		return "unknown"
	}
}

// Errors returned by the runner.
var (
	// ErrInvalidIterations indicates an iteration count below one.
	ErrInvalidIterations = errors.New("iterations must be at least 1")

	// ErrUnstableSum indicates a kernel returned different sums for the same
	// dataset on different iterations.
	ErrUnstableSum = errors.New("kernel sum changed between iterations")
)

// Result summarises the timed iterations of one kernel.
type Result struct {
	Name       string
	Policy     Policy
	Iterations int

	// Sum is the result of a single iteration. The accumulator is reset
	// before every iteration.
	Sum int64

	// Total is Iterations * Sum, the running total across all iterations.
	Total int64

	// Samples holds per-iteration durations in seconds (PerIteration only).
	Samples []float64

	// Mean is the mean duration of one iteration in seconds.
	Mean float64

	// StdDev is the sample standard deviation in seconds. It is only
	// meaningful when HasStdDev is set.
	StdDev    float64
	HasStdDev bool
}

// MeanDuration returns Mean as a time.Duration.
func (r Result) MeanDuration() time.Duration {
	return time.Duration(r.Mean * float64(time.Second))
}

// Runner drives kernels through Idle -> Warmup -> Running -> Reporting -> Idle.
// A Runner is not safe for concurrent use.
type Runner struct {
	policy     Policy
	iterations int
	logger     *slog.Logger

	state  State
	warmed bool
}

// NewRunner creates a runner. A nil logger discards log output.
func NewRunner(policy Policy, iterations int, logger *slog.Logger) (*Runner, error) {
	if iterations < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidIterations, iterations)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		policy:     policy,
		iterations: iterations,
		logger:     logger,
	}, nil
}

// Policy returns the timing policy.
func (r *Runner) Policy() Policy {
	return r.policy
}

// Iterations returns the number of calls per kernel.
func (r *Runner) Iterations() int {
	return r.iterations
}

// State returns the current state.
func (r *Runner) State() State {
	return r.state
}

func (r *Runner) transition(to State) {
	r.logger.Debug("harness state", "from", r.state.String(), "to", to.String())
	r.state = to
}

// Warmup runs fn once, untimed. Later calls do nothing.
func (r *Runner) Warmup(fn func()) {
	if r.warmed {
		return
	}
	r.transition(Warmup)
	fn()
	r.warmed = true
	r.transition(Idle)
}

// Warmed reports whether Warmup has run.
func (r *Runner) Warmed() bool {
	return r.warmed
}

// Run invokes fn exactly Iterations() times and returns the timing summary.
// If fn returns different sums across calls, Run returns a zero Result and
// ErrUnstableSum.
func (r *Runner) Run(name string, fn func() int64) (Result, error) {
	r.transition(Running)
	defer r.transition(Idle)

	res := Result{
		Name:       name,
		Policy:     r.policy,
		Iterations: r.iterations,
	}

	var (
		stable = true
		sum    int64
	)
	switch r.policy {
	case Aggregate:
		start := time.Now()
		for i := range r.iterations {
			s := fn()
			if i == 0 {
				sum = s
			} else if s != sum {
				stable = false
			}
		}
		res.Mean = time.Since(start).Seconds() / float64(r.iterations)

	default:
		res.Samples = make([]float64, r.iterations)
		for i := range r.iterations {
			start := time.Now()
			s := fn()
			res.Samples[i] = time.Since(start).Seconds()
			if i == 0 {
				sum = s
			} else if s != sum {
				stable = false
			}
		}
	}

	r.transition(Reporting)
	if !stable {
		return Result{}, fmt.Errorf("%w: %s", ErrUnstableSum, name)
	}
	res.Sum = sum
	res.Total = sum * int64(r.iterations)

	switch {
	case len(res.Samples) >= minSamplesForStdDev:
		res.Mean, res.StdDev = stat.MeanStdDev(res.Samples, nil)
		res.HasStdDev = true
	case len(res.Samples) == 1:
		res.Mean = res.Samples[0]
	}

	r.logger.Debug("kernel timed",
		"kernel", name,
		"iterations", r.iterations,
		"mean_s", res.Mean,
		"sum", res.Sum,
	)
	return res, nil
}
