package nullbench

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/klauspost/cpuid/v2"
	"github.com/tphakala/go-nullbench/internal/dataset"
	"github.com/tphakala/go-nullbench/internal/harness"
	"github.com/tphakala/go-nullbench/internal/kernel"
	"github.com/tphakala/go-nullbench/internal/parallel"
	"github.com/tphakala/simd/cpu"
	"golang.org/x/sync/errgroup"
)

// Bench owns one generated dataset, the worker pool and the kernels timed
// against them.
type Bench struct {
	config  Config
	data    *dataset.Dataset
	pool    *parallel.Pool
	kernels []kernel.Kernel
	runner  *harness.Runner
	logger  *Logger
}

// Option configures a Bench.
type Option func(*Bench)

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *Logger) Option {
	return func(b *Bench) {
		if l != nil {
			b.logger = l
		}
	}
}

// New validates the configuration, generates the dataset and prepares the
// kernels. The dataset is generated once and reused by every kernel.
func New(config *Config, opts ...Option) (*Bench, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	b := &Bench{
		config: *config,
		logger: NoopLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}

	pool := parallel.NewPool(config.Threads)
	kernels, err := selectKernels(kernel.All(pool), config.Kernels)
	if err != nil {
		pool.Close()
		return nil, err
	}

	runner, err := harness.NewRunner(config.Policy, config.iterations(), b.logger.Logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	b.logger.Info("generating data", "n", config.N, "p", config.P, "seed", config.Seed)
	start := time.Now()
	data, err := dataset.Generate(config.N, config.Seed, config.P)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	b.logger.LogGenerated(context.Background(), data.N, data.NullCount(), time.Since(start))

	b.data = data
	b.pool = pool
	b.kernels = kernels
	b.runner = runner
	return b, nil
}

// selectKernels filters all by name, keeping report order.
func selectKernels(all []kernel.Kernel, names []string) ([]kernel.Kernel, error) {
	if len(names) == 0 {
		return all, nil
	}

	want := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := kernel.Lookup(all, name); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKernel, name)
		}
		want[name] = true
	}

	selected := make([]kernel.Kernel, 0, len(want))
	for _, k := range all {
		if want[k.Name] {
			selected = append(selected, k)
		}
	}
	return selected, nil
}

// Kernels returns the names of the kernels this bench runs, in order.
func (b *Bench) Kernels() []string {
	return kernel.Names(b.kernels)
}

// Config returns a copy of the configuration.
func (b *Bench) Config() Config {
	return b.config
}

// Warmup starts the worker pool and runs one untimed parallel region. It runs
// at most once per Bench and is called by Run before the first timed kernel.
func (b *Bench) Warmup() {
	b.runner.Warmup(func() {
		sum := b.pool.Warmup()
		b.logger.Debug("pool warmed up", "threads", b.pool.Workers(), "sum", sum)
	})
}

// referenceSum sums the values whose validity bit is set, checking that the
// sentinel agrees with the bitmap on every element.
func (b *Bench) referenceSum() (int64, error) {
	d := b.data
	var sum int64
	for i := range d.N {
		if d.Valid(i) == d.IsNull(i) {
			return 0, fmt.Errorf("%w: bitmap and sentinel disagree at index %d", ErrSumMismatch, i)
		}
		if d.Valid(i) {
			sum += int64(d.Values[i])
		}
	}
	if card := d.Nulls.GetCardinality(); card != uint64(d.NullCount()) {
		return 0, fmt.Errorf("%w: null index holds %d positions, bitmap %d",
			ErrSumMismatch, card, d.NullCount())
	}
	return sum, nil
}

// Verify runs every selected null-aware kernel once, concurrently, and checks
// each result against the reference sum of the dataset.
func (b *Bench) Verify(ctx context.Context) error {
	want, err := b.referenceSum()
	if err != nil {
		b.logger.LogVerify(ctx, 0, 0, err)
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	checked := 0
	for _, k := range b.kernels {
		if !k.NullAware() {
			continue
		}
		checked++
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if got := k.Fn(b.data); got != want {
				return fmt.Errorf("%w: %s = %d, want %d", ErrSumMismatch, k.Name, got, want)
			}
			return nil
		})
	}

	err = g.Wait()
	b.logger.LogVerify(ctx, checked, want, err)
	return err
}

// Run warms up the pool, optionally verifies the kernels, then times each
// kernel in order. Cancellation is checked between kernels; a kernel that
// has started always completes.
func (b *Bench) Run(ctx context.Context) ([]Result, error) {
	b.Warmup()

	if b.config.Verify {
		if err := b.Verify(ctx); err != nil {
			return nil, err
		}
	}

	results := make([]Result, 0, len(b.kernels))
	for _, k := range b.kernels {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := b.runner.Run(k.Name, func() int64 {
			return k.Fn(b.data)
		})
		if err != nil {
			return results, err
		}
		b.logger.LogResult(ctx, res)
		results = append(results, res)
	}
	return results, nil
}

// Close releases the worker pool.
func (b *Bench) Close() {
	b.pool.Close()
}

// Info describes the dataset and the machine a bench runs on.
type Info struct {
	// N is the element count and Nulls the number of null elements.
	N     int
	Nulls int

	// DatasetBytes is the memory held by values and validity bitmap.
	DatasetBytes int64

	// Threads is the worker count of the parallel kernels.
	Threads int

	// Iterations is the number of timed calls per kernel.
	Iterations int

	// CPU is the processor brand string.
	CPU string

	// PhysicalCores and LogicalCores as reported by CPUID.
	PhysicalCores int
	LogicalCores  int

	// SIMD describes the vector instruction set used by the dot-product kernel.
	SIMD string

	// Kernels lists the kernels in report order.
	Kernels []string
}

// Info returns information about the bench.
func (b *Bench) Info() Info {
	return Info{
		N:             b.data.N,
		Nulls:         b.data.NullCount(),
		DatasetBytes:  b.data.SizeBytes(),
		Threads:       b.pool.Workers(),
		Iterations:    b.runner.Iterations(),
		CPU:           cpuid.CPU.BrandName,
		PhysicalCores: cpuid.CPU.PhysicalCores,
		LogicalCores:  cpuid.CPU.LogicalCores,
		SIMD:          cpu.Info(),
		Kernels:       b.Kernels(),
	}
}
