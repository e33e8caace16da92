package nullbench

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-nullbench/internal/dataset"
	"github.com/tphakala/go-nullbench/internal/harness"
	"github.com/tphakala/go-nullbench/internal/kernel"
	"github.com/tphakala/go-nullbench/internal/testutil"
)

func smallConfig() *Config {
	return &Config{
		Seed:       1,
		N:          4099,
		P:          0.1,
		Threads:    3,
		Policy:     PolicyAggregate,
		Iterations: 2,
		Verify:     true,
	}
}

func newBench(t *testing.T, config *Config) *Bench {
	t.Helper()
	b, err := New(config)
	require.NoError(t, err)
	t.Cleanup(b.Close)
	return b
}

func TestNewRejectsNilConfig(t *testing.T) {
	b, err := New(nil)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Nil(t, b)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	config := smallConfig()
	config.N = -1

	b, err := New(config)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Nil(t, b)
}

func TestNewRejectsUnknownKernel(t *testing.T) {
	config := smallConfig()
	config.Kernels = []string{kernel.NameSentinelIf, "sum_with_magic"}

	b, err := New(config)
	require.ErrorIs(t, err, ErrUnknownKernel)
	assert.Contains(t, err.Error(), "sum_with_magic")
	assert.Nil(t, b)
}

func TestKernelSelectionKeepsReportOrder(t *testing.T) {
	config := smallConfig()
	config.Kernels = []string{kernel.NameBitmaskReduce, kernel.NameIgnore, kernel.NameRoaring}

	b := newBench(t, config)
	assert.Equal(t,
		[]string{kernel.NameIgnore, kernel.NameRoaring, kernel.NameBitmaskReduce},
		b.Kernels())
}

func TestRunAllKernels(t *testing.T) {
	config := smallConfig()
	b := newBench(t, config)

	results, err := b.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 13)

	want, _ := testutil.ReferenceSum(config.N, config.Seed, config.P)
	aware := make(map[string]int64)
	for _, res := range results {
		assert.Equal(t, config.Iterations, res.Iterations, res.Name)
		assert.Equal(t, res.Sum*int64(res.Iterations), res.Total, res.Name)
		assert.False(t, res.HasStdDev, "aggregate policy has no stddev")

		k, ok := kernel.Lookup(b.kernels, res.Name)
		require.True(t, ok)
		if k.NullAware() {
			aware[res.Name] = res.Sum
		}
	}
	testutil.AssertSumsEqual(t, want, aware)
	assert.Equal(t, harness.Idle, b.runner.State())
	assert.True(t, b.runner.Warmed())
}

func TestRunPerIterationReportsStdDev(t *testing.T) {
	config := smallConfig()
	config.Policy = PolicyPerIteration
	config.Iterations = 0
	config.Kernels = []string{kernel.NameSentinelIf}

	b := newBench(t, config)
	results, err := b.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, 100, res.Iterations)
	assert.Len(t, res.Samples, 100)
	assert.True(t, res.HasStdDev)
	testutil.AssertNonNegative(t, res.Samples)
}

func TestRunHonoursCancellation(t *testing.T) {
	config := smallConfig()
	config.Verify = false
	b := newBench(t, config)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := b.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestVerify(t *testing.T) {
	b := newBench(t, smallConfig())
	require.NoError(t, b.Verify(context.Background()))
}

func TestVerifyDetectsWrongKernel(t *testing.T) {
	b := newBench(t, smallConfig())
	b.kernels = append(b.kernels, kernel.Kernel{
		Name:     "sum_off_by_one",
		Encoding: kernel.Sentinel,
		Fn:       func(d *dataset.Dataset) int64 { return kernel.SumSentinelIf(d) + 1 },
	})

	err := b.Verify(context.Background())
	require.ErrorIs(t, err, ErrSumMismatch)
	assert.Contains(t, err.Error(), "sum_off_by_one")
}

func TestVerifyIgnoresUnconditionalKernels(t *testing.T) {
	config := smallConfig()
	config.Kernels = []string{kernel.NameIgnore, kernel.NameIgnoreBatched}

	b := newBench(t, config)
	require.NotZero(t, b.data.NullCount())
	assert.NoError(t, b.Verify(context.Background()))
}

// Flipping one validity bit makes the encodings disagree.
func TestVerifyDetectsInconsistentEncodings(t *testing.T) {
	b := newBench(t, smallConfig())

	i := 0
	for b.data.IsNull(i) {
		i++
	}
	b.data.Validity[i/8] &^= 1 << (i % 8)

	err := b.Verify(context.Background())
	require.ErrorIs(t, err, ErrSumMismatch)
	assert.Contains(t, err.Error(), "disagree")
}

func TestVerifyDetectsStaleNullIndex(t *testing.T) {
	b := newBench(t, smallConfig())

	i := 0
	for b.data.IsNull(i) {
		i++
	}
	b.data.Nulls.Add(uint32(i))

	err := b.Verify(context.Background())
	require.ErrorIs(t, err, ErrSumMismatch)
}

func TestWarmupOnce(t *testing.T) {
	b := newBench(t, smallConfig())
	assert.False(t, b.runner.Warmed())
	b.Warmup()
	b.Warmup()
	assert.True(t, b.runner.Warmed())
}

func TestInfo(t *testing.T) {
	config := smallConfig()
	b := newBench(t, config)

	info := b.Info()
	assert.Equal(t, config.N, info.N)
	assert.Equal(t, b.data.NullCount(), info.Nulls)
	assert.Equal(t, config.Threads, info.Threads)
	assert.Equal(t, config.Iterations, info.Iterations)
	assert.Equal(t, int64(config.N*4+(config.N+7)/8), info.DatasetBytes)
	assert.NotEmpty(t, info.SIMD)
	assert.Len(t, info.Kernels, 13)
}

func TestWithLogger(t *testing.T) {
	l := NoopLogger()
	b, err := New(smallConfig(), WithLogger(l), WithLogger(nil))
	require.NoError(t, err)
	defer b.Close()
	assert.Same(t, l, b.logger)
}
