package harness

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-nullbench/internal/testutil"
)

func TestNewRunnerRejectsZeroIterations(t *testing.T) {
	for _, n := range []int{0, -1} {
		r, err := NewRunner(PerIteration, n, nil)
		require.ErrorIs(t, err, ErrInvalidIterations)
		assert.Nil(t, r)
	}
}

func TestRunPerIteration(t *testing.T) {
	r, err := NewRunner(PerIteration, 25, nil)
	require.NoError(t, err)

	calls := 0
	res, err := r.Run("constant", func() int64 {
		calls++
		assert.Equal(t, Running, r.State())
		return 42
	})
	require.NoError(t, err)

	assert.Equal(t, 25, calls)
	assert.Equal(t, Idle, r.State())
	assert.Equal(t, "constant", res.Name)
	assert.Equal(t, int64(42), res.Sum)
	assert.Equal(t, int64(42*25), res.Total)
	assert.Len(t, res.Samples, 25)
	assert.True(t, res.HasStdDev)
	testutil.AssertNonNegative(t, res.Samples)

	// Sample standard deviation uses N-1.
	var mean float64
	for _, s := range res.Samples {
		mean += s
	}
	mean /= float64(len(res.Samples))
	var msd float64
	for _, s := range res.Samples {
		msd += (s - mean) * (s - mean)
	}
	msd /= float64(len(res.Samples) - 1)

	assert.InDelta(t, mean, res.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(msd), res.StdDev, 1e-12)
}

func TestRunAggregate(t *testing.T) {
	r, err := NewRunner(Aggregate, 10, nil)
	require.NoError(t, err)

	calls := 0
	res, err := r.Run("aggregate", func() int64 {
		calls++
		return -7
	})
	require.NoError(t, err)

	assert.Equal(t, 10, calls)
	assert.Equal(t, Aggregate, res.Policy)
	assert.Empty(t, res.Samples)
	assert.False(t, res.HasStdDev)
	assert.GreaterOrEqual(t, res.Mean, 0.0)
	assert.Equal(t, int64(-70), res.Total)
}

func TestRunSingleIterationHasNoStdDev(t *testing.T) {
	r, err := NewRunner(PerIteration, 1, nil)
	require.NoError(t, err)

	res, err := r.Run("once", func() int64 { return 1 })
	require.NoError(t, err)

	assert.False(t, res.HasStdDev)
	require.Len(t, res.Samples, 1)
	assert.Equal(t, res.Samples[0], res.Mean)
}

func TestRunDetectsUnstableSum(t *testing.T) {
	for _, policy := range []Policy{PerIteration, Aggregate} {
		t.Run(policy.String(), func(t *testing.T) {
			r, err := NewRunner(policy, 5, nil)
			require.NoError(t, err)

			var next int64
			res, err := r.Run("drifting", func() int64 {
				next++
				return next
			})
			require.ErrorIs(t, err, ErrUnstableSum)
			assert.Zero(t, res)
			assert.Contains(t, err.Error(), "drifting")
			assert.Equal(t, Idle, r.State())
		})
	}
}

func TestWarmupRunsOnce(t *testing.T) {
	r, err := NewRunner(PerIteration, 2, nil)
	require.NoError(t, err)
	assert.False(t, r.Warmed())

	calls := 0
	warm := func() {
		calls++
		assert.Equal(t, Warmup, r.State())
	}
	r.Warmup(warm)
	r.Warmup(warm)

	assert.Equal(t, 1, calls)
	assert.True(t, r.Warmed())
	assert.Equal(t, Idle, r.State())
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want Policy
		ok   bool
	}{
		{"per-iteration", PerIteration, true},
		{" Aggregate ", Aggregate, true},
		{"total", Aggregate, true},
		{"bogus", PerIteration, false},
	}
	for _, tt := range tests {
		got, ok := ParsePolicy(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, p := range []Policy{PerIteration, Aggregate} {
		got, ok := ParsePolicy(p.String())
		assert.True(t, ok)
		assert.Equal(t, p, got)
	}
}

func TestDefaultIterations(t *testing.T) {
	assert.Equal(t, 100, DefaultIterations(PerIteration))
	assert.Equal(t, 10, DefaultIterations(Aggregate))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "warmup", Warmup.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "reporting", Reporting.String())
	assert.Equal(t, "unknown", State(9).String())
}
