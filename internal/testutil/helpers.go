// Package testutil provides reusable test helpers for the null-sum benchmark.
package testutil

import (
	"math"
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Generation parameters mirrored from the dataset package. They are repeated
// here so reference results do not depend on the code under test.
const (
	refMaxValue   = 100
	densitySigmas = 5
)

// ReferenceSum recomputes the null-aware sum and the null count for
// (n, seed, p) straight from the PCG streams, tracking the null pattern
// independently of any encoding.
func ReferenceSum(n int, seed uint64, p float64) (sum int64, nulls int) {
	values := rand.New(rand.NewPCG(seed, seed))
	draws := rand.New(rand.NewPCG(seed, seed))
	for range n {
		v := int64(values.IntN(refMaxValue + 1))
		if draws.Float64() < p {
			nulls++
			continue
		}
		sum += v
	}
	return sum, nulls
}

// AssertSumsEqual verifies that every named sum equals want.
func AssertSumsEqual(t *testing.T, want int64, sums map[string]int64, msgAndArgs ...any) bool {
	t.Helper()
	names := make([]string, 0, len(sums))
	for name := range sums {
		names = append(names, name)
	}
	sort.Strings(names)

	ok := true
	for _, name := range names {
		if sums[name] != want {
			ok = assert.Fail(t, "sum mismatch",
				"%s = %d, want %d", name, sums[name], want) && ok
		}
	}
	return ok
}

// AssertNullDensity verifies that nulls out of n is within a few binomial
// standard deviations of n*p.
func AssertNullDensity(t *testing.T, nulls, n int, p float64) bool {
	t.Helper()
	expected := float64(n) * p
	sigma := math.Sqrt(float64(n) * p * (1 - p))
	return assert.InDelta(t, expected, float64(nulls), densitySigmas*sigma+1,
		"null count %d not within %d sigma of %.0f", nulls, densitySigmas, expected)
}

// AssertNonNegative verifies that every sample is non-negative and finite.
func AssertNonNegative(t *testing.T, samples []float64) bool {
	t.Helper()
	for i, s := range samples {
		if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 {
			return assert.Fail(t, "invalid sample", "samples[%d]=%v", i, s)
		}
	}
	return true
}
