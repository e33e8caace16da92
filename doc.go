// Package nullbench measures how the representation of missing values in a
// dense int32 array affects the throughput of a sum reduction.
//
// Two encodings are compared:
//
//   - Sentinel: a null is stored in-band as math.MinInt32. No extra memory,
//     but the reserved value can never be a real observation.
//   - Validity bitmap: one bit per element in a side array, 1 = valid,
//     0 = null, least significant bit first.
//
// A compressed roaring index of the null positions is generated alongside
// them as a third, sparse encoding.
//
// # Quick Start
//
//	config := nullbench.DefaultConfig()
//	config.N = 1_000_000
//	config.P = 0.1
//
//	b, err := nullbench.New(&config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close()
//
//	results, err := b.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	nullbench.WriteResults(os.Stdout, results)
//
// # Kernels
//
// Every kernel sums the same dataset. Null-aware kernels must all return the
// sum of the valid values; the unconditional kernels add sentinels as plain
// numbers and only serve as a throughput ceiling.
//
//   - sum_ignore_nulls, sum_ignore_nulls_batched: no null handling.
//   - sum_sentinel_nulls_if: branch on the sentinel.
//   - sum_sentinel_nulls_mul, sum_sentinel_nulls_batched: branchless.
//   - sum_bitmask_nulls, sum_bitmask_nulls_batched: multiply by the bit.
//   - sum_bitmask_nulls_shortcut: add whole batches whose byte is 0xFF.
//   - sum_bitmask_nulls_dot: widen to float64, SIMD dot product with the mask.
//   - sum_roaring_nulls: add the runs between null positions.
//   - sum_sentinel_nulls_atomic: round-robin workers, atomic merge.
//   - sum_sentinel_nulls_reduce, sum_bitmask_nulls_reduce: pool reduction.
//
// # Measurement
//
// Each kernel is called a fixed number of times. With [PolicyPerIteration]
// (the default, 100 calls) every call is timed and the report shows the mean
// and sample standard deviation; with [PolicyAggregate] (10 calls) one pair
// of timestamps spans all calls and only the mean is reported. The sum is
// recomputed from zero on every call, so [Result.Total] is always
// Iterations times [Result.Sum].
//
// The worker pool used by the parallel kernels is started and exercised once
// by [Bench.Warmup] before the first timed kernel.
//
// # Thread Safety
//
// A [Bench] is not safe for concurrent use. The dataset it owns is immutable
// and is shared read-only by all workers of the parallel kernels.
package nullbench
