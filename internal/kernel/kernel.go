// Package kernel implements the sum reductions compared by the benchmark.
//
// Every kernel is a plain function value of type Func. Kernels that honour
// nulls return the same total for the same dataset regardless of encoding or
// strategy; the unconditional kernels add sentinel placeholders as ordinary
// values and only serve as a throughput ceiling.
package kernel

import (
	"github.com/tphakala/go-nullbench/internal/dataset"
	"github.com/tphakala/go-nullbench/internal/parallel"
)

// Unroll is the batch width of the unrolled kernels. It equals the number of
// elements covered by one validity byte, so a batch reads exactly one byte.
const Unroll = dataset.BitsPerByte

// Func reduces a dataset to a 64-bit sum.
type Func func(d *dataset.Dataset) int64

// Encoding identifies how a kernel learns which elements are null.
type Encoding int

const (
	// None ignores nulls entirely.
	None Encoding = iota
	// Sentinel reads the in-band sentinel value.
	Sentinel
	// Bitmap reads the packed validity bitmap.
	Bitmap
	// Roaring reads the compressed null index.
	Roaring
)

// String returns the encoding name.
func (e Encoding) String() string {
	switch e {
	case None:
		return "none"
	case Sentinel:
		return "sentinel"
	case Bitmap:
		return "bitmap"
	case Roaring:
		return "roaring"
	default:
		return "unknown"
	}
}

// Kernel is a named reduction.
type Kernel struct {
	Name     string
	Encoding Encoding
	Parallel bool
	Fn       Func
}

// NullAware reports whether the kernel excludes nulls from its sum.
func (k Kernel) NullAware() bool {
	return k.Encoding != None
}

// Kernel names, in report order.
const (
	NameIgnore          = "sum_ignore_nulls"
	NameIgnoreBatched   = "sum_ignore_nulls_batched"
	NameSentinelIf      = "sum_sentinel_nulls_if"
	NameSentinelMul     = "sum_sentinel_nulls_mul"
	NameSentinelBatched = "sum_sentinel_nulls_batched"
	NameBitmask         = "sum_bitmask_nulls"
	NameBitmaskBatched  = "sum_bitmask_nulls_batched"
	NameBitmaskShortcut = "sum_bitmask_nulls_shortcut"
	NameBitmaskDot      = "sum_bitmask_nulls_dot"
	NameRoaring         = "sum_roaring_nulls"
	NameSentinelAtomic  = "sum_sentinel_nulls_atomic"
	NameSentinelReduce  = "sum_sentinel_nulls_reduce"
	NameBitmaskReduce   = "sum_bitmask_nulls_reduce"
)

// Sequential returns the single-threaded kernels in report order.
func Sequential() []Kernel {
	return []Kernel{
		{Name: NameIgnore, Encoding: None, Fn: SumIgnoreNulls},
		{Name: NameIgnoreBatched, Encoding: None, Fn: SumIgnoreNullsBatched},
		{Name: NameSentinelIf, Encoding: Sentinel, Fn: SumSentinelIf},
		{Name: NameSentinelMul, Encoding: Sentinel, Fn: SumSentinelMul},
		{Name: NameSentinelBatched, Encoding: Sentinel, Fn: SumSentinelBatched},
		{Name: NameBitmask, Encoding: Bitmap, Fn: SumBitmask},
		{Name: NameBitmaskBatched, Encoding: Bitmap, Fn: SumBitmaskBatched},
		{Name: NameBitmaskShortcut, Encoding: Bitmap, Fn: SumBitmaskShortcut},
		{Name: NameBitmaskDot, Encoding: Bitmap, Fn: SumBitmaskDot},
		{Name: NameRoaring, Encoding: Roaring, Fn: SumRoaring},
	}
}

// All returns every kernel in report order. Parallel kernels run on p; when
// p is nil only the sequential kernels are returned.
func All(p *parallel.Pool) []Kernel {
	kernels := Sequential()
	if p == nil {
		return kernels
	}
	return append(kernels,
		Kernel{Name: NameSentinelAtomic, Encoding: Sentinel, Parallel: true, Fn: SentinelAtomic(p)},
		Kernel{Name: NameSentinelReduce, Encoding: Sentinel, Parallel: true, Fn: SentinelReduce(p)},
		Kernel{Name: NameBitmaskReduce, Encoding: Bitmap, Parallel: true, Fn: BitmaskReduce(p)},
	)
}

// Lookup finds a kernel by name.
func Lookup(kernels []Kernel, name string) (Kernel, bool) {
	for _, k := range kernels {
		if k.Name == name {
			return k, true
		}
	}
	return Kernel{}, false
}

// Names returns the kernel names in order.
func Names(kernels []Kernel) []string {
	names := make([]string, len(kernels))
	for i, k := range kernels {
		names[i] = k.Name
	}
	return names
}
