package kernel

import (
	"sync/atomic"

	"github.com/tphakala/go-nullbench/internal/dataset"
	"github.com/tphakala/go-nullbench/internal/parallel"
)

// SentinelAtomic returns a kernel that stripes the index range round-robin
// across the pool's workers. Worker ith visits ith, ith+nth, ith+2*nth, ...,
// keeps a private branchless sentinel sum and merges it with one atomic add.
func SentinelAtomic(p *parallel.Pool) Func {
	return func(d *dataset.Dataset) int64 {
		x := d.Values
		var total atomic.Int64
		p.Parallel(func(ith, nth int) {
			var sub int64
			for i := ith; i < len(x); i += nth {
				sub += int64(x[i]) * validity(x[i])
			}
			total.Add(sub)
		})
		return total.Load()
	}
}

// SentinelReduce returns a kernel computing the branchless sentinel sum with
// the pool's reduction, leaving chunking to the pool.
func SentinelReduce(p *parallel.Pool) Func {
	return func(d *dataset.Dataset) int64 {
		x := d.Values
		return p.Reduce(len(x), func(lo, hi int) int64 {
			return sumSentinelMul(x[lo:hi])
		})
	}
}

// BitmaskReduce returns a kernel reducing the batched bitmap sum over whole
// batches in parallel. The tail shorter than Unroll is summed by the caller.
func BitmaskReduce(p *parallel.Pool) Func {
	return func(d *dataset.Dataset) int64 {
		x, bm := d.Values, d.Validity
		nb := len(x) / Unroll
		total := p.Reduce(nb, func(lo, hi int) int64 {
			return sumBitmaskBatches(x, bm, lo, hi)
		})
		return total + sumBitmaskTail(x, bm, nb*Unroll)
	}
}
