package kernel

import (
	"sync"

	"github.com/tphakala/go-nullbench/internal/dataset"
	"github.com/tphakala/simd/f64"
)

// SumRoaring walks the null positions in ascending order and adds the runs of
// valid values between them without any per-element test.
func SumRoaring(d *dataset.Dataset) int64 {
	x := d.Values
	var total int64
	next := 0
	it := d.Nulls.Iterator()
	for it.HasNext() {
		i := int(it.Next())
		total += sumPlain(x[next:i])
		next = i + 1
	}
	return total + sumPlain(x[next:])
}

// dotChunk is the number of elements widened per dot product. It is a
// multiple of Unroll and small enough that a chunk's sum is exact in float64.
const dotChunk = 4096

type dotScratch struct {
	vals [dotChunk]float64
	mask [dotChunk]float64
}

var dotPool = sync.Pool{
	New: func() any { return new(dotScratch) },
}

// SumBitmaskDot widens each chunk of values and validity bits to float64 and
// reduces it with a SIMD dot product of values and the 0/1 mask.
func SumBitmaskDot(d *dataset.Dataset) int64 {
	s, ok := dotPool.Get().(*dotScratch)
	if !ok {
		panic("kernel: unexpected scratch type in pool")
	}
	defer dotPool.Put(s)

	x, bm := d.Values, d.Validity
	var total int64
	for lo := 0; lo < len(x); lo += dotChunk {
		hi := min(lo+dotChunk, len(x))
		vals, mask := s.vals[:hi-lo], s.mask[:hi-lo]
		for j, v := range x[lo:hi] {
			vals[j] = float64(v)
			mask[j] = float64(bit(bm, lo+j))
		}
		total += int64(f64.DotProduct(vals, mask))
	}
	return total
}
