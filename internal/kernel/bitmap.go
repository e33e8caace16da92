package kernel

import "github.com/tphakala/go-nullbench/internal/dataset"

// bit returns validity bit i of bm as 0 or 1.
func bit(bm []byte, i int) int64 {
	return int64((bm[i/Unroll] >> (i % Unroll)) & 1)
}

// maskedBatch sums the elements of v whose bit is set in m.
func maskedBatch(v *[Unroll]int32, m byte) int64 {
	return int64(v[0])*int64(m&1) +
		int64(v[1])*int64((m>>1)&1) +
		int64(v[2])*int64((m>>2)&1) +
		int64(v[3])*int64((m>>3)&1) +
		int64(v[4])*int64((m>>4)&1) +
		int64(v[5])*int64((m>>5)&1) +
		int64(v[6])*int64((m>>6)&1) +
		int64(v[7])*int64((m>>7)&1)
}

// sumBitmaskTail sums elements [from, len(x)) one bit at a time.
func sumBitmaskTail(x []int32, bm []byte, from int) int64 {
	var total int64
	for i := from; i < len(x); i++ {
		total += int64(x[i]) * bit(bm, i)
	}
	return total
}

// SumBitmask tests the validity bit of every element.
func SumBitmask(d *dataset.Dataset) int64 {
	return sumBitmaskTail(d.Values, d.Validity, 0)
}

// SumBitmaskBatched reads one validity byte per batch of Unroll elements.
func SumBitmaskBatched(d *dataset.Dataset) int64 {
	x, bm := d.Values, d.Validity
	nb := len(x) / Unroll
	total := sumBitmaskBatches(x, bm, 0, nb)
	return total + sumBitmaskTail(x, bm, nb*Unroll)
}

// sumBitmaskBatches sums batches [lo, hi).
func sumBitmaskBatches(x []int32, bm []byte, lo, hi int) int64 {
	var total int64
	for b := lo; b < hi; b++ {
		total += maskedBatch((*[Unroll]int32)(x[b*Unroll:]), bm[b])
	}
	return total
}

// SumBitmaskShortcut is SumBitmaskBatched with a fast path for batches in
// which every element is valid.
func SumBitmaskShortcut(d *dataset.Dataset) int64 {
	x, bm := d.Values, d.Validity
	nb := len(x) / Unroll
	var total int64
	for b := range nb {
		v := (*[Unroll]int32)(x[b*Unroll:])
		if m := bm[b]; m == dataset.AllValid {
			total += int64(v[0]) + int64(v[1]) + int64(v[2]) + int64(v[3]) +
				int64(v[4]) + int64(v[5]) + int64(v[6]) + int64(v[7])
		} else {
			total += maskedBatch(v, m)
		}
	}
	return total + sumBitmaskTail(x, bm, nb*Unroll)
}
