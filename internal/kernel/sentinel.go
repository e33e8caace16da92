package kernel

import "github.com/tphakala/go-nullbench/internal/dataset"

// sentinelBits is the bit pattern of dataset.Sentinel.
const sentinelBits = uint32(1) << 31

// validity returns 1 when v is a real value and 0 when it is the sentinel,
// without a comparison. x is zero only for the sentinel, and x | -x has its
// top bit set for every non-zero x.
func validity(v int32) int64 {
	x := uint32(v) ^ sentinelBits
	return int64((x | -x) >> 31)
}

// SumIgnoreNulls adds every element, sentinels included.
func SumIgnoreNulls(d *dataset.Dataset) int64 {
	var total int64
	for _, v := range d.Values {
		total += int64(v)
	}
	return total
}

// SumIgnoreNullsBatched is SumIgnoreNulls unrolled by Unroll.
func SumIgnoreNullsBatched(d *dataset.Dataset) int64 {
	return sumPlain(d.Values)
}

func sumPlain(x []int32) int64 {
	var total int64
	nb := len(x) / Unroll
	for b := range nb {
		v := (*[Unroll]int32)(x[b*Unroll:])
		total += int64(v[0]) + int64(v[1]) + int64(v[2]) + int64(v[3]) +
			int64(v[4]) + int64(v[5]) + int64(v[6]) + int64(v[7])
	}
	for _, v := range x[nb*Unroll:] {
		total += int64(v)
	}
	return total
}

// SumSentinelIf skips sentinels with a branch.
func SumSentinelIf(d *dataset.Dataset) int64 {
	var total int64
	for _, v := range d.Values {
		if v != dataset.Sentinel {
			total += int64(v)
		}
	}
	return total
}

// SumSentinelMul multiplies every element by its validity instead of branching.
func SumSentinelMul(d *dataset.Dataset) int64 {
	return sumSentinelMul(d.Values)
}

func sumSentinelMul(x []int32) int64 {
	var total int64
	for _, v := range x {
		total += int64(v) * validity(v)
	}
	return total
}

// SumSentinelBatched is SumSentinelMul unrolled by Unroll.
func SumSentinelBatched(d *dataset.Dataset) int64 {
	x := d.Values
	var total int64
	nb := len(x) / Unroll
	for b := range nb {
		v := (*[Unroll]int32)(x[b*Unroll:])
		total += int64(v[0])*validity(v[0]) +
			int64(v[1])*validity(v[1]) +
			int64(v[2])*validity(v[2]) +
			int64(v[3])*validity(v[3]) +
			int64(v[4])*validity(v[4]) +
			int64(v[5])*validity(v[5]) +
			int64(v[6])*validity(v[6]) +
			int64(v[7])*validity(v[7])
	}
	for _, v := range x[nb*Unroll:] {
		total += int64(v) * validity(v)
	}
	return total
}
