// Package dataset generates the synthetic input shared by every reduction
// kernel: a dense array of int32 values together with the same null pattern
// expressed three ways (in-band sentinel, validity bitmap, roaring index).
//
// Validity bitmap convention: bit i is bit (i mod 8), least significant
// first, of byte i/8. A set bit means the value is valid, a clear bit means
// it is null. Bits past N-1 in the final byte are left set and must never be
// read.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sentinel is the reserved value marking a null in Values.
// No generated observation ever equals it.
const Sentinel int32 = math.MinInt32

// BitsPerByte is the number of elements covered by one validity byte.
const BitsPerByte = 8

// AllValid is a validity byte with every element present.
const AllValid byte = 0xFF

// Value range of generated observations, inclusive.
const (
	MinValue = 0
	MaxValue = 100
)

// Errors returned by Generate.
var (
	// ErrInvalidLength indicates a non-positive element count.
	ErrInvalidLength = errors.New("dataset length must be positive")

	// ErrInvalidProbability indicates a null probability outside [0, 1].
	ErrInvalidProbability = errors.New("null probability must be in [0, 1]")
)

// Dataset is an immutable input for the reduction kernels.
// It is safe for concurrent readers once Generate returns.
type Dataset struct {
	// N is the element count.
	N int

	// Values holds the observations. Null positions hold Sentinel.
	Values []int32

	// Validity is the packed validity bitmap, BitmapLen(N) bytes.
	Validity []byte

	// Nulls indexes the null positions.
	Nulls *roaring.Bitmap

	// Seed and P record the generation parameters.
	Seed uint64
	P    float64

	nullCount int
}

// BitmapLen returns the number of validity bytes needed for n elements.
func BitmapLen(n int) int {
	return (n + BitsPerByte - 1) / BitsPerByte
}

// Generate builds a dataset of n values drawn uniformly from
// [MinValue, MaxValue] and marks each index null with probability p.
// Values and nulls use independent streams seeded identically, so the same
// (n, seed, p) always yields the same dataset.
func Generate(n int, seed uint64, p float64) (*Dataset, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLength, n)
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidProbability, p)
	}
	if uint64(n) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d exceeds the roaring index range", ErrInvalidLength, n)
	}

	d := &Dataset{
		N:    n,
		Seed: seed,
		P:    p,
	}
	d.generate()
	d.applyNulls()
	return d, nil
}

// generate fills Values with uniform integer draws.
func (d *Dataset) generate() {
	rng := rand.New(rand.NewPCG(d.Seed, d.Seed))
	d.Values = make([]int32, d.N)
	for i := range d.Values {
		d.Values[i] = int32(MinValue + rng.IntN(MaxValue-MinValue+1))
	}
}

// applyNulls draws one uniform real per index and, when it falls below P,
// marks the index null in every encoding at once.
func (d *Dataset) applyNulls() {
	uniform := distuv.Uniform{Min: 0, Max: 1}
	rng := rand.New(rand.NewPCG(d.Seed, d.Seed))

	d.Validity = make([]byte, BitmapLen(d.N))
	for i := range d.Validity {
		d.Validity[i] = AllValid
	}
	d.Nulls = roaring.New()

	for i := range d.N {
		if uniform.Quantile(rng.Float64()) < d.P {
			d.Values[i] = Sentinel
			d.Validity[i/BitsPerByte] &^= 1 << (i % BitsPerByte)
			d.Nulls.Add(uint32(i))
			d.nullCount++
		}
	}
	d.Nulls.RunOptimize()
}

// Valid reports the validity bit of element i.
func (d *Dataset) Valid(i int) bool {
	return (d.Validity[i/BitsPerByte]>>(i%BitsPerByte))&1 == 1
}

// IsNull reports whether element i holds the sentinel.
func (d *Dataset) IsNull(i int) bool {
	return d.Values[i] == Sentinel
}

// NullCount returns the number of null elements.
func (d *Dataset) NullCount() int {
	return d.nullCount
}

// SizeBytes returns the memory held by values and bitmap.
func (d *Dataset) SizeBytes() int64 {
	return int64(len(d.Values))*bytesPerValue + int64(len(d.Validity))
}

const bytesPerValue = 4
