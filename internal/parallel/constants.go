package parallel

// Reduction scheduling
const (
	chunksPerWorker = 4    // Target chunks handed to each worker per region
	minGrain        = 1024 // Smallest chunk, in loop iterations
)

// Warm-up region size
const (
	warmupSize = 10000
)
