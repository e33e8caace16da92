package harness

// Iteration counts per policy
const (
	defaultPerIterationIterations = 100 // One timestamp per call
	defaultAggregateIterations    = 10  // One timestamp around all calls
)

// Sample standard deviation needs N-1 > 0.
const minSamplesForStdDev = 2
