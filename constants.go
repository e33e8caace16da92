package nullbench

import "math"

// Default configuration values
const (
	defaultSeed    = 1
	defaultN       = 1_000_000
	defaultP       = 0.1
	defaultThreads = 8
)

// Configuration limits
const (
	maxN       = math.MaxInt32 // Null positions are indexed as uint32
	maxThreads = 1024
)

// Report layout
const (
	reportNameWidth = 30 // Kernel names are padded to this width
	reportPrecision = 6  // Significant digits for durations
)
