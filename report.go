package nullbench

import (
	"fmt"
	"io"
	"strings"
)

// WriteParams writes the parameter echo that precedes the results.
func WriteParams(w io.Writer, config *Config, info Info) error {
	var sb strings.Builder
	sb.WriteString("\nInput parameters:\n")
	fmt.Fprintf(&sb, "  seed     = %d\n", config.Seed)
	fmt.Fprintf(&sb, "  n        = %d\n", config.N)
	fmt.Fprintf(&sb, "  p        = %f\n", config.P)
	fmt.Fprintf(&sb, "  nthreads = %d\n", info.Threads)
	fmt.Fprintf(&sb, "  policy   = %s (%d iterations)\n", config.Policy, info.Iterations)
	fmt.Fprintf(&sb, "  nulls    = %d\n", info.Nulls)
	fmt.Fprintf(&sb, "  memory   = %.2f MB\n", float64(info.DatasetBytes)/bytesPerMegabyte)
	if info.CPU != "" {
		fmt.Fprintf(&sb, "  cpu      = %s (%d cores, %d threads)\n",
			info.CPU, info.PhysicalCores, info.LogicalCores)
	}
	fmt.Fprintf(&sb, "  simd     = %s\n", info.SIMD)
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteResults writes one line per kernel: the name padded to a fixed width,
// the mean time per iteration and, when available, the sample standard
// deviation.
func WriteResults(w io.Writer, results []Result) error {
	var sb strings.Builder
	for _, res := range results {
		fmt.Fprintf(&sb, "%-*s", reportNameWidth+2, res.Name+": ")
		if res.HasStdDev {
			fmt.Fprintf(&sb, "%.*g s,  +/- %.*g s\n",
				reportPrecision, res.Mean, reportPrecision, res.StdDev)
		} else {
			fmt.Fprintf(&sb, "%.*g s\n", reportPrecision, res.Mean)
		}
	}
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

const bytesPerMegabyte = 1024 * 1024
