package sim

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// TraceSummary aggregates statistics over one power trace.
type TraceSummary struct {
	Samples      int
	DurationS    float64
	MeanPowerW   float64
	PeakPowerW   float64
	P95PowerW    float64
	MeanComputeW float64
	MeanMemoryW  float64
	MeanIOW      float64
	EnergyJ      float64 // total power integrated over the sampling interval
}

// SummarizeTrace computes aggregate statistics for a trace sampled at
// intervalS. Safe for empty traces (returns zero-value fields). A
// non-positive interval leaves duration and energy at zero but still
// reports the power statistics.
func SummarizeTrace(samples []PowerSample, intervalS float64) TraceSummary {
	var s TraceSummary
	if len(samples) == 0 {
		return s
	}

	totals := make([]float64, len(samples))
	var computeSum, memorySum, ioSum float64
	for i, ps := range samples {
		totals[i] = ps.TotalPower
		computeSum += ps.ComputePower
		memorySum += ps.MemoryPower
		ioSum += ps.IOPower
		if ps.TotalPower > s.PeakPowerW {
			s.PeakPowerW = ps.TotalPower
		}
	}

	n := float64(len(samples))
	s.Samples = len(samples)
	s.MeanPowerW = stat.Mean(totals, nil)
	s.MeanComputeW = computeSum / n
	s.MeanMemoryW = memorySum / n
	s.MeanIOW = ioSum / n

	sorted := append([]float64(nil), totals...)
	sort.Float64s(sorted)
	s.P95PowerW = stat.Quantile(0.95, stat.Empirical, sorted, nil)

	if intervalS > 0 {
		s.DurationS = n * intervalS
		s.EnergyJ = s.MeanPowerW * s.DurationS
	}
	return s
}

// String renders the summary as the fixed-width block printed by the CLI.
func (s TraceSummary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Power Trace Summary\n")
	fmt.Fprintf(&b, "  Samples:      %d\n", s.Samples)
	fmt.Fprintf(&b, "  Duration:     %.1f s\n", s.DurationS)
	fmt.Fprintf(&b, "  Mean power:   %.2f W\n", s.MeanPowerW)
	fmt.Fprintf(&b, "  Peak power:   %.2f W\n", s.PeakPowerW)
	fmt.Fprintf(&b, "  P95 power:    %.2f W\n", s.P95PowerW)
	fmt.Fprintf(&b, "  Mean compute: %.2f W\n", s.MeanComputeW)
	fmt.Fprintf(&b, "  Mean memory:  %.2f W\n", s.MeanMemoryW)
	fmt.Fprintf(&b, "  Mean I/O:     %.2f W\n", s.MeanIOW)
	fmt.Fprintf(&b, "  Energy:       %.1f J\n", s.EnergyJ)
	return b.String()
}
