package sim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeTrace_EmptyTrace_ReturnsZeroSummary(t *testing.T) {
	s := SummarizeTrace(nil, 1)
	assert.Equal(t, TraceSummary{}, s)
}

func TestSummarizeTrace_KnownTrace(t *testing.T) {
	samples := []PowerSample{
		{Timestamp: 0, ComputePower: 10, MemoryPower: 4, IOPower: 2, TotalPower: 100},
		{Timestamp: 1, ComputePower: 20, MemoryPower: 8, IOPower: 4, TotalPower: 200},
		{Timestamp: 2, ComputePower: 30, MemoryPower: 12, IOPower: 6, TotalPower: 300},
		{Timestamp: 3, ComputePower: 40, MemoryPower: 16, IOPower: 8, TotalPower: 400},
	}

	s := SummarizeTrace(samples, 1)

	assert.Equal(t, 4, s.Samples)
	assert.InDelta(t, 4.0, s.DurationS, 1e-12)
	assert.InDelta(t, 250, s.MeanPowerW, 1e-12)
	assert.InDelta(t, 400, s.PeakPowerW, 1e-12)
	assert.InDelta(t, 25, s.MeanComputeW, 1e-12)
	assert.InDelta(t, 10, s.MeanMemoryW, 1e-12)
	assert.InDelta(t, 5, s.MeanIOW, 1e-12)
	assert.InDelta(t, 1000, s.EnergyJ, 1e-9, "energy = mean power * duration")
}

func TestSummarizeTrace_P95FromEmpiricalDistribution(t *testing.T) {
	samples := make([]PowerSample, 100)
	for i := range samples {
		samples[i] = PowerSample{Timestamp: float64(i), TotalPower: float64(i + 1)}
	}

	s := SummarizeTrace(samples, 1)
	assert.InDelta(t, 95, s.P95PowerW, 1e-12)
}

func TestSummarizeTrace_EnergyScalesWithInterval(t *testing.T) {
	// GIVEN a constant 100 W trace of 10 samples at 0.5 s spacing
	samples := make([]PowerSample, 10)
	for i := range samples {
		samples[i] = PowerSample{Timestamp: float64(i) * 0.5, TotalPower: 100}
	}

	// WHEN summarizing
	s := SummarizeTrace(samples, 0.5)

	// THEN energy covers 5 seconds at 100 W
	assert.InDelta(t, 500, s.EnergyJ, 1e-9)
	assert.InDelta(t, 5, s.DurationS, 1e-12)
}

func TestSummarizeTrace_NonPositiveInterval_SkipsEnergyAndDuration(t *testing.T) {
	samples := []PowerSample{{TotalPower: 100}, {TotalPower: 200}}

	s := SummarizeTrace(samples, 0)

	assert.Equal(t, 2, s.Samples)
	assert.InDelta(t, 150, s.MeanPowerW, 1e-12)
	assert.Equal(t, 0.0, s.DurationS)
	assert.Equal(t, 0.0, s.EnergyJ)
}

func TestSummarizeTrace_FromSimulatedTrace(t *testing.T) {
	sim := newTestSimulator(t, DefaultPowerParams(), 42)
	samples, err := sim.Simulate(600, 1, NewConstantPattern(0.5).Generate(600, nil))
	require.NoError(t, err)

	s := SummarizeTrace(samples, 1)

	// Mean should sit near the noiseless model value for 0.5 activity
	want := DefaultPowerParams().MeanPowerAt(0.5)
	assert.InDelta(t, want, s.MeanPowerW, want*0.02)
	assert.GreaterOrEqual(t, s.PeakPowerW, s.MeanPowerW)
	assert.GreaterOrEqual(t, s.PeakPowerW, s.P95PowerW)
}

func TestTraceSummary_StringIncludesKeyFields(t *testing.T) {
	s := SummarizeTrace([]PowerSample{{TotalPower: 123.456}}, 1)
	out := s.String()

	for _, want := range []string{"Samples", "Mean power", "Peak power", "P95 power", "Energy"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary output missing %q:\n%s", want, out)
		}
	}
}
