package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// PowerSample is one row of simulated telemetry.
type PowerSample struct {
	Timestamp     float64 // elapsed seconds since trace start
	ActivityLevel float64 // dimensionless intensity driving this sample
	ComputePower  float64 // watts
	MemoryPower   float64 // watts
	IOPower       float64 // watts
	TotalPower    float64 // watts: component powers + idle floor
}

// ComponentParams describes one power component's linear response to activity.
type ComponentParams struct {
	BaseW  float64 `yaml:"base_w"`  // draw at zero activity
	ScaleW float64 `yaml:"scale_w"` // additional draw at full activity
}

// PowerParams configures the trace simulator.
//
// Per-sample noise is zero-mean Gaussian with standard deviation
// NoiseFraction * ScaleW, drawn independently for each component.
type PowerParams struct {
	IdlePowerW    float64 // board idle draw added to every sample
	NoiseFraction float64 // noise std dev as a fraction of each component's ScaleW
	Compute       ComponentParams
	Memory        ComponentParams
	IO            ComponentParams
}

// DefaultPowerParams returns parameters resembling a mid-range datacenter GPU
// with a 300 W board limit.
func DefaultPowerParams() PowerParams {
	return PowerParams{
		IdlePowerW:    45,
		NoiseFraction: 0.03,
		Compute:       ComponentParams{BaseW: 15, ScaleW: 170},
		Memory:        ComponentParams{BaseW: 10, ScaleW: 70},
		IO:            ComponentParams{BaseW: 5, ScaleW: 25},
	}
}

// Validate checks that all power parameters are physically meaningful.
func (p PowerParams) Validate() error {
	if p.IdlePowerW < 0 {
		return fmt.Errorf("idle power must be >= 0 W, got %v", p.IdlePowerW)
	}
	if p.NoiseFraction < 0 {
		return fmt.Errorf("noise fraction must be >= 0, got %v", p.NoiseFraction)
	}
	components := []struct {
		name string
		c    ComponentParams
	}{
		{"compute", p.Compute},
		{"memory", p.Memory},
		{"io", p.IO},
	}
	for _, comp := range components {
		if comp.c.BaseW < 0 {
			return fmt.Errorf("%s base power must be >= 0 W, got %v", comp.name, comp.c.BaseW)
		}
		if comp.c.ScaleW < 0 {
			return fmt.Errorf("%s scale power must be >= 0 W, got %v", comp.name, comp.c.ScaleW)
		}
	}
	return nil
}

// TraceSimulator produces synthetic power telemetry from an activity curve.
type TraceSimulator struct {
	params PowerParams
	rng    *rand.Rand
}

// NewTraceSimulator creates a simulator. The rng drives component noise and
// must not be shared with other subsystems if runs are to be reproducible.
func NewTraceSimulator(params PowerParams, rng *rand.Rand) (*TraceSimulator, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid power parameters: %w", err)
	}
	if rng == nil {
		return nil, fmt.Errorf("trace simulator requires a random source")
	}
	return &TraceSimulator{params: params, rng: rng}, nil
}

// Params returns the simulator's power parameters.
func (s *TraceSimulator) Params() PowerParams {
	return s.params
}

// Simulate produces floor(durationS/intervalS) samples at timestamps
// 0, intervalS, 2*intervalS, ... driven by the activity curve.
//
// Activity values are expected in [0, 1] but passed through unclamped; the
// caller owns the curve. An activity slice shorter than the sample count is
// a LengthMismatchError, never silently padded. Extra values are ignored.
func (s *TraceSimulator) Simulate(durationS, intervalS float64, activity []float64) ([]PowerSample, error) {
	if intervalS <= 0 {
		return nil, fmt.Errorf("sampling interval must be > 0 s, got %v", intervalS)
	}
	if durationS <= 0 {
		return nil, nil
	}
	n := int(math.Floor(durationS / intervalS))
	if n == 0 {
		return nil, nil
	}
	if len(activity) < n {
		return nil, &LengthMismatchError{Got: len(activity), Want: n}
	}

	samples := make([]PowerSample, n)
	for i := 0; i < n; i++ {
		a := activity[i]
		compute := s.componentPower(s.params.Compute, a)
		memory := s.componentPower(s.params.Memory, a)
		io := s.componentPower(s.params.IO, a)
		samples[i] = PowerSample{
			Timestamp:     float64(i) * intervalS,
			ActivityLevel: a,
			ComputePower:  compute,
			MemoryPower:   memory,
			IOPower:       io,
			TotalPower:    compute + memory + io + s.params.IdlePowerW,
		}
	}
	return samples, nil
}

// componentPower draws base + activity*scale + Gaussian noise. Negative
// draws are clamped to zero so TotalPower never dips below the idle floor.
func (s *TraceSimulator) componentPower(c ComponentParams, activity float64) float64 {
	p := c.BaseW + activity*c.ScaleW + s.rng.NormFloat64()*s.params.NoiseFraction*c.ScaleW
	return math.Max(0, p)
}

// MeanPowerAt estimates the expected total power at a fixed activity level,
// noise excluded. Used for benchmark efficiency estimates.
func (p PowerParams) MeanPowerAt(activity float64) float64 {
	total := p.IdlePowerW
	for _, c := range []ComponentParams{p.Compute, p.Memory, p.IO} {
		total += math.Max(0, c.BaseW+activity*c.ScaleW)
	}
	return total
}
