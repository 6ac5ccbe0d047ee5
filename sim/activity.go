package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// ActivityPattern generates an activity-intensity curve for a trace.
type ActivityPattern interface {
	// Generate returns n intensity values in [0, 1], one per sample.
	// rng is required by stochastic patterns and ignored by deterministic ones.
	Generate(n int, rng *rand.Rand) []float64
}

// ConstantPattern holds utilization at a fixed level.
type ConstantPattern struct {
	level float64
}

// NewConstantPattern creates a pattern pinned to the given level, clamped to [0, 1].
func NewConstantPattern(level float64) *ConstantPattern {
	return &ConstantPattern{level: clamp01(level)}
}

func (p *ConstantPattern) Generate(n int, _ *rand.Rand) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = p.level
	}
	return out
}

// RampPattern sweeps utilization linearly from start to end across the trace.
type RampPattern struct {
	start, end float64
}

func (p *RampPattern) Generate(n int, _ *rand.Rand) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = clamp01(p.start)
		return out
	}
	step := (p.end - p.start) / float64(n-1)
	for i := range out {
		out[i] = clamp01(p.start + float64(i)*step)
	}
	return out
}

// SinePattern oscillates utilization around a mean level.
type SinePattern struct {
	mean, amplitude float64
	cycles          float64
}

func (p *SinePattern) Generate(n int, _ *rand.Rand) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		phase := 2 * math.Pi * p.cycles * float64(i) / float64(n)
		out[i] = clamp01(p.mean + p.amplitude*math.Sin(phase))
	}
	return out
}

// BurstPattern alternates between a low idle level and a high burst level.
// Each of the cycles periods spends the duty fraction at the high level.
type BurstPattern struct {
	low, high float64
	cycles    float64
	duty      float64
}

func (p *BurstPattern) Generate(n int, _ *rand.Rand) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		pos := p.cycles * float64(i) / float64(n)
		if pos-math.Floor(pos) < p.duty {
			out[i] = clamp01(p.high)
		} else {
			out[i] = clamp01(p.low)
		}
	}
	return out
}

// RandomWalkPattern drifts utilization by a bounded uniform step per sample,
// clamped to [0, 1]. Requires a non-nil rng.
type RandomWalkPattern struct {
	start float64
	step  float64
}

func (p *RandomWalkPattern) Generate(n int, rng *rand.Rand) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	level := clamp01(p.start)
	for i := range out {
		out[i] = level
		delta := (rng.Float64()*2 - 1) * p.step
		level = clamp01(level + delta)
	}
	return out
}

// clamp01 bounds v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// NewActivityPattern creates an ActivityPattern from a PatternSpec.
func NewActivityPattern(spec PatternSpec) (ActivityPattern, error) {
	switch spec.Type {
	case "constant":
		if err := requireParam(spec.Params, "level"); err != nil {
			return nil, err
		}
		return NewConstantPattern(spec.Params["level"]), nil

	case "ramp":
		if err := requireParam(spec.Params, "start", "end"); err != nil {
			return nil, err
		}
		return &RampPattern{
			start: spec.Params["start"],
			end:   spec.Params["end"],
		}, nil

	case "sine":
		if err := requireParam(spec.Params, "mean", "amplitude", "cycles"); err != nil {
			return nil, err
		}
		if spec.Params["cycles"] <= 0 {
			return nil, fmt.Errorf("sine pattern requires cycles > 0, got %v", spec.Params["cycles"])
		}
		return &SinePattern{
			mean:      spec.Params["mean"],
			amplitude: spec.Params["amplitude"],
			cycles:    spec.Params["cycles"],
		}, nil

	case "burst":
		if err := requireParam(spec.Params, "low", "high", "cycles", "duty"); err != nil {
			return nil, err
		}
		if spec.Params["cycles"] <= 0 {
			return nil, fmt.Errorf("burst pattern requires cycles > 0, got %v", spec.Params["cycles"])
		}
		if d := spec.Params["duty"]; d <= 0 || d > 1 {
			return nil, fmt.Errorf("burst pattern requires duty in (0, 1], got %v", d)
		}
		return &BurstPattern{
			low:    spec.Params["low"],
			high:   spec.Params["high"],
			cycles: spec.Params["cycles"],
			duty:   spec.Params["duty"],
		}, nil

	case "random_walk":
		if err := requireParam(spec.Params, "start", "step"); err != nil {
			return nil, err
		}
		if spec.Params["step"] < 0 {
			return nil, fmt.Errorf("random_walk pattern requires step >= 0, got %v", spec.Params["step"])
		}
		return &RandomWalkPattern{
			start: spec.Params["start"],
			step:  spec.Params["step"],
		}, nil

	default:
		return nil, fmt.Errorf("unknown pattern type %q (valid: constant, ramp, sine, burst, random_walk)", spec.Type)
	}
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("pattern requires parameter %q", k)
		}
	}
	return nil
}
