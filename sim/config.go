package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ExperimentSpec is the YAML description of one modeling experiment:
// trace simulation, counter collection, model fit, and what-if scenarios.
type ExperimentSpec struct {
	Seed      int64          `yaml:"seed"`
	Trace     TraceSpec      `yaml:"trace"`
	Counters  CountersSpec   `yaml:"counters"`
	Model     ModelSpec      `yaml:"model"`
	Scenarios []ScenarioSpec `yaml:"scenarios,omitempty"`
}

// TraceSpec configures the power trace simulator and its activity pattern.
type TraceSpec struct {
	DurationS     float64         `yaml:"duration_s"`
	IntervalS     float64         `yaml:"interval_s"`
	IdlePowerW    float64         `yaml:"idle_power_w"`
	NoiseFraction float64         `yaml:"noise_fraction"`
	Compute       ComponentParams `yaml:"compute"`
	Memory        ComponentParams `yaml:"memory"`
	IO            ComponentParams `yaml:"io"`
	Pattern       PatternSpec     `yaml:"pattern"`
}

// PatternSpec selects and parameterizes an activity pattern.
type PatternSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// CountersSpec configures the performance counter collector.
type CountersSpec struct {
	IntervalS          float64 `yaml:"interval_s"`
	ThroughputMinGBs   float64 `yaml:"throughput_min_gbs"`
	ThroughputMaxGBs   float64 `yaml:"throughput_max_gbs"`
	InstructionsMean   float64 `yaml:"instructions_mean"`
	InstructionsStdDev float64 `yaml:"instructions_std_dev"`
}

// ModelSpec configures the energy model fit.
type ModelSpec struct {
	Alpha float64 `yaml:"alpha"` // ridge regularization strength; 0 = plain least squares
}

// ScenarioSpec names a what-if scenario and its feature adjustments.
type ScenarioSpec struct {
	Name        string           `yaml:"name"`
	Adjustments []AdjustmentSpec `yaml:"adjustments"`
}

// AdjustmentSpec perturbs one feature: value = value*factor + offset.
// Factor is a pointer so offset-only adjustments can omit it in YAML;
// a nil factor means 1.
type AdjustmentSpec struct {
	Feature string   `yaml:"feature"`
	Factor  *float64 `yaml:"factor,omitempty"`
	Offset  float64  `yaml:"offset,omitempty"`
}

// FactorOrDefault returns the multiplicative factor, 1 when omitted.
func (a AdjustmentSpec) FactorOrDefault() float64 {
	if a.Factor == nil {
		return 1
	}
	return *a.Factor
}

// PowerParams converts the trace spec into simulator parameters.
func (t TraceSpec) PowerParams() PowerParams {
	return PowerParams{
		IdlePowerW:    t.IdlePowerW,
		NoiseFraction: t.NoiseFraction,
		Compute:       t.Compute,
		Memory:        t.Memory,
		IO:            t.IO,
	}
}

// CollectorParams converts the counters spec into collector parameters.
func (c CountersSpec) CollectorParams() CollectorParams {
	return CollectorParams{
		IntervalS:          c.IntervalS,
		ThroughputMinGBs:   c.ThroughputMinGBs,
		ThroughputMaxGBs:   c.ThroughputMaxGBs,
		InstructionsMean:   c.InstructionsMean,
		InstructionsStdDev: c.InstructionsStdDev,
	}
}

// DefaultExperimentSpec returns a runnable five-minute experiment against
// the default GPU power model.
func DefaultExperimentSpec() ExperimentSpec {
	power := DefaultPowerParams()
	counters := DefaultCollectorParams()
	return ExperimentSpec{
		Seed: 42,
		Trace: TraceSpec{
			DurationS:     300,
			IntervalS:     1,
			IdlePowerW:    power.IdlePowerW,
			NoiseFraction: power.NoiseFraction,
			Compute:       power.Compute,
			Memory:        power.Memory,
			IO:            power.IO,
			Pattern: PatternSpec{
				Type:   "sine",
				Params: map[string]float64{"mean": 0.55, "amplitude": 0.35, "cycles": 6},
			},
		},
		Counters: CountersSpec{
			IntervalS:          counters.IntervalS,
			ThroughputMinGBs:   counters.ThroughputMinGBs,
			ThroughputMaxGBs:   counters.ThroughputMaxGBs,
			InstructionsMean:   counters.InstructionsMean,
			InstructionsStdDev: counters.InstructionsStdDev,
		},
		Model: ModelSpec{Alpha: 1},
	}
}

// LoadExperimentSpec reads and parses a YAML experiment file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadExperimentSpec(path string) (*ExperimentSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading experiment spec: %w", err)
	}
	var spec ExperimentSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing experiment spec: %w", err)
	}
	return &spec, nil
}

// Validate checks the whole experiment spec.
func (s ExperimentSpec) Validate() error {
	if err := s.Trace.Validate(); err != nil {
		return fmt.Errorf("trace: %w", err)
	}
	if err := s.Counters.Validate(); err != nil {
		return fmt.Errorf("counters: %w", err)
	}
	if err := s.Model.Validate(); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	seen := make(map[string]bool, len(s.Scenarios))
	for i, sc := range s.Scenarios {
		if err := sc.Validate(); err != nil {
			return fmt.Errorf("scenario %d: %w", i, err)
		}
		if seen[sc.Name] {
			return fmt.Errorf("scenario %d: duplicate name %q", i, sc.Name)
		}
		seen[sc.Name] = true
	}
	return nil
}

// Validate checks trace timing, power parameters, and the activity pattern.
func (t TraceSpec) Validate() error {
	if t.DurationS <= 0 {
		return fmt.Errorf("duration must be > 0 s, got %v", t.DurationS)
	}
	if t.IntervalS <= 0 {
		return fmt.Errorf("interval must be > 0 s, got %v", t.IntervalS)
	}
	if err := t.PowerParams().Validate(); err != nil {
		return err
	}
	if _, err := NewActivityPattern(t.Pattern); err != nil {
		return fmt.Errorf("pattern: %w", err)
	}
	return nil
}

// Validate checks the counter collector configuration.
func (c CountersSpec) Validate() error {
	return c.CollectorParams().Validate()
}

// Validate checks the model configuration.
func (m ModelSpec) Validate() error {
	if m.Alpha < 0 {
		return fmt.Errorf("alpha must be >= 0, got %v", m.Alpha)
	}
	return nil
}

// Validate checks scenario structure. Feature names are resolved against the
// trained model at what-if time, not here.
func (s ScenarioSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name must not be empty")
	}
	if len(s.Adjustments) == 0 {
		return fmt.Errorf("scenario %q has no adjustments", s.Name)
	}
	for i, a := range s.Adjustments {
		if a.Feature == "" {
			return fmt.Errorf("scenario %q adjustment %d: feature must not be empty", s.Name, i)
		}
	}
	return nil
}
