package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// CounterNames returns the performance counter names in export column order.
// BuildTrainingTable and the CSV exporters rely on this ordering.
func CounterNames() []string {
	return []string{
		"sm_activity",
		"memory_utilization",
		"cache_hit_rate",
		"instructions",
		"memory_throughput",
	}
}

// CounterSample is one row of simulated performance counters.
type CounterSample struct {
	Timestamp         float64 // elapsed seconds since collection start
	SMActivity        float64 // streaming multiprocessor activity in [0, 1]
	MemoryUtilization float64 // memory controller utilization in [0, 1]
	CacheHitRate      float64 // L2 hit rate in [0, 1]
	Instructions      float64 // instructions executed during the interval
	MemoryThroughput  float64 // GB/s
}

// Values returns the counter values in CounterNames order.
func (c CounterSample) Values() []float64 {
	return []float64{
		c.SMActivity,
		c.MemoryUtilization,
		c.CacheHitRate,
		c.Instructions,
		c.MemoryThroughput,
	}
}

// CollectorParams configures the performance counter collector.
type CollectorParams struct {
	IntervalS          float64 // spacing between consecutive samples
	ThroughputMinGBs   float64 // memory throughput band, lower edge
	ThroughputMaxGBs   float64 // memory throughput band, upper edge
	InstructionsMean   float64 // mean instructions per interval
	InstructionsStdDev float64 // spread of instructions per interval
}

// DefaultCollectorParams returns ranges plausible for a mid-range datacenter GPU.
func DefaultCollectorParams() CollectorParams {
	return CollectorParams{
		IntervalS:          1,
		ThroughputMinGBs:   50,
		ThroughputMaxGBs:   900,
		InstructionsMean:   5e9,
		InstructionsStdDev: 1.5e9,
	}
}

// Validate checks that collector parameters describe a usable sampling setup.
func (p CollectorParams) Validate() error {
	if p.IntervalS <= 0 {
		return fmt.Errorf("collector interval must be > 0 s, got %v", p.IntervalS)
	}
	if p.ThroughputMinGBs < 0 {
		return fmt.Errorf("throughput minimum must be >= 0 GB/s, got %v", p.ThroughputMinGBs)
	}
	if p.ThroughputMaxGBs < p.ThroughputMinGBs {
		return fmt.Errorf("throughput maximum %v GB/s below minimum %v GB/s", p.ThroughputMaxGBs, p.ThroughputMinGBs)
	}
	if p.InstructionsMean < 0 {
		return fmt.Errorf("instructions mean must be >= 0, got %v", p.InstructionsMean)
	}
	if p.InstructionsStdDev < 0 {
		return fmt.Errorf("instructions std dev must be >= 0, got %v", p.InstructionsStdDev)
	}
	return nil
}

// Collector produces synthetic performance counter samples.
//
// Counter values are independent draws: utilizations and hit rate uniform in
// [0, 1], throughput uniform in the configured band, instructions Gaussian
// clamped at zero. They carry no built-in correlation with any power trace;
// whatever relationship a fitted model finds comes entirely from how the
// caller pairs the two streams.
type Collector struct {
	params CollectorParams
	rng    *rand.Rand
	tick   int
}

// NewCollector creates a collector from params and a dedicated random source.
func NewCollector(params CollectorParams, rng *rand.Rand) (*Collector, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid collector parameters: %w", err)
	}
	if rng == nil {
		return nil, fmt.Errorf("collector requires a random source")
	}
	return &Collector{params: params, rng: rng}, nil
}

// Collect returns the next counter sample. Timestamps advance by IntervalS
// per call, starting at zero.
func (c *Collector) Collect() CounterSample {
	sample := CounterSample{
		Timestamp:         float64(c.tick) * c.params.IntervalS,
		SMActivity:        c.rng.Float64(),
		MemoryUtilization: c.rng.Float64(),
		CacheHitRate:      c.rng.Float64(),
		Instructions:      c.drawInstructions(),
		MemoryThroughput:  c.drawThroughput(),
	}
	c.tick++
	return sample
}

// CollectN returns n consecutive samples. n <= 0 yields an empty slice.
func (c *Collector) CollectN(n int) []CounterSample {
	if n <= 0 {
		return nil
	}
	samples := make([]CounterSample, n)
	for i := range samples {
		samples[i] = c.Collect()
	}
	return samples
}

func (c *Collector) drawInstructions() float64 {
	v := c.params.InstructionsMean + c.rng.NormFloat64()*c.params.InstructionsStdDev
	return math.Max(0, v)
}

func (c *Collector) drawThroughput() float64 {
	span := c.params.ThroughputMaxGBs - c.params.ThroughputMinGBs
	return c.params.ThroughputMinGBs + c.rng.Float64()*span
}
