package sim

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// TrainingTable pairs counter features with total-power targets, one row per
// counter sample. Produced by BuildTrainingTable, consumed by the energy model.
type TrainingTable struct {
	FeatureNames []string
	Features     [][]float64 // one row per observation, columns in FeatureNames order
	Target       []float64   // total power, watts
	Timestamps   []float64   // counter timestamps, seconds
}

// BuildTrainingTable joins counter samples with power samples on nearest
// timestamp. Every counter row receives the total power of the closest power
// sample, so the joined table never has missing values. Ties between two
// equally distant power samples resolve to the earlier one. Power samples
// must be timestamp-ascending, which Simulate guarantees.
func BuildTrainingTable(counters []CounterSample, powers []PowerSample) (*TrainingTable, error) {
	if len(counters) == 0 {
		return nil, fmt.Errorf("cannot build training table: no counter samples")
	}
	if len(powers) == 0 {
		return nil, fmt.Errorf("cannot build training table: no power samples")
	}

	table := &TrainingTable{
		FeatureNames: CounterNames(),
		Features:     make([][]float64, len(counters)),
		Target:       make([]float64, len(counters)),
		Timestamps:   make([]float64, len(counters)),
	}
	for i, cs := range counters {
		table.Features[i] = cs.Values()
		table.Target[i] = nearestPower(powers, cs.Timestamp).TotalPower
		table.Timestamps[i] = cs.Timestamp
	}
	return table, nil
}

// nearestPower returns the power sample whose timestamp is closest to ts.
func nearestPower(powers []PowerSample, ts float64) PowerSample {
	idx := sort.Search(len(powers), func(i int) bool {
		return powers[i].Timestamp >= ts
	})
	if idx == 0 {
		return powers[0]
	}
	if idx == len(powers) {
		return powers[len(powers)-1]
	}
	before, after := powers[idx-1], powers[idx]
	if ts-before.Timestamp <= after.Timestamp-ts {
		return before
	}
	return after
}

// Rows returns the number of observations in the table.
func (t *TrainingTable) Rows() int {
	return len(t.Target)
}

// MeanFeatures returns the per-column feature means, the default baseline
// vector for what-if analysis.
func (t *TrainingTable) MeanFeatures() []float64 {
	means := make([]float64, len(t.FeatureNames))
	col := make([]float64, len(t.Features))
	for j := range means {
		for i, row := range t.Features {
			col[i] = row[j]
		}
		means[j] = stat.Mean(col, nil)
	}
	return means
}
