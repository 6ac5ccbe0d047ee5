package cmd

import (
	sim "github.com/franckbelarch/gpu-energy-modeling-and-analysis/sim"
	"github.com/franckbelarch/gpu-energy-modeling-and-analysis/sim/energy"
)

// toEnergyScenarios converts YAML scenario specs into typed what-if
// scenarios. A factor omitted in YAML means 1 (offset-only adjustment).
func toEnergyScenarios(specs []sim.ScenarioSpec) []energy.Scenario {
	scenarios := make([]energy.Scenario, 0, len(specs))
	for _, s := range specs {
		adjustments := make([]energy.Adjustment, 0, len(s.Adjustments))
		for _, a := range s.Adjustments {
			adjustments = append(adjustments, energy.Adjustment{
				Feature: a.Feature,
				Factor:  a.FactorOrDefault(),
				Offset:  a.Offset,
			})
		}
		scenarios = append(scenarios, energy.Scenario{Name: s.Name, Adjustments: adjustments})
	}
	return scenarios
}

// DefaultScenarios is the built-in what-if set used when the experiment
// spec declares none. Feature names match the collector's counters.
func DefaultScenarios() []energy.Scenario {
	return []energy.Scenario{
		{
			Name:        "reduce_sm_activity_20pct",
			Adjustments: []energy.Adjustment{{Feature: "sm_activity", Factor: 0.8}},
		},
		{
			Name:        "improve_cache_hit_rate_10pts",
			Adjustments: []energy.Adjustment{{Feature: "cache_hit_rate", Factor: 1, Offset: 0.1}},
		},
		{
			Name:        "halve_memory_throughput",
			Adjustments: []energy.Adjustment{{Feature: "memory_throughput", Factor: 0.5}},
		},
	}
}
