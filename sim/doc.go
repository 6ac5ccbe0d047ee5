// Package sim generates synthetic GPU power telemetry and performance
// counter streams for energy modeling experiments.
//
// # Reading Guide
//
// Start with these three files to understand the telemetry pipeline:
//   - activity.go: Activity patterns (constant, ramp, sine, burst, random walk)
//     that drive simulated utilization
//   - power.go: The trace simulator turning an activity curve into per-component
//     power samples with Gaussian noise
//   - dataset.go: The nearest-timestamp join producing the training table the
//     energy model consumes
//
// # Architecture
//
// The sim package owns telemetry generation and tabular plumbing; modeling
// lives in sub-packages:
//   - sim/energy/: Ridge-regularized linear energy model, feature importance,
//     what-if scenario analysis
//   - sim/bench/: Synthetic benchmark workloads and efficiency accounting
//
// Supporting files in this package:
//   - counters.go: Performance counter collector (independent random draws)
//   - export.go: CSV export/import with stable column orders
//   - summary.go: Per-trace aggregate statistics
//   - config.go: YAML experiment specs with strict parsing and validation
//   - rng.go: Partitioned deterministic randomness
//
// # Determinism
//
// Nothing in this package reads ambient random state. Every stochastic
// component takes a *rand.Rand, usually obtained from a PartitionedRNG so
// that draw order in one subsystem never perturbs another. Two runs with the
// same SimulationKey and configuration produce identical traces.
package sim
