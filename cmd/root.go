package cmd

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/franckbelarch/gpu-energy-modeling-and-analysis/sim"
	"github.com/franckbelarch/gpu-energy-modeling-and-analysis/sim/energy"
)

var (
	// CLI flags shared across commands
	logLevel   string  // Log verbosity level
	configPath string  // Experiment spec YAML; built-in defaults when empty
	seed       int64   // Master seed for all random subsystems
	durationS  float64 // Trace duration (seconds)
	intervalS  float64 // Power sampling interval (seconds)
	outDir     string  // Directory for trace and counter CSVs

	// CLI flags for the root pipeline
	alpha       float64 // Ridge regularization strength
	writeConfig string  // Write the default experiment YAML here and exit
)

// rootCmd runs the full pipeline: simulate a power trace, collect counters,
// fit the energy model, and evaluate what-if scenarios.
var rootCmd = &cobra.Command{
	Use:   "gpu-energy-sim",
	Short: "Synthetic GPU power tracing and linear energy modeling",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		if writeConfig != "" {
			if err := writeDefaultConfig(writeConfig); err != nil {
				logrus.Fatalf("Failed to write default config: %v", err)
			}
			logrus.Infof("Wrote default experiment config to %s", writeConfig)
			return
		}

		spec, err := resolveSpec(cmd)
		if err != nil {
			logrus.Fatalf("Invalid experiment spec: %v", err)
		}

		arts, err := runSimulation(spec)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		if err := writeArtifacts(outDir, arts); err != nil {
			logrus.Fatalf("Failed to write artifacts: %v", err)
		}

		fmt.Print(sim.SummarizeTrace(arts.samples, spec.Trace.IntervalS))

		table, err := sim.BuildTrainingTable(arts.counters, arts.samples)
		if err != nil {
			logrus.Fatalf("Failed to build training table: %v", err)
		}

		model := energy.NewModel(spec.Model.Alpha)
		report, err := model.Train(table.FeatureNames, table.Features, table.Target,
			arts.rng.ForSubsystem(sim.SubsystemModelSplit))
		if err != nil {
			logrus.Fatalf("Failed to train energy model: %v", err)
		}
		if report.ValidationR2 < 0.5 {
			logrus.Warnf("Low validation R-squared (%.3f): the synthetic counters explain little of the power variance",
				report.ValidationR2)
		}

		printFitReport(spec.Model.Alpha, report)

		weights, err := model.FeatureImportance()
		if err != nil {
			logrus.Fatalf("Failed to rank features: %v", err)
		}
		printFeatureImportance(weights)

		scenarios := toEnergyScenarios(spec.Scenarios)
		if len(scenarios) == 0 {
			scenarios = DefaultScenarios()
		}
		results, err := model.WhatIf(table.MeanFeatures(), scenarios)
		if err != nil {
			logrus.Fatalf("What-if analysis failed: %v", err)
		}
		printScenarioResults(results)

		logrus.Info("Analysis complete.")
	},
}

// setupLogging applies the --log-level flag process-wide.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// resolveSpec builds the effective experiment spec: built-in defaults,
// overlaid by --config when given, overlaid by any explicitly set flags.
func resolveSpec(cmd *cobra.Command) (*sim.ExperimentSpec, error) {
	spec := sim.DefaultExperimentSpec()
	if configPath != "" {
		loaded, err := sim.LoadExperimentSpec(configPath)
		if err != nil {
			return nil, err
		}
		spec = *loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		spec.Seed = seed
	}
	if flags.Changed("duration") {
		spec.Trace.DurationS = durationS
	}
	if flags.Changed("interval") {
		spec.Trace.IntervalS = intervalS
	}
	if flags.Changed("alpha") {
		spec.Model.Alpha = alpha
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// artifacts bundles everything one simulation run produces.
type artifacts struct {
	samples  []sim.PowerSample
	counters []sim.CounterSample
	rng      *sim.PartitionedRNG
}

// runSimulation executes the trace simulator and counter collector for the
// spec's duration, with every subsystem drawing from its own seeded stream.
func runSimulation(spec *sim.ExperimentSpec) (*artifacts, error) {
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(spec.Seed))

	pattern, err := sim.NewActivityPattern(spec.Trace.Pattern)
	if err != nil {
		return nil, err
	}

	traceSamples := int(math.Floor(spec.Trace.DurationS / spec.Trace.IntervalS))
	activity := pattern.Generate(traceSamples, rng.ForSubsystem(sim.SubsystemActivity))

	simulator, err := sim.NewTraceSimulator(spec.Trace.PowerParams(), rng.ForSubsystem(sim.SubsystemPowerTrace))
	if err != nil {
		return nil, err
	}
	samples, err := simulator.Simulate(spec.Trace.DurationS, spec.Trace.IntervalS, activity)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Simulated %d power samples over %.1f s", len(samples), spec.Trace.DurationS)

	collector, err := sim.NewCollector(spec.Counters.CollectorParams(), rng.ForSubsystem(sim.SubsystemCounters))
	if err != nil {
		return nil, err
	}
	counterSamples := int(math.Floor(spec.Trace.DurationS / spec.Counters.IntervalS))
	counters := collector.CollectN(counterSamples)
	logrus.Infof("Collected %d counter samples", len(counters))

	return &artifacts{samples: samples, counters: counters, rng: rng}, nil
}

// writeArtifacts writes the power trace and counter CSVs under dir.
func writeArtifacts(dir string, arts *artifacts) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tracePath := filepath.Join(dir, "power_trace.csv")
	if err := sim.WritePowerTraceFile(tracePath, arts.samples); err != nil {
		return err
	}
	countersPath := filepath.Join(dir, "counters.csv")
	if err := sim.WriteCounterTraceFile(countersPath, arts.counters); err != nil {
		return err
	}

	logrus.Infof("Wrote %s and %s", tracePath, countersPath)
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Experiment spec YAML (built-in defaults when empty)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "Master seed for all random subsystems")
	rootCmd.PersistentFlags().Float64Var(&durationS, "duration", 300, "Trace duration in seconds")
	rootCmd.PersistentFlags().Float64Var(&intervalS, "interval", 1, "Power sampling interval in seconds")
	rootCmd.PersistentFlags().StringVar(&outDir, "out-dir", "results", "Directory for trace and counter CSVs")

	rootCmd.Flags().Float64Var(&alpha, "alpha", 1, "Ridge regularization strength (0 = plain least squares)")
	rootCmd.Flags().StringVar(&writeConfig, "write-config", "", "Write the default experiment YAML to this path and exit")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(benchCmd)
}
