package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/franckbelarch/gpu-energy-modeling-and-analysis/sim"
)

// simulateCmd emits the trace and counter CSVs and a summary without
// fitting a model, for feeding the artifacts into external tooling.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate a power trace and counter stream without fitting a model",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

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
	},
}
