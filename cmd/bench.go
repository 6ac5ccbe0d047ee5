package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/franckbelarch/gpu-energy-modeling-and-analysis/sim/bench"
)

var benchActivity float64 // Assumed GPU activity level for the energy estimate

// benchCmd runs the synthetic workload suite and prices each workload's
// throughput against the simulated mean power at the assumed activity level.
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run synthetic workloads and report throughput and energy efficiency",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		if benchActivity < 0 || benchActivity > 1 {
			logrus.Fatalf("Activity level must be in [0, 1], got %v", benchActivity)
		}

		spec, err := resolveSpec(cmd)
		if err != nil {
			logrus.Fatalf("Invalid experiment spec: %v", err)
		}
		meanPower := spec.Trace.PowerParams().MeanPowerAt(benchActivity)

		workloads := bench.DefaultWorkloads()
		logrus.Infof("Running %d workloads at assumed activity %.2f (%.2f W)",
			len(workloads), benchActivity, meanPower)

		results := bench.RunAll(workloads)
		printBenchResults(results, meanPower)
	},
}

func init() {
	benchCmd.Flags().Float64Var(&benchActivity, "activity", 0.7, "Assumed activity level in [0, 1] for the energy estimate")
}
