package cmd

import (
	"fmt"

	"github.com/franckbelarch/gpu-energy-modeling-and-analysis/sim/bench"
	"github.com/franckbelarch/gpu-energy-modeling-and-analysis/sim/energy"
)

func printFitReport(alpha float64, report *energy.FitReport) {
	fmt.Println("=== Energy Model Fit ===")
	fmt.Printf("Alpha                : %g\n", alpha)
	fmt.Printf("Train rows           : %d\n", report.TrainRows)
	fmt.Printf("Validation rows      : %d\n", report.ValidationRows)
	fmt.Printf("Train RMSE           : %.3f W\n", report.TrainRMSE)
	fmt.Printf("Validation RMSE      : %.3f W\n", report.ValidationRMSE)
	fmt.Printf("Train R-squared      : %.4f\n", report.TrainR2)
	fmt.Printf("Validation R-squared : %.4f\n", report.ValidationR2)
}

func printFeatureImportance(weights []energy.FeatureWeight) {
	fmt.Println("=== Feature Importance ===")
	for i, w := range weights {
		fmt.Printf("%d. %-22s %+.6f\n", i+1, w.Feature, w.Coefficient)
	}
}

func printScenarioResults(results []energy.ScenarioResult) {
	if len(results) == 0 {
		return
	}
	fmt.Println("=== What-If Scenarios ===")
	fmt.Printf("Baseline power       : %.2f W\n", results[0].BaselinePowerW)
	for _, r := range results {
		fmt.Printf("%-30s %9.2f W  (%+.2f W, %+.1f%%)\n",
			r.Scenario, r.PredictedPowerW, r.AbsoluteChangeW, r.PercentChange)
	}
}

func printBenchResults(results []bench.Result, meanPowerW float64) {
	fmt.Println("=== Benchmark Results ===")
	fmt.Printf("Assumed mean power   : %.2f W\n", meanPowerW)
	for _, res := range results {
		eff := bench.AnalyzeEfficiency(res, meanPowerW)
		fmt.Printf("%-22s %14d ops  %9.4f s  %11.4g ops/s  %11.4g ops/J\n",
			res.Workload, res.Operations, res.Elapsed.Seconds(), eff.OpsPerSecond, eff.OpsPerJoule)
	}
}
