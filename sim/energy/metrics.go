package energy

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// RMSE returns the root-mean-squared error of predictions against actuals.
// Empty or mismatched inputs return NaN.
func RMSE(predicted, actual []float64) float64 {
	if len(predicted) == 0 || len(predicted) != len(actual) {
		return math.NaN()
	}
	var sum float64
	for i := range predicted {
		d := predicted[i] - actual[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(predicted)))
}

// RSquared returns the coefficient of determination of predictions against
// actuals. Fewer than two samples, mismatched inputs, or a zero-variance
// target return NaN (R² is undefined there).
func RSquared(predicted, actual []float64) float64 {
	if len(predicted) < 2 || len(predicted) != len(actual) {
		return math.NaN()
	}
	if stat.Variance(actual, nil) == 0 {
		return math.NaN()
	}
	return stat.RSquaredFrom(predicted, actual, nil)
}
