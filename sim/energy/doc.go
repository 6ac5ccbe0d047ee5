// Package energy fits and interrogates linear models of GPU power draw.
//
// A Model maps performance-counter features to total power with a
// ridge-regularized least-squares fit (model.go), reports per-feature
// influence (FeatureImportance), and answers counterfactual questions about
// hypothetical feature changes (whatif.go). Fit quality is scored by RMSE
// and R² on an 80/20 train/validation split.
//
// Error types in errors.go describe every failure mode; callers match them
// with errors.As. A failed Train never disturbs previously fitted state.
package energy
