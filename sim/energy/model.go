package energy

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// svdCutoff is the singular-value threshold below which directions are
// treated as degenerate in the pseudo-inverse fallback.
const svdCutoff = 1e-12

// FitReport carries fit quality metrics for the train and validation subsets.
type FitReport struct {
	TrainRows      int
	ValidationRows int
	TrainRMSE      float64
	ValidationRMSE float64
	TrainR2        float64
	ValidationR2   float64
}

// FeatureWeight pairs a feature name with its fitted (signed) coefficient.
type FeatureWeight struct {
	Feature     string
	Coefficient float64
}

// Model is a ridge-regularized linear regression from counter features to
// total power. It is constructed untrained; Train fits coefficients and
// fixes the feature ordering; Predict, FeatureImportance, and WhatIf require
// a trained model and return NotTrainedError otherwise.
//
// Train is the only mutating operation. Once it has returned, concurrent
// read-only use is safe; retraining concurrently with reads needs external
// synchronization.
type Model struct {
	alpha     float64
	features  []string
	coeffs    []float64
	intercept float64
	trained   bool
}

// NewModel creates an untrained model. alpha is the L2 penalty strength;
// negative values clamp to 0, which reduces the fit to plain least squares.
func NewModel(alpha float64) *Model {
	if alpha < 0 {
		alpha = 0
	}
	return &Model{alpha: alpha}
}

// Alpha returns the regularization strength.
func (m *Model) Alpha() float64 {
	return m.alpha
}

// Trained reports whether a Train call has completed successfully.
func (m *Model) Trained() bool {
	return m.trained
}

// Features returns a copy of the feature ordering fixed at train time.
// Nil before training.
func (m *Model) Features() []string {
	if !m.trained {
		return nil
	}
	return append([]string(nil), m.features...)
}

// Intercept returns the fitted intercept. Zero before training.
func (m *Model) Intercept() float64 {
	return m.intercept
}

// Train fits the model to features (one row per observation, columns in
// featureNames order) against target.
//
// Rows are split 80/20 into train and validation subsets; validation gets at
// least one row. A non-nil rng shuffles the rows before splitting; a nil rng
// keeps input order (first 80% train, last 20% validation), which makes the
// reported metrics reproducible from the inputs alone.
//
// Returns InsufficientDataError when fewer than len(featureNames)+2 rows are
// supplied or a feature column has zero variance. On any error the model's
// prior state is left untouched; on success prior coefficients are fully
// replaced, so retraining is idempotent for identical inputs and rng state.
func (m *Model) Train(featureNames []string, features [][]float64, target []float64, rng *rand.Rand) (*FitReport, error) {
	f := len(featureNames)
	if f < 1 {
		return nil, fmt.Errorf("at least one feature is required")
	}
	seen := make(map[string]bool, f)
	for _, name := range featureNames {
		if name == "" {
			return nil, fmt.Errorf("feature names must not be empty")
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate feature name %q", name)
		}
		seen[name] = true
	}

	n := len(features)
	if len(target) != n {
		return nil, fmt.Errorf("features have %d rows but target has %d values", n, len(target))
	}
	if n < f+2 {
		return nil, &InsufficientDataError{
			Rows:     n,
			Features: f,
			Reason:   fmt.Sprintf("need at least %d rows to fit and validate %d features", f+2, f),
		}
	}
	for i, row := range features {
		if len(row) != f {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i, len(row), f)
		}
		for j, v := range row {
			if !isFinite(v) {
				return nil, fmt.Errorf("row %d feature %q is not finite: %v", i, featureNames[j], v)
			}
		}
	}
	for i, v := range target {
		if !isFinite(v) {
			return nil, fmt.Errorf("target row %d is not finite: %v", i, v)
		}
	}

	col := make([]float64, n)
	for j := 0; j < f; j++ {
		for i := range features {
			col[i] = features[i][j]
		}
		if stat.Variance(col, nil) == 0 {
			return nil, &InsufficientDataError{
				Rows:     n,
				Features: f,
				Reason:   fmt.Sprintf("feature %q has zero variance", featureNames[j]),
			}
		}
	}

	valRows := n / 5
	if valRows < 1 {
		valRows = 1
	}
	trainRows := n - valRows

	order := make([]int, n)
	if rng != nil {
		copy(order, rng.Perm(n))
	} else {
		for i := range order {
			order[i] = i
		}
	}

	trainX, trainY := gatherRows(features, target, order[:trainRows])
	valX, valY := gatherRows(features, target, order[trainRows:])

	coeffs, intercept, err := fitRidge(trainX, trainY, m.alpha)
	if err != nil {
		return nil, fmt.Errorf("fitting energy model: %w", err)
	}

	trainPred := predictRows(coeffs, intercept, trainX)
	valPred := predictRows(coeffs, intercept, valX)
	report := &FitReport{
		TrainRows:      trainRows,
		ValidationRows: valRows,
		TrainRMSE:      RMSE(trainPred, trainY),
		ValidationRMSE: RMSE(valPred, valY),
		TrainR2:        RSquared(trainPred, trainY),
		ValidationR2:   RSquared(valPred, valY),
	}

	m.features = append([]string(nil), featureNames...)
	m.coeffs = coeffs
	m.intercept = intercept
	m.trained = true
	return report, nil
}

// Predict returns one power prediction per feature row:
// intercept + sum(coefficient_j * feature_j).
func (m *Model) Predict(features [][]float64) ([]float64, error) {
	if !m.trained {
		return nil, &NotTrainedError{Op: "predict"}
	}
	for _, row := range features {
		if len(row) != len(m.features) {
			return nil, &ShapeMismatchError{Got: len(row), Want: len(m.features)}
		}
	}
	return predictRows(m.coeffs, m.intercept, features), nil
}

// PredictOne predicts power for a single feature vector.
func (m *Model) PredictOne(features []float64) (float64, error) {
	out, err := m.Predict([][]float64{features})
	if err != nil {
		return 0, err
	}
	return out[0], nil
}

// FeatureImportance returns the fitted coefficient per feature, ordered by
// coefficient magnitude descending. Equal magnitudes order by feature name
// so the ranking is deterministic.
func (m *Model) FeatureImportance() ([]FeatureWeight, error) {
	if !m.trained {
		return nil, &NotTrainedError{Op: "feature_importance"}
	}
	weights := make([]FeatureWeight, len(m.features))
	for i, name := range m.features {
		weights[i] = FeatureWeight{Feature: name, Coefficient: m.coeffs[i]}
	}
	sort.Slice(weights, func(i, j int) bool {
		mi, mj := math.Abs(weights[i].Coefficient), math.Abs(weights[j].Coefficient)
		if mi != mj {
			return mi > mj
		}
		return weights[i].Feature < weights[j].Feature
	})
	return weights, nil
}

// gatherRows collects the feature rows and target values at the given indices.
func gatherRows(features [][]float64, target []float64, idx []int) ([][]float64, []float64) {
	x := make([][]float64, len(idx))
	y := make([]float64, len(idx))
	for i, k := range idx {
		x[i] = features[k]
		y[i] = target[k]
	}
	return x, y
}

// predictRows evaluates intercept + X*coeffs for each row.
func predictRows(coeffs []float64, intercept float64, rows [][]float64) []float64 {
	out := make([]float64, len(rows))
	if len(rows) == 0 {
		return out
	}
	f := len(coeffs)
	x := mat.NewDense(len(rows), f, nil)
	for i, row := range rows {
		x.SetRow(i, row)
	}
	var pred mat.VecDense
	pred.MulVec(x, mat.NewVecDense(f, coeffs))
	for i := range out {
		out[i] = intercept + pred.AtVec(i)
	}
	return out
}

// fitRidge solves the penalized normal equations for rows/target with an
// unpenalized intercept column. The L2 penalty applies to feature
// coefficients only. When the normal-equations matrix is too degenerate for
// a Cholesky factorization (possible at alpha 0 with collinear features),
// the fit falls back to a thin-SVD pseudo-inverse of the design matrix.
func fitRidge(rows [][]float64, target []float64, alpha float64) (coeffs []float64, intercept float64, err error) {
	n := len(rows)
	f := len(rows[0])
	p := f + 1 // intercept column plus features

	x := mat.NewDense(n, p, nil)
	for i, row := range rows {
		x.Set(i, 0, 1)
		for j, v := range row {
			x.Set(i, j+1, v)
		}
	}
	y := mat.NewVecDense(n, append([]float64(nil), target...))

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for j := 1; j < p; j++ {
		xtx.Set(j, j, xtx.At(j, j)+alpha)
	}
	sym := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := 0; j <= i; j++ {
			sym.SetSym(i, j, xtx.At(i, j))
		}
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	var beta mat.VecDense
	var chol mat.Cholesky
	if chol.Factorize(sym) {
		if solveErr := chol.SolveVecTo(&beta, &xty); solveErr == nil {
			return splitBeta(&beta)
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return nil, 0, fmt.Errorf("design matrix factorization failed")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	var uty mat.VecDense
	uty.MulVec(u.T(), y)
	for i := 0; i < len(values); i++ {
		if values[i] > svdCutoff {
			uty.SetVec(i, uty.AtVec(i)/values[i])
		} else {
			uty.SetVec(i, 0)
		}
	}
	beta.MulVec(&v, &uty)
	return splitBeta(&beta)
}

// splitBeta separates the intercept (leading element) from the coefficients.
func splitBeta(beta *mat.VecDense) ([]float64, float64, error) {
	p := beta.Len()
	coeffs := make([]float64, p-1)
	for j := 1; j < p; j++ {
		coeffs[j-1] = beta.AtVec(j)
	}
	return coeffs, beta.AtVec(0), nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
