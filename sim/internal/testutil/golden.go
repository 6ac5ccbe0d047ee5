// Package testutil provides shared test infrastructure for the energy
// pipeline. It holds the golden dataset types and the tolerance assertion
// used by the regression tests in sim/.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase pins the trace statistics of one seeded simulation run.
// Power parameters not listed here take their defaults; NoiseFraction is
// explicit because several cases zero it to make expectations exact.
type GoldenTestCase struct {
	Name          string             `json:"name"`
	Seed          int64              `json:"seed"`
	DurationS     float64            `json:"duration_s"`
	IntervalS     float64            `json:"interval_s"`
	NoiseFraction float64            `json:"noise_fraction"`
	Pattern       string             `json:"pattern"`
	PatternParams map[string]float64 `json:"pattern_params"`
	Expected      GoldenExpectation  `json:"expected"`
}

// GoldenExpectation holds the statistics a case must reproduce. Samples is
// exact; the float fields compare within RelTol.
type GoldenExpectation struct {
	Samples    int     `json:"samples"`
	MeanPowerW float64 `json:"mean_power_w"`
	EnergyJ    float64 `json:"energy_j"`
	RelTol     float64 `json:"rel_tol"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
