package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	sim "github.com/franckbelarch/gpu-energy-modeling-and-analysis/sim"
	"github.com/franckbelarch/gpu-energy-modeling-and-analysis/sim/energy"
)

// newResolveCmd binds the shared flag variables to a fresh command so each
// test starts from default values with nothing marked as changed.
func newResolveCmd() *cobra.Command {
	c := &cobra.Command{Use: "test"}
	c.Flags().Int64Var(&seed, "seed", 42, "")
	c.Flags().Float64Var(&durationS, "duration", 300, "")
	c.Flags().Float64Var(&intervalS, "interval", 1, "")
	c.Flags().Float64Var(&alpha, "alpha", 1, "")
	return c
}

// writeSpecYAML marshals a spec into a temp file and returns its path.
func writeSpecYAML(t *testing.T, spec sim.ExperimentSpec) string {
	t.Helper()
	data, err := yaml.Marshal(spec)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "experiment.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestResolveSpec_DefaultsWhenNoConfigOrFlags(t *testing.T) {
	configPath = ""
	spec, err := resolveSpec(newResolveCmd())
	require.NoError(t, err)
	assert.Equal(t, sim.DefaultExperimentSpec(), *spec)
}

func TestResolveSpec_ConfigFileReplacesDefaults(t *testing.T) {
	// GIVEN a config file with distinctive values
	custom := sim.DefaultExperimentSpec()
	custom.Seed = 77
	custom.Trace.DurationS = 120
	custom.Model.Alpha = 2.5
	configPath = writeSpecYAML(t, custom)
	defer func() { configPath = "" }()

	// WHEN resolving without flag overrides
	spec, err := resolveSpec(newResolveCmd())

	// THEN the file governs the whole spec
	require.NoError(t, err)
	assert.Equal(t, custom, *spec)
}

func TestResolveSpec_ChangedFlagsBeatConfigFile(t *testing.T) {
	custom := sim.DefaultExperimentSpec()
	custom.Seed = 77
	custom.Trace.IntervalS = 0.5
	configPath = writeSpecYAML(t, custom)
	defer func() { configPath = "" }()

	c := newResolveCmd()
	require.NoError(t, c.Flags().Set("seed", "1001"))
	require.NoError(t, c.Flags().Set("duration", "60"))
	require.NoError(t, c.Flags().Set("alpha", "0"))

	spec, err := resolveSpec(c)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), spec.Seed)
	assert.Equal(t, 60.0, spec.Trace.DurationS)
	assert.Equal(t, 0.0, spec.Model.Alpha)
	// flags not explicitly set keep the config file's values
	assert.Equal(t, 0.5, spec.Trace.IntervalS)
}

func TestResolveSpec_InvalidOverrideRejected(t *testing.T) {
	configPath = ""
	c := newResolveCmd()
	require.NoError(t, c.Flags().Set("interval", "-1"))

	_, err := resolveSpec(c)
	assert.ErrorContains(t, err, "interval")
}

func TestResolveSpec_MissingConfigFileErrors(t *testing.T) {
	configPath = filepath.Join(t.TempDir(), "nope.yaml")
	defer func() { configPath = "" }()

	_, err := resolveSpec(newResolveCmd())
	assert.Error(t, err)
}

// TestReportPrinting_WritesBlocksToStdout verifies the report blocks appear
// on stdout, where downstream tooling expects them.
func TestReportPrinting_WritesBlocksToStdout(t *testing.T) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	printFitReport(1, &energy.FitReport{
		TrainRows: 40, ValidationRows: 10,
		TrainRMSE: 5.1, ValidationRMSE: 6.2,
		TrainR2: 0.91, ValidationR2: 0.12,
	})
	printFeatureImportance([]energy.FeatureWeight{{Feature: "sm_activity", Coefficient: 12.5}})
	printScenarioResults([]energy.ScenarioResult{{
		Scenario: "reduce_sm_activity_20pct", BaselinePowerW: 200,
		PredictedPowerW: 180, AbsoluteChangeW: -20, PercentChange: -10,
	}})

	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	output := buf.String()

	assert.Contains(t, output, "Energy Model Fit")
	assert.Contains(t, output, "Feature Importance")
	assert.Contains(t, output, "sm_activity")
	assert.Contains(t, output, "What-If Scenarios")
	assert.Contains(t, output, "reduce_sm_activity_20pct")
}
