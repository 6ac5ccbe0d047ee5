package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	sim "github.com/franckbelarch/gpu-energy-modeling-and-analysis/sim"
)

// writeDefaultConfig renders the built-in experiment spec as YAML so users
// can start from a complete, valid file instead of writing one from scratch.
// The emitted file round-trips through the strict loader unchanged.
func writeDefaultConfig(path string) error {
	spec := sim.DefaultExperimentSpec()
	data, err := yaml.Marshal(spec)
	if err != nil {
		return fmt.Errorf("marshaling default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
