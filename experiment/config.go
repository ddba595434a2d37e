// Package experiment drives the per-target training workflow: split,
// hyperparameter search, evaluation, reporting and plot rendering.
package experiment

import (
	"fmt"

	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/modelselection"
	qdErrors "github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/pkg/errors"
)

// Default experiment settings for the CsPbCl3 quantum-dot dataset.
const (
	DefaultSeed           int64   = 42
	DefaultTestFraction   float64 = 0.3
	DefaultCVFolds        int     = 5
	DefaultVarianceTarget float64 = 0.95
)

// DefaultTargets are the three regressed sample properties.
var DefaultTargets = []string{"size_nm", "S_abs_nm_Y1", "PL"}

// Config collects every knob of a run. Seed is the single source of
// randomness: it feeds the train/test split of every target and the
// cross-validation folds, so all targets see the same row partition.
type Config struct {
	// DataPath is the input CSV file.
	DataPath string

	// Targets are the columns to regress, processed in order. All of them
	// are excluded from the feature matrix.
	Targets []string

	// Seed drives every shuffled split in the run.
	Seed int64

	// TestFraction is the held-out share of rows per target.
	TestFraction float64

	// CVFolds is the number of cross-validation folds in the grid search.
	CVFolds int

	// VarianceTarget is the cumulative explained variance the PCA step
	// must retain.
	VarianceTarget float64

	// Grid is the SVR hyperparameter search space.
	Grid modelselection.ParamGrid

	// PlotDir receives the rendered PNGs; empty disables plotting.
	PlotDir string
}

// DefaultConfig returns the standard experiment configuration for the
// given data file.
func DefaultConfig(dataPath string) Config {
	return Config{
		DataPath:       dataPath,
		Targets:        DefaultTargets,
		Seed:           DefaultSeed,
		TestFraction:   DefaultTestFraction,
		CVFolds:        DefaultCVFolds,
		VarianceTarget: DefaultVarianceTarget,
		Grid:           modelselection.DefaultParamGrid(),
	}
}

// Validate checks every field before the run starts.
func (c Config) Validate() error {
	if c.DataPath == "" {
		return qdErrors.NewValidationError("DataPath", "must not be empty", c.DataPath)
	}
	if len(c.Targets) == 0 {
		return qdErrors.NewValidationError("Targets", "must name at least one column", c.Targets)
	}
	seen := make(map[string]bool)
	for _, target := range c.Targets {
		if target == "" {
			return qdErrors.NewValidationError("Targets", "must not contain empty names", c.Targets)
		}
		if seen[target] {
			return qdErrors.NewValidationError("Targets",
				fmt.Sprintf("duplicate target %q", target), c.Targets)
		}
		seen[target] = true
	}
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return qdErrors.NewValidationError("TestFraction", "must be in (0, 1)", c.TestFraction)
	}
	if c.CVFolds < 2 {
		return qdErrors.NewValidationError("CVFolds", "must be at least 2", c.CVFolds)
	}
	if c.VarianceTarget <= 0 || c.VarianceTarget > 1 {
		return qdErrors.NewValidationError("VarianceTarget", "must be in (0, 1]", c.VarianceTarget)
	}
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	return nil
}
