package experiment_test

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/experiment"
	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/modelselection"
	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/svm"
)

// writeSyntheticDataset writes a 100-row CSV with 5 numeric features, one
// 3-level categorical column and the 3 regression targets.
func writeSyntheticDataset(t *testing.T) string {
	t.Helper()

	rng := rand.New(rand.NewPCG(7, 7))
	ligands := []string{"oleic_acid", "oleylamine", "thiol"}

	var sb strings.Builder
	sb.WriteString("temp_C,time_min,Cs_conc,Pb_conc,inj_rate,ligand,size_nm,S_abs_nm_Y1,PL\n")
	for i := 0; i < 100; i++ {
		temp := 140 + rng.Float64()*80
		time := 2 + rng.Float64()*28
		cs := 0.05 + rng.Float64()*0.4
		pb := 0.05 + rng.Float64()*0.4
		inj := 0.5 + rng.Float64()*4.5
		ligand := ligands[i%3]

		// Smooth synthetic structure with a little noise.
		size := 5 + 0.04*(temp-140) + 0.08*time + rng.NormFloat64()*0.15
		abs := 390 + 1.5*size + 2*cs + rng.NormFloat64()*0.5
		pl := 0.3 + 0.25*math.Sin(size/2) + 0.1*pb + rng.NormFloat64()*0.02

		sb.WriteString(fmt.Sprintf("%.3f,%.3f,%.4f,%.4f,%.3f,%s,%.4f,%.4f,%.4f\n",
			temp, time, cs, pb, inj, ligand, size, abs, pl))
	}

	path := filepath.Join(t.TempDir(), "qd_synthesis.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o600))
	return path
}

func TestRunner_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping end-to-end run in short mode")
	}

	cfg := experiment.DefaultConfig(writeSyntheticDataset(t))
	cfg.PlotDir = filepath.Join(t.TempDir(), "plots")

	runner, err := experiment.NewRunner(cfg, nil)
	require.NoError(t, err)

	results, failures, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Empty(t, failures, "no target should fail on well-formed data")
	require.Len(t, results, 3)

	candidates := cfg.Grid.Candidates()
	assert.Len(t, candidates, 48)

	for _, target := range cfg.Targets {
		rec, ok := results[target]
		require.True(t, ok, "missing result for target %s", target)

		assert.Equal(t, target, rec.Target)

		// 70/30 split of 100 rows.
		assert.Equal(t, 70, rec.TrainObserved.Len())
		assert.Equal(t, 70, rec.TrainPredicted.Len())
		assert.Equal(t, 30, rec.TestObserved.Len())
		assert.Equal(t, 30, rec.TestPredicted.Len())

		// All six metrics are finite.
		for name, v := range map[string]float64{
			"train_r2":   rec.TrainR2,
			"train_rmse": rec.TrainRMSE,
			"train_mae":  rec.TrainMAE,
			"test_r2":    rec.TestR2,
			"test_rmse":  rec.TestRMSE,
			"test_mae":   rec.TestMAE,
		} {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0),
				"%s/%s is not finite: %v", target, name, v)
		}
		assert.GreaterOrEqual(t, rec.TrainRMSE, 0.0)
		assert.GreaterOrEqual(t, rec.TestMAE, 0.0)

		// The winner comes from the configured grid.
		found := false
		for _, c := range candidates {
			if c == rec.BestParams {
				found = true
				break
			}
		}
		assert.True(t, found, "%s: best params %s not in grid", target, rec.BestParams)

		assert.Greater(t, rec.NComponents, 0)

		// One importance per feature column, including the 3 one-hot
		// ligand columns: 5 numeric + 3 indicators = 8.
		assert.Len(t, rec.FeatureNames, 8)
		assert.Len(t, rec.Importances, 8)

		// Plots rendered for this target.
		for _, suffix := range []string{"_observed_predicted.png", "_residuals.png", "_importance.png"} {
			info, err := os.Stat(filepath.Join(cfg.PlotDir, target+suffix))
			assert.NoError(t, err, "%s: missing plot %s", target, suffix)
			if err == nil {
				assert.Positive(t, info.Size())
			}
		}
	}
}

func TestRunner_Deterministic(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping determinism run in short mode")
	}

	path := writeSyntheticDataset(t)

	run := func() map[string]modelselection.Params {
		cfg := experiment.DefaultConfig(path)
		// Trim the grid to keep the double run fast.
		cfg.Grid = modelselection.ParamGrid{
			Cs:       []float64{1, 10},
			Gammas:   []float64{svm.GammaScale, 0.1},
			Epsilons: []float64{0.1},
		}
		runner, err := experiment.NewRunner(cfg, nil)
		require.NoError(t, err)
		results, failures, err := runner.Run(context.Background())
		require.NoError(t, err)
		require.Empty(t, failures)

		chosen := make(map[string]modelselection.Params)
		for target, rec := range results {
			chosen[target] = rec.BestParams
		}
		return chosen
	}

	assert.Equal(t, run(), run(), "same seed must select the same hyperparameters")
}

func writeConstantTargetDataset(t *testing.T) string {
	t.Helper()

	rng := rand.New(rand.NewPCG(3, 3))
	var sb strings.Builder
	sb.WriteString("x1,x2,size_nm,PL\n")
	for i := 0; i < 40; i++ {
		x1 := rng.Float64() * 10
		x2 := rng.Float64() * 5
		size := 5 + 0.5*x1 + 0.2*x2 + rng.NormFloat64()*0.1
		sb.WriteString(fmt.Sprintf("%.4f,%.4f,%.4f,1.0\n", x1, x2, size))
	}
	path := filepath.Join(t.TempDir(), "constant_target.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o600))
	return path
}

func TestRunner_ConstantTargetReportsNaN(t *testing.T) {
	// A constant target makes every CV candidate's R² NaN. The target
	// still gets a ResultRecord: NaN R², finite error metrics.
	path := writeConstantTargetDataset(t)

	cfg := experiment.DefaultConfig(path)
	cfg.Targets = []string{"size_nm", "PL"}
	cfg.PlotDir = ""
	cfg.Grid = modelselection.ParamGrid{
		Cs:       []float64{1, 10},
		Gammas:   []float64{svm.GammaScale},
		Epsilons: []float64{0.1},
	}

	runner, err := experiment.NewRunner(cfg, nil)
	require.NoError(t, err)

	results, failures, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, failures, "constant target must not be fatal")
	require.Contains(t, results, "size_nm")
	require.Contains(t, results, "PL")

	pl := results["PL"]
	assert.True(t, math.IsNaN(pl.CVScore), "CV score should be NaN, got %v", pl.CVScore)
	assert.True(t, math.IsNaN(pl.TrainR2), "train R² should be NaN, got %v", pl.TrainR2)
	assert.True(t, math.IsNaN(pl.TestR2), "test R² should be NaN, got %v", pl.TestR2)
	assert.Equal(t, cfg.Grid.Candidates()[0], pl.BestParams,
		"all-NaN search should keep the first declared candidate")
	assert.False(t, math.IsNaN(pl.TestRMSE) || math.IsInf(pl.TestRMSE, 0))
	assert.False(t, math.IsNaN(pl.TestMAE) || math.IsInf(pl.TestMAE, 0))
	assert.InDelta(t, 0, pl.TestRMSE, 1e-6, "constant target is predicted exactly")

	size := results["size_nm"]
	assert.False(t, math.IsNaN(size.CVScore), "healthy target keeps a real CV score")
}

func TestRunner_TargetFailuresDoNotAbortRun(t *testing.T) {
	path := writeConstantTargetDataset(t)

	// PlotDir pointing at a regular file makes every render fail; the
	// run must still visit both targets and return without error.
	blocked := filepath.Join(t.TempDir(), "not_a_dir")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o600))

	cfg := experiment.DefaultConfig(path)
	cfg.Targets = []string{"size_nm", "PL"}
	cfg.PlotDir = filepath.Join(blocked, "plots")
	cfg.Grid = modelselection.ParamGrid{
		Cs:       []float64{1},
		Gammas:   []float64{svm.GammaScale},
		Epsilons: []float64{0.1},
	}

	runner, err := experiment.NewRunner(cfg, nil)
	require.NoError(t, err)

	results, failures, err := runner.Run(context.Background())
	require.NoError(t, err, "per-target failures must not become run errors")
	assert.Empty(t, results)
	assert.Len(t, failures, 2, "both targets should be attempted and recorded")
}

func TestNewRunner_InvalidConfig(t *testing.T) {
	cfg := experiment.DefaultConfig("")
	_, err := experiment.NewRunner(cfg, nil)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	base := experiment.DefaultConfig("data.csv")
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*experiment.Config)
	}{
		{"empty targets", func(c *experiment.Config) { c.Targets = nil }},
		{"duplicate target", func(c *experiment.Config) { c.Targets = []string{"PL", "PL"} }},
		{"bad fraction", func(c *experiment.Config) { c.TestFraction = 1.2 }},
		{"one fold", func(c *experiment.Config) { c.CVFolds = 1 }},
		{"bad variance", func(c *experiment.Config) { c.VarianceTarget = 0 }},
		{"empty grid axis", func(c *experiment.Config) { c.Grid.Cs = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := experiment.DefaultConfig("data.csv")
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
