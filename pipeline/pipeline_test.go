package pipeline_test

import (
	"math"
	"sync"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/decomposition"
	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/pipeline"
	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/preprocessing"
	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/svm"
)

// regressionData builds correlated features with a smooth target.
func regressionData(n int) (*mat.Dense, *mat.VecDense) {
	X := mat.NewDense(n, 3, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		X.Set(i, 0, 10*t)
		X.Set(i, 1, 5*t+0.01*float64(i%3))
		X.Set(i, 2, -3*t)
		y.SetVec(i, math.Sin(2*math.Pi*t))
	}
	return X, y
}

func newTestPipeline() *pipeline.Pipeline {
	return pipeline.New(
		pipeline.Step{Name: "scaler", Estimator: preprocessing.NewStandardScalerDefault()},
		pipeline.Step{Name: "pca", Estimator: decomposition.NewPCA(0.95)},
		pipeline.Step{Name: "svr", Estimator: svm.NewSVR(
			svm.WithC(10),
			svm.WithEpsilon(0.01),
		)},
	)
}

func TestPipeline_FitPredictScore(t *testing.T) {
	X, y := regressionData(30)

	p := newTestPipeline()
	if err := p.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	pred, err := p.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if pred.Len() != 30 {
		t.Fatalf("expected 30 predictions, got %d", pred.Len())
	}

	score, err := p.Score(X, y)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score < 0.9 {
		t.Errorf("in-sample R² = %v, want >= 0.9", score)
	}
}

func TestPipeline_NotFitted(t *testing.T) {
	p := newTestPipeline()

	if _, err := p.Predict(mat.NewDense(1, 3, nil)); err == nil {
		t.Fatal("Predict before Fit should fail")
	}
	if _, err := p.Score(mat.NewDense(1, 3, nil), mat.NewVecDense(1, nil)); err == nil {
		t.Fatal("Score before Fit should fail")
	}
}

func TestPipeline_NamedStep(t *testing.T) {
	p := newTestPipeline()

	if p.NamedStep("pca") == nil {
		t.Error("NamedStep should find the pca step")
	}
	if p.NamedStep("missing") != nil {
		t.Error("NamedStep should return nil for unknown names")
	}
	if len(p.Steps()) != 3 {
		t.Errorf("Steps() returned %d steps, want 3", len(p.Steps()))
	}
}

func TestPipeline_InvalidIntermediateStep(t *testing.T) {
	p := pipeline.New(
		pipeline.Step{Name: "svr", Estimator: svm.NewSVR()},
		pipeline.Step{Name: "svr2", Estimator: svm.NewSVR()},
	)

	X, y := regressionData(10)
	if err := p.Fit(X, y); err == nil {
		t.Fatal("Fit with a non-transformer intermediate step should fail")
	}
}

func TestPipeline_NoSteps(t *testing.T) {
	p := pipeline.New()
	X, y := regressionData(5)
	if err := p.Fit(X, y); err == nil {
		t.Fatal("Fit on an empty pipeline should fail")
	}
}

// Transform statistics learned in Fit must be reused on new data instead
// of being recomputed.
func TestPipeline_TrainStatisticsReused(t *testing.T) {
	X, y := regressionData(20)

	scaler := preprocessing.NewStandardScalerDefault()
	p := pipeline.New(
		pipeline.Step{Name: "scaler", Estimator: scaler},
		pipeline.Step{Name: "svr", Estimator: svm.NewSVR(svm.WithC(10), svm.WithEpsilon(0.01))},
	)
	if err := p.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	meanBefore := make([]float64, len(scaler.Mean))
	copy(meanBefore, scaler.Mean)

	// Predicting on shifted data must not touch the fitted statistics.
	shifted := mat.NewDense(20, 3, nil)
	shifted.Copy(X)
	shifted.Set(0, 0, 1000)
	if _, err := p.Predict(shifted); err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	for i := range meanBefore {
		if scaler.Mean[i] != meanBefore[i] {
			t.Fatalf("scaler statistics changed during Predict")
		}
	}
}

// Grid search constructs candidate pipelines from multiple goroutines,
// so construction must be safe without external synchronization. Run
// with -race to verify.
func TestPipeline_ConcurrentConstruction(t *testing.T) {
	var wg sync.WaitGroup
	pipelines := make([]*pipeline.Pipeline, 16)
	for i := range pipelines {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			pipelines[slot] = newTestPipeline()
		}(i)
	}
	wg.Wait()

	for i, p := range pipelines {
		if p == nil {
			t.Fatalf("pipeline %d was not constructed", i)
		}
		if p.IsFitted() {
			t.Fatalf("fresh pipeline %d reports fitted", i)
		}
	}
}
