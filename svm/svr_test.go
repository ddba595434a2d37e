package svm_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	qdErrors "github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/pkg/errors"
	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/svm"
)

// sineData samples y = sin(x) on a 1-D grid.
func sineData(n int) (*mat.Dense, *mat.VecDense) {
	X := mat.NewDense(n, 1, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1) * 2 * math.Pi
		X.Set(i, 0, x)
		y.SetVec(i, math.Sin(x))
	}
	return X, y
}

func TestSVR_FitsSmoothFunction(t *testing.T) {
	X, y := sineData(25)

	model := svm.NewSVR(
		svm.WithC(10),
		svm.WithGamma(1.0),
		svm.WithEpsilon(0.01),
	)
	if err := model.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	score, err := model.Score(X, y)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score < 0.95 {
		t.Errorf("in-sample R² = %v, want >= 0.95", score)
	}

	if model.NSupportVectors() == 0 {
		t.Error("expected at least one support vector")
	}
}

func TestSVR_PredictionsWithinTube(t *testing.T) {
	X, y := sineData(20)

	eps := 0.05
	model := svm.NewSVR(
		svm.WithC(100),
		svm.WithGamma(1.0),
		svm.WithEpsilon(eps),
		svm.WithMaxIter(5000),
	)
	if err := model.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	pred, err := model.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	// With a large C the unbounded optimum keeps every training point
	// inside (or on) the epsilon tube, up to solver tolerance.
	for i := 0; i < y.Len(); i++ {
		if resid := math.Abs(pred.AtVec(i) - y.AtVec(i)); resid > eps+0.01 {
			t.Errorf("sample %d: |residual| = %v exceeds tube width %v", i, resid, eps)
		}
	}
}

func TestSVR_ConstantTarget(t *testing.T) {
	X := mat.NewDense(5, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
		7, 8,
		9, 10,
	})
	y := mat.NewVecDense(5, []float64{3, 3, 3, 3, 3})

	model := svm.NewSVR()
	if err := model.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	pred, err := model.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	for i := 0; i < pred.Len(); i++ {
		if math.Abs(pred.AtVec(i)-3.0) > 1e-10 {
			t.Errorf("pred[%d] = %v, want 3", i, pred.AtVec(i))
		}
	}
}

func TestSVR_Deterministic(t *testing.T) {
	X, y := sineData(15)

	fit := func() *mat.VecDense {
		m := svm.NewSVR(svm.WithC(1), svm.WithEpsilon(0.1))
		if err := m.Fit(X, y); err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		pred, err := m.Predict(X)
		if err != nil {
			t.Fatalf("Predict failed: %v", err)
		}
		return pred
	}

	a, b := fit(), fit()
	for i := 0; i < a.Len(); i++ {
		if a.AtVec(i) != b.AtVec(i) {
			t.Fatalf("predictions differ between identical fits at %d: %v vs %v",
				i, a.AtVec(i), b.AtVec(i))
		}
	}
}

func TestSVR_GammaScale(t *testing.T) {
	X, y := sineData(10)

	model := svm.NewSVR() // default gamma is GammaScale
	if model.Gamma() != svm.GammaScale {
		t.Fatalf("default gamma = %v, want GammaScale", model.Gamma())
	}
	if err := model.Fit(X, y); err != nil {
		t.Fatalf("Fit with scale gamma failed: %v", err)
	}
	if _, err := model.Predict(X); err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
}

func TestSVR_NotFitted(t *testing.T) {
	model := svm.NewSVR()
	_, err := model.Predict(mat.NewDense(1, 1, []float64{0}))
	if err == nil {
		t.Fatal("Predict before Fit should fail")
	}

	var notFitted *qdErrors.NotFittedError
	if !qdErrors.As(err, &notFitted) {
		t.Errorf("expected NotFittedError, got %T: %v", err, err)
	}
}

func TestSVR_DimensionMismatch(t *testing.T) {
	X, y := sineData(10)
	model := svm.NewSVR()
	if err := model.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if _, err := model.Predict(mat.NewDense(2, 3, nil)); err == nil {
		t.Fatal("Predict with wrong feature count should fail")
	}
}

func TestSVR_InvalidHyperparameters(t *testing.T) {
	X, y := sineData(5)

	if err := svm.NewSVR(svm.WithC(-1)).Fit(X, y); err == nil {
		t.Error("Fit with negative C should fail")
	}
	if err := svm.NewSVR(svm.WithEpsilon(-0.1)).Fit(X, y); err == nil {
		t.Error("Fit with negative epsilon should fail")
	}
}

func TestSVR_ConvergenceWarning(t *testing.T) {
	var captured error
	qdErrors.SetWarningHandler(func(w error) { captured = w })
	defer qdErrors.SetWarningHandler(nil)

	X, y := sineData(20)
	model := svm.NewSVR(
		svm.WithC(100),
		svm.WithEpsilon(0.001),
		svm.WithMaxIter(1),
		svm.WithTol(1e-12),
	)
	if err := model.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if captured == nil {
		t.Fatal("expected a convergence warning with MaxIter=1")
	}
	var warning *qdErrors.ConvergenceWarning
	if !qdErrors.As(captured, &warning) {
		t.Errorf("expected ConvergenceWarning, got %T: %v", captured, captured)
	}
}
