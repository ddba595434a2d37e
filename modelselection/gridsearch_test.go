package modelselection_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/core/model"
	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/modelselection"
	qdErrors "github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/pkg/errors"
	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/svm"
)

func TestParamGrid_Candidates(t *testing.T) {
	grid := modelselection.DefaultParamGrid()
	candidates := grid.Candidates()

	if len(candidates) != 48 {
		t.Fatalf("default grid has %d candidates, want 48 (4x4x3)", len(candidates))
	}

	// 宣言順: Cが最も遅く、epsilonが最も速く変わる
	first := candidates[0]
	if first.C != 0.1 || first.Gamma != svm.GammaScale || first.Epsilon != 0.01 {
		t.Errorf("first candidate = %+v, want C=0.1 gamma=scale epsilon=0.01", first)
	}
	second := candidates[1]
	if second.C != 0.1 || second.Gamma != svm.GammaScale || second.Epsilon != 0.1 {
		t.Errorf("second candidate = %+v, want epsilon to vary fastest", second)
	}
	last := candidates[47]
	if last.C != 100 || last.Gamma != 1 || last.Epsilon != 0.5 {
		t.Errorf("last candidate = %+v, want C=100 gamma=1 epsilon=0.5", last)
	}
}

func TestParams_String(t *testing.T) {
	p := modelselection.Params{C: 10, Gamma: svm.GammaScale, Epsilon: 0.1}
	if got := p.String(); got != "C=10 gamma=scale epsilon=0.1" {
		t.Errorf("String() = %q", got)
	}
}

func TestParamGrid_Validate(t *testing.T) {
	if err := modelselection.DefaultParamGrid().Validate(); err != nil {
		t.Errorf("default grid should validate: %v", err)
	}

	bad := modelselection.ParamGrid{Cs: []float64{-1}, Gammas: []float64{1}, Epsilons: []float64{0.1}}
	if err := bad.Validate(); err == nil {
		t.Error("negative C should fail validation")
	}

	empty := modelselection.ParamGrid{Cs: nil, Gammas: []float64{1}, Epsilons: []float64{0.1}}
	if err := empty.Validate(); err == nil {
		t.Error("empty axis should fail validation")
	}
}

func svrFactory(p modelselection.Params) model.Regressor {
	return svm.NewSVR(
		svm.WithC(p.C),
		svm.WithGamma(p.Gamma),
		svm.WithEpsilon(p.Epsilon),
	)
}

func searchData(n int) (*mat.Dense, *mat.VecDense) {
	X := mat.NewDense(n, 2, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		X.Set(i, 0, t)
		X.Set(i, 1, t*t)
		y.SetVec(i, math.Sin(2*math.Pi*t))
	}
	return X, y
}

func TestGridSearchCV_Fit(t *testing.T) {
	X, y := searchData(40)

	grid := modelselection.ParamGrid{
		Cs:       []float64{1, 10},
		Gammas:   []float64{svm.GammaScale, 1},
		Epsilons: []float64{0.01, 0.1},
	}
	gs := modelselection.NewGridSearchCV(grid, 5, 42, svrFactory)
	if err := gs.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if len(gs.CVResults) != 8 {
		t.Fatalf("expected 8 candidate results, got %d", len(gs.CVResults))
	}
	if math.IsNaN(gs.BestScore) {
		t.Fatal("best score is NaN")
	}

	// 勝者は候補の中で最大の平均スコアを持つ
	for _, res := range gs.CVResults {
		if !math.IsNaN(res.MeanScore) && res.MeanScore > gs.BestScore {
			t.Errorf("candidate %s scored %v above best %v",
				res.Params, res.MeanScore, gs.BestScore)
		}
	}

	// 再学習済みの推定器で予測できる
	pred, err := gs.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if pred.Len() != 40 {
		t.Errorf("expected 40 predictions, got %d", pred.Len())
	}
}

func TestGridSearchCV_Deterministic(t *testing.T) {
	X, y := searchData(30)
	grid := modelselection.ParamGrid{
		Cs:       []float64{0.1, 1, 10},
		Gammas:   []float64{svm.GammaScale, 0.1},
		Epsilons: []float64{0.01, 0.1},
	}

	run := func() modelselection.Params {
		gs := modelselection.NewGridSearchCV(grid, 5, 42, svrFactory)
		if err := gs.Fit(X, y); err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		return gs.BestParams
	}

	if a, b := run(), run(); a != b {
		t.Errorf("same seed selected different params: %s vs %s", a, b)
	}
}

func TestGridSearchCV_InsufficientData(t *testing.T) {
	X, y := searchData(4)

	gs := modelselection.NewGridSearchCV(modelselection.DefaultParamGrid(), 5, 42, svrFactory)
	err := gs.Fit(X, y)
	if err == nil {
		t.Fatal("Fit with fewer rows than folds should fail")
	}

	var insufficient *qdErrors.InsufficientDataError
	if !qdErrors.As(err, &insufficient) {
		t.Errorf("expected InsufficientDataError, got %T: %v", err, err)
	}
}

func TestGridSearchCV_NotFitted(t *testing.T) {
	gs := modelselection.NewGridSearchCV(modelselection.DefaultParamGrid(), 5, 42, svrFactory)
	if _, err := gs.Predict(mat.NewDense(1, 2, nil)); err == nil {
		t.Fatal("Predict before Fit should fail")
	}
}

// A candidate whose folds cannot be scored must never be selected.
func TestGridSearchCV_NaNCandidateNeverWins(t *testing.T) {
	X, y := searchData(25)

	// Sabotage one epsilon value so its candidates fail to fit.
	factory := func(p modelselection.Params) model.Regressor {
		eps := p.Epsilon
		if eps == 0.5 {
			eps = -1
		}
		return svm.NewSVR(svm.WithC(p.C), svm.WithGamma(p.Gamma), svm.WithEpsilon(eps))
	}
	grid := modelselection.ParamGrid{
		Cs:       []float64{1},
		Gammas:   []float64{svm.GammaScale, 1},
		Epsilons: []float64{0.1, 0.5},
	}

	gs := modelselection.NewGridSearchCV(grid, 5, 42, factory)
	if err := gs.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if math.IsNaN(gs.BestScore) {
		t.Fatal("selected candidate has NaN score")
	}
	if gs.BestParams.Epsilon == 0.5 {
		t.Error("a candidate with failing folds was selected")
	}
	for _, res := range gs.CVResults {
		if res.Params.Epsilon == 0.5 && !math.IsNaN(res.MeanScore) {
			t.Errorf("failing candidate %s has non-NaN mean score %v", res.Params, res.MeanScore)
		}
	}
}

func TestGridSearchCV_ConstantTargetFallsBackToFirstCandidate(t *testing.T) {
	// 定数ターゲットでは全foldのR²がNaNになるが、探索は失敗せず
	// 宣言順の先頭候補で再学習する
	X, _ := searchData(25)
	y := mat.NewVecDense(25, nil)
	for i := 0; i < 25; i++ {
		y.SetVec(i, 7.0)
	}

	grid := modelselection.ParamGrid{
		Cs:       []float64{0.1, 10},
		Gammas:   []float64{svm.GammaScale, 1},
		Epsilons: []float64{0.01, 0.1},
	}
	gs := modelselection.NewGridSearchCV(grid, 5, 42, svrFactory)

	if err := gs.Fit(X, y); err != nil {
		t.Fatalf("Fit failed on constant target: %v", err)
	}
	if !math.IsNaN(gs.BestScore) {
		t.Errorf("BestScore = %v, want NaN for constant target", gs.BestScore)
	}
	want := grid.Candidates()[0]
	if gs.BestParams != want {
		t.Errorf("BestParams = %s, want first declared candidate %s", gs.BestParams, want)
	}
	for _, res := range gs.CVResults {
		if !math.IsNaN(res.MeanScore) {
			t.Errorf("candidate %s has non-NaN mean score %v", res.Params, res.MeanScore)
		}
	}

	// 再学習済みなので予測は動き、定数ターゲットの平均を返す
	pred, err := gs.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	for i := 0; i < pred.Len(); i++ {
		if math.Abs(pred.AtVec(i)-7.0) > 1e-6 {
			t.Fatalf("pred[%d] = %v, want 7.0", i, pred.AtVec(i))
		}
	}
}
