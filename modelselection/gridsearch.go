package modelselection

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/core/model"
	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/core/parallel"
	qdErrors "github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/pkg/errors"
	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/pkg/log"
)

// EstimatorFactory builds a fresh, unfitted estimator for a candidate.
// Grid search never reuses a fitted estimator across folds or candidates.
type EstimatorFactory func(Params) model.Regressor

// CandidateResult records the cross-validation outcome of one candidate.
type CandidateResult struct {
	Params     Params
	FoldScores []float64
	MeanScore  float64 // NaN when any fold failed or scored NaN
}

// GridSearchCV exhaustively evaluates a hyperparameter grid with k-fold
// cross-validation scored by mean R², then refits the best candidate on
// the full training data.
//
// Candidates are evaluated concurrently, but each result lands in its own
// slot and the winner is picked by a sequential scan, so the selection is
// identical regardless of parallelism. On exact ties the earlier
// candidate in grid declaration order wins.
//
// When every candidate scores NaN (a degenerate target whose R² is
// undefined), Fit refits the first candidate in declaration order and
// reports BestScore as NaN instead of failing.
type GridSearchCV struct {
	Grid    ParamGrid
	Folds   int
	Seed    int64
	Factory EstimatorFactory

	// Fitted results
	BestParams    Params
	BestScore     float64
	BestEstimator model.Regressor
	CVResults     []CandidateResult

	logger log.Logger
	fitted bool
}

// NewGridSearchCV creates a grid search over the given grid with
// nFolds-fold cross-validation.
func NewGridSearchCV(grid ParamGrid, nFolds int, seed int64, factory EstimatorFactory) *GridSearchCV {
	return &GridSearchCV{
		Grid:    grid,
		Folds:   nFolds,
		Seed:    seed,
		Factory: factory,
	}
}

// SetLogger attaches a logger for per-candidate progress reporting.
func (gs *GridSearchCV) SetLogger(logger log.Logger) {
	gs.logger = logger
}

// Fit runs the search on the training partition.
func (gs *GridSearchCV) Fit(X mat.Matrix, y *mat.VecDense) (err error) {
	defer qdErrors.Recover(&err, "GridSearchCV.Fit")

	if err := gs.Grid.Validate(); err != nil {
		return err
	}
	if gs.Factory == nil {
		return qdErrors.NewValueError("GridSearchCV.Fit", "estimator factory is nil")
	}

	r, _ := X.Dims()
	if y.Len() != r {
		return qdErrors.NewDimensionError("GridSearchCV.Fit", r, y.Len(), 0)
	}
	if r < gs.Folds {
		return qdErrors.NewInsufficientDataError("GridSearchCV.Fit", r, gs.Folds)
	}

	kfold := NewKFold(gs.Folds, true, gs.Seed)
	folds := kfold.Split(r)

	candidates := gs.Grid.Candidates()
	results := make([]CandidateResult, len(candidates))

	parallel.Parallelize(len(candidates), func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = gs.evaluate(candidates[i], X, y, folds)
		}
	})
	gs.CVResults = results

	// 逐次argmax: 同点は先に宣言された候補が勝つ
	bestIdx := -1
	bestScore := math.Inf(-1)
	for i, res := range results {
		if math.IsNaN(res.MeanScore) {
			continue
		}
		if res.MeanScore > bestScore {
			bestScore = res.MeanScore
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		// 全候補がNaN（定数ターゲットなどR²が未定義）の場合は宣言順の
		// 先頭候補で再学習し、スコアはNaNのまま報告する
		bestIdx = 0
		if gs.logger != nil {
			gs.logger.Warn("all candidates scored NaN, falling back to first candidate",
				log.CandidatesKey, len(candidates),
			)
		}
	}

	gs.BestParams = results[bestIdx].Params
	gs.BestScore = results[bestIdx].MeanScore

	if gs.logger != nil {
		gs.logger.Info("grid search complete",
			log.CandidatesKey, len(candidates),
			log.BestParamsKey, gs.BestParams.String(),
			log.BestScoreKey, gs.BestScore,
		)
	}

	// 勝者をフルの訓練データで再学習
	gs.BestEstimator = gs.Factory(gs.BestParams)
	if err := gs.BestEstimator.Fit(X, y); err != nil {
		return qdErrors.Wrap(err, "refitting best candidate")
	}

	gs.fitted = true
	return nil
}

// evaluate cross-validates one candidate. Any fold failure poisons the
// candidate's mean score with NaN so it never beats a valid candidate.
func (gs *GridSearchCV) evaluate(params Params, X mat.Matrix, y *mat.VecDense, folds []CVFold) CandidateResult {
	result := CandidateResult{
		Params:     params,
		FoldScores: make([]float64, len(folds)),
	}

	sum := 0.0
	valid := true
	for k, fold := range folds {
		est := gs.Factory(params)

		XTrain := TakeRows(X, fold.TrainIndices)
		yTrain := TakeVec(y, fold.TrainIndices)
		XVal := TakeRows(X, fold.TestIndices)
		yVal := TakeVec(y, fold.TestIndices)

		score := math.NaN()
		if err := est.Fit(XTrain, yTrain); err == nil {
			if s, err := est.Score(XVal, yVal); err == nil {
				score = s
			}
		}

		result.FoldScores[k] = score
		if math.IsNaN(score) {
			valid = false
			continue
		}
		sum += score
	}

	if valid {
		result.MeanScore = sum / float64(len(folds))
	} else {
		result.MeanScore = math.NaN()
	}
	return result
}

// Predict delegates to the refitted best estimator.
func (gs *GridSearchCV) Predict(X mat.Matrix) (*mat.VecDense, error) {
	if !gs.fitted {
		return nil, qdErrors.NewNotFittedError("GridSearchCV", "Predict")
	}
	return gs.BestEstimator.Predict(X)
}

// Score delegates to the refitted best estimator.
func (gs *GridSearchCV) Score(X mat.Matrix, y *mat.VecDense) (float64, error) {
	if !gs.fitted {
		return 0, qdErrors.NewNotFittedError("GridSearchCV", "Score")
	}
	return gs.BestEstimator.Score(X, y)
}
