package experiment

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/core/model"
	qdErrors "github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/pkg/errors"
)

// scorer is the fitted estimator surface permutation importance needs.
type scorer interface {
	Score(X mat.Matrix, y *mat.VecDense) (float64, error)
}

var _ scorer = (model.Regressor)(nil)

// PermutationImportance measures each feature's contribution as the mean
// drop in R² over nRepeats shuffles of that feature column on the given
// partition. Features the model ignores score near zero; shuffling an
// informative feature degrades the score and yields a positive value.
func PermutationImportance(est scorer, X mat.Matrix, y *mat.VecDense, nRepeats int, seed int64) ([]float64, error) {
	if nRepeats < 1 {
		return nil, qdErrors.NewValidationError("nRepeats", "must be at least 1", nRepeats)
	}

	baseline, err := est.Score(X, y)
	if err != nil {
		return nil, qdErrors.Wrap(err, "scoring baseline")
	}

	r, c := X.Dims()
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

	work := mat.NewDense(r, c, nil)
	column := make([]float64, r)

	importances := make([]float64, c)
	for j := 0; j < c; j++ {
		drop := 0.0
		for rep := 0; rep < nRepeats; rep++ {
			work.Copy(X)
			for i := 0; i < r; i++ {
				column[i] = X.At(i, j)
			}
			rng.Shuffle(r, func(a, b int) {
				column[a], column[b] = column[b], column[a]
			})
			for i := 0; i < r; i++ {
				work.Set(i, j, column[i])
			}

			score, err := est.Score(work, y)
			if err != nil {
				return nil, qdErrors.Wrapf(err, "scoring with column %d permuted", j)
			}
			drop += baseline - score
		}
		importances[j] = drop / float64(nRepeats)
	}

	return importances, nil
}
