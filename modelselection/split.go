// Package modelselection provides data splitting, k-fold cross-validation
// and exhaustive hyperparameter search for the regression workflow.
package modelselection

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	qdErrors "github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/pkg/errors"
)

// TrainTestSplit shuffles sample indices with the given seed and
// partitions them into train and test sets. The test partition holds
// ceil(nSamples * testFraction) rows.
//
// The same seed and sample count always produce the same partition.
func TrainTestSplit(nSamples int, testFraction float64, seed int64) (trainIdx, testIdx []int, err error) {
	if nSamples < 2 {
		return nil, nil, qdErrors.NewValueError("TrainTestSplit", "need at least 2 samples")
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, qdErrors.NewValidationError("testFraction",
			"must be in (0, 1)", testFraction)
	}

	nTest := int(math.Ceil(float64(nSamples) * testFraction))
	if nTest >= nSamples {
		nTest = nSamples - 1
	}

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}

	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	r.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	testIdx = make([]int, nTest)
	copy(testIdx, indices[:nTest])
	trainIdx = make([]int, nSamples-nTest)
	copy(trainIdx, indices[nTest:])

	return trainIdx, testIdx, nil
}

// TakeRows copies the given rows of X into a new matrix.
func TakeRows(X mat.Matrix, indices []int) *mat.Dense {
	_, c := X.Dims()
	out := mat.NewDense(len(indices), c, nil)
	for i, idx := range indices {
		for j := 0; j < c; j++ {
			out.Set(i, j, X.At(idx, j))
		}
	}
	return out
}

// TakeVec copies the given entries of y into a new vector.
func TakeVec(y *mat.VecDense, indices []int) *mat.VecDense {
	out := mat.NewVecDense(len(indices), nil)
	for i, idx := range indices {
		out.SetVec(i, y.AtVec(idx))
	}
	return out
}
