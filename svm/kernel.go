// Package svm implements epsilon support vector regression with an RBF
// kernel, the workhorse estimator of the quantum-dot property models.
package svm

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// GammaScale selects the data-dependent kernel width
// 1 / (n_features * Var(X)), matching the "scale" convention.
const GammaScale float64 = -1

// rbf computes exp(-gamma * ||a - b||^2) between two rows.
func rbf(a, b []float64, gamma float64) float64 {
	dist := 0.0
	for k := range a {
		d := a[k] - b[k]
		dist += d * d
	}
	return math.Exp(-gamma * dist)
}

// resolveGamma turns the GammaScale sentinel into a concrete kernel width
// for the given training data. Zero-variance data falls back to 1/n_features.
func resolveGamma(gamma float64, X mat.Matrix) float64 {
	if gamma > 0 {
		return gamma
	}

	r, c := X.Dims()
	n := float64(r * c)

	sum := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			sum += X.At(i, j)
		}
	}
	mean := sum / n

	variance := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d := X.At(i, j) - mean
			variance += d * d
		}
	}
	variance /= n

	if variance <= 0 {
		return 1.0 / float64(c)
	}
	return 1.0 / (float64(c) * variance)
}

// kernelMatrix precomputes the symmetric dense Gram matrix over rows of X.
func kernelMatrix(rows [][]float64, gamma float64) *mat.SymDense {
	n := len(rows)
	K := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			K.SetSym(i, j, rbf(rows[i], rows[j], gamma))
		}
	}
	return K
}

// matrixRows copies a matrix into row slices for fast kernel evaluation.
func matrixRows(X mat.Matrix) [][]float64 {
	r, c := X.Dims()
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		row := make([]float64, c)
		for j := 0; j < c; j++ {
			row[j] = X.At(i, j)
		}
		rows[i] = row
	}
	return rows
}
