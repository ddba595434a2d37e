// Package decomposition provides principal component analysis for
// dimensionality reduction ahead of kernel regression.
package decomposition

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/core/model"
	qdErrors "github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/pkg/errors"
)

// PCA reduces feature dimensionality by projecting onto the leading
// principal components. The number of retained components is chosen as
// the smallest count whose cumulative explained variance ratio reaches
// VarianceTarget.
type PCA struct {
	model.BaseEstimator

	// VarianceTarget is the cumulative explained variance ratio to retain.
	VarianceTarget float64

	// NComponents is the number of retained components, set by Fit.
	NComponents int

	// ExplainedVarianceRatio holds the per-component variance fractions
	// for all components, in decreasing order.
	ExplainedVarianceRatio []float64

	// Mean is the per-feature training mean used for centering.
	Mean []float64

	components *mat.Dense // nFeatures x NComponents
	nFeatures  int
}

// NewPCA creates a PCA retaining enough components to explain the given
// fraction of total variance. varianceTarget must be in (0, 1].
func NewPCA(varianceTarget float64) *PCA {
	return &PCA{VarianceTarget: varianceTarget}
}

// Fit computes the principal components of X via thin SVD on the
// mean-centered data.
func (p *PCA) Fit(X mat.Matrix) (err error) {
	defer qdErrors.Recover(&err, "PCA.Fit")

	if p.VarianceTarget <= 0 || p.VarianceTarget > 1 {
		return qdErrors.NewValidationError("VarianceTarget",
			"must be in (0, 1]", p.VarianceTarget)
	}

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return qdErrors.NewModelError("PCA.Fit", "empty data", qdErrors.ErrEmptyData)
	}
	if r < 2 {
		return qdErrors.NewValueError("PCA.Fit", "need at least 2 samples")
	}
	if err := qdErrors.CheckMatrix("PCA.Fit", X, r, c); err != nil {
		return err
	}

	p.nFeatures = c
	p.Mean = make([]float64, c)
	for j := 0; j < c; j++ {
		sum := 0.0
		for i := 0; i < r; i++ {
			sum += X.At(i, j)
		}
		p.Mean[j] = sum / float64(r)
	}

	centered := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			centered.Set(i, j, X.At(i, j)-p.Mean[j])
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(centered, mat.SVDThin); !ok {
		return qdErrors.NewModelError("PCA.Fit", "SVD factorization failed",
			qdErrors.ErrSingularMatrix)
	}

	// Singular value s yields component variance s^2/(n-1).
	singular := svd.Values(nil)
	total := 0.0
	variances := make([]float64, len(singular))
	for i, s := range singular {
		variances[i] = s * s / float64(r-1)
		total += variances[i]
	}
	if total <= 0 {
		return qdErrors.NewValueError("PCA.Fit", "data has zero total variance")
	}

	p.ExplainedVarianceRatio = make([]float64, len(variances))
	for i, v := range variances {
		p.ExplainedVarianceRatio[i] = v / total
	}

	// Smallest k with cumulative ratio >= target.
	cumulative := 0.0
	p.NComponents = len(p.ExplainedVarianceRatio)
	for i, ratio := range p.ExplainedVarianceRatio {
		cumulative += ratio
		if cumulative >= p.VarianceTarget {
			p.NComponents = i + 1
			break
		}
	}

	var v mat.Dense
	svd.VTo(&v)
	p.components = mat.NewDense(c, p.NComponents, nil)
	p.components.Copy(v.Slice(0, c, 0, p.NComponents))

	p.SetFitted()
	return nil
}

// Transform projects X onto the retained components after centering with
// the training mean.
func (p *PCA) Transform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer qdErrors.Recover(&err, "PCA.Transform")

	if !p.IsFitted() {
		return nil, qdErrors.NewNotFittedError("PCA", "Transform")
	}

	r, c := X.Dims()
	if c != p.nFeatures {
		return nil, qdErrors.NewDimensionError("PCA.Transform", p.nFeatures, c, 1)
	}

	centered := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			centered.Set(i, j, X.At(i, j)-p.Mean[j])
		}
	}

	var projected mat.Dense
	projected.Mul(centered, p.components)
	return &projected, nil
}

// FitTransform fits the model and projects the same data.
func (p *PCA) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return p.Transform(X)
}

// CumulativeExplainedVariance returns the variance fraction captured by
// the retained components.
func (p *PCA) CumulativeExplainedVariance() float64 {
	sum := 0.0
	for i := 0; i < p.NComponents && i < len(p.ExplainedVarianceRatio); i++ {
		sum += p.ExplainedVarianceRatio[i]
	}
	return sum
}

// String returns a short description of the fitted model.
func (p *PCA) String() string {
	if !p.IsFitted() {
		return fmt.Sprintf("PCA(variance_target=%g, unfitted)", p.VarianceTarget)
	}
	return fmt.Sprintf("PCA(variance_target=%g, n_components=%d)", p.VarianceTarget, p.NComponents)
}
