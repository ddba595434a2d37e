package experiment

import (
	"gonum.org/v1/gonum/mat"

	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/modelselection"
)

// ResultRecord holds the complete outcome for one target. Records are
// built once at the end of a target's run and never mutated afterwards.
type ResultRecord struct {
	// Target is the regressed column name.
	Target string

	// BestParams is the grid-search winner refitted on the full training
	// partition.
	BestParams modelselection.Params

	// CVScore is the winning candidate's mean cross-validation R².
	CVScore float64

	// NComponents is the PCA dimensionality selected on the training
	// partition.
	NComponents int

	// Train/test metrics of the refitted pipeline.
	TrainR2   float64
	TrainRMSE float64
	TrainMAE  float64
	TestR2    float64
	TestRMSE  float64
	TestMAE   float64

	// Observed and predicted values on both partitions, in partition
	// row order.
	TrainObserved  *mat.VecDense
	TrainPredicted *mat.VecDense
	TestObserved   *mat.VecDense
	TestPredicted  *mat.VecDense

	// FeatureNames and Importances pair up feature columns with their
	// permutation importance (mean test-R² drop when the column is
	// shuffled).
	FeatureNames []string
	Importances  []float64
}

// Residuals returns observed minus predicted on the test partition.
func (r *ResultRecord) Residuals() []float64 {
	n := r.TestObserved.Len()
	residuals := make([]float64, n)
	for i := 0; i < n; i++ {
		residuals[i] = r.TestObserved.AtVec(i) - r.TestPredicted.AtVec(i)
	}
	return residuals
}
