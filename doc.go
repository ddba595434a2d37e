// Package qdml trains regression models for CsPbCl3 quantum-dot sample
// properties from synthesis spreadsheets.
//
// For each configured target column (particle size, first absorption
// wavelength, photoluminescence intensity) the workflow performs a seeded
// 70/30 train/test split, fits a StandardScaler → PCA → RBF-kernel
// epsilon-SVR pipeline, tunes the SVR with an exhaustive 5-fold
// cross-validated grid search scored by mean R², and reports train and
// test R²/RMSE/MAE alongside diagnostic charts.
//
// # Quick Start
//
// Run the bundled command against a synthesis CSV:
//
//	go run ./cmd/qdtrain -data qd_synthesis.csv -plots plots
//
// Or drive the workflow from code:
//
//	cfg := experiment.DefaultConfig("qd_synthesis.csv")
//	runner, err := experiment.NewRunner(cfg, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	results, failures, err := runner.Run(context.Background())
//
// # Packages
//
//   - dataset: CSV loading, categorical detection, one-hot encoding
//   - preprocessing: StandardScaler and OneHotEncoder
//   - decomposition: PCA with explained-variance component selection
//   - svm: epsilon support vector regression with an RBF kernel
//   - pipeline: transformer/regressor chaining
//   - modelselection: train/test split, k-fold CV, grid search
//   - metrics: R², RMSE, MAE, MSE
//   - experiment: configuration, per-target runner, result records
//   - visualization: PNG charts of predictions, residuals and importances
package qdml
