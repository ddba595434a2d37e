// Standard attribute keys for the regression workflow. Using these keys
// keeps per-target training runs comparable in the emitted logs and makes
// filtering by target, operation, or metric trivial.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the estimator or transformer type.
	// Examples: "SVR", "StandardScaler", "PCA", "Pipeline"
	ModelNameKey = "model.name"

	// TargetKey names the target column currently being trained or evaluated.
	// One of: "size_nm", "S_abs_nm_Y1", "PL"
	TargetKey = "qd.target"

	// OperationKey specifies the machine learning operation being performed.
	// Standard values: "fit", "predict", "transform", "score", "grid_search"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "dataset", "svm", "modelselection", "visualization"
	ComponentKey = "ml.component"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) being processed.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of feature columns.
	FeaturesKey = "data.features"

	// TrainRowsKey and TestRowsKey record the partition sizes of a split.
	TrainRowsKey = "split.train_rows"
	TestRowsKey  = "split.test_rows"

	// CategoricalKey records the number of categorical columns detected.
	CategoricalKey = "data.categorical_columns"
)

// Training and Selection
const (
	// ComponentsKey records the number of principal components retained.
	ComponentsKey = "pca.components"

	// ExplainedVarianceKey records the cumulative explained variance ratio.
	ExplainedVarianceKey = "pca.explained_variance"

	// FoldsKey records the cross-validation fold count.
	FoldsKey = "cv.folds"

	// CandidatesKey records the number of hyperparameter combinations searched.
	CandidatesKey = "cv.candidates"

	// BestParamsKey contains the winning hyperparameter combination.
	BestParamsKey = "cv.best_params"

	// BestScoreKey records the winning mean validation score.
	BestScoreKey = "cv.best_score"

	// SeedKey records the random seed used for splits and shuffles.
	SeedKey = "config.random_seed"
)

// Metrics and Performance
const (
	// R2Key, RMSEKey and MAEKey record evaluation metrics.
	R2Key   = "metrics.r2"
	RMSEKey = "metrics.rmse"
	MAEKey  = "metrics.mae"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Standard attribute value constants for common operations.
const (
	OperationFit        = "fit"
	OperationPredict    = "predict"
	OperationTransform  = "transform"
	OperationScore      = "score"
	OperationGridSearch = "grid_search"
	OperationLoad       = "load"
	OperationEncode     = "encode"
	OperationPlot       = "plot"
)
