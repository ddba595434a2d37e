package experiment

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/core/model"
	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/dataset"
	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/decomposition"
	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/metrics"
	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/modelselection"
	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/pipeline"
	qdErrors "github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/pkg/errors"
	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/pkg/log"
	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/preprocessing"
	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/svm"
	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/visualization"
)

// permutationRepeats is the number of column shuffles averaged per
// feature in the importance chart.
const permutationRepeats = 10

// Runner executes the full experiment: one split + grid search +
// evaluation per configured target.
type Runner struct {
	config Config
	logger log.Logger
}

// NewRunner validates the configuration and builds a runner.
func NewRunner(config Config, provider log.LoggerProvider) (*Runner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if provider == nil {
		provider = log.NewZerologProvider(log.LevelInfo)
	}
	return &Runner{
		config: config,
		logger: provider.GetLoggerWithName("Runner"),
	}, nil
}

// Run trains every configured target in order. A failing target is
// recorded in the error map and does not abort the remaining targets.
// The returned result map is complete for every target that succeeded.
func (r *Runner) Run(ctx context.Context) (map[string]ResultRecord, map[string]error, error) {
	table, err := dataset.Load(r.config.DataPath, r.config.Targets)
	if err != nil {
		return nil, nil, err
	}
	encoded, err := table.Encode()
	if err != nil {
		return nil, nil, err
	}

	r.logger.Info("dataset loaded",
		log.SamplesKey, encoded.NRows,
		log.FeaturesKey, len(encoded.FeatureNames()),
		log.SeedKey, r.config.Seed,
	)

	results := make(map[string]ResultRecord, len(r.config.Targets))
	failures := make(map[string]error)

	for _, target := range r.config.Targets {
		select {
		case <-ctx.Done():
			return results, failures, ctx.Err()
		default:
		}

		started := time.Now()
		record, err := r.runTarget(encoded, target)
		if err != nil {
			r.logger.Error("target failed",
				log.TargetKey, target,
				log.ErrAttrKey, err,
			)
			failures[target] = err
			continue
		}

		results[target] = *record
		r.logger.Info("target complete",
			log.TargetKey, target,
			log.BestParamsKey, record.BestParams.String(),
			log.R2Key, record.TestR2,
			log.RMSEKey, record.TestRMSE,
			log.MAEKey, record.TestMAE,
			log.DurationMsKey, time.Since(started).Milliseconds(),
		)
	}

	return results, failures, nil
}

// runTarget executes split, grid search, evaluation and plotting for one
// target column.
func (r *Runner) runTarget(table *dataset.Table, target string) (*ResultRecord, error) {
	X, y, err := table.Features(target)
	if err != nil {
		return nil, err
	}
	nSamples, _ := X.Dims()

	trainIdx, testIdx, err := modelselection.TrainTestSplit(nSamples, r.config.TestFraction, r.config.Seed)
	if err != nil {
		return nil, err
	}

	XTrain := modelselection.TakeRows(X, trainIdx)
	yTrain := modelselection.TakeVec(y, trainIdx)
	XTest := modelselection.TakeRows(X, testIdx)
	yTest := modelselection.TakeVec(y, testIdx)

	r.logger.Info("partitioned",
		log.TargetKey, target,
		log.TrainRowsKey, len(trainIdx),
		log.TestRowsKey, len(testIdx),
	)

	varianceTarget := r.config.VarianceTarget
	factory := func(p modelselection.Params) model.Regressor {
		return pipeline.New(
			pipeline.Step{Name: "scaler", Estimator: preprocessing.NewStandardScalerDefault()},
			pipeline.Step{Name: "pca", Estimator: decomposition.NewPCA(varianceTarget)},
			pipeline.Step{Name: "svr", Estimator: svm.NewSVR(
				svm.WithC(p.C),
				svm.WithGamma(p.Gamma),
				svm.WithEpsilon(p.Epsilon),
			)},
		)
	}

	search := modelselection.NewGridSearchCV(r.config.Grid, r.config.CVFolds, r.config.Seed, factory)
	search.SetLogger(r.logger.With(log.TargetKey, target))
	if err := search.Fit(XTrain, yTrain); err != nil {
		return nil, qdErrors.Wrapf(err, "grid search for target %q", target)
	}

	best := search.BestEstimator

	trainPred, err := best.Predict(XTrain)
	if err != nil {
		return nil, err
	}
	testPred, err := best.Predict(XTest)
	if err != nil {
		return nil, err
	}

	record := &ResultRecord{
		Target:         target,
		BestParams:     search.BestParams,
		CVScore:        search.BestScore,
		TrainObserved:  yTrain,
		TrainPredicted: trainPred,
		TestObserved:   yTest,
		TestPredicted:  testPred,
		FeatureNames:   table.FeatureNames(),
	}

	if p, ok := best.(*pipeline.Pipeline); ok {
		if pca, ok := p.NamedStep("pca").(*decomposition.PCA); ok {
			record.NComponents = pca.NComponents
		}
	}

	if err := fillMetrics(record); err != nil {
		return nil, err
	}

	record.Importances, err = PermutationImportance(best, XTest, yTest, permutationRepeats, r.config.Seed)
	if err != nil {
		return nil, qdErrors.Wrapf(err, "permutation importance for target %q", target)
	}

	if r.config.PlotDir != "" {
		if err := r.renderPlots(record); err != nil {
			return nil, err
		}
	}

	return record, nil
}

func fillMetrics(record *ResultRecord) error {
	var err error
	if record.TrainR2, err = metrics.R2Score(record.TrainObserved, record.TrainPredicted); err != nil {
		return err
	}
	if record.TrainRMSE, err = metrics.RMSE(record.TrainObserved, record.TrainPredicted); err != nil {
		return err
	}
	if record.TrainMAE, err = metrics.MAE(record.TrainObserved, record.TrainPredicted); err != nil {
		return err
	}
	if record.TestR2, err = metrics.R2Score(record.TestObserved, record.TestPredicted); err != nil {
		return err
	}
	if record.TestRMSE, err = metrics.RMSE(record.TestObserved, record.TestPredicted); err != nil {
		return err
	}
	record.TestMAE, err = metrics.MAE(record.TestObserved, record.TestPredicted)
	return err
}

// renderPlots writes the three diagnostic charts of one target under
// PlotDir, named by the sanitized target.
func (r *Runner) renderPlots(record *ResultRecord) error {
	if err := os.MkdirAll(r.config.PlotDir, 0o755); err != nil {
		return qdErrors.NewFileError(r.config.PlotDir, err)
	}

	slug := sanitizeTarget(record.Target)

	observed := vecToSlice(record.TestObserved)
	predicted := vecToSlice(record.TestPredicted)

	path := filepath.Join(r.config.PlotDir, slug+"_observed_predicted.png")
	if err := visualization.ObservedPredicted(observed, predicted, record.Target, path); err != nil {
		return err
	}

	path = filepath.Join(r.config.PlotDir, slug+"_residuals.png")
	if err := visualization.ResidualHist(record.Residuals(), record.Target, path); err != nil {
		return err
	}

	path = filepath.Join(r.config.PlotDir, slug+"_importance.png")
	return visualization.ImportanceBar(record.FeatureNames, record.Importances, record.Target, path)
}

func sanitizeTarget(target string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, target)
}

func vecToSlice(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
