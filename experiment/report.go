package experiment

import (
	"log/slog"
	"sort"

	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/pkg/log"
)

// Report writes a per-target summary of the run to the process-wide slog
// logger: the winning hyperparameters and all six metrics, followed by
// one error line per failed target. Targets are reported in sorted order
// so output is stable.
func Report(results map[string]ResultRecord, failures map[string]error) {
	targets := make([]string, 0, len(results))
	for target := range results {
		targets = append(targets, target)
	}
	sort.Strings(targets)

	for _, target := range targets {
		rec := results[target]
		slog.Info("target summary",
			log.TargetKey, rec.Target,
			log.BestParamsKey, rec.BestParams.String(),
			log.BestScoreKey, rec.CVScore,
			log.ComponentsKey, rec.NComponents,
			"train_r2", rec.TrainR2,
			"train_rmse", rec.TrainRMSE,
			"train_mae", rec.TrainMAE,
			"test_r2", rec.TestR2,
			"test_rmse", rec.TestRMSE,
			"test_mae", rec.TestMAE,
		)
	}

	failed := make([]string, 0, len(failures))
	for target := range failures {
		failed = append(failed, target)
	}
	sort.Strings(failed)

	for _, target := range failed {
		slog.Error("target failed",
			log.TargetKey, target,
			log.ErrAttr(failures[target]),
		)
	}
}
