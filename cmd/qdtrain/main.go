// Command qdtrain trains the CsPbCl3 quantum-dot property models from a
// synthesis spreadsheet: per-target train/test split, scaler → PCA → SVR
// pipeline, cross-validated grid search, metric report and diagnostic
// plots.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/experiment"
	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/pkg/log"
)

func main() {
	var (
		dataPath = flag.String("data", "", "path to the synthesis CSV file (required)")
		plotDir  = flag.String("plots", "plots", "directory for rendered PNG charts; empty disables plotting")
		targets  = flag.String("targets", strings.Join(experiment.DefaultTargets, ","), "comma-separated target columns")
		seed     = flag.Int64("seed", experiment.DefaultSeed, "random seed for every split in the run")
		logLevel = flag.String("log-level", "info", "log level: debug, info, warn or error")
	)
	flag.Parse()

	log.SetupLogger(*logLevel)

	if *dataPath == "" {
		slog.Error("missing required -data flag")
		flag.Usage()
		os.Exit(2)
	}

	cfg := experiment.DefaultConfig(*dataPath)
	cfg.PlotDir = *plotDir
	cfg.Seed = *seed
	if *targets != "" {
		cfg.Targets = strings.Split(*targets, ",")
	}

	provider := log.NewZerologProvider(log.Level(log.ToLogLevel(*logLevel)))
	runner, err := experiment.NewRunner(cfg, provider)
	if err != nil {
		slog.Error("invalid configuration", log.ErrAttr(err))
		os.Exit(1)
	}

	results, failures, err := runner.Run(context.Background())
	if err != nil {
		slog.Error("run aborted", log.ErrAttr(err))
		os.Exit(1)
	}

	experiment.Report(results, failures)

	if len(failures) > 0 {
		os.Exit(1)
	}
}
