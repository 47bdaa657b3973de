package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flaptrain/internal/config"
	"github.com/vovakirdan/flaptrain/internal/optimize"
	"github.com/vovakirdan/flaptrain/internal/platform/tui"
	"github.com/vovakirdan/flaptrain/internal/report"
	"github.com/vovakirdan/flaptrain/internal/sim"
	"github.com/vovakirdan/flaptrain/internal/storage"
	"github.com/vovakirdan/flaptrain/internal/weights"
)

var (
	flagMode        string
	flagOptimizer   string
	flagGenerations int
	flagBatch       int
	flagWorkers     int
	flagOut         string
	flagCSV         string
	flagPlot        string
	flagWatch       bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Run an optimizer and save the best weights",
	Long: `Search weight space for the selected mode. Training parameters default to
the mode's own settings; flags override them.

The run and its per-generation history are stored in the training database.
Ctrl+C stops the search early and keeps the best weights found so far.

Examples:
  flaptrain train --mode simple
  flaptrain train --mode complex --generations 2000 --batch 4
  flaptrain train --mode powerup --optimizer genetic --workers 8
  flaptrain train --mode shield --csv shield.csv --plot shield.png --watch`,
	Args: cobra.NoArgs,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().StringVar(&flagMode, "mode", "", "Mode to train (see 'flaptrain list')")
	trainCmd.Flags().StringVar(&flagOptimizer, "optimizer", optimize.NameHillClimb, "Optimizer: hillclimb or genetic")
	trainCmd.Flags().IntVar(&flagGenerations, "generations", 0, "Generations (0 = mode default)")
	trainCmd.Flags().IntVar(&flagBatch, "batch", 0, "Episodes per hill-climbing candidate (0 = mode default)")
	trainCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Concurrent episodes (0 = all CPUs)")
	trainCmd.Flags().StringVar(&flagOut, "out", "", "Weights output path (default weights/<mode>.json)")
	trainCmd.Flags().StringVar(&flagCSV, "csv", "", "Write the fitness history as CSV")
	trainCmd.Flags().StringVar(&flagPlot, "plot", "", "Write the fitness chart (png, svg or pdf)")
	trainCmd.Flags().BoolVar(&flagWatch, "watch", false, "Replay the best policy in the terminal when done")
	//nolint:errcheck // flag exists
	trainCmd.MarkFlagRequired("mode")
}

// newOptimizer builds the named optimizer from the mode's training
// settings with flag overrides applied.
func newOptimizer(name string, t config.Training) (optimize.Optimizer, error) {
	switch name {
	case optimize.NameHillClimb:
		cfg := t.HillClimb
		if flagGenerations > 0 {
			cfg.Generations = flagGenerations
		}
		if flagBatch > 0 {
			cfg.Batch = flagBatch
		}
		// Batched runs start from the exploration range.
		if cfg.Batch > 1 {
			cfg.InitRange = cfg.ExploreRange
		}
		return optimize.NewHillClimb(cfg), nil
	case optimize.NameGenetic:
		cfg := t.Genetic
		if flagGenerations > 0 {
			cfg.Generations = flagGenerations
		}
		return optimize.NewGenetic(cfg, flagWorkers), nil
	default:
		return nil, fmt.Errorf("unknown optimizer %q, expected one of %v", name, optimize.Names())
	}
}

func runTrain(cmd *cobra.Command, args []string) error {
	v, err := loadVariant(flagMode)
	if err != nil {
		return err
	}
	opt, err := newOptimizer(flagOptimizer, v.Training)
	if err != nil {
		return err
	}

	out := flagOut
	if out == "" {
		out = filepath.Join("weights", v.ID+".json")
	}
	seed := resolveSeed()

	store := openStore()
	if store != nil {
		defer store.Close()
	}
	runID := createRun(store, v.ID, opt.Name(), seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	job := optimize.Job{
		Variant:   v,
		Evaluator: sim.NewEvaluator(v, flagWorkers),
		Seed:      seed,
		Logger:    logger,
		OnGeneration: func(g optimize.Generation) {
			if store == nil || runID == 0 {
				return
			}
			if err := store.RecordGeneration(runID, g); err != nil {
				logger.Warn("could not record generation", "run", runID, "generation", g.Index, "error", err)
			}
		},
	}

	logger.Info("training", "mode", v.ID, "optimizer", opt.Name(), "seed", seed, "features", v.Features.Count())
	res, err := opt.Run(ctx, job)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Warn("interrupted, keeping the best weights so far", "generations", len(res.History))
	case err != nil:
		return err
	}
	stop()

	if res.Best.Jump == nil {
		return fmt.Errorf("training stopped before any candidate was evaluated")
	}

	if err := weights.Save(out, res.Best); err != nil {
		return err
	}
	if store != nil && runID != 0 {
		if err := store.FinishRun(runID, res.Best, res.BestFitness); err != nil {
			logger.Warn("could not finish run", "run", runID, "error", err)
		}
	}

	fmt.Printf("Best fitness: %.0f after %d generations\n", res.BestFitness, len(res.History))
	fmt.Printf("Weights saved to %s\n", out)
	if runID != 0 {
		fmt.Printf("Stored as run #%d\n", runID)
	}

	if err := writeDiagnostics(res.History, fmt.Sprintf("%s / %s", v.ID, opt.Name()), flagCSV, flagPlot); err != nil {
		return err
	}

	if flagWatch {
		return watch(v, res.Best, seed)
	}
	return nil
}

func createRun(store *storage.Store, mode, optimizer string, seed int64) int64 {
	if store == nil {
		return 0
	}
	id, err := store.CreateRun(mode, optimizer, seed)
	if err != nil {
		logger.Warn("could not create run, history will not be stored", "error", err)
		return 0
	}
	return id
}

func writeDiagnostics(history []optimize.Generation, title, csvPath, plotPath string) error {
	if csvPath != "" {
		if err := report.SaveCSV(csvPath, history); err != nil {
			return err
		}
		fmt.Printf("History written to %s\n", csvPath)
	}
	if plotPath != "" {
		if err := report.SavePlot(plotPath, title, history); err != nil {
			return err
		}
		fmt.Printf("Chart written to %s\n", plotPath)
	}
	return nil
}

// watch replays weights in the terminal and prints each finished episode.
func watch(v config.Variant, w sim.Weights, seed int64) error {
	policy, err := sim.NewPolicy(&v, w)
	if err != nil {
		return err
	}
	results, err := tui.Run(tui.Options{
		Variant:    &v,
		Controller: policy,
		Config:     runtimeConfig(seed),
	})
	if err != nil {
		return err
	}
	for i, r := range results {
		printResult(fmt.Sprintf("Episode %d", i+1), r)
	}
	return nil
}
