package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flaptrain/internal/platform/tui"
	"github.com/vovakirdan/flaptrain/internal/registry"
	"github.com/vovakirdan/flaptrain/internal/storage"
)

var (
	flagLimit  int
	flagBrowse bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show stored training runs",
	Long: `List training runs from the database, newest first.

Examples:
  flaptrain runs
  flaptrain runs --mode powerup --limit 5
  flaptrain runs --browse`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().StringVar(&flagMode, "mode", "", "Only show runs of this mode")
	runsCmd.Flags().IntVar(&flagLimit, "limit", 20, "Maximum number of runs")
	runsCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Browse runs interactively")
}

func runRuns(cmd *cobra.Command, args []string) error {
	if flagMode != "" && !registry.Exists(flagMode) {
		return fmt.Errorf("unknown mode %q, run 'flaptrain list' to see available modes", flagMode)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening training database: %w", err)
	}
	defer store.Close()

	if flagBrowse {
		cfg := runtimeConfig(0)
		return tui.RunRunsBrowser(store, flagMode, cfg.ScreenW, cfg.ScreenH)
	}

	runs, err := store.Runs(flagMode, flagLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'flaptrain train --mode <id>' to start one.")
		return nil
	}

	fmt.Printf("  %-5s  %-18s  %-9s  %-8s  %-12s  %-16s  %s\n", "ID", "Mode", "Optimizer", "Gens", "Best", "Started", "Status")
	fmt.Printf("  %-5s  %-18s  %-9s  %-8s  %-12s  %-16s  %s\n", "--", "----", "---------", "----", "----", "-------", "------")

	for _, r := range runs {
		status, best := "running", "-"
		if r.Finished() {
			status = "done"
			best = fmt.Sprintf("%.0f", r.BestFitness)
		}
		fmt.Printf("  %-5d  %-18s  %-9s  %-8d  %-12s  %-16s  %s\n",
			r.ID, r.Variant, r.Optimizer, r.Generations, best, r.CreatedAt.Format("2006-01-02 15:04"), status)
	}

	if flagMode != "" {
		best, err := store.BestRun(flagMode)
		switch {
		case errors.Is(err, storage.ErrRunNotFound):
		case err != nil:
			return err
		default:
			fmt.Println()
			fmt.Printf("Best: run #%d with %.0f\n", best.ID, best.BestFitness)
		}
	}
	return nil
}
