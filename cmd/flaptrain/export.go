package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flaptrain/internal/storage"
	"github.com/vovakirdan/flaptrain/internal/weights"
)

var flagWeightsOut string

var exportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Export the history or weights of a stored run",
	Long: `Write the per-generation fitness and moving average of a stored run as a
CSV table and/or a chart, and optionally its best weights.
With no output flags, run-<id>.csv and run-<id>.png are written.

Examples:
  flaptrain export 3
  flaptrain export 3 --plot fitness.svg
  flaptrain export 3 --weights best.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagCSV, "csv", "", "CSV output path")
	exportCmd.Flags().StringVar(&flagPlot, "plot", "", "Chart output path (png, svg or pdf)")
	exportCmd.Flags().StringVar(&flagWeightsOut, "weights", "", "Write the run's best weights to this path")
}

func runExport(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening training database: %w", err)
	}
	defer store.Close()

	run, err := store.Run(id)
	if err != nil {
		return err
	}

	csvPath, plotPath := flagCSV, flagPlot
	if csvPath == "" && plotPath == "" && flagWeightsOut == "" {
		csvPath = fmt.Sprintf("run-%d.csv", id)
		plotPath = fmt.Sprintf("run-%d.png", id)
	}

	if csvPath != "" || plotPath != "" {
		history, err := store.History(id)
		if err != nil {
			return err
		}
		title := fmt.Sprintf("run #%d: %s / %s", run.ID, run.Variant, run.Optimizer)
		if err := writeDiagnostics(history, title, csvPath, plotPath); err != nil {
			return err
		}
	}

	if flagWeightsOut != "" {
		if !run.Finished() {
			return fmt.Errorf("run #%d has not finished, no weights stored", id)
		}
		if err := weights.Save(flagWeightsOut, run.Best); err != nil {
			return err
		}
		fmt.Printf("Weights written to %s\n", flagWeightsOut)
	}
	return nil
}
