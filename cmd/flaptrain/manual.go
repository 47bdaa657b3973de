package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flaptrain/internal/platform/tui"
	"github.com/vovakirdan/flaptrain/internal/sim"
)

var manualCmd = &cobra.Command{
	Use:   "manual",
	Short: "Play a mode with the keyboard",
	Long: `Play the selected mode yourself. The simulation is identical to the one
policies are trained on.

Controls:
  Space/Up   - Jump
  P          - Use a shield charge (shield and power-up modes)
  Esc        - Pause
  R          - Restart (after the episode ends)
  Q/Ctrl+C   - Quit

Examples:
  flaptrain manual
  flaptrain manual --mode simple
  flaptrain manual --mode shield --fps 30`,
	Args: cobra.NoArgs,
	RunE: runManual,
}

var flagManualMode string

func init() {
	manualCmd.Flags().StringVar(&flagManualMode, "mode", "", "Mode to play (default: pick from a menu)")
}

func runManual(cmd *cobra.Command, args []string) error {
	cfg := runtimeConfig(resolveSeed())

	mode := flagManualMode
	if mode == "" {
		picked, err := tui.RunMenu(cfg.ScreenW)
		if err != nil {
			return err
		}
		if picked == "" {
			return nil
		}
		mode = picked
	}

	v, err := loadVariant(mode)
	if err != nil {
		return err
	}
	results, err := tui.Run(tui.Options{
		Variant: &v,
		Config:  cfg,
		OnFinish: func(seed int64, r sim.Result) {
			logger.Debug("episode finished", "seed", seed, "score", r.Score, "outcome", r.Outcome)
		},
	})
	if err != nil {
		return err
	}

	best := 0.0
	for _, r := range results {
		best = max(best, r.Score)
	}
	if len(results) > 0 {
		fmt.Printf("%d episodes, best score %.0f\n", len(results), best)
	}
	return nil
}
