package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/flaptrain/internal/sim"
)

var flagHeadless bool

var playCmd = &cobra.Command{
	Use:   "play <weights>",
	Short: "Watch saved weights play",
	Long: `Replay a weight document in the terminal. The same weights and seed
always produce the same episode.

Controls:
  Esc        - Pause
  +/-        - Faster/slower
  R          - Restart (after the episode ends)
  Q/Ctrl+C   - Quit

Examples:
  flaptrain play weights/simple.json --mode simple
  flaptrain play weights/powerup.json --mode powerup --seed 42 --fps 120
  flaptrain play weights/simple.json --mode simple --headless`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMode, "mode", "", "Mode the weights were trained for")
	playCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run one episode without the terminal UI")
	//nolint:errcheck // flag exists
	playCmd.MarkFlagRequired("mode")
}

func runPlay(cmd *cobra.Command, args []string) error {
	v, err := loadVariant(flagMode)
	if err != nil {
		return err
	}
	w, err := loadWeights(args[0], v)
	if err != nil {
		return err
	}
	seed := resolveSeed()

	if flagHeadless {
		res, err := sim.NewEvaluator(v, 1).EvaluateOne(w, seed)
		if err != nil {
			return err
		}
		logger.Debug("episode finished", "seed", seed, "ticks", res.Ticks)
		printResult("Episode", res)
		return nil
	}
	return watch(v, w, seed)
}
