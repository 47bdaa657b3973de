// flaptrain trains and replays linear policies for a side-scrolling
// gap-navigation game.
//
// Usage:
//
//	flaptrain list                         - List modes and optimizers
//	flaptrain train --mode <id>            - Search for good weights
//	flaptrain play <weights> --mode <id>   - Watch a policy play
//	flaptrain manual --mode <id>           - Play with the keyboard
//	flaptrain eval <weights> --mode <id>   - Score a policy headless
//	flaptrain runs                         - Show stored training runs
//	flaptrain export <run-id>              - Export a stored run
//
// Global flags:
//
//	--fps <rate>         - Playback rate (default: 60)
//	--seed <value>       - RNG seed (0 = random based on time)
//	--db <path>          - Training database (default: ~/.flaptrain/runs.db)
//	--config <path>      - YAML file overlaid on the selected mode
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Registers the built-in modes
	_ "github.com/vovakirdan/flaptrain/internal/sim"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "flaptrain",
	})
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flaptrain",
	Short: "Train game-playing policies with hill climbing and genetic search",
	Long: `flaptrain evolves linear policies that steer an agent through gaps in
scrolling obstacles. Each mode is a variant of the game with its own
physics, features and scoring.

Available commands:
  list     - Show modes and optimizers
  train    - Run an optimizer and save the best weights
  play     - Watch saved weights play in the terminal
  manual   - Play a mode yourself
  eval     - Score saved weights over many episodes
  runs     - Show stored training runs
  export   - Write CSV, chart or weights of a stored run

Examples:
  flaptrain list
  flaptrain train --mode simple --generations 500
  flaptrain train --mode powerup --optimizer genetic --plot fitness.png
  flaptrain play weights/simple.json --mode simple
  flaptrain eval weights/simple.json --mode simple --episodes 50`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Playback rate (ticks per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.flaptrain/runs.db", "Path to training database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML file overlaid on the mode")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(manualCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(exportCmd)
}
