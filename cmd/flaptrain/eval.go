package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/vovakirdan/flaptrain/internal/sim"
)

var (
	flagEpisodes int
	flagVerbose  bool
)

var evalCmd = &cobra.Command{
	Use:   "eval <weights>",
	Short: "Score saved weights over many episodes",
	Long: `Run the weights headless for a number of episodes and report the mean
fitness, the value the optimizers maximize. Episode seeds are drawn from --seed.

Examples:
  flaptrain eval weights/simple.json --mode simple
  flaptrain eval weights/shield.json --mode shield --episodes 200 --workers 4
  flaptrain eval weights/simple.json --mode simple --episodes 5 --verbose`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().StringVar(&flagMode, "mode", "", "Mode the weights were trained for")
	evalCmd.Flags().IntVar(&flagEpisodes, "episodes", 10, "Number of episodes")
	evalCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Concurrent episodes (0 = all CPUs)")
	evalCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Print every episode")
	//nolint:errcheck // flag exists
	evalCmd.MarkFlagRequired("mode")
}

func runEval(cmd *cobra.Command, args []string) error {
	if flagEpisodes < 1 {
		return fmt.Errorf("--episodes must be at least 1")
	}
	v, err := loadVariant(flagMode)
	if err != nil {
		return err
	}
	w, err := loadWeights(args[0], v)
	if err != nil {
		return err
	}

	seed := resolveSeed()
	rng := rand.New(rand.NewSource(seed))
	seeds := make([]int64, flagEpisodes)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ev := sim.NewEvaluator(v, flagWorkers)
	mean, err := ev.Evaluate(ctx, w, seeds)
	if err != nil {
		return err
	}

	if flagVerbose {
		scores := make([]float64, len(seeds))
		for i, s := range seeds {
			res, err := ev.EvaluateOne(w, s)
			if err != nil {
				return err
			}
			scores[i] = res.Score
			printResult(fmt.Sprintf("Episode %d (seed %d)", i+1, s), res)
		}
		fmt.Printf("Std dev: %.1f\n", stat.StdDev(scores, nil))
	}

	fmt.Printf("Mode %s, %d episodes, seed %d\n", v.ID, flagEpisodes, seed)
	fmt.Printf("Mean fitness: %.1f\n", mean)
	return nil
}
