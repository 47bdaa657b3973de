package optimize

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/vovakirdan/flaptrain/internal/config"
	"github.com/vovakirdan/flaptrain/internal/sim"
)

// HillClimb is epsilon-greedy stochastic hill climbing. Each generation
// either samples a fresh candidate (probability epsilon) or perturbs the
// best one, and keeps the candidate only if it scores strictly higher.
type HillClimb struct {
	Config config.HillClimbConfig
}

// NewHillClimb creates a hill climber.
func NewHillClimb(cfg config.HillClimbConfig) *HillClimb {
	return &HillClimb{Config: cfg}
}

// Name implements Optimizer.
func (h *HillClimb) Name() string {
	return NameHillClimb
}

func (h *HillClimb) validate() error {
	c := h.Config
	switch {
	case c.Generations < 0:
		return fmt.Errorf("%w: generations must be non-negative", ErrInvalidConfig)
	case c.Batch < 1:
		return fmt.Errorf("%w: batch must be at least 1", ErrInvalidConfig)
	case c.Epsilon < 0 || c.EpsilonDecay < 0:
		return fmt.Errorf("%w: epsilon and decay must be non-negative", ErrInvalidConfig)
	case c.InitRange <= 0 || c.ExploreRange <= 0 || c.StepSize < 0:
		return fmt.Errorf("%w: ranges must be positive", ErrInvalidConfig)
	}
	return nil
}

// Run implements Optimizer. On cancellation it returns the best weights
// found so far together with the context error.
func (h *HillClimb) Run(ctx context.Context, job Job) (Result, error) {
	if err := h.validate(); err != nil {
		return Result{}, err
	}
	cfg := h.Config
	logger := job.logger().With("optimizer", h.Name(), "variant", job.Variant.ID)
	rng := rand.New(rand.NewSource(job.Seed))
	features := job.Variant.Features

	best := randomWeights(rng, features, cfg.InitRange)
	bestFit, err := job.Evaluator.Evaluate(ctx, best, drawSeeds(rng, cfg.Batch))
	if err != nil {
		return Result{}, fmt.Errorf("optimize: initial evaluation: %w", err)
	}
	logger.Info("initial candidate", "fitness", bestFit)

	res := Result{
		Best:        best,
		BestFitness: bestFit,
		History:     make([]Generation, 0, cfg.Generations),
	}
	epsilon := cfg.Epsilon

	for gen := 0; gen < cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		explored := rng.Float64() < epsilon
		var candidate sim.Weights
		if explored {
			candidate = randomWeights(rng, features, cfg.ExploreRange)
		} else {
			candidate = mapWeights(res.Best, func(v []float64) []float64 {
				return perturb(rng, v, cfg.StepSize)
			})
		}

		fit, err := job.Evaluator.Evaluate(ctx, candidate, drawSeeds(rng, cfg.Batch))
		if err != nil {
			return res, fmt.Errorf("optimize: generation %d: %w", gen, err)
		}

		accepted := fit > res.BestFitness
		if accepted {
			res.Best = candidate
			res.BestFitness = fit
			logger.Info("new best", "generation", gen, "fitness", fit, "explored", explored)
		}

		g := Generation{
			Index:         gen,
			Fitness:       fit,
			Best:          res.BestFitness,
			MovingAverage: movingAverage(res.History, fit),
			Epsilon:       epsilon,
			Explored:      explored,
			Accepted:      accepted,
		}
		res.History = append(res.History, g)
		logger.Debug("generation", "index", gen, "fitness", fit, "avg", g.MovingAverage, "epsilon", epsilon)
		job.emit(g)

		epsilon = math.Max(0, epsilon*cfg.EpsilonDecay)
	}

	logger.Info("done", "generations", len(res.History), "best", res.BestFitness)
	return res, nil
}

// perturb adds independent U(-step, step) noise to every weight.
func perturb(rng *rand.Rand, v []float64, step float64) []float64 {
	out := make([]float64, len(v))
	for i, w := range v {
		out[i] = w + (rng.Float64()*2-1)*step
	}
	return out
}
