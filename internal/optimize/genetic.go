package optimize

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/vovakirdan/flaptrain/internal/config"
	"github.com/vovakirdan/flaptrain/internal/sim"
)

// Genetic is an elitist generational genetic algorithm. Elites survive
// unchanged with their fitness cached, so the top fitness never drops.
type Genetic struct {
	Config  config.GeneticConfig
	Workers int // concurrent individual evaluations, <= 0 means GOMAXPROCS
}

// NewGenetic creates a genetic optimizer.
func NewGenetic(cfg config.GeneticConfig, workers int) *Genetic {
	return &Genetic{Config: cfg, Workers: workers}
}

// Name implements Optimizer.
func (g *Genetic) Name() string {
	return NameGenetic
}

type individual struct {
	weights sim.Weights
	fitness float64
	scored  bool
}

func (g *Genetic) validate() error {
	c := g.Config
	switch {
	case c.Generations < 0:
		return fmt.Errorf("%w: generations must be non-negative", ErrInvalidConfig)
	case c.Population < 1:
		return fmt.Errorf("%w: population must be at least 1", ErrInvalidConfig)
	case c.Elite < 1 || c.Elite > c.Population:
		return fmt.Errorf("%w: elite %d must be in [1, %d]", ErrInvalidConfig, c.Elite, c.Population)
	case c.MutationRate < 0 || c.MutationRate > 1:
		return fmt.Errorf("%w: mutation rate must be in [0, 1]", ErrInvalidConfig)
	case c.MutationStrength < 0 || c.InitRange <= 0:
		return fmt.Errorf("%w: ranges must be positive", ErrInvalidConfig)
	}
	return nil
}

func (g *Genetic) workers() int {
	if g.Workers > 0 {
		return g.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Run implements Optimizer. On cancellation it returns the best weights
// of the last fully evaluated generation together with the context error.
func (g *Genetic) Run(ctx context.Context, job Job) (Result, error) {
	if err := g.validate(); err != nil {
		return Result{}, err
	}
	cfg := g.Config
	logger := job.logger().With("optimizer", g.Name(), "variant", job.Variant.ID)
	rng := rand.New(rand.NewSource(job.Seed))

	population := make([]individual, cfg.Population)
	for i := range population {
		population[i].weights = randomWeights(rng, job.Variant.Features, cfg.InitRange)
	}

	res := Result{History: make([]Generation, 0, cfg.Generations)}

	for gen := 0; gen < cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if err := g.evaluate(ctx, job.Evaluator, rng, population); err != nil {
			return res, fmt.Errorf("optimize: generation %d: %w", gen, err)
		}

		sort.SliceStable(population, func(i, j int) bool {
			return population[i].fitness > population[j].fitness
		})
		elites := population[:cfg.Elite]
		top := elites[0]

		if len(res.History) == 0 || top.fitness > res.BestFitness {
			logger.Info("new best", "generation", gen, "fitness", top.fitness)
		}
		res.Best = top.weights
		res.BestFitness = top.fitness

		scores := make([]float64, len(population))
		for i, ind := range population {
			scores[i] = ind.fitness
		}
		rec := Generation{
			Index:         gen,
			Fitness:       top.fitness,
			Best:          top.fitness,
			MovingAverage: movingAverage(res.History, top.fitness),
			Mean:          stat.Mean(scores, nil),
		}
		res.History = append(res.History, rec)
		logger.Debug("generation", "index", gen, "top", top.fitness, "mean", rec.Mean, "avg", rec.MovingAverage)
		job.emit(rec)

		if gen < cfg.Generations-1 {
			population = g.breed(rng, elites)
		}
	}

	logger.Info("done", "generations", len(res.History), "best", res.BestFitness)
	return res, nil
}

// evaluate scores every individual without a cached fitness. Seeds are
// drawn in population order before any episode runs, so results do not
// depend on scheduling.
func (g *Genetic) evaluate(ctx context.Context, ev Evaluator, rng *rand.Rand, population []individual) error {
	seeds := make([]int64, len(population))
	for i := range population {
		if !population[i].scored {
			seeds[i] = rng.Int63()
		}
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	sem := make(chan struct{}, g.workers())

	for i := range population {
		if population[i].scored {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(ind *individual, seed int64) {
			defer wg.Done()
			defer func() { <-sem }()

			fit, err := ev.Evaluate(ctx, ind.weights, []int64{seed})
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			ind.fitness = fit
			ind.scored = true
		}(&population[i], seeds[i])
	}
	wg.Wait()
	return firstErr
}

// breed keeps the elites and fills the rest of the population with
// mutated crossovers of two elites picked uniformly at random.
func (g *Genetic) breed(rng *rand.Rand, elites []individual) []individual {
	cfg := g.Config
	next := make([]individual, 0, cfg.Population)
	next = append(next, elites...)

	for len(next) < cfg.Population {
		p1 := elites[rng.Intn(len(elites))].weights
		p2 := elites[rng.Intn(len(elites))].weights

		child := sim.Weights{Jump: g.mutate(rng, crossover(p1.Jump, p2.Jump))}
		if p1.PowerUp != nil {
			child.PowerUp = g.mutate(rng, crossover(p1.PowerUp, p2.PowerUp))
		}
		next = append(next, individual{weights: child})
	}
	return next
}

// crossover averages two parents gene by gene.
func crossover(a, b []float64) []float64 {
	child := make([]float64, len(a))
	for i := range child {
		child[i] = (a[i] + b[i]) / 2
	}
	return child
}

// mutate adds U(-strength, strength) to each gene with probability rate.
func (g *Genetic) mutate(rng *rand.Rand, genes []float64) []float64 {
	for i := range genes {
		if rng.Float64() < g.Config.MutationRate {
			genes[i] += (rng.Float64()*2 - 1) * g.Config.MutationStrength
		}
	}
	return genes
}
