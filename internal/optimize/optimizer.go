// Package optimize searches weight space for policies that maximize
// episode fitness. Both optimizers treat the simulation as a black box:
// they only see the scalar returned by an Evaluator.
package optimize

import (
	"context"
	"errors"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/stat"

	"github.com/vovakirdan/flaptrain/internal/config"
	"github.com/vovakirdan/flaptrain/internal/sim"
)

// MovingWindow is the number of trailing generations in the moving average.
const MovingWindow = 100

// ErrInvalidConfig is returned when optimizer parameters cannot be used.
var ErrInvalidConfig = errors.New("optimize: invalid config")

// Evaluator scores a weight set as the mean fitness over one episode per seed.
type Evaluator interface {
	Evaluate(ctx context.Context, w sim.Weights, seeds []int64) (float64, error)
}

// Generation summarizes one optimizer iteration.
type Generation struct {
	Index         int
	Fitness       float64 // candidate fitness (hill climbing) or top elite fitness (genetic)
	Best          float64 // best fitness found so far
	MovingAverage float64 // mean Fitness over the trailing MovingWindow generations
	Epsilon       float64 // exploration probability used this generation
	Explored      bool    // candidate was sampled globally instead of perturbed
	Accepted      bool    // candidate replaced the best
	Mean          float64 // population mean (genetic)
}

// Result is the outcome of an optimizer run.
type Result struct {
	Best        sim.Weights
	BestFitness float64
	History     []Generation
}

// Job is one optimization request.
type Job struct {
	Variant      config.Variant
	Evaluator    Evaluator
	Seed         int64 // seeds the optimizer; every episode seed is drawn from it
	Logger       *log.Logger
	OnGeneration func(Generation)
}

// Optimizer runs a search for a job.
type Optimizer interface {
	Name() string
	Run(ctx context.Context, job Job) (Result, error)
}

// Optimizer names.
const (
	NameHillClimb = "hillclimb"
	NameGenetic   = "genetic"
)

// Names lists the available optimizers.
func Names() []string {
	return []string{NameGenetic, NameHillClimb}
}

func (j Job) logger() *log.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return log.New(io.Discard)
}

func (j Job) emit(g Generation) {
	if j.OnGeneration != nil {
		j.OnGeneration(g)
	}
}

// movingAverage returns the mean fitness of the trailing window, including
// the generation about to be appended.
func movingAverage(history []Generation, next float64) float64 {
	start := len(history) - (MovingWindow - 1)
	if start < 0 {
		start = 0
	}
	window := make([]float64, 0, MovingWindow)
	for _, g := range history[start:] {
		window = append(window, g.Fitness)
	}
	window = append(window, next)
	return stat.Mean(window, nil)
}

// drawSeeds draws n episode seeds.
func drawSeeds(rng *rand.Rand, n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}
	return seeds
}

// uniform returns n values drawn from U(-r, r).
func uniform(rng *rand.Rand, n int, r float64) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = (rng.Float64()*2 - 1) * r
	}
	return v
}

// randomWeights draws a weight set shaped for f, jump vector first.
func randomWeights(rng *rand.Rand, f config.Features, r float64) sim.Weights {
	w := sim.Weights{Jump: uniform(rng, f.Count(), r)}
	if f.Dual {
		w.PowerUp = uniform(rng, f.Count(), r)
	}
	return w
}

// mapWeights applies fn to each vector independently.
func mapWeights(w sim.Weights, fn func([]float64) []float64) sim.Weights {
	out := sim.Weights{Jump: fn(w.Jump)}
	if w.PowerUp != nil {
		out.PowerUp = fn(w.PowerUp)
	}
	return out
}
