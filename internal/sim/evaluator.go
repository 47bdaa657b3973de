package sim

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/vovakirdan/flaptrain/internal/config"
)

// Evaluator runs policy episodes of one variant as a fitness oracle.
type Evaluator struct {
	Variant config.Variant
	Workers int // concurrent episodes per Evaluate call, <= 0 means GOMAXPROCS
}

// NewEvaluator creates an evaluator for v.
func NewEvaluator(v config.Variant, workers int) *Evaluator {
	return &Evaluator{Variant: v, Workers: workers}
}

func (e *Evaluator) workers() int {
	if e.Workers > 0 {
		return e.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// EvaluateOne runs a single episode with the policy built from w.
func (e *Evaluator) EvaluateOne(w Weights, seed int64) (Result, error) {
	policy, err := NewPolicy(&e.Variant, w)
	if err != nil {
		return Result{}, err
	}
	return NewEpisode(&e.Variant, seed).Run(policy), nil
}

// Evaluate returns the mean score of one episode per seed. Episodes run
// concurrently on at most Workers goroutines; each owns its random source,
// its difficulty ramp and its policy buffer. The mean does not depend on
// scheduling order.
func (e *Evaluator) Evaluate(ctx context.Context, w Weights, seeds []int64) (float64, error) {
	if len(seeds) == 0 {
		return 0, fmt.Errorf("sim: evaluate: no seeds")
	}
	if err := w.Validate(e.Variant.Features); err != nil {
		return 0, err
	}
	if len(seeds) == 1 {
		res, err := e.EvaluateOne(w, seeds[0])
		return res.Score, err
	}

	scores := make([]float64, len(seeds))
	var wg sync.WaitGroup
	sem := make(chan struct{}, e.workers())

	for i, seed := range seeds {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, seed int64) {
			defer wg.Done()
			defer func() { <-sem }()
			scores[i] = NewEpisode(&e.Variant, seed).Run(newPolicy(&e.Variant, w)).Score
		}(i, seed)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return stat.Mean(scores, nil), nil
}
