package optimize

import (
	"context"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/vovakirdan/flaptrain/internal/config"
	"github.com/vovakirdan/flaptrain/internal/sim"
)

func geneticConfig(generations int) config.GeneticConfig {
	return config.GeneticConfig{
		Generations:      generations,
		Population:       12,
		Elite:            3,
		MutationRate:     0.2,
		MutationStrength: 0.3,
		InitRange:        1,
	}
}

func TestGeneticTopEliteIsNonDecreasing(t *testing.T) {
	ev := &fakeEvaluator{score: noisy}
	job := Job{Variant: variant(t, config.VariantComplex), Evaluator: ev, Seed: 5}

	res, err := NewGenetic(geneticConfig(40), 4).Run(context.Background(), job)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.History) != 40 {
		t.Fatalf("history length %d, expected 40", len(res.History))
	}
	for i := 1; i < len(res.History); i++ {
		if res.History[i].Fitness < res.History[i-1].Fitness {
			t.Fatalf("top elite dropped at generation %d: %v -> %v", i, res.History[i-1].Fitness, res.History[i].Fitness)
		}
	}
	for _, g := range res.History {
		if g.Mean > g.Fitness {
			t.Errorf("generation %d mean %v above top %v", g.Index, g.Mean, g.Fitness)
		}
	}
	if res.BestFitness != res.History[39].Fitness {
		t.Errorf("result best %v != last top %v", res.BestFitness, res.History[39].Fitness)
	}
}

func TestGeneticReusesEliteFitness(t *testing.T) {
	ev := &fakeEvaluator{score: towardTarget}
	job := Job{Variant: variant(t, config.VariantSimple), Evaluator: ev, Seed: 6}
	cfg := geneticConfig(3)

	if _, err := NewGenetic(cfg, 2).Run(context.Background(), job); err != nil {
		t.Fatal(err)
	}
	want := cfg.Population + 2*(cfg.Population-cfg.Elite)
	if ev.calls != want {
		t.Errorf("evaluator called %d times, expected %d", ev.calls, want)
	}
}

func TestGeneticDeterministicAcrossWorkers(t *testing.T) {
	run := func(workers int) Result {
		ev := &fakeEvaluator{score: noisy}
		job := Job{Variant: variant(t, config.VariantPowerUp), Evaluator: ev, Seed: 31}
		res, err := NewGenetic(geneticConfig(15), workers).Run(context.Background(), job)
		if err != nil {
			t.Fatal(err)
		}
		return res
	}
	if !reflect.DeepEqual(run(1), run(6)) {
		t.Error("results should not depend on the number of workers")
	}
}

func TestBreedHandlesDualVectorsIndependently(t *testing.T) {
	g := NewGenetic(config.GeneticConfig{Population: 20, Elite: 4, MutationRate: 0}, 1)

	elites := make([]individual, 4)
	for i := range elites {
		x := float64(i)
		elites[i] = individual{
			weights: sim.Weights{Jump: []float64{x, -x}, PowerUp: []float64{10 * x, 100}},
			fitness: 10 - x,
			scored:  true,
		}
	}

	next := g.breed(rand.New(rand.NewSource(1)), elites)
	if len(next) != 20 {
		t.Fatalf("population %d, expected 20", len(next))
	}
	for i := 0; i < 4; i++ {
		if !reflect.DeepEqual(next[i], elites[i]) {
			t.Errorf("elite %d changed", i)
		}
	}
	for i, child := range next[4:] {
		if child.scored {
			t.Errorf("child %d should need evaluation", i)
		}
		j := child.weights.Jump
		p := child.weights.PowerUp
		// Mean of two parents drawn from {0,1,2,3}: a multiple of 0.5 in [0, 3].
		if j[0] < 0 || j[0] > 3 || math.Mod(j[0]*2, 1) != 0 || j[1] != -j[0] {
			t.Errorf("child %d jump %v is not a parent average", i, j)
		}
		if p[0] != 10*j[0] || p[1] != 100 {
			t.Errorf("child %d power-up %v does not match its jump parents %v", i, p, j)
		}
	}
}

func TestMutateStaysInRange(t *testing.T) {
	g := NewGenetic(config.GeneticConfig{MutationRate: 1, MutationStrength: 0.3}, 1)
	rng := rand.New(rand.NewSource(2))
	genes := make([]float64, 200)
	out := g.mutate(rng, genes)
	changed := 0
	for _, x := range out {
		if math.Abs(x) > 0.3 {
			t.Fatalf("gene %v outside mutation strength", x)
		}
		if x != 0 {
			changed++
		}
	}
	if changed == 0 {
		t.Error("rate 1 should mutate genes")
	}

	g.Config.MutationRate = 0
	same := []float64{1, 2, 3}
	if got := g.mutate(rng, same); !reflect.DeepEqual(got, []float64{1, 2, 3}) {
		t.Errorf("rate 0 changed genes: %v", got)
	}
}

func TestCrossoverAverages(t *testing.T) {
	got := crossover([]float64{1, 2, -4}, []float64{3, 2, 4})
	if !reflect.DeepEqual(got, []float64{2, 2, 0}) {
		t.Errorf("crossover = %v", got)
	}
}
