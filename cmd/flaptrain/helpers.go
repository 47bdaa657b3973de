package main

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/vovakirdan/flaptrain/internal/config"
	"github.com/vovakirdan/flaptrain/internal/core"
	"github.com/vovakirdan/flaptrain/internal/registry"
	"github.com/vovakirdan/flaptrain/internal/sim"
	"github.com/vovakirdan/flaptrain/internal/storage"
	"github.com/vovakirdan/flaptrain/internal/weights"
)

// loadVariant resolves a mode id, applying override files and --config.
func loadVariant(id string) (config.Variant, error) {
	base, err := registry.Create(id)
	if err != nil {
		return config.Variant{}, fmt.Errorf("unknown mode %q, run 'flaptrain list' to see available modes", id)
	}
	return config.Load(base, flagConfig)
}

// loadWeights reads a weight document and checks it fits the mode.
func loadWeights(path string, v config.Variant) (sim.Weights, error) {
	w, err := weights.Load(path)
	if err != nil {
		return sim.Weights{}, err
	}
	if err := w.Validate(v.Features); err != nil {
		return sim.Weights{}, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// resolveSeed returns --seed, or a clock-based seed when it is 0.
func resolveSeed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// runtimeConfig sizes playback to the terminal.
func runtimeConfig(seed int64) core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.FPS = core.ClampFPS(flagFPS)
	cfg.Seed = seed
	return cfg
}

// openStore opens the training database. Storage is optional: on failure
// the command continues without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open training database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

func printResult(label string, r sim.Result) {
	fmt.Printf("%s: score %.0f, %d ticks, %d cleared, %s", label, r.Score, r.Ticks, r.Cleared, r.Outcome)
	if r.ShieldsUsed > 0 || r.Collected > 0 {
		fmt.Printf(", %d shields, %d pickups, %d bonuses", r.ShieldsUsed, r.Collected, r.SurvivalBonuses)
	}
	fmt.Println()
}
