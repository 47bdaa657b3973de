package config

import "math"

// DifficultyConfig defines the stepwise difficulty ramp applied as
// obstacles are cleared.
type DifficultyConfig struct {
	InitialGap   float64 `yaml:"initial_gap"`
	InitialSpeed float64 `yaml:"initial_speed"`
	Every        int     `yaml:"every"` // cleared obstacles per ramp step
	GapStep      float64 `yaml:"gap_step"`
	GapFloor     float64 `yaml:"gap_floor"`
	SpeedStep    float64 `yaml:"speed_step"`
	SpeedCeiling float64 `yaml:"speed_ceiling"`
}

// Ramp holds the mutable simulation parameters of one episode. Each
// episode owns its own Ramp; it is never shared between episodes.
type Ramp struct {
	cfg     DifficultyConfig
	gap     float64
	speed   float64
	cleared int
}

// NewRamp creates a ramp at its initial gap and speed.
func NewRamp(cfg DifficultyConfig) *Ramp {
	return &Ramp{
		cfg:   cfg,
		gap:   cfg.InitialGap,
		speed: cfg.InitialSpeed,
	}
}

// Gap returns the current gap size.
func (r *Ramp) Gap() float64 {
	return r.gap
}

// Speed returns the current scroll speed.
func (r *Ramp) Speed() float64 {
	return r.speed
}

// Cleared returns the number of obstacles cleared so far.
func (r *Ramp) Cleared() int {
	return r.cleared
}

// Clear records one cleared obstacle and steps the ramp every Every
// clears. It reports whether a step happened. The gap never drops below
// GapFloor and the speed never exceeds SpeedCeiling.
func (r *Ramp) Clear() bool {
	r.cleared++
	if r.cfg.Every <= 0 || r.cleared%r.cfg.Every != 0 {
		return false
	}
	if r.gap > r.cfg.GapFloor {
		r.gap = math.Max(r.cfg.GapFloor, r.gap-r.cfg.GapStep)
	}
	if r.speed < r.cfg.SpeedCeiling {
		r.speed = math.Min(r.cfg.SpeedCeiling, r.speed+r.cfg.SpeedStep)
	}
	return true
}
