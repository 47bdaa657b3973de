// Package config provides YAML-based simulation variant descriptors,
// their loading rules and the per-episode difficulty ramp.
package config

// Variant describes one simulation variant: playfield geometry, physics,
// optional mechanics (oscillation, wind, shield, power-ups), scoring, the
// feature set the decision policy reads and optimizer defaults.
//
// A single descriptor replaces the per-variant game engines: every built-in
// mode is just a different set of values here.
type Variant struct {
	ID          string           `yaml:"id"`
	Title       string           `yaml:"title"`
	Playfield   Playfield        `yaml:"playfield"`
	Physics     Physics          `yaml:"physics"`
	Obstacles   Obstacles        `yaml:"obstacles"`
	Oscillation Oscillation      `yaml:"oscillation"`
	Wind        Wind             `yaml:"wind"`
	Shield      Shield           `yaml:"shield"`
	PowerUps    PowerUps         `yaml:"powerups"`
	Scoring     Scoring          `yaml:"scoring"`
	Features    Features         `yaml:"features"`
	Difficulty  DifficultyConfig `yaml:"difficulty"`
	TickCap     int              `yaml:"tick_cap"`
	Training    Training         `yaml:"training"`
}

// Playfield is the size of the simulated area in playfield units.
type Playfield struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Physics defines the agent's motion parameters.
type Physics struct {
	Gravity         float64 `yaml:"gravity"`
	JumpImpulse     float64 `yaml:"jump_impulse"`
	AgentX          float64 `yaml:"agent_x"`
	AgentStartY     float64 `yaml:"agent_start_y"`
	AgentHalfExtent float64 `yaml:"agent_half_extent"`
}

// Obstacles defines the fixed-size window of scrolling obstacles.
type Obstacles struct {
	Width    float64 `yaml:"width"`
	Spacing  float64 `yaml:"spacing"`
	Count    int     `yaml:"count"`
	Margin   int     `yaml:"margin"`    // minimum distance of the gap from either edge at spawn
	InitialX float64 `yaml:"initial_x"` // x of the first obstacle
	ReachPad float64 `yaml:"reach_pad"` // added to the trailing edge when picking the nearest obstacle
}

// RespawnX is where a recycled obstacle reappears, keeping spacing constant
// across the active window.
func (o Obstacles) RespawnX() float64 {
	return o.Spacing*float64(o.Count) - o.Width
}

// Oscillation makes obstacles move: the gap drifts vertically and the
// obstacle jitters horizontally. The bottom segment may be shifted by a
// fixed random offset drawn at spawn.
type Oscillation struct {
	Enabled         bool    `yaml:"enabled"`
	Amplitude       float64 `yaml:"amplitude"`
	PhaseStep       float64 `yaml:"phase_step"`
	Jitter          float64 `yaml:"jitter"`
	BottomOffsetMax int     `yaml:"bottom_offset_max"`
}

// Wind adds a uniform sample in [-Strength, Strength] to the agent's
// velocity every tick. Zero strength disables it.
type Wind struct {
	Strength float64 `yaml:"strength"`
}

// Enabled reports whether wind is sampled.
func (w Wind) Enabled() bool {
	return w.Strength > 0
}

// Shield defines the timed invincibility mechanic.
type Shield struct {
	Enabled        bool `yaml:"enabled"`
	Duration       int  `yaml:"duration"`
	InitialCharges int  `yaml:"initial_charges"`
	CoversBounds   bool `yaml:"covers_bounds"` // shield also suppresses leaving the playfield
}

// PowerUps defines collectible shield charges.
type PowerUps struct {
	Enabled    bool    `yaml:"enabled"`
	Chance     int     `yaml:"chance"` // spawn iff a uniform int in [0, chance) equals 1
	SpawnX     float64 `yaml:"spawn_x"`
	MinY       int     `yaml:"min_y"`
	MaxY       int     `yaml:"max_y"`
	HalfExtent float64 `yaml:"half_extent"`
}

// Scoring defines how an episode accumulates fitness.
type Scoring struct {
	ObstaclePoints        float64 `yaml:"obstacle_points"`
	TickPoints            float64 `yaml:"tick_points"`
	ShieldMultiplier      float64 `yaml:"shield_multiplier"`
	ShieldMultipliesTicks bool    `yaml:"shield_multiplies_ticks"`
	SurvivalBonus         float64 `yaml:"survival_bonus"`
}

// Features selects the policy's feature vector.
type Features struct {
	Motion    bool `yaml:"motion"`    // oscillation offset, jitter offset, wind
	PowerUp   bool `yaml:"powerup"`   // dx, dy to the nearest active power-up
	Quadratic bool `yaml:"quadratic"` // append the square of every base feature
	Dual      bool `yaml:"dual"`      // a second weight vector drives power-up use
}

// Base feature groups.
const (
	BaseFeatureCount    = 5
	MotionFeatureCount  = 3
	PowerUpFeatureCount = 2
)

// BaseCount returns the number of features before quadratic expansion.
func (f Features) BaseCount() int {
	n := BaseFeatureCount
	if f.Motion {
		n += MotionFeatureCount
	}
	if f.PowerUp {
		n += PowerUpFeatureCount
	}
	return n
}

// Count returns the length every weight vector must have.
func (f Features) Count() int {
	if f.Quadratic {
		return 2 * f.BaseCount()
	}
	return f.BaseCount()
}

// Training holds optimizer defaults for a variant.
type Training struct {
	HillClimb HillClimbConfig `yaml:"hillclimb"`
	Genetic   GeneticConfig   `yaml:"genetic"`
}

// HillClimbConfig parameterizes epsilon-greedy hill climbing.
type HillClimbConfig struct {
	Generations  int     `yaml:"generations"`
	Epsilon      float64 `yaml:"epsilon"`
	EpsilonDecay float64 `yaml:"epsilon_decay"`
	Batch        int     `yaml:"batch"`
	InitRange    float64 `yaml:"init_range"`
	ExploreRange float64 `yaml:"explore_range"`
	StepSize     float64 `yaml:"step_size"`
}

// GeneticConfig parameterizes the elitist genetic algorithm.
type GeneticConfig struct {
	Generations      int     `yaml:"generations"`
	Population       int     `yaml:"population"`
	Elite            int     `yaml:"elite"`
	MutationRate     float64 `yaml:"mutation_rate"`
	MutationStrength float64 `yaml:"mutation_strength"`
	InitRange        float64 `yaml:"init_range"`
}
