package config

import "sort"

// Built-in variant identifiers (mode selector values).
const (
	VariantSimple           = "simple"
	VariantComplex          = "complex"
	VariantComplexQuadratic = "complex-quadratic"
	VariantShield           = "shield"
	VariantPowerUp          = "powerup"
	VariantPowerUpQuadratic = "powerup-quadratic"
)

var builtins = map[string]func() Variant{
	VariantSimple:           simpleVariant,
	VariantComplex:          complexVariant,
	VariantComplexQuadratic: complexQuadraticVariant,
	VariantShield:           shieldVariant,
	VariantPowerUp:          powerUpVariant,
	VariantPowerUpQuadratic: powerUpQuadraticVariant,
}

// BuiltinIDs returns the identifiers of all built-in variants, sorted.
func BuiltinIDs() []string {
	ids := make([]string, 0, len(builtins))
	for id := range builtins {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Builtin returns a fresh copy of a built-in variant.
func Builtin(id string) (Variant, bool) {
	f, ok := builtins[id]
	if !ok {
		return Variant{}, false
	}
	return f(), true
}

// baseVariant is the classic game: plain scrolling obstacles, no wind,
// no shield. Every other built-in starts from it.
func baseVariant() Variant {
	return Variant{
		Playfield: Playfield{Width: 400, Height: 600},
		Physics: Physics{
			Gravity:         0.5,
			JumpImpulse:     -6,
			AgentX:          50,
			AgentStartY:     300,
			AgentHalfExtent: 20,
		},
		Obstacles: Obstacles{
			Width:    50,
			Spacing:  300,
			Count:    3,
			Margin:   100,
			InitialX: 400,
			ReachPad: 20,
		},
		Scoring: Scoring{
			ObstaclePoints:   1000,
			TickPoints:       1,
			ShieldMultiplier: 1,
		},
		Difficulty: DefaultDifficulty(),
		TickCap:    30000,
		Training: Training{
			HillClimb: HillClimbConfig{
				Generations:  1000,
				Epsilon:      1,
				EpsilonDecay: 0.995,
				Batch:        1,
				InitRange:    1,
				ExploreRange: 2,
				StepSize:     0.2,
			},
			Genetic: GeneticConfig{
				Generations:      100,
				Population:       30,
				Elite:            5,
				MutationRate:     0.2,
				MutationStrength: 0.3,
				InitRange:        1,
			},
		},
	}
}

// DefaultDifficulty returns the shared difficulty ramp: the gap narrows by
// 10 and the scroll speed rises by 0.5 every 5 cleared obstacles.
func DefaultDifficulty() DifficultyConfig {
	return DifficultyConfig{
		InitialGap:   200,
		InitialSpeed: 1,
		Every:        5,
		GapStep:      10,
		GapFloor:     60,
		SpeedStep:    0.5,
		SpeedCeiling: 10,
	}
}

func simpleVariant() Variant {
	v := baseVariant()
	v.ID = VariantSimple
	v.Title = "Simple"
	return v
}

// windyVariant is the base for variants with moving obstacles and wind.
// These engines applied gravity twice per tick, so the effective constant
// is 0.6.
func windyVariant() Variant {
	v := baseVariant()
	v.Physics.Gravity = 0.6
	v.Physics.JumpImpulse = -8
	v.Oscillation = Oscillation{
		Enabled:         true,
		Amplitude:       30,
		PhaseStep:       0.03,
		Jitter:          5,
		BottomOffsetMax: 80,
	}
	v.Wind = Wind{Strength: 0.2}
	return v
}

func complexVariant() Variant {
	v := windyVariant()
	v.ID = VariantComplex
	v.Title = "Complex (oscillation + wind)"
	v.Features = Features{Motion: true}
	return v
}

func complexQuadraticVariant() Variant {
	v := windyVariant()
	v.ID = VariantComplexQuadratic
	v.Title = "Complex, quadratic features"
	v.Features = Features{Motion: true, Quadratic: true}
	v.Training.HillClimb.Generations = 5000
	v.Training.HillClimb.EpsilonDecay = 0.9995
	return v
}

func shieldVariant() Variant {
	v := baseVariant()
	v.ID = VariantShield
	v.Title = "Shield charges"
	v.Physics.Gravity = 0.3
	v.Physics.JumpImpulse = -8
	v.Shield = Shield{
		Enabled:        true,
		Duration:       150,
		InitialCharges: 3,
		CoversBounds:   false,
	}
	v.Features = Features{Dual: true}
	v.Training.HillClimb.Generations = 50000
	v.Training.HillClimb.EpsilonDecay = 0.9999
	return v
}

func powerUpVariant() Variant {
	v := windyVariant()
	v.ID = VariantPowerUp
	v.Title = "Power-ups"
	v.Oscillation = Oscillation{
		Enabled: true,
		Jitter:  5,
	}
	v.Shield = Shield{
		Enabled:      true,
		Duration:     25,
		CoversBounds: true,
	}
	v.PowerUps = PowerUps{
		Enabled:    true,
		Chance:     150,
		SpawnX:     500,
		MinY:       100,
		MaxY:       500,
		HalfExtent: 10,
	}
	v.Scoring.ShieldMultiplier = 100
	v.Scoring.SurvivalBonus = 1000
	v.Features = Features{PowerUp: true, Dual: true}
	// Power-up episodes are noisy, so candidates are scored over a batch
	// and start from the wider range.
	v.Training.HillClimb.Generations = 5000
	v.Training.HillClimb.EpsilonDecay = 0.999
	v.Training.HillClimb.Batch = 10
	v.Training.HillClimb.InitRange = 2
	v.Training.Genetic.Population = 40
	v.Training.Genetic.Elite = 8
	return v
}

func powerUpQuadraticVariant() Variant {
	v := windyVariant()
	v.ID = VariantPowerUpQuadratic
	v.Title = "Power-ups, quadratic features"
	v.Shield = Shield{
		Enabled:      true,
		Duration:     150,
		CoversBounds: true,
	}
	v.PowerUps = PowerUps{
		Enabled:    true,
		Chance:     500,
		SpawnX:     500,
		MinY:       100,
		MaxY:       500,
		HalfExtent: 10,
	}
	v.Scoring.ShieldMultiplier = 10
	v.Scoring.ShieldMultipliesTicks = true
	v.Scoring.SurvivalBonus = 10000
	v.Features = Features{Motion: true, PowerUp: true, Quadratic: true, Dual: true}
	v.Training.HillClimb.Generations = 200000
	v.Training.HillClimb.EpsilonDecay = 0.99999
	return v
}
