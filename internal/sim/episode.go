package sim

import (
	"math/rand"

	"github.com/vovakirdan/flaptrain/internal/config"
)

// Outcome is the state of an episode.
type Outcome int

const (
	Running Outcome = iota
	Collision
	Timeout
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case Running:
		return "running"
	case Collision:
		return "collision"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// View is a snapshot of an episode at a tick boundary. Its slices alias the
// episode's state: controllers and renderers must treat them as read-only
// and must not keep them past the next Step.
type View struct {
	Agent     Agent
	Obstacles []Obstacle
	PowerUps  []PowerUp
	Wind      float64
	Gap       float64
	Speed     float64
	Tick      int
	Cleared   int
	Score     float64
	Outcome   Outcome
}

// StepResult describes what happened during one tick.
type StepResult struct {
	Tick          int
	Actions       Actions
	Cleared       int  // obstacles cleared this tick
	Collected     int  // power-ups picked up this tick
	ShieldStarted bool // a charge was spent this tick
	Score         float64
	Outcome       Outcome
}

// Result is the final outcome of an episode.
type Result struct {
	Score           float64
	Ticks           int
	Cleared         int
	Outcome         Outcome
	ShieldsUsed     int
	SurvivalBonuses int
	Collected       int
}

// Episode is one simulated run from start to a terminal state.
type Episode struct {
	variant   *config.Variant
	rng       *rand.Rand
	ramp      *config.Ramp
	agent     Agent
	obstacles []Obstacle
	powerUps  []PowerUp
	wind      float64
	tick      int
	score     float64
	outcome   Outcome

	shieldsUsed     int
	survivalBonuses int
	collected       int
}

// NewEpisode starts an episode of variant v. All randomness is drawn from
// a generator seeded with seed, so the same seed and the same controller
// decisions replay the same episode. v must not be modified while the
// episode runs.
func NewEpisode(v *config.Variant, seed int64) *Episode {
	e := &Episode{
		variant: v,
		rng:     rand.New(rand.NewSource(seed)),
		ramp:    config.NewRamp(v.Difficulty),
		agent: Agent{
			X: v.Physics.AgentX,
			Y: v.Physics.AgentStartY,
		},
	}
	if v.Shield.Enabled {
		e.agent.Charges = v.Shield.InitialCharges
	}
	e.obstacles = initialObstacles(e.rng, v, e.ramp.Gap())
	return e
}

// Variant returns the descriptor the episode runs.
func (e *Episode) Variant() *config.Variant {
	return e.variant
}

// Done reports whether the episode reached a terminal state.
func (e *Episode) Done() bool {
	return e.outcome != Running
}

// View returns the current snapshot.
func (e *Episode) View() View {
	return View{
		Agent:     e.agent,
		Obstacles: e.obstacles,
		PowerUps:  e.powerUps,
		Wind:      e.wind,
		Gap:       e.ramp.Gap(),
		Speed:     e.ramp.Speed(),
		Tick:      e.tick,
		Cleared:   e.ramp.Cleared(),
		Score:     e.score,
		Outcome:   e.outcome,
	}
}

// Step advances the episode by one tick, asking ctrl for the actions.
// Once the episode is over Step does nothing and reports the final state.
func (e *Episode) Step(ctrl Controller) StepResult {
	if e.outcome != Running {
		return StepResult{Tick: e.tick, Score: e.score, Outcome: e.outcome}
	}
	v := e.variant
	res := StepResult{}

	e.wind = sampleWind(e.rng, v.Wind)

	if v.PowerUps.Enabled && e.rng.Intn(v.PowerUps.Chance) == 1 {
		e.powerUps = append(e.powerUps, spawnPowerUp(e.rng, v.PowerUps))
	}

	if e.agent.SurvivedShield {
		e.agent.SurvivedShield = false
		if v.Scoring.SurvivalBonus > 0 {
			e.score += v.Scoring.SurvivalBonus
			e.survivalBonuses++
		}
	}

	res.Actions = ctrl.Decide(e.View())
	if res.Actions.Jump {
		jump(&e.agent, v.Physics)
	}
	if res.Actions.UsePowerUp && activateShield(&e.agent, v.Shield) {
		res.ShieldStarted = true
		e.shieldsUsed++
	}

	// The shield state that protects this tick is the one in force before
	// the countdown, so the expiring tick is still covered.
	shielded := e.agent.Shielded()

	advanceAgent(&e.agent, v.Physics, e.wind)
	speed := e.ramp.Speed()
	for i := range e.obstacles {
		advanceObstacle(&e.obstacles[i], v.Oscillation, speed)
	}
	for i := range e.powerUps {
		advancePowerUp(&e.powerUps[i], speed)
	}

	res.Cleared = e.recycle(shielded)
	e.prunePowerUps()

	res.Collected = collectPowerUps(&e.agent, e.powerUps, v)
	e.collected += res.Collected

	hit := hitsObstacle(e.agent.Rect(v.Physics.AgentHalfExtent), e.obstacles, v, e.ramp.Gap())
	out := outOfBounds(e.agent, v.Playfield.Height)
	if shielded {
		hit = false
		if v.Shield.CoversBounds {
			out = false
		}
	}

	e.score += e.multiplied(v.Scoring.TickPoints, shielded && v.Scoring.ShieldMultipliesTicks)
	e.tick++

	switch {
	case hit || out:
		e.outcome = Collision
	case e.tick > v.TickCap:
		e.outcome = Timeout
	}

	res.Tick = e.tick
	res.Score = e.score
	res.Outcome = e.outcome
	return res
}

// recycle replaces every obstacle that left the playfield with a new one
// at the respawn column and advances the difficulty ramp. New obstacles
// use the gap in force before the ramp steps.
func (e *Episode) recycle(shielded bool) int {
	v := e.variant
	w := v.Obstacles.Width

	kept := e.obstacles[:0]
	removed := 0
	for _, o := range e.obstacles {
		if offscreen(o, w) {
			removed++
			continue
		}
		kept = append(kept, o)
	}
	e.obstacles = kept

	for i := 0; i < removed; i++ {
		e.obstacles = append(e.obstacles, spawnObstacle(e.rng, v, e.ramp.Gap(), v.Obstacles.RespawnX()))
		e.score += e.multiplied(v.Scoring.ObstaclePoints, shielded)
		e.ramp.Clear()
	}
	return removed
}

// prunePowerUps drops power-ups that scrolled past the left edge.
func (e *Episode) prunePowerUps() {
	if len(e.powerUps) == 0 {
		return
	}
	half := e.variant.PowerUps.HalfExtent
	kept := e.powerUps[:0]
	for _, p := range e.powerUps {
		if p.X+half >= 0 {
			kept = append(kept, p)
		}
	}
	e.powerUps = kept
}

func (e *Episode) multiplied(points float64, boosted bool) float64 {
	if boosted {
		return points * e.variant.Scoring.ShieldMultiplier
	}
	return points
}

// Run steps the episode until it ends and returns the result. The tick cap
// guarantees termination for any controller.
func (e *Episode) Run(ctrl Controller) Result {
	for e.outcome == Running {
		e.Step(ctrl)
	}
	return e.Result()
}

// Result returns the episode's totals so far.
func (e *Episode) Result() Result {
	return Result{
		Score:           e.score,
		Ticks:           e.tick,
		Cleared:         e.ramp.Cleared(),
		Outcome:         e.outcome,
		ShieldsUsed:     e.shieldsUsed,
		SurvivalBonuses: e.survivalBonuses,
		Collected:       e.collected,
	}
}
