package sim

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/flaptrain/internal/config"
	"github.com/vovakirdan/flaptrain/internal/core"
)

// spawnObstacle creates an obstacle at x. The gap-top height is drawn
// uniformly from [margin, height-gap-margin] using the current gap.
// Oscillating variants also draw the bottom offset and both phases.
func spawnObstacle(rng *rand.Rand, v *config.Variant, gap, x float64) Obstacle {
	o := Obstacle{BaseX: x, X: x}

	osc := v.Oscillation
	if osc.Enabled {
		m := osc.BottomOffsetMax
		o.BottomOffset = float64(rng.Intn(2*m+1) - m)
	}

	lo := v.Obstacles.Margin
	hi := int(v.Playfield.Height-gap) - lo
	if hi < lo {
		hi = lo
	}
	o.BaseHeight = float64(lo + rng.Intn(hi-lo+1))
	o.Height = o.BaseHeight

	if osc.Enabled {
		o.PhaseY = rng.Float64() * 2 * math.Pi
		o.PhaseX = rng.Float64() * 2 * math.Pi
	}
	return o
}

// initialObstacles lays out the starting window at constant spacing.
func initialObstacles(rng *rand.Rand, v *config.Variant, gap float64) []Obstacle {
	obs := make([]Obstacle, 0, v.Obstacles.Count)
	for i := 0; i < v.Obstacles.Count; i++ {
		x := v.Obstacles.InitialX + float64(i)*v.Obstacles.Spacing
		obs = append(obs, spawnObstacle(rng, v, gap, x))
	}
	return obs
}

// spawnPowerUp places a power-up at the spawn column with a uniform height.
func spawnPowerUp(rng *rand.Rand, p config.PowerUps) PowerUp {
	return PowerUp{
		X:      p.SpawnX,
		Y:      float64(p.MinY + rng.Intn(p.MaxY-p.MinY+1)),
		Active: true,
	}
}

// sampleWind draws this tick's wind in [-strength, strength).
func sampleWind(rng *rand.Rand, w config.Wind) float64 {
	if !w.Enabled() {
		return 0
	}
	return (rng.Float64()*2 - 1) * w.Strength
}

// jump sets the velocity to the impulse regardless of current motion.
func jump(a *Agent, p config.Physics) {
	a.Velocity = p.JumpImpulse
}

// activateShield spends one charge. It has no effect without charges or
// while a shield is already running. It reports whether a shield started.
func activateShield(a *Agent, s config.Shield) bool {
	if !s.Enabled || a.Charges <= 0 || a.Shielded() {
		return false
	}
	a.Charges--
	a.ShieldTimer = s.Duration
	a.SurvivedShield = false
	return true
}

// advanceAgent applies gravity, wind and the shield countdown.
func advanceAgent(a *Agent, p config.Physics, wind float64) {
	a.Velocity += p.Gravity + wind
	a.Y += a.Velocity
	if a.ShieldTimer > 0 {
		a.ShieldTimer--
		if a.ShieldTimer == 0 {
			a.SurvivedShield = true
		}
	}
}

// advanceObstacle scrolls an obstacle and updates its oscillation.
func advanceObstacle(o *Obstacle, osc config.Oscillation, speed float64) {
	o.BaseX -= speed
	if !osc.Enabled {
		o.X = o.BaseX
		return
	}
	o.PhaseY += osc.PhaseStep
	o.PhaseX += osc.PhaseStep
	o.Height = o.BaseHeight + math.Trunc(math.Sin(o.PhaseY)*osc.Amplitude)
	o.X = o.BaseX + math.Trunc(math.Cos(o.PhaseX)*osc.Jitter)
}

// advancePowerUp scrolls a power-up with the obstacles.
func advancePowerUp(p *PowerUp, speed float64) {
	p.X -= speed
}

// offscreen reports whether an obstacle has fully left the playfield.
func offscreen(o Obstacle, width float64) bool {
	return o.X+width < 0
}

// hitsObstacle tests the agent's box against both segments of every obstacle.
func hitsObstacle(box core.Rect, obstacles []Obstacle, v *config.Variant, gap float64) bool {
	w := v.Obstacles.Width
	for _, o := range obstacles {
		if box.Intersects(o.TopRect(w)) || box.Intersects(o.BottomRect(w, gap, v.Playfield.Height)) {
			return true
		}
	}
	return false
}

// outOfBounds reports whether the agent left the vertical playfield range.
func outOfBounds(a Agent, playfieldH float64) bool {
	return a.Y > playfieldH || a.Y < 0
}

// collectPowerUps deactivates every active power-up the agent touches and
// returns how many were picked up.
func collectPowerUps(a *Agent, powerUps []PowerUp, v *config.Variant) int {
	box := a.Rect(v.Physics.AgentHalfExtent)
	n := 0
	for i := range powerUps {
		p := &powerUps[i]
		if p.Active && box.Intersects(p.Rect(v.PowerUps.HalfExtent)) {
			p.Active = false
			a.Charges++
			n++
		}
	}
	return n
}
