package sim

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/vovakirdan/flaptrain/internal/config"
)

// PowerUpSentinel is the distance reported when no power-up is ahead.
const PowerUpSentinel = 1000

// Actions are the booleans a controller produces each tick.
type Actions struct {
	Jump       bool
	UsePowerUp bool
}

// Controller decides the actions for the next tick from a read-only view.
type Controller interface {
	Decide(View) Actions
}

// ControllerFunc adapts a function to the Controller interface.
type ControllerFunc func(View) Actions

// Decide calls f(view).
func (f ControllerFunc) Decide(view View) Actions {
	return f(view)
}

// Policy is the linear decision rule: an action fires when the dot product
// of its weight vector with the feature vector is negative.
// A Policy reuses an internal buffer and must not be shared between
// concurrently running episodes.
type Policy struct {
	variant  *config.Variant
	weights  Weights
	features []float64
}

// NewPolicy validates the weights against the variant and builds a policy.
func NewPolicy(v *config.Variant, w Weights) (*Policy, error) {
	if err := w.Validate(v.Features); err != nil {
		return nil, err
	}
	return newPolicy(v, w), nil
}

// newPolicy builds a policy from weights already validated against v.
func newPolicy(v *config.Variant, w Weights) *Policy {
	return &Policy{
		variant:  v,
		weights:  w,
		features: make([]float64, 0, v.Features.Count()),
	}
}

// Decide implements Controller. With no obstacle ahead it takes no action.
func (p *Policy) Decide(view View) Actions {
	jump, powerUp, ok := p.Values(view)
	if !ok {
		return Actions{}
	}
	return Actions{
		Jump:       jump < 0,
		UsePowerUp: p.variant.Features.Dual && powerUp < 0,
	}
}

// Values returns both decision values for the current view. The second
// value is zero for single-action variants. ok is false when no obstacle
// is ahead.
func (p *Policy) Values(view View) (jump, powerUp float64, ok bool) {
	idx := NearestObstacle(p.variant, view.Agent, view.Obstacles)
	if idx < 0 {
		return 0, 0, false
	}
	p.features = AppendFeatures(p.features[:0], p.variant, view, idx)
	jump = floats.Dot(p.weights.Jump, p.features)
	if p.variant.Features.Dual {
		powerUp = floats.Dot(p.weights.PowerUp, p.features)
	}
	return jump, powerUp, true
}

// NearestObstacle returns the index of the obstacle the agent has to deal
// with next, or -1 if every obstacle is behind it. An obstacle is behind
// once its trailing edge plus the reach pad is left of the agent. Among the
// rest the smallest horizontal distance wins; ties keep the first found.
func NearestObstacle(v *config.Variant, a Agent, obstacles []Obstacle) int {
	best := -1
	bestDx := math.Inf(1)
	for i, o := range obstacles {
		if o.TrailingEdge(v.Obstacles.Width)+v.Obstacles.ReachPad < a.X {
			continue
		}
		if dx := o.X - a.X; dx < bestDx {
			best, bestDx = i, dx
		}
	}
	return best
}

// NearestPowerUp returns the offset to the closest active power-up that is
// not behind the agent, or the sentinel for both when there is none.
func NearestPowerUp(a Agent, powerUps []PowerUp) (dx, dy float64) {
	dx, dy = PowerUpSentinel, PowerUpSentinel
	for _, p := range powerUps {
		if !p.Active {
			continue
		}
		if d := p.X - a.X; d >= 0 && d < dx {
			dx = d
			dy = p.Y - a.Y
		}
	}
	return dx, dy
}

// AppendFeatures appends the feature vector for obstacle idx to dst.
//
// Layout: dy to gap top, dy to gap bottom, dx, velocity, altitude; then the
// motion group (oscillation offset, jitter offset, wind) and the power-up
// group (dx, dy) when enabled; then the square of each of those when the
// variant is quadratic.
func AppendFeatures(dst []float64, v *config.Variant, view View, idx int) []float64 {
	a := view.Agent
	o := view.Obstacles[idx]

	start := len(dst)
	dst = append(dst,
		a.Y-o.Height,
		a.Y-(o.Height+view.Gap),
		o.X-a.X,
		a.Velocity,
		a.Y,
	)
	if v.Features.Motion {
		dst = append(dst,
			math.Sin(o.PhaseY)*v.Oscillation.Amplitude,
			math.Cos(o.PhaseX)*v.Oscillation.Jitter,
			view.Wind,
		)
	}
	if v.Features.PowerUp {
		dx, dy := NearestPowerUp(a, view.PowerUps)
		dst = append(dst, dx, dy)
	}
	if v.Features.Quadratic {
		end := len(dst)
		for i := start; i < end; i++ {
			dst = append(dst, dst[i]*dst[i])
		}
	}
	return dst
}
