// Package sim implements the tick-based obstacle-avoidance simulation:
// entity physics, obstacle and power-up spawning, collision detection,
// the difficulty ramp, scoring and the linear decision policy.
//
// An Episode owns all of its state, including its random source and its
// difficulty ramp, so episodes can run concurrently without sharing
// anything but the read-only variant descriptor and weights.
package sim

import (
	"math"

	"github.com/vovakirdan/flaptrain/internal/core"
)

// Agent is the controlled entity. X is fixed for the whole episode.
type Agent struct {
	X        float64
	Y        float64
	Velocity float64

	ShieldTimer    int  // ticks of invincibility left, 0 when unshielded
	Charges        int  // stored shield charges
	SurvivedShield bool // set when a shield runs out, consumed by the scorer
}

// Shielded reports whether the agent is currently invincible.
func (a Agent) Shielded() bool {
	return a.ShieldTimer > 0
}

// Rect returns the agent's bounding box.
func (a Agent) Rect(halfExtent float64) core.Rect {
	return core.RectAround(a.X, a.Y, halfExtent)
}

// Obstacle is a scrolling barrier with a vertical gap. The gap itself is
// shared simulation state and is passed in where needed.
type Obstacle struct {
	BaseX        float64 // scrolled position before jitter
	X            float64 // current position of the top segment
	BaseHeight   float64 // gap-top height drawn at spawn
	Height       float64 // current gap-top height
	BottomOffset float64 // horizontal shift of the bottom segment
	PhaseY       float64 // vertical oscillation phase
	PhaseX       float64 // horizontal jitter phase
}

// TopRect returns the segment from the top of the playfield down to the gap.
func (o Obstacle) TopRect(width float64) core.Rect {
	return core.NewRect(o.X, 0, width, o.Height)
}

// BottomRect returns the segment from the bottom of the gap down to the
// bottom of the playfield.
func (o Obstacle) BottomRect(width, gap, playfieldH float64) core.Rect {
	top := o.Height + gap
	return core.NewRect(o.X+o.BottomOffset, top, width, playfieldH-top)
}

// TrailingEdge returns the rightmost edge of either segment.
func (o Obstacle) TrailingEdge(width float64) float64 {
	return math.Max(o.X+width, o.X+o.BottomOffset+width)
}

// PowerUp is a collectible shield charge. Collected power-ups stay in the
// episode as inactive entities until they scroll away.
type PowerUp struct {
	X      float64
	Y      float64
	Active bool
}

// Rect returns the power-up's bounding box.
func (p PowerUp) Rect(halfExtent float64) core.Rect {
	return core.RectAround(p.X, p.Y, halfExtent)
}
