package tui

import (
	"github.com/vovakirdan/flaptrain/internal/core"
	"github.com/vovakirdan/flaptrain/internal/sim"
)

// ManualController turns key presses collected between ticks into the
// actions of the next tick.
type ManualController struct {
	frame core.InputFrame
}

// NewManualController creates a controller with no pending input.
func NewManualController() *ManualController {
	return &ManualController{frame: core.NewInputFrame()}
}

// Press queues an action for the next tick.
func (c *ManualController) Press(a core.Action) {
	c.frame.Set(a)
}

// Decide implements sim.Controller. Pending input is consumed.
func (c *ManualController) Decide(sim.View) sim.Actions {
	a := sim.Actions{
		Jump:       c.frame.Has(core.ActionJump),
		UsePowerUp: c.frame.Has(core.ActionPowerUp),
	}
	c.frame.Clear()
	return a
}
