package tui

import (
	"fmt"

	"github.com/vovakirdan/flaptrain/internal/config"
	"github.com/vovakirdan/flaptrain/internal/core"
	"github.com/vovakirdan/flaptrain/internal/sim"
)

// hudRows is the number of screen rows reserved above the playfield.
const hudRows = 2

// viewport maps playfield units onto screen cells.
type viewport struct {
	top    int
	scaleX float64
	scaleY float64
}

func newViewport(s *core.Screen, pf config.Playfield) viewport {
	rows := core.Max(s.Height()-hudRows, 1)
	return viewport{
		top:    hudRows,
		scaleX: float64(s.Width()) / pf.Width,
		scaleY: float64(rows) / pf.Height,
	}
}

func (vp viewport) rect(r core.Rect) core.Rect {
	return core.Rect{
		X: r.X * vp.scaleX,
		Y: r.Y*vp.scaleY + float64(vp.top),
		W: r.W * vp.scaleX,
		H: r.H * vp.scaleY,
	}
}

// DrawView rasterizes a snapshot into the screen: HUD rows on top and the
// playfield scaled into the remaining rows.
func DrawView(s *core.Screen, v *config.Variant, view sim.View) {
	s.Clear()
	vp := newViewport(s, v.Playfield)

	field := vp.rect(core.Rect{W: v.Playfield.Width, H: v.Playfield.Height})
	s.DrawBox(field, core.ColorBorder)

	w := v.Obstacles.Width
	for _, o := range view.Obstacles {
		s.DrawRectColored(vp.rect(o.TopRect(w)), '█', core.ColorObstacle)
		s.DrawRectColored(vp.rect(o.BottomRect(w, view.Gap, v.Playfield.Height)), '█', core.ColorObstacleEdge)
	}

	for _, p := range view.PowerUps {
		if p.Active {
			s.DrawRectColored(vp.rect(p.Rect(v.PowerUps.HalfExtent)), '◆', core.ColorPowerUp)
		}
	}

	agent, color := '@', core.ColorAgent
	if view.Agent.Shielded() {
		agent, color = '⊕', core.ColorAgentShielded
	}
	s.DrawRectColored(vp.rect(view.Agent.Rect(v.Physics.AgentHalfExtent)), agent, color)

	drawHUD(s, v, view)
}

func drawHUD(s *core.Screen, v *config.Variant, view sim.View) {
	line := fmt.Sprintf("%s  score %.0f  cleared %d  tick %d", v.Title, view.Score, view.Cleared, view.Tick)
	s.DrawTextColored(0, 0, line, core.ColorHUD)

	stats := fmt.Sprintf("gap %.0f  speed %.1f", view.Gap, view.Speed)
	if v.Wind.Enabled() {
		stats += fmt.Sprintf("  wind %+.2f", view.Wind)
	}
	if v.Shield.Enabled || v.PowerUps.Enabled {
		stats += fmt.Sprintf("  charges %d", view.Agent.Charges)
		if view.Agent.Shielded() {
			stats += fmt.Sprintf("  shield %d", view.Agent.ShieldTimer)
		}
	}
	s.DrawTextColored(0, 1, stats, core.ColorHUD)

	if view.Outcome != sim.Running {
		msg := fmt.Sprintf(" %s at tick %d, score %.0f ", view.Outcome, view.Tick, view.Score)
		s.DrawTextCentered(s.Height()/2, msg, core.ColorAlert)
	}
}

// decisionValuer is implemented by controllers that can report the values
// behind their decisions, such as *sim.Policy.
type decisionValuer interface {
	Values(sim.View) (jump, powerUp float64, ok bool)
}

// drawDecision shows the decision values right-aligned on the stats row.
// A negative value fires the action.
func drawDecision(s *core.Screen, v *config.Variant, dv decisionValuer, view sim.View) {
	jump, powerUp, ok := dv.Values(view)
	if !ok {
		return
	}
	text := fmt.Sprintf("jump %+.1f", jump)
	if v.Features.Dual {
		text += fmt.Sprintf("  power-up %+.1f", powerUp)
	}
	s.DrawTextColored(s.Width()-len(text), 1, text, core.ColorHUD)
}
