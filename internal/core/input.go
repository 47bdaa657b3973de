package core

// Action represents a semantic action, abstracted from physical key presses.
// Both the manual-play keymap and recorded controllers speak in Actions.
type Action int

const (
	ActionNone    Action = iota
	ActionJump           // Space, W, Up - jump impulse
	ActionPowerUp        // P, E - spend a shield charge
	ActionPause          // Escape - pause/unpause playback
	ActionRestart        // R - start a fresh episode after the end
	ActionFaster         // + - raise playback speed
	ActionSlower         // - - lower playback speed
	ActionQuit           // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionJump:
		return "Jump"
	case ActionPowerUp:
		return "PowerUp"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionFaster:
		return "Faster"
	case ActionSlower:
		return "Slower"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame collects all actions triggered during one simulation tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}
