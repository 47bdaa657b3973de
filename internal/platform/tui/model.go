package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/flaptrain/internal/config"
	"github.com/vovakirdan/flaptrain/internal/core"
	"github.com/vovakirdan/flaptrain/internal/sim"
)

// helpRows is the number of terminal rows below the screen used by help.
const helpRows = 1

// Options configures a playback session.
type Options struct {
	Variant    *config.Variant
	Controller sim.Controller // nil means keyboard play
	Config     core.RuntimeConfig
	OnFinish   func(seed int64, r sim.Result)
}

// Model is the Bubble Tea model that drives one episode at a time and
// draws it after every tick. It only reads episode state between ticks.
type Model struct {
	variant  *config.Variant
	ctrl     sim.Controller
	manual   *ManualController
	episode  *sim.Episode
	screen   *core.Screen
	config   core.RuntimeConfig
	keys     KeyMap
	help     help.Model
	onFinish func(seed int64, r sim.Result)
	results  []sim.Result
	paused   bool
	quitting bool
}

// NewModel creates a model and starts its first episode.
func NewModel(opts Options) Model {
	cfg := opts.Config
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	cfg.FPS = core.ClampFPS(cfg.FPS)

	m := Model{
		variant:  opts.Variant,
		ctrl:     opts.Controller,
		screen:   core.NewScreen(cfg.ScreenW, core.Max(cfg.ScreenH-helpRows, hudRows+1)),
		config:   cfg,
		help:     help.New(),
		onFinish: opts.OnFinish,
	}
	if m.ctrl == nil {
		m.manual = NewManualController()
		m.ctrl = m.manual
	}
	m.keys = DefaultKeyMap(m.manual != nil, opts.Variant.Features.Dual)
	m.help.Width = cfg.ScreenW
	m.episode = sim.NewEpisode(opts.Variant, cfg.Seed)
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.FPS)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, core.Max(msg.Height-helpRows, hudRows+1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch action := m.keys.MapKey(msg); action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionJump, core.ActionPowerUp:
		if m.manual != nil && !m.paused {
			m.manual.Press(action)
		}
	case core.ActionPause:
		m.paused = !m.paused
	case core.ActionRestart:
		if m.episode.Done() {
			m.config.Seed++
			m.episode = sim.NewEpisode(m.variant, m.config.Seed)
			m.paused = false
		}
	case core.ActionFaster:
		m.config.FPS = core.ClampFPS(m.config.FPS * 2)
	case core.ActionSlower:
		m.config.FPS = core.ClampFPS(m.config.FPS / 2)
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if !m.paused && !m.episode.Done() {
		m.episode.Step(m.ctrl)
		if m.episode.Done() {
			r := m.episode.Result()
			m.results = append(m.results, r)
			if m.onFinish != nil {
				m.onFinish(m.config.Seed, r)
			}
		}
	}
	return m, tickCmd(m.config.FPS)
}

// Results returns the outcome of every finished episode in order.
func (m Model) Results() []sim.Result {
	return m.results
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	view := m.episode.View()
	DrawView(m.screen, m.variant, view)
	if dv, ok := m.ctrl.(decisionValuer); ok {
		drawDecision(m.screen, m.variant, dv, view)
	}
	status := fmt.Sprintf("%d fps", m.config.FPS)
	if m.paused {
		status = "PAUSED  " + status
	}
	m.screen.DrawTextColored(m.screen.Width()-len(status), 0, status, core.ColorAlert)

	return RenderScreen(m.screen) + "\n" + m.help.View(m.keys)
}

// Run starts the Bubble Tea program and returns the finished episodes.
func Run(opts Options) ([]sim.Result, error) {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	if m, ok := final.(Model); ok {
		return m.Results(), nil
	}
	return nil, nil
}
