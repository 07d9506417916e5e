// Package ui is rewake's Bubble Tea status view. Besides rendering the latest
// snapshot it is the source of terminal focus events for the refresh trigger.
package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/rewake/internal/focus"
	"github.com/five82/rewake/internal/state"
	"github.com/five82/rewake/internal/trigger"
)

const defaultRenderTick = time.Second

// StatsSource exposes refresh trigger state to the view.
type StatsSource interface {
	Stats() trigger.Stats
}

// Options configures the UI.
type Options struct {
	Store      *state.Store
	Focus      *focus.Source
	Trigger    StatsSource
	Refresh    func(state.RefreshReason)
	APIBind    string
	RenderTick time.Duration
}

// Run starts the program and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("ui requires a data store")
	}
	p := tea.NewProgram(New(opts),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

type renderTickMsg time.Time

// Model is the root Bubble Tea model.
type Model struct {
	store   *state.Store
	focus   *focus.Source
	trigger StatsSource
	refresh func(state.RefreshReason)
	apiBind string
	every   time.Duration

	keys    keyMap
	theme   Theme
	spinner spinner.Model

	snapshot  state.Snapshot
	stats     trigger.Stats
	lifecycle trigger.LifecycleState
	width     int
}

// New creates the model.
func New(opts Options) Model {
	every := opts.RenderTick
	if every <= 0 {
		every = defaultRenderTick
	}
	theme := nightfoxTheme()
	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(theme.Styles().AccentText),
	)
	m := Model{
		store:   opts.Store,
		focus:   opts.Focus,
		trigger: opts.Trigger,
		refresh: opts.Refresh,
		apiBind: opts.APIBind,
		every:   every,
		keys:    defaultKeyMap(),
		theme:   theme,
		spinner: sp,
	}
	m.sync()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.tick())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus != nil && m.focus.Observe(msg) {
		m.sync()
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			if m.refresh != nil {
				m.refresh(state.ReasonManual)
			}
			return m, nil
		case key.Matches(msg, m.keys.Suspend):
			if m.focus != nil {
				m.focus.Set(trigger.Background)
			}
			m.sync()
			return m, tea.Suspend
		}
		return m, nil

	case renderTickMsg:
		m.sync()
		return m, m.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) sync() {
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	if m.trigger != nil {
		m.stats = m.trigger.Stats()
	}
	if m.focus != nil {
		m.lifecycle = m.focus.State()
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.every, func(t time.Time) tea.Msg { return renderTickMsg(t) })
}
