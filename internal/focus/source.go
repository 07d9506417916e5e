// Package focus turns Bubble Tea terminal focus and suspend messages into
// lifecycle states for the refresh trigger.
package focus

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/rewake/internal/event"
	"github.com/five82/rewake/internal/trigger"
)

// Source is a trigger.LifecycleSource fed from a Bubble Tea update loop.
// Terminals only report focus when the program runs with tea.WithReportFocus.
type Source struct {
	bus event.Bus[trigger.LifecycleState]

	mu    sync.Mutex
	state trigger.LifecycleState
}

var _ trigger.LifecycleSource = (*Source)(nil)

// New returns a Source that assumes the terminal starts focused.
func New() *Source {
	return &Source{state: trigger.Active}
}

// SubscribeLifecycle implements trigger.LifecycleSource.
func (s *Source) SubscribeLifecycle(fn func(trigger.LifecycleState)) trigger.Subscription {
	return s.bus.Subscribe(fn)
}

// Observe inspects a Bubble Tea message and publishes the matching state.
// It reports whether msg was a lifecycle message.
func (s *Source) Observe(msg tea.Msg) bool {
	state, ok := FromMsg(msg)
	if !ok {
		return false
	}
	s.Set(state)
	return true
}

// Set publishes state unless it equals the current one, so subscribers see
// at most one event per transition.
func (s *Source) Set(state trigger.LifecycleState) {
	s.mu.Lock()
	if s.state == state {
		s.mu.Unlock()
		return
	}
	s.state = state
	s.mu.Unlock()

	s.bus.Publish(state)
}

// State returns the last published state.
func (s *Source) State() trigger.LifecycleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribers returns the number of attached listeners.
func (s *Source) Subscribers() int {
	return s.bus.Len()
}

// FromMsg maps Bubble Tea messages to lifecycle states.
func FromMsg(msg tea.Msg) (trigger.LifecycleState, bool) {
	switch msg.(type) {
	case tea.FocusMsg, tea.ResumeMsg:
		return trigger.Active, true
	case tea.BlurMsg:
		return trigger.Inactive, true
	case tea.SuspendMsg:
		return trigger.Background, true
	default:
		return 0, false
	}
}
