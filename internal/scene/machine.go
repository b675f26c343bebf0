// Package scene is a stack-based controller over named game states.
// Only the active state is updated; overlays pushed on top of a state gate
// it completely until they are popped.
package scene

import (
	"slices"
	"time"

	"github.com/charmbracelet/log"
)

// State is a named scene registered with a Machine.
type State interface {
	Enter(data any)
	Exit()
	Update(now, dt time.Duration)
}

// Pauser is implemented by states that react to an overlay being pushed.
type Pauser interface {
	Pause()
}

// Resumer is implemented by states that react to being uncovered by Pop.
type Resumer interface {
	Resume()
}

// Machine tracks the active state and the names of the states beneath it.
// Failed transitions return false and leave the machine unchanged.
type Machine struct {
	states  map[string]State
	current string
	stack   []string
	logger  *log.Logger
}

// NewMachine creates an empty machine. A nil logger uses the default one.
func NewMachine(logger *log.Logger) *Machine {
	if logger == nil {
		logger = log.Default()
	}
	return &Machine{
		states: make(map[string]State),
		logger: logger,
	}
}

// Register adds or replaces a named state.
func (m *Machine) Register(name string, s State) {
	m.states[name] = s
}

// Replace exits the active state and enters name. The stack is untouched.
// Replacing the active state with itself restarts it.
func (m *Machine) Replace(name string, data any) bool {
	next, ok := m.states[name]
	if !ok {
		m.logger.Debug("scene replace rejected", "scene", name, "reason", "unknown")
		return false
	}
	if slices.Contains(m.stack, name) {
		m.logger.Debug("scene replace rejected", "scene", name, "reason", "stacked")
		return false
	}

	if cur, ok := m.states[m.current]; ok {
		cur.Exit()
	}
	m.current = name
	next.Enter(data)
	return true
}

// Push pauses the active state, stacks its name and enters name on top.
func (m *Machine) Push(name string, data any) bool {
	next, ok := m.states[name]
	if !ok {
		m.logger.Debug("scene push rejected", "scene", name, "reason", "unknown")
		return false
	}
	if name == m.current || slices.Contains(m.stack, name) {
		m.logger.Debug("scene push rejected", "scene", name, "reason", "already active")
		return false
	}

	if cur, ok := m.states[m.current]; ok {
		if p, ok := cur.(Pauser); ok {
			p.Pause()
		}
		m.stack = append(m.stack, m.current)
	}
	m.current = name
	next.Enter(data)
	return true
}

// Pop exits the active state and resumes the one beneath it. Popping with
// nothing stacked reports false.
func (m *Machine) Pop() bool {
	if len(m.stack) == 0 {
		m.logger.Debug("scene pop rejected", "scene", m.current, "reason", "empty stack")
		return false
	}

	if cur, ok := m.states[m.current]; ok {
		cur.Exit()
	}
	m.current = m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]

	if r, ok := m.states[m.current].(Resumer); ok {
		r.Resume()
	}
	return true
}

// Update forwards one tick to the active state only.
func (m *Machine) Update(now, dt time.Duration) {
	if s, ok := m.states[m.current]; ok {
		s.Update(now, dt)
	}
}

// Current returns the active state's name, or "" before the first transition.
func (m *Machine) Current() string {
	return m.current
}

// Stack returns the stacked names, bottom first.
func (m *Machine) Stack() []string {
	return slices.Clone(m.stack)
}

// Depth returns the number of stacked states.
func (m *Machine) Depth() int {
	return len(m.stack)
}
