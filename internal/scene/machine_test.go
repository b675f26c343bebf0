package scene

import (
	"io"
	"reflect"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// recorder logs every lifecycle call into a shared journal.
type recorder struct {
	name    string
	journal *[]string
	updates int
	data    any
}

func (r *recorder) Enter(data any) {
	r.data = data
	*r.journal = append(*r.journal, r.name+".enter")
}

func (r *recorder) Exit() { *r.journal = append(*r.journal, r.name+".exit") }

func (r *recorder) Update(now, dt time.Duration) { r.updates++ }

// pausable adds Pause and Resume.
type pausable struct {
	recorder
	resumes int
}

func (p *pausable) Pause() { *p.journal = append(*p.journal, p.name+".pause") }

func (p *pausable) Resume() {
	p.resumes++
	*p.journal = append(*p.journal, p.name+".resume")
}

func newTestMachine() (*Machine, *pausable, *recorder, *recorder, *[]string) {
	journal := &[]string{}
	m := NewMachine(log.New(io.Discard))
	playing := &pausable{recorder: recorder{name: "playing", journal: journal}}
	paused := &recorder{name: "paused", journal: journal}
	over := &recorder{name: "gameover", journal: journal}
	m.Register("playing", playing)
	m.Register("paused", paused)
	m.Register("gameover", over)
	return m, playing, paused, over, journal
}

func TestPushPopRestoresState(t *testing.T) {
	m, playing, paused, _, journal := newTestMachine()

	if !m.Replace("playing", nil) {
		t.Fatal("Replace(playing) failed")
	}
	if !m.Push("paused", "menu") {
		t.Fatal("Push(paused) failed")
	}
	if m.Current() != "paused" || !reflect.DeepEqual(m.Stack(), []string{"playing"}) {
		t.Errorf("after push: current %q stack %v", m.Current(), m.Stack())
	}
	if paused.data != "menu" {
		t.Errorf("push data = %v", paused.data)
	}

	if !m.Pop() {
		t.Fatal("Pop failed")
	}
	if m.Current() != "playing" || m.Depth() != 0 {
		t.Errorf("after pop: current %q depth %d", m.Current(), m.Depth())
	}
	if playing.resumes != 1 {
		t.Errorf("resume called %d times, expected 1", playing.resumes)
	}

	expected := []string{"playing.enter", "playing.pause", "paused.enter", "paused.exit", "playing.resume"}
	if !reflect.DeepEqual(*journal, expected) {
		t.Errorf("journal = %v\nexpected %v", *journal, expected)
	}
}

func TestOnlyActiveStateUpdates(t *testing.T) {
	m, playing, paused, _, _ := newTestMachine()
	m.Update(0, time.Millisecond) // nothing active yet

	m.Replace("playing", nil)
	m.Update(0, time.Millisecond)
	m.Push("paused", nil)
	for i := 0; i < 3; i++ {
		m.Update(0, time.Millisecond)
	}
	m.Pop()
	m.Update(0, time.Millisecond)

	if playing.updates != 2 {
		t.Errorf("playing updated %d times, expected 2", playing.updates)
	}
	if paused.updates != 3 {
		t.Errorf("paused updated %d times, expected 3", paused.updates)
	}
}

func TestInvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		op   func(m *Machine) bool
	}{
		{"pop empty", func(m *Machine) bool { return m.Pop() }},
		{"replace unknown", func(m *Machine) bool { return m.Replace("credits", nil) }},
		{"push unknown", func(m *Machine) bool { return m.Push("credits", nil) }},
		{"push active", func(m *Machine) bool { return m.Push("playing", nil) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, _, _, _, journal := newTestMachine()
			m.Replace("playing", nil)
			before := len(*journal)

			if tc.op(m) {
				t.Error("expected failure")
			}
			if m.Current() != "playing" || m.Depth() != 0 {
				t.Errorf("state changed: current %q depth %d", m.Current(), m.Depth())
			}
			if len(*journal) != before {
				t.Errorf("failed transition ran lifecycle hooks: %v", (*journal)[before:])
			}
		})
	}
}

func TestStackedNamesAreNotDuplicated(t *testing.T) {
	m, _, _, _, _ := newTestMachine()
	m.Replace("playing", nil)
	m.Push("paused", nil)

	if m.Push("playing", nil) {
		t.Error("pushing a stacked name should fail")
	}
	if m.Replace("playing", nil) {
		t.Error("replacing into a stacked name should fail")
	}
	if m.Depth() != 1 {
		t.Errorf("depth = %d, expected 1", m.Depth())
	}
}

func TestReplaceKeepsStack(t *testing.T) {
	m, _, _, over, journal := newTestMachine()
	m.Replace("playing", nil)
	m.Push("paused", nil)
	*journal = nil

	if !m.Replace("gameover", 42) {
		t.Fatal("Replace(gameover) failed")
	}
	if over.data != 42 {
		t.Errorf("gameover data = %v", over.data)
	}
	if !reflect.DeepEqual(m.Stack(), []string{"playing"}) {
		t.Errorf("stack = %v, replace must not touch it", m.Stack())
	}
	if !reflect.DeepEqual(*journal, []string{"paused.exit", "gameover.enter"}) {
		t.Errorf("journal = %v", *journal)
	}
}

func TestReplaceRestartsActive(t *testing.T) {
	m, _, _, _, journal := newTestMachine()
	m.Replace("playing", nil)
	m.Replace("playing", nil)

	expected := []string{"playing.enter", "playing.exit", "playing.enter"}
	if !reflect.DeepEqual(*journal, expected) {
		t.Errorf("journal = %v", *journal)
	}
}
