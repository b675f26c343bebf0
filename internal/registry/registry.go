// Package registry provides a global registry of runner modes.
// Modes register themselves in init() functions, allowing the platform
// to list and build them without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/pattern"
	"github.com/vovakirdan/tui-runner/internal/progress"
)

// ErrUnknownMode is returned by Create for an unregistered mode id.
var ErrUnknownMode = errors.New("registry: unknown mode")

// Game is what the platform drives. It contains pure logic with no
// Bubble Tea dependency; the platform handles input, timing and drawing.
type Game interface {
	// ID returns the mode identifier, used as the storage key for runs.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset starts a new session with the given screen size and seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into the screen buffer.
	Render(dst *core.Screen)

	// State returns the current game state.
	State() core.GameState
}

// Env carries what a factory needs to build a game. Config is the
// loaded and normalized base configuration; factories apply their own
// preset on a copy.
type Env struct {
	Config  config.RunnerConfig
	Logger  *log.Logger
	Catalog *pattern.Catalog
	Store   progress.KV
}

// ModeInfo contains metadata about a registered mode.
type ModeInfo struct {
	ID          string
	Title       string
	Description string
}

// Factory creates a new game for a mode.
type Factory func(env Env) Game

var (
	factories = make(map[string]Factory)
	infos     []ModeInfo // Registration order
	mu        sync.RWMutex
)

// Register adds a mode to the registry.
// Panics if a mode with the same ID is already registered.
func Register(info ModeInfo, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[info.ID]; exists {
		panic(fmt.Sprintf("registry: mode %q already registered", info.ID))
	}
	factories[info.ID] = f
	infos = append(infos, info)
}

// List returns all registered modes in registration order.
func List() []ModeInfo {
	mu.RLock()
	defer mu.RUnlock()

	return append([]ModeInfo(nil), infos...)
}

// Info returns the metadata of one mode.
func Info(id string) (ModeInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	for _, m := range infos {
		if m.ID == id {
			return m, true
		}
	}
	return ModeInfo{}, false
}

// Create builds a new game for the given mode.
func Create(id string, env Env) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownMode, id)
	}
	return f(env), nil
}

// Exists checks if a mode with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
