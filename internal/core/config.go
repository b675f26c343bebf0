package core

import "time"

// RuntimeConfig contains configuration passed to the game at initialization.
// The game uses it to adapt to the terminal and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// TickDuration returns the fixed simulation step for the configured tick rate.
func (c RuntimeConfig) TickDuration() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}

// GameState is the summary the platform reads after every tick.
type GameState struct {
	Score      int
	Distance   float64
	Combo      int
	Multiplier float64
	Level      int
	Difficulty int
	Scene      string // Name of the active scene state
	GameOver   bool
	Paused     bool
}

// StepResult is returned by Game.Step() after each simulation tick.
// Contains the updated game state and any events that occurred.
type StepResult struct {
	State  GameState
	Events []Event
}
