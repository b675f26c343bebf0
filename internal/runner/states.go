package runner

import (
	"time"

	"github.com/vovakirdan/tui-runner/internal/core"
)

// playingState drives the simulation.
type playingState struct {
	g *Game
}

func (s *playingState) Enter(any) { s.g.startRun() }

func (s *playingState) Exit() {}

func (s *playingState) Update(now, dt time.Duration) { s.g.simulate(dt) }

func (s *playingState) Pause() {
	s.g.emit(core.EventPause, ScenePaused, core.Vec{}, 0)
}

func (s *playingState) Resume() {
	s.g.emit(core.EventResume, ScenePlaying, core.Vec{}, 0)
}

// pausedState is the overlay pushed over playing. It only counts frames for
// the blinking hint.
type pausedState struct {
	g      *Game
	frames int
}

func (s *pausedState) Enter(any) { s.frames = 0 }

func (s *pausedState) Exit() {}

func (s *pausedState) Update(now, dt time.Duration) { s.frames++ }

// gameOverState finalizes the run on entry.
type gameOverState struct {
	g *Game
}

func (s *gameOverState) Enter(any) {
	g := s.g
	g.record = g.tracker.EndSession()
	snap := g.tracker.Snapshot()
	g.emit(core.EventGameOver, SceneGameOver, core.V(g.player.X, g.player.Y), snap.Score)
	g.logger.Debug("run finished", "score", snap.Score, "distance", int(snap.Distance), "high_score", g.record.HighScore)
}

func (s *gameOverState) Exit() {}

func (s *gameOverState) Update(now, dt time.Duration) {}
