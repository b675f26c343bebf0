package runner

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/entity"
	"github.com/vovakirdan/tui-runner/internal/pattern"
	"github.com/vovakirdan/tui-runner/internal/progress"
)

const (
	wallCatalog = "patterns:\n  easy_wall:\n    - { kind: wall, x: 0 }\n"
	coinCatalog = "patterns:\n  easy_coin:\n    - { kind: coin, x: 0 }\n"
)

var testRuntime = core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42}

func newTestGame(t *testing.T, catalog string, kv progress.KV) *Game {
	t.Helper()
	var cat *pattern.Catalog
	if catalog != "" {
		c, err := pattern.ParseCatalog([]byte(catalog))
		if err != nil {
			t.Fatalf("ParseCatalog: %v", err)
		}
		cat = c
	}
	g := New(config.DefaultRunnerConfig(), Options{Logger: log.New(io.Discard), Catalog: cat, Store: kv})
	g.Reset(testRuntime)
	return g
}

// runUntil steps with empty input until pred holds on a result, returning
// that result.
func runUntil(t *testing.T, g *Game, limit int, pred func(core.StepResult) bool) core.StepResult {
	t.Helper()
	for i := 0; i < limit; i++ {
		res := g.Step(core.NewInputFrame())
		if pred(res) {
			return res
		}
	}
	t.Fatalf("condition not reached within %d ticks", limit)
	return core.StepResult{}
}

func hasEvent(res core.StepResult, typ core.EventType) bool {
	for _, e := range res.Events {
		if e.Type == typ {
			return true
		}
	}
	return false
}

func countEvents(res core.StepResult, typ core.EventType) int {
	n := 0
	for _, e := range res.Events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func TestGameDeterminism(t *testing.T) {
	inputs := make([]core.InputFrame, 1500)
	for i := range inputs {
		inputs[i] = core.NewInputFrame()
		if i%40 == 0 {
			inputs[i].Set(core.ActionJump)
		}
		if i%97 == 0 {
			inputs[i].Set(core.ActionDash)
		}
	}

	play := func() (core.GameState, int, int) {
		g := newTestGame(t, "", nil)
		var state core.GameState
		events := 0
		for _, in := range inputs {
			res := g.Step(in)
			state = res.State
			events += len(res.Events)
			if state.GameOver {
				break
			}
		}
		return state, g.Ticks(), events
	}

	s1, ticks1, ev1 := play()
	s2, ticks2, ev2 := play()

	if s1 != s2 {
		t.Errorf("Determinism failed: states differ.\nRun1=%+v\nRun2=%+v", s1, s2)
	}
	if ticks1 != ticks2 || ev1 != ev2 {
		t.Errorf("Determinism failed: ticks %d/%d events %d/%d", ticks1, ticks2, ev1, ev2)
	}
}

func TestGameStartsPlaying(t *testing.T) {
	g := newTestGame(t, "", nil)
	res := g.Step(core.NewInputFrame())

	if res.State.Scene != ScenePlaying || res.State.GameOver || res.State.Paused {
		t.Errorf("unexpected initial state %+v", res.State)
	}
	if res.State.Distance <= 0 {
		t.Error("first tick should advance distance")
	}
	if g.Pool().ActiveCount(entity.ClassObstacle)+g.Pool().ActiveCount(entity.ClassItem) == 0 {
		t.Error("first tick should spawn a pattern")
	}
}

func TestPauseGatesSimulation(t *testing.T) {
	g := newTestGame(t, "", nil)
	for i := 0; i < 10; i++ {
		g.Step(core.NewInputFrame())
	}

	res := g.Step(core.InputOf(core.ActionPause))
	if !res.State.Paused || countEvents(res, core.EventPause) != 1 {
		t.Fatalf("pause tick: state %+v events %+v", res.State, res.Events)
	}
	ticks, distance := g.Ticks(), res.State.Distance

	for i := 0; i < 30; i++ {
		res = g.Step(core.InputOf(core.ActionJump))
	}
	if g.Ticks() != ticks || res.State.Distance != distance {
		t.Errorf("simulation advanced while paused: ticks %d->%d", ticks, g.Ticks())
	}
	if g.Progress().Jumps != 0 {
		t.Error("input reached the player while paused")
	}

	res = g.Step(core.InputOf(core.ActionPause))
	if res.State.Paused || countEvents(res, core.EventResume) != 1 {
		t.Fatalf("resume tick: state %+v events %+v", res.State, res.Events)
	}
	if g.Ticks() != ticks+1 {
		t.Errorf("resume tick should simulate once, ticks %d->%d", ticks, g.Ticks())
	}
}

func TestDeathEndsRun(t *testing.T) {
	kv := progress.NewMemKV()
	g := newTestGame(t, wallCatalog, kv)

	res := runUntil(t, g, 1200, func(r core.StepResult) bool { return r.State.GameOver })
	if !hasEvent(res, core.EventDeath) || !hasEvent(res, core.EventGameOver) {
		t.Errorf("game over tick events = %+v", res.Events)
	}
	if g.Progress().Deaths != 1 {
		t.Errorf("deaths = %d", g.Progress().Deaths)
	}
	if g.Record().HighScore != res.State.Score {
		t.Errorf("high score %d, final score %d", g.Record().HighScore, res.State.Score)
	}

	// Frozen until restart
	ticks := g.Ticks()
	g.Step(core.InputOf(core.ActionJump))
	if g.Ticks() != ticks {
		t.Error("game over should not simulate")
	}

	res = g.Step(core.InputOf(core.ActionRestart))
	if res.State.GameOver || res.State.Scene != ScenePlaying {
		t.Fatalf("restart state %+v", res.State)
	}
	if res.State.Score > 1 || g.Progress().Deaths != 0 {
		t.Errorf("restart should start a fresh session, got %+v", res.State)
	}

	// The record survives into a new game on the same store
	again := newTestGame(t, wallCatalog, kv)
	if again.Record().HighScore != g.Record().HighScore {
		t.Errorf("persisted high score %d, expected %d", again.Record().HighScore, g.Record().HighScore)
	}
}

func TestAbandonPersistsUnfinishedRun(t *testing.T) {
	kv := progress.NewMemKV()
	g := newTestGame(t, coinCatalog, kv)

	g.Step(core.InputOf(core.ActionJump))
	for i := 0; i < 30; i++ {
		g.Step(core.NewInputFrame())
	}
	g.Step(core.InputOf(core.ActionPause))
	if !g.State().Paused {
		t.Fatal("expected paused")
	}

	score := g.State().Score
	if !g.Abandon() {
		t.Fatal("a paused run should be abandonable")
	}
	rec, err := progress.LoadRecord(kv)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Stats.TotalJumps != 1 || rec.HighScore != score {
		t.Errorf("persisted record %+v, expected 1 jump and high score %d", rec, score)
	}

	// Repeating is harmless
	if !g.Abandon() {
		t.Error("still paused, Abandon should report a run")
	}
	if again, _ := progress.LoadRecord(kv); again.Stats.TotalJumps != 1 {
		t.Errorf("jumps after second abandon = %d", again.Stats.TotalJumps)
	}

	over := newTestGame(t, wallCatalog, nil)
	runUntil(t, over, 1200, func(r core.StepResult) bool { return r.State.GameOver })
	if over.Abandon() {
		t.Error("a finished run has nothing to abandon")
	}
}

func TestShieldAbsorbsHit(t *testing.T) {
	g := newTestGame(t, wallCatalog, nil)
	g.player.Grant("shield", 30*time.Second)

	res := runUntil(t, g, 1200, func(r core.StepResult) bool { return hasEvent(r, core.EventShieldBreak) })
	if res.State.GameOver || hasEvent(res, core.EventDeath) {
		t.Error("shield should absorb the hit")
	}
	if p := g.Player(); p.Shielded() {
		t.Error("shield should be consumed")
	}

	runUntil(t, g, 1200, func(r core.StepResult) bool { return r.State.GameOver })
}

func TestBoostPassesThrough(t *testing.T) {
	g := newTestGame(t, wallCatalog, nil)
	g.player.Grant("speed_boost", time.Hour)

	for i := 0; i < 600; i++ {
		res := g.Step(core.NewInputFrame())
		if res.State.GameOver {
			t.Fatalf("boosted player died at tick %d", i)
		}
	}
	if g.Progress().Distance < 600*300*1.5/60*0.99 {
		t.Errorf("boost should scale speed, distance %v", g.Progress().Distance)
	}
}

func TestCollectItems(t *testing.T) {
	g := newTestGame(t, coinCatalog, nil)

	res := runUntil(t, g, 600, func(r core.StepResult) bool { return hasEvent(r, core.EventCollect) })
	var collect core.Event
	for _, e := range res.Events {
		if e.Type == core.EventCollect {
			collect = e
		}
	}
	if collect.Name != "coin" || collect.Value != 10 {
		t.Errorf("collect event = %+v", collect)
	}
	if res.State.Combo != 1 {
		t.Errorf("combo = %d, expected 1", res.State.Combo)
	}

	// Collected coins are swept on the same tick
	g.Pool().EachActiveItem(func(it entity.Item) bool {
		if it.Collected {
			t.Errorf("collected %v still live after sweep", it.Kind)
		}
		return true
	})
}

func TestPlatformSupport(t *testing.T) {
	g := newTestGame(t, coinCatalog, nil)
	g.Pool().Acquire(entity.KindPlatform, 100, 300)

	tests := []struct {
		name     string
		prevFeet float64
		expected float64
	}{
		{"above platform", 290, 300},
		{"slightly below top", 305, 300},
		{"well below top", 350, 400},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := g.support(tc.prevFeet); got != tc.expected {
				t.Errorf("support(%v) = %v, expected %v", tc.prevFeet, got, tc.expected)
			}
		})
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(t, "", nil)
	for i := 0; i < 30; i++ {
		g.Step(core.NewInputFrame())
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.Row(0), "Score:") {
		t.Errorf("HUD missing: %q", screen.Row(0))
	}
	if !strings.ContainsRune(screen.Row(22), GroundChar) {
		t.Errorf("ground missing: %q", screen.Row(22))
	}
	if !strings.ContainsRune(screen.String(), PlayerHead) {
		t.Error("player not drawn")
	}

	g.Step(core.InputOf(core.ActionPause))
	g.Render(screen)
	if !strings.Contains(screen.String(), "PAUSED") {
		t.Error("pause overlay missing")
	}
}
