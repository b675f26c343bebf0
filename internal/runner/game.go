// Package runner composes the pool, spawner, resolver, tracker and scene
// machine into one playable side-scroller. The player runs right through
// world space; entities stay put unless a pattern gives them motion.
package runner

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-runner/internal/collision"
	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/entity"
	"github.com/vovakirdan/tui-runner/internal/pattern"
	"github.com/vovakirdan/tui-runner/internal/progress"
	"github.com/vovakirdan/tui-runner/internal/registry"
	"github.com/vovakirdan/tui-runner/internal/scene"
)

// Scene names.
const (
	ScenePlaying  = "playing"
	ScenePaused   = "paused"
	SceneGameOver = "gameover"
)

const (
	magnetReach = 80.0 // World units the magnet adds around the player for items
	supportSnap = 8.0  // How far a surface may rise above the feet and still carry the player
)

// Options carries the collaborators a Game is built with. Zero values
// fall back to the default logger, the embedded catalog, no persistence
// and the normal mode.
type Options struct {
	Mode    string
	Logger  *log.Logger
	Catalog *pattern.Catalog
	Store   progress.KV
}

// Game is one runner session host. It survives restarts; the persisted
// record carries across them.
type Game struct {
	mode    string
	cfg     config.RunnerConfig
	runtime core.RuntimeConfig
	logger  *log.Logger

	pool       *entity.Pool
	spawner    *pattern.Spawner
	cadence    *pattern.Cadence
	tracker    *progress.Tracker
	difficulty *config.DifficultyManager
	machine    *scene.Machine

	player  Player
	cameraX float64
	speed   float64
	now     time.Duration
	ticks   int
	runs    int

	input  core.InputFrame
	events []core.Event
	record progress.Record
}

// New builds a game from a normalized configuration.
func New(cfg config.RunnerConfig, opts Options) *Game {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = pattern.DefaultCatalog()
	}

	mode := opts.Mode
	if mode == "" {
		mode = string(config.DifficultyNormal)
	}

	g := &Game{
		mode:       mode,
		cfg:        cfg,
		runtime:    core.DefaultConfig(),
		logger:     logger,
		pool:       entity.NewPool(cfg.Pool.Obstacles, cfg.Pool.Items),
		spawner:    pattern.NewSpawner(catalog, 0, cfg.Spawning.Scale),
		cadence:    pattern.NewCadence(cfg.Spawning.Interval, 0),
		tracker:    progress.NewTracker(progress.ConfigFrom(cfg), opts.Store, logger),
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
	}
	g.record = g.tracker.Record()
	return g
}

// ID returns the mode this game was built for; runs are stored under it.
func (g *Game) ID() string {
	return g.mode
}

// Title returns the display name.
func (g *Game) Title() string {
	if info, ok := registry.Info(g.mode); ok {
		return "Runner: " + info.Title
	}
	return "Runner"
}

// Config returns the configuration the game was built with.
func (g *Game) Config() config.RunnerConfig {
	return g.cfg
}

func (g *Game) newMachine() *scene.Machine {
	m := scene.NewMachine(g.logger)
	m.Register(ScenePlaying, &playingState{g: g})
	m.Register(ScenePaused, &pausedState{g: g})
	m.Register(SceneGameOver, &gameOverState{g: g})
	return m
}

// Reset starts a fresh run with the given runtime settings.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.runs = 0
	g.now = 0
	g.ticks = 0
	g.events = nil
	g.machine = g.newMachine()
	g.machine.Replace(ScenePlaying, nil)
}

// startRun puts every component back to the start of a run. Each restart
// reseeds the spawner from the runtime seed so runs differ but replay.
func (g *Game) startRun() {
	g.pool.Reset()
	g.spawner.Reseed(g.runtime.Seed + int64(g.runs))
	g.cadence.Reset()
	g.tracker.Reset()
	g.player = newPlayer(g.cfg)
	g.cameraX = g.player.X - g.cfg.Player.ScreenX
	g.speed = g.cfg.Physics.BaseSpeed
	g.runs++
}

// Step advances the game by one fixed tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.machine == nil {
		g.Reset(g.runtime)
	}
	g.events = nil
	g.input = in

	switch g.machine.Current() {
	case ScenePlaying:
		if in.Has(core.ActionPause) {
			g.machine.Push(ScenePaused, nil)
		}
	case ScenePaused:
		if in.Has(core.ActionPause) {
			g.machine.Pop()
		}
	case SceneGameOver:
		if in.Has(core.ActionRestart) {
			g.machine.Replace(ScenePlaying, nil)
		}
	}

	dt := g.runtime.TickDuration()
	g.machine.Update(g.now, dt)
	g.now += dt

	return core.StepResult{State: g.State(), Events: g.events}
}

// simulate runs one playing tick: spawn, kinematics, collision,
// progression, then sweep.
func (g *Game) simulate(dt time.Duration) {
	g.ticks++
	p := &g.player
	in := g.input

	if in.Has(core.ActionJump) && p.Jump() {
		g.tracker.RecordJump()
	}
	if in.Has(core.ActionSlide) && p.Slide() {
		g.tracker.RecordSlide()
	}
	if in.Has(core.ActionDash) && p.Dash() {
		g.tracker.RecordDash()
	}

	distance := g.tracker.Distance()
	if g.cadence.Due(distance) {
		g.spawn(distance)
	}

	g.speed = g.difficulty.Speed(g.cfg.Physics.BaseSpeed, distance, g.tracker.Elapsed().Seconds()) * p.SpeedFactor()
	dx := g.speed * dt.Seconds()
	prevFeet := p.Y
	g.pool.Update(dt.Seconds())
	p.X += dx
	p.Fall(dt, g.support(prevFeet))
	p.tickTimers(dt)
	g.cameraX = p.X - g.cfg.Player.ScreenX

	reach := 0.0
	if p.Magnetized() {
		reach = magnetReach
	}
	out := collision.ResolveWithReach(g.pool, p.Bounds(), reach)

	g.tracker.Advance(dx, g.speed)
	for _, e := range out.ItemsCollected {
		g.applyItem(e)
	}
	dead := out.PlayerHit && g.hit(out)
	for _, a := range g.tracker.Tick(dt) {
		g.emitAchievement(a)
	}

	g.pool.SweepOffscreen(g.cameraX - g.cfg.Spawning.SweepMargin)

	if dead {
		g.machine.Replace(SceneGameOver, nil)
	}
}

func (g *Game) spawn(distance float64) {
	p := g.spawner.SelectPattern(g.tracker.Difficulty(), distance)
	handles := g.spawner.Instantiate(p, g.cameraX+g.cfg.Spawning.Ahead, g.cfg.World.GroundY, g.pool)
	g.logger.Debug("pattern spawned", "pattern", p.Name, "tier", p.Tier, "entities", len(handles), "distance", distance)
}

// support returns the highest surface under the player: the ground or the
// top of a platform the feet were on or above last tick.
func (g *Game) support(prevFeet float64) float64 {
	best := g.cfg.World.GroundY
	pb := g.player.Bounds()
	g.pool.EachActiveObstacle(func(o entity.Obstacle) bool {
		if o.Deadly {
			return true
		}
		top := o.Pos.Y
		if pb.X < o.Pos.X+o.Size.X && pb.Right() > o.Pos.X && top >= prevFeet-supportSnap && top < best {
			best = top
		}
		return true
	})
	return best
}

// hit handles a deadly overlap. It reports whether the player died.
func (g *Game) hit(out collision.Outcome) bool {
	p := &g.player
	switch {
	case p.Boosted():
		return false
	case p.Shielded():
		p.BreakShield()
		if o, ok := g.pool.Obstacle(out.Hit); ok {
			g.emit(core.EventShieldBreak, out.HitKind.String(), o.Pos, 0)
		}
		g.pool.Release(out.Hit)
		return false
	}

	g.tracker.Death()
	g.emit(core.EventDeath, out.HitKind.String(), core.V(p.X, p.Y), 0)
	return true
}

func (g *Game) applyItem(e collision.ItemEffect) {
	res := g.tracker.Collect(e.Item, e.Value)
	g.emit(core.EventCollect, e.Item.String(), e.Pos, res.ScoreAwarded)

	if e.Kind == collision.EffectAbility {
		g.player.Grant(e.Ability, e.Duration)
		g.emit(core.EventAbility, e.Ability, e.Pos, int(e.Duration.Milliseconds()))
	}
	for _, a := range res.Unlocked {
		g.emitAchievement(a)
	}
}

func (g *Game) emitAchievement(a progress.Achievement) {
	g.emit(core.EventAchievement, a.ID, core.V(g.player.X, g.player.Y), a.Bonus)
	g.logger.Debug("achievement", "id", a.ID, "bonus", a.Bonus)
}

func (g *Game) emit(t core.EventType, name string, pos core.Vec, value int) {
	g.events = append(g.events, core.Event{Type: t, Name: name, Pos: pos, Value: value})
}

// State returns the summary of the current tick.
func (g *Game) State() core.GameState {
	s := g.tracker.Snapshot()
	current := g.scene()
	return core.GameState{
		Score:      s.Score,
		Distance:   s.Distance,
		Combo:      s.Combo,
		Multiplier: s.Multiplier,
		Level:      s.Level,
		Difficulty: s.Difficulty,
		Scene:      current,
		GameOver:   current == SceneGameOver,
		Paused:     current == ScenePaused,
	}
}

// scene returns the active scene name, or "" before the first Reset.
func (g *Game) scene() string {
	if g.machine == nil {
		return ""
	}
	return g.machine.Current()
}

// Abandon folds a run that is still going into the persisted record, for a
// player who leaves before the run is over. It reports whether a run was
// in progress. Lifetime stats are kept live, so calling it twice is harmless.
func (g *Game) Abandon() bool {
	switch g.scene() {
	case ScenePlaying, ScenePaused:
	default:
		return false
	}
	g.record = g.tracker.EndSession()
	g.logger.Debug("run abandoned", "score", g.tracker.Score(), "distance", int(g.tracker.Distance()))
	return true
}

// Progress returns a copy of the session progress.
func (g *Game) Progress() progress.State {
	return g.tracker.Snapshot()
}

// Record returns the persisted record as of the last finished run.
func (g *Game) Record() progress.Record {
	return g.record
}

// Player returns a copy of the player.
func (g *Game) Player() Player {
	return g.player
}

// RunSeed returns the spawner seed of the current run.
func (g *Game) RunSeed() int64 {
	return g.runtime.Seed + int64(max(g.runs-1, 0))
}

// Speed returns the scroll speed of the last tick.
func (g *Game) Speed() float64 {
	return g.speed
}

// Ticks returns how many playing ticks were simulated since Reset.
func (g *Game) Ticks() int {
	return g.ticks
}

// Pool exposes the entity pool for inspection.
func (g *Game) Pool() *entity.Pool {
	return g.pool
}
