// Package progress owns score, combo, level and achievement state for a
// session, and the record that persists between sessions.
package progress

import (
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/entity"
)

// Config holds the scoring and progression tuning the tracker needs.
type Config struct {
	DistanceWeight      float64
	DifficultyBonusRate float64
	LevelBonus          int
	TimeBonusPerSecond  int
	ComboTimeout        time.Duration
	ComboStep           float64
	MaxMultiplier       float64
	LevelDistance       float64
	DifficultyDistance  float64
	MaxDifficulty       int
	MinBestTimeDistance float64
}

// ConfigFrom extracts the tracker tuning from a runner configuration.
func ConfigFrom(cfg config.RunnerConfig) Config {
	return Config{
		DistanceWeight:      cfg.Scoring.DistanceWeight,
		DifficultyBonusRate: cfg.Scoring.DifficultyBonusRate,
		LevelBonus:          cfg.Scoring.LevelBonus,
		TimeBonusPerSecond:  cfg.Scoring.TimeBonusPerSecond,
		ComboTimeout:        cfg.Scoring.ComboTimeout(),
		ComboStep:           cfg.Scoring.ComboStep,
		MaxMultiplier:       cfg.Scoring.MaxMultiplier,
		LevelDistance:       cfg.Progression.LevelDistance,
		DifficultyDistance:  cfg.Progression.DifficultyDistance,
		MaxDifficulty:       cfg.Progression.MaxDifficulty,
		MinBestTimeDistance: cfg.Progression.MinBestTimeDistance,
	}
}

// DefaultConfig returns the tuning of the default runner configuration.
func DefaultConfig() Config {
	return ConfigFrom(config.DefaultRunnerConfig())
}

// State is the per-session progress. Snapshots are copies.
type State struct {
	Score          int
	Earned         int // Item awards and achievement bonuses
	Distance       float64
	Elapsed        time.Duration
	Level          int
	Difficulty     int
	Combo          int
	Multiplier     float64
	LastCollectAt  time.Duration
	Collected      [entity.KindCount]int
	ItemsCollected int
	Keys           int
	Deaths         int
	Jumps          int
	Dashes         int
	Slides         int
	TopSpeed       float64
	LongestCombo   int
	Fired          []string // Achievement ids fired this session, in order
}

// CollectResult reports the consequence of one collection.
type CollectResult struct {
	ScoreAwarded int
	ComboAfter   int
	Multiplier   float64
	Unlocked     []Achievement
}

// Tracker is the only writer of progress state.
type Tracker struct {
	cfg    Config
	kv     KV
	logger *log.Logger

	state  State
	fired  map[string]bool
	record Record
}

// NewTracker creates a tracker and loads the persisted record from kv.
// A nil kv keeps the record in memory only. Load failures are logged and
// start from an empty record.
func NewTracker(cfg Config, kv KV, logger *log.Logger) *Tracker {
	if logger == nil {
		logger = log.Default()
	}
	t := &Tracker{cfg: cfg, kv: kv, logger: logger}
	t.record = t.load()
	t.Reset()
	return t
}

func (t *Tracker) load() Record {
	r, err := LoadRecord(t.kv)
	if err != nil {
		t.logger.Warn("progress record unavailable, starting fresh", "error", err)
	}
	return r
}

// Reset starts a new session. The persisted record is untouched.
func (t *Tracker) Reset() {
	t.state = State{Level: 1, Difficulty: 1, Multiplier: 1}
	t.fired = make(map[string]bool)
}

// Advance adds travelled distance and tracks the top speed.
func (t *Tracker) Advance(dx, speed float64) {
	if dx > 0 {
		t.state.Distance += dx
	}
	if speed > t.state.TopSpeed {
		t.state.TopSpeed = speed
	}
	if speed > t.record.Stats.FastestSpeed {
		t.record.Stats.FastestSpeed = speed
	}
}

// Tick advances the session clock, expires the combo, recomputes level,
// difficulty and score, and returns achievements fired by this tick.
func (t *Tracker) Tick(dt time.Duration) []Achievement {
	s := &t.state
	s.Elapsed += dt

	if s.Combo > 0 && s.Elapsed-s.LastCollectAt > t.cfg.ComboTimeout {
		s.Combo = 0
		s.Multiplier = 1
	}

	s.Level = t.level(s.Distance)
	s.Difficulty = t.difficulty(s.Distance)

	unlocked := t.evaluate()
	t.rescore()
	return unlocked
}

func (t *Tracker) level(distance float64) int {
	if t.cfg.LevelDistance <= 0 {
		return 1
	}
	return 1 + int(math.Floor(distance/t.cfg.LevelDistance))
}

func (t *Tracker) difficulty(distance float64) int {
	d := 1
	if t.cfg.DifficultyDistance > 0 {
		d = 1 + int(math.Floor(distance/t.cfg.DifficultyDistance))
	}
	if t.cfg.MaxDifficulty > 0 && d > t.cfg.MaxDifficulty {
		d = t.cfg.MaxDifficulty
	}
	return d
}

// bonus is the distance, level and survival time reward on top of the
// base distance score.
func (t *Tracker) bonus(distance float64, difficulty int, elapsed time.Duration, level int) int {
	b := int(math.Floor(distance * t.cfg.DifficultyBonusRate * float64(difficulty-1)))
	b += (level - 1) * t.cfg.LevelBonus
	b += int(math.Floor(elapsed.Seconds())) * t.cfg.TimeBonusPerSecond
	return b
}

func (t *Tracker) rescore() {
	s := &t.state
	s.Score = int(math.Floor(s.Distance*t.cfg.DistanceWeight)) +
		t.bonus(s.Distance, s.Difficulty, s.Elapsed, s.Level) +
		s.Earned
}

func (t *Tracker) multiplier(combo int) float64 {
	if combo <= 0 {
		return 1
	}
	return math.Min(1+t.cfg.ComboStep*float64(combo-1), t.cfg.MaxMultiplier)
}

// Collect applies one item collection: the combo grows, the award is
// floor(base * value * multiplier), and achievements are evaluated.
func (t *Tracker) Collect(kind entity.Kind, value float64) CollectResult {
	s := &t.state
	s.Combo++
	s.Multiplier = t.multiplier(s.Combo)
	s.LastCollectAt = s.Elapsed
	if s.Combo > s.LongestCombo {
		s.LongestCombo = s.Combo
	}
	if s.Combo > t.record.Stats.LongestCombo {
		t.record.Stats.LongestCombo = s.Combo
	}

	award := int(math.Floor(float64(kind.BaseScore()) * value * s.Multiplier))
	s.Earned += award

	if kind.Valid() {
		s.Collected[kind]++
	}
	if kind == entity.KindKey {
		s.Keys++
	}
	s.ItemsCollected++
	t.record.Stats.TotalItemsCollected++

	unlocked := t.evaluate()
	t.rescore()
	return CollectResult{
		ScoreAwarded: award,
		ComboAfter:   s.Combo,
		Multiplier:   s.Multiplier,
		Unlocked:     unlocked,
	}
}

// Death breaks the combo and counts the death.
func (t *Tracker) Death() {
	t.state.Combo = 0
	t.state.Multiplier = 1
	t.state.Deaths++
	t.record.Stats.TotalDeaths++
}

// RecordJump counts a jump.
func (t *Tracker) RecordJump() {
	t.state.Jumps++
	t.record.Stats.TotalJumps++
}

// RecordDash counts a dash.
func (t *Tracker) RecordDash() {
	t.state.Dashes++
	t.record.Stats.TotalDashes++
}

// RecordSlide counts a slide.
func (t *Tracker) RecordSlide() {
	t.state.Slides++
	t.record.Stats.TotalSlides++
}

// evaluate fires every achievement whose predicate holds and that has not
// fired this session, crediting its bonus.
func (t *Tracker) evaluate() []Achievement {
	var out []Achievement
	for _, a := range catalogue {
		if t.fired[a.ID] || !a.check(&t.state) {
			continue
		}
		t.fired[a.ID] = true
		t.state.Fired = append(t.state.Fired, a.ID)
		t.state.Earned += a.Bonus
		t.record.unlock(a.ID)
		out = append(out, a)
	}
	return out
}

// EndSession folds the session into the record and persists it. Persistence
// failures are logged and the in-memory record is still returned.
func (t *Tracker) EndSession() Record {
	s := &t.state
	t.rescore()
	if s.Score > t.record.HighScore {
		t.record.HighScore = s.Score
	}
	if s.Distance >= t.cfg.MinBestTimeDistance && s.Elapsed.Seconds() > t.record.Stats.BestTime {
		t.record.Stats.BestTime = s.Elapsed.Seconds()
	}

	if t.kv != nil {
		data, err := EncodeRecord(t.record)
		if err != nil {
			t.logger.Error("progress record not saved", "error", err)
		} else if err := t.kv.Put(RecordKey, data); err != nil {
			t.logger.Error("progress record not saved", "error", err)
		}
	}
	return t.record.clone()
}

// Snapshot returns a copy of the session state.
func (t *Tracker) Snapshot() State {
	s := t.state
	s.Fired = append([]string(nil), t.state.Fired...)
	return s
}

// Record returns a copy of the persisted record as it stands.
func (t *Tracker) Record() Record {
	return t.record.clone()
}

// Multiplier returns the current combo multiplier.
func (t *Tracker) Multiplier() float64 {
	return t.state.Multiplier
}

// Combo returns the current combo count.
func (t *Tracker) Combo() int {
	return t.state.Combo
}

// Score returns the current score.
func (t *Tracker) Score() int {
	return t.state.Score
}

// Distance returns the distance travelled this session.
func (t *Tracker) Distance() float64 {
	return t.state.Distance
}

// Difficulty returns the current difficulty tier.
func (t *Tracker) Difficulty() int {
	return t.state.Difficulty
}

// Elapsed returns the session clock.
func (t *Tracker) Elapsed() time.Duration {
	return t.state.Elapsed
}
