package config

import "fmt"

// Correction describes one field Normalize replaced.
type Correction struct {
	Field string
	Was   any
	Now   any
}

func (c Correction) String() string {
	return fmt.Sprintf("%s: %v -> %v", c.Field, c.Was, c.Now)
}

type fixer struct {
	out []Correction
}

func (f *fixer) fixFloat(field string, v *float64, def float64, ok bool) {
	if !ok {
		f.out = append(f.out, Correction{Field: field, Was: *v, Now: def})
		*v = def
	}
}

func (f *fixer) fixInt(field string, v *int, def int, ok bool) {
	if !ok {
		f.out = append(f.out, Correction{Field: field, Was: *v, Now: def})
		*v = def
	}
}

// Normalize replaces invalid values with their defaults so that nothing
// downstream has to re-check them. It returns what it changed.
func (c *RunnerConfig) Normalize() []Correction {
	d := DefaultRunnerConfig()
	f := &fixer{}

	p := &c.Physics
	f.fixFloat("physics.gravity", &p.Gravity, d.Physics.Gravity, p.Gravity > 0)
	f.fixFloat("physics.jump_velocity", &p.JumpVelocity, d.Physics.JumpVelocity, p.JumpVelocity > 0)
	f.fixFloat("physics.double_jump_velocity", &p.DoubleJumpVelocity, d.Physics.DoubleJumpVelocity, p.DoubleJumpVelocity > 0)
	f.fixFloat("physics.max_fall_speed", &p.MaxFallSpeed, d.Physics.MaxFallSpeed, p.MaxFallSpeed > 0)
	f.fixFloat("physics.base_speed", &p.BaseSpeed, d.Physics.BaseSpeed, p.BaseSpeed > 0)
	f.fixFloat("physics.dash_multiplier", &p.DashMultiplier, d.Physics.DashMultiplier, p.DashMultiplier >= 1)
	f.fixInt("physics.dash_ms", &p.DashMs, d.Physics.DashMs, p.DashMs > 0)
	f.fixInt("physics.dash_cooldown_ms", &p.DashCooldownMs, d.Physics.DashCooldownMs, p.DashCooldownMs >= 0)
	f.fixInt("physics.slide_ms", &p.SlideMs, d.Physics.SlideMs, p.SlideMs > 0)
	f.fixFloat("physics.boost_multiplier", &p.BoostMultiplier, d.Physics.BoostMultiplier, p.BoostMultiplier >= 1)

	pl := &c.Player
	f.fixFloat("player.width", &pl.Width, d.Player.Width, pl.Width > 0)
	f.fixFloat("player.height", &pl.Height, d.Player.Height, pl.Height > 0)
	f.fixFloat("player.slide_height", &pl.SlideHeight, pl.Height/2, pl.SlideHeight > 0 && pl.SlideHeight <= pl.Height)
	f.fixFloat("player.screen_x", &pl.ScreenX, d.Player.ScreenX, pl.ScreenX >= 0)

	w := &c.World
	f.fixFloat("world.ground_y", &w.GroundY, d.World.GroundY, w.GroundY > pl.Height)
	f.fixFloat("world.cell_width", &w.CellWidth, d.World.CellWidth, w.CellWidth > 0)
	f.fixFloat("world.cell_height", &w.CellHeight, d.World.CellHeight, w.CellHeight > 0)

	s := &c.Spawning
	f.fixFloat("spawning.interval", &s.Interval, d.Spawning.Interval, s.Interval > 0)
	f.fixFloat("spawning.ahead", &s.Ahead, d.Spawning.Ahead, s.Ahead > 0)
	f.fixFloat("spawning.sweep_margin", &s.SweepMargin, d.Spawning.SweepMargin, s.SweepMargin >= 0)
	f.fixFloat("spawning.scale", &s.Scale, d.Spawning.Scale, s.Scale > 0)

	sc := &c.Scoring
	f.fixFloat("scoring.distance_weight", &sc.DistanceWeight, d.Scoring.DistanceWeight, sc.DistanceWeight >= 0)
	f.fixFloat("scoring.difficulty_bonus_rate", &sc.DifficultyBonusRate, d.Scoring.DifficultyBonusRate, sc.DifficultyBonusRate >= 0)
	f.fixInt("scoring.level_bonus", &sc.LevelBonus, d.Scoring.LevelBonus, sc.LevelBonus >= 0)
	f.fixInt("scoring.time_bonus_per_second", &sc.TimeBonusPerSecond, d.Scoring.TimeBonusPerSecond, sc.TimeBonusPerSecond >= 0)
	f.fixInt("scoring.combo_timeout_ms", &sc.ComboTimeoutMs, d.Scoring.ComboTimeoutMs, sc.ComboTimeoutMs > 0)
	f.fixFloat("scoring.combo_step", &sc.ComboStep, d.Scoring.ComboStep, sc.ComboStep >= 0)
	f.fixFloat("scoring.max_multiplier", &sc.MaxMultiplier, d.Scoring.MaxMultiplier, sc.MaxMultiplier >= 1)

	pr := &c.Progression
	f.fixFloat("progression.level_distance", &pr.LevelDistance, d.Progression.LevelDistance, pr.LevelDistance > 0)
	f.fixFloat("progression.difficulty_distance", &pr.DifficultyDistance, d.Progression.DifficultyDistance, pr.DifficultyDistance > 0)
	f.fixInt("progression.max_difficulty", &pr.MaxDifficulty, d.Progression.MaxDifficulty, pr.MaxDifficulty >= 1)
	f.fixFloat("progression.min_best_time_distance", &pr.MinBestTimeDistance, d.Progression.MinBestTimeDistance, pr.MinBestTimeDistance >= 0)

	f.fixInt("pool.obstacles", &c.Pool.Obstacles, d.Pool.Obstacles, c.Pool.Obstacles >= 0)
	f.fixInt("pool.items", &c.Pool.Items, d.Pool.Items, c.Pool.Items >= 0)

	df := &c.Difficulty
	f.fixFloat("difficulty.initial_level", &df.InitialLevel, clampF(df.InitialLevel, 0, 1), df.InitialLevel >= 0 && df.InitialLevel <= 1)
	switch df.Progression.Type {
	case "distance", "time", "none":
	default:
		f.out = append(f.out, Correction{Field: "difficulty.progression.type", Was: df.Progression.Type, Now: d.Difficulty.Progression.Type})
		df.Progression.Type = d.Difficulty.Progression.Type
	}
	f.fixFloat("difficulty.progression.max_at", &df.Progression.MaxAt, d.Difficulty.Progression.MaxAt, df.Progression.MaxAt > 0)
	f.fixFloat("difficulty.scaling.speed_multiplier", &df.Scaling.SpeedMultiplier, d.Difficulty.Scaling.SpeedMultiplier, df.Scaling.SpeedMultiplier >= 0)

	return f.out
}
