// Package config provides YAML-based runner configuration loading,
// validation and difficulty management.
package config

import "time"

// RunnerConfig contains all tuning for the runner. It is loaded once at
// startup and passed by reference to every component that needs it.
type RunnerConfig struct {
	Physics     PhysicsConfig     `yaml:"physics"`
	Player      PlayerConfig      `yaml:"player"`
	World       WorldConfig       `yaml:"world"`
	Spawning    SpawningConfig    `yaml:"spawning"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	Progression ProgressionConfig `yaml:"progression"`
	Pool        PoolConfig        `yaml:"pool"`
	Difficulty  DifficultyConfig  `yaml:"difficulty"`
}

// PhysicsConfig defines player movement. Units are world units and seconds.
type PhysicsConfig struct {
	Gravity            float64 `yaml:"gravity"`
	JumpVelocity       float64 `yaml:"jump_velocity"`
	DoubleJumpVelocity float64 `yaml:"double_jump_velocity"`
	MaxFallSpeed       float64 `yaml:"max_fall_speed"`
	BaseSpeed          float64 `yaml:"base_speed"`
	DashMultiplier     float64 `yaml:"dash_multiplier"`
	DashMs             int     `yaml:"dash_ms"`
	DashCooldownMs     int     `yaml:"dash_cooldown_ms"`
	SlideMs            int     `yaml:"slide_ms"`
	BoostMultiplier    float64 `yaml:"boost_multiplier"`
}

// DashDuration returns how long a dash lasts.
func (p PhysicsConfig) DashDuration() time.Duration {
	return time.Duration(p.DashMs) * time.Millisecond
}

// DashCooldown returns the minimum time between dashes.
func (p PhysicsConfig) DashCooldown() time.Duration {
	return time.Duration(p.DashCooldownMs) * time.Millisecond
}

// SlideDuration returns how long a slide lasts.
func (p PhysicsConfig) SlideDuration() time.Duration {
	return time.Duration(p.SlideMs) * time.Millisecond
}

// PlayerConfig defines the player's collision box and camera offset.
type PlayerConfig struct {
	ScreenX     float64 `yaml:"screen_x"` // Distance from the camera's left edge
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	SlideHeight float64 `yaml:"slide_height"`
}

// WorldConfig defines the play field and how it maps to terminal cells.
type WorldConfig struct {
	GroundY    float64 `yaml:"ground_y"`
	CellWidth  float64 `yaml:"cell_width"`  // World units per terminal column
	CellHeight float64 `yaml:"cell_height"` // World units per terminal row
}

// SpawningConfig controls pattern cadence and placement.
type SpawningConfig struct {
	Interval    float64 `yaml:"interval"`     // Distance between pattern requests
	Ahead       float64 `yaml:"ahead"`        // Spawn offset in front of the camera
	SweepMargin float64 `yaml:"sweep_margin"` // Distance behind the camera before release
	Scale       float64 `yaml:"scale"`        // Multiplier for relative pattern coordinates
	Catalog     string  `yaml:"catalog"`      // Optional pattern catalog path
}

// ScoringConfig defines score and combo rules.
type ScoringConfig struct {
	DistanceWeight      float64 `yaml:"distance_weight"`
	DifficultyBonusRate float64 `yaml:"difficulty_bonus_rate"`
	LevelBonus          int     `yaml:"level_bonus"`
	TimeBonusPerSecond  int     `yaml:"time_bonus_per_second"`
	ComboTimeoutMs      int     `yaml:"combo_timeout_ms"`
	ComboStep           float64 `yaml:"combo_step"`
	MaxMultiplier       float64 `yaml:"max_multiplier"`
}

// ComboTimeout returns the idle time after which a combo expires.
func (s ScoringConfig) ComboTimeout() time.Duration {
	return time.Duration(s.ComboTimeoutMs) * time.Millisecond
}

// ProgressionConfig defines how level and difficulty tier follow distance.
type ProgressionConfig struct {
	LevelDistance       float64 `yaml:"level_distance"`
	DifficultyDistance  float64 `yaml:"difficulty_distance"`
	MaxDifficulty       int     `yaml:"max_difficulty"`
	MinBestTimeDistance float64 `yaml:"min_best_time_distance"`
}

// PoolConfig sets the initial entity pool capacities.
type PoolConfig struct {
	Obstacles int `yaml:"obstacles"`
	Items     int `yaml:"items"`
}

// DifficultyConfig defines the speed progression system.
type DifficultyConfig struct {
	Enabled      bool             `yaml:"enabled"`
	InitialLevel float64          `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  SpeedProgression `yaml:"progression"`
	Scaling      ScalingConfig    `yaml:"scaling"`
}

// SpeedProgression defines how speed difficulty increases.
type SpeedProgression struct {
	Type  string  `yaml:"type"`   // "distance", "time", or "none"
	MaxAt float64 `yaml:"max_at"` // Distance or seconds at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to speed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI string to a preset; unknown strings yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *RunnerConfig, preset DifficultyPreset) {
	switch preset {
	case "":
		return
	case DifficultyFixed:
		cfg.Difficulty.Enabled = false
		return
	}

	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)

	switch preset {
	case DifficultyEasy:
		cfg.Scoring.ComboTimeoutMs = 3000
		cfg.Spawning.Interval *= 1.25
	case DifficultyHard:
		cfg.Scoring.ComboTimeoutMs = 1500
		cfg.Spawning.Interval *= 0.8
	}
}
