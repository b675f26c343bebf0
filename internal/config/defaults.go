package config

import (
	_ "embed"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerConfig returns the built-in runner configuration.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Physics: PhysicsConfig{
			Gravity:            2400,
			JumpVelocity:       900,
			DoubleJumpVelocity: 750,
			MaxFallSpeed:       1400,
			BaseSpeed:          300,
			DashMultiplier:     1.8,
			DashMs:             250,
			DashCooldownMs:     1000,
			SlideMs:            600,
			BoostMultiplier:    1.5,
		},
		Player: PlayerConfig{
			ScreenX:     120,
			Width:       28,
			Height:      42,
			SlideHeight: 21,
		},
		World: WorldConfig{
			GroundY:    400,
			CellWidth:  10,
			CellHeight: 20,
		},
		Spawning: SpawningConfig{
			Interval:    600,
			Ahead:       900,
			SweepMargin: 100,
			Scale:       1.0,
		},
		Scoring: ScoringConfig{
			DistanceWeight:      0.1,
			DifficultyBonusRate: 0.02,
			LevelBonus:          50,
			TimeBonusPerSecond:  1,
			ComboTimeoutMs:      2000,
			ComboStep:           0.1,
			MaxMultiplier:       5,
		},
		Progression: ProgressionConfig{
			LevelDistance:       1000,
			DifficultyDistance:  1500,
			MaxDifficulty:       4,
			MinBestTimeDistance: 100,
		},
		Pool: PoolConfig{
			Obstacles: 24,
			Items:     32,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: SpeedProgression{
				Type:  "distance",
				MaxAt: 10000,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.0,
			},
		},
	}
}

// DefaultYAML returns the embedded default YAML, e.g. for `runner config dump`.
func DefaultYAML() []byte {
	return defaultRunnerYAML
}
