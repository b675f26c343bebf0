package config

import "math"

// DifficultyManager scales run speed from distance or elapsed time.
// Pattern difficulty tiers are owned by the progression tracker; this only
// drives how fast the world scrolls.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0, 1),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0).
func (d *DifficultyManager) Level(distance, seconds float64) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := d.cfg.Progression.MaxAt
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "distance":
		progress = distance / maxAt
	case "time":
		progress = seconds / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Speed returns the run speed for the current difficulty level.
func (d *DifficultyManager) Speed(baseSpeed, distance, seconds float64) float64 {
	level := d.Level(distance, seconds)
	return baseSpeed * (1.0 + level*d.cfg.Scaling.SpeedMultiplier)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
