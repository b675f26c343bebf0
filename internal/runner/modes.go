package runner

import (
	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/registry"
)

var modes = []struct {
	info   registry.ModeInfo
	preset config.DifficultyPreset
}{
	{registry.ModeInfo{ID: "normal", Title: "Normal", Description: "Starts at 30% speed difficulty"}, config.DifficultyNormal},
	{registry.ModeInfo{ID: "easy", Title: "Easy", Description: "Slow start, wider gaps, longer combos"}, config.DifficultyEasy},
	{registry.ModeInfo{ID: "hard", Title: "Hard", Description: "Fast start, dense patterns, short combos"}, config.DifficultyHard},
	{registry.ModeInfo{ID: "fixed", Title: "Fixed", Description: "Speed never ramps up"}, config.DifficultyFixed},
}

func init() {
	for _, m := range modes {
		registry.Register(m.info, factory(m.info.ID, m.preset))
	}
}

func factory(id string, preset config.DifficultyPreset) registry.Factory {
	return func(env registry.Env) registry.Game {
		cfg := env.Config
		config.ApplyPreset(&cfg, preset)
		return New(cfg, Options{
			Mode:    id,
			Logger:  env.Logger,
			Catalog: env.Catalog,
			Store:   env.Store,
		})
	}
}

// Ensure Game satisfies the platform interface
var _ registry.Game = (*Game)(nil)
