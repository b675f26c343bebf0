package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/platform/tui"
	"github.com/vovakirdan/tui-runner/internal/progress"
	"github.com/vovakirdan/tui-runner/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a mode from an interactive menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to start a run and Tab to browse
records. After a game over, press B or Esc to return to the menu.

Examples:
  runner menu
  runner menu --fps 30`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger := newLogger("runner")
	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	env := loadEnv(logger)
	if store != nil {
		env.Store = store
	}

	cfg := runtimeConfig()
	for {
		result, err := tui.RunMenu(store, cfg)
		if err != nil {
			return err
		}
		cfg = result.Config

		switch {
		case result.Quit:
			return nil

		case result.WantsRecords:
			record, err := progress.LoadRecord(env.Store)
			if err != nil {
				logger.Warn("could not load progress record", "error", err)
			}
			goBack, err := tui.RunRecords(store, record, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}

		default:
			game, err := registry.Create(result.Mode, env)
			if err != nil {
				return err
			}
			if flagSeed == 0 {
				cfg.Seed = time.Now().UnixNano()
			}
			goBack, err := tui.RunGame(game, store, logger, cfg)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}
		}
	}
}
