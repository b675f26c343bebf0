package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/platform/tui"
	"github.com/vovakirdan/tui-runner/internal/registry"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a run",
	Long: `Start a run in the given mode (default: normal).

Controls:
  Space/Up/W   - Jump (again in the air with double jump)
  Down/S       - Slide
  Right/D      - Dash
  P/Esc        - Pause
  R/Enter      - Restart (after game over)
  Ctrl+S       - Save a screenshot
  Q/Ctrl+C     - Quit

Modes:
  normal - Starts at 30% speed difficulty
  easy   - Slow start, wider pattern spacing, longer combo window
  hard   - Fast start, dense patterns, short combo window
  fixed  - No speed progression

Examples:
  runner play
  runner play hard
  runner play easy --seed 42
  runner play --config ./my-runner.yaml --patterns ./my-patterns.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	mode := "normal"
	if len(args) == 1 {
		mode = args[0]
	}
	if !registry.Exists(mode) {
		return fmt.Errorf("unknown mode %q; run 'runner modes' to see available modes", mode)
	}

	logger := newLogger("runner")
	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	env := loadEnv(logger)
	if store != nil {
		env.Store = store
	}

	game, err := registry.Create(mode, env)
	if err != nil {
		return err
	}

	_, err = tui.RunGame(game, store, logger, runtimeConfig())
	return err
}

// runtimeConfig sizes the screen from the terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the runs database. The game still works without it.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database, runs will not be saved", "error", err)
		return nil
	}
	return store
}
