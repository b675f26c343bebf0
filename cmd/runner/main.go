// runner is an endless side-scrolling runner for the terminal.
//
// Usage:
//
//	runner play [mode]      - Play a mode directly (default: normal)
//	runner menu             - Pick modes interactively
//	runner modes            - List available modes
//	runner sim              - Run headless simulations
//	runner patterns         - Show the pattern catalog and spawn weights
//	runner stats            - Show the persisted progress record
//	runner records          - Browse the best runs
//	runner serve            - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible runs
//	--db <path>          - Set database path (default: ~/.runner/runs.db)
//	--config <path>      - Runner configuration YAML
//	--patterns <path>    - Pattern catalog YAML
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/pattern"
	"github.com/vovakirdan/tui-runner/internal/registry"

	// Import the runner to register its modes
	_ "github.com/vovakirdan/tui-runner/internal/runner"
)

var (
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagPatterns string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "runner",
	Short: "Runner - an endless side-scroller in your terminal",
	Long: `Runner is a terminal side-scroller: jump, slide and dash past
hazards, collect items, chain combos and unlock achievements.

Examples:
  runner play
  runner play hard --seed 42
  runner menu
  runner sim --runs 20 --ticks 6000 --csv ./out
  runner patterns --difficulty 3
  runner serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.runner/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to runner config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPatterns, "patterns", "", "Path to pattern catalog YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger builds the stderr logger and makes it the default.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using warn", "level", flagLogLevel)
		level = log.WarnLevel
	}
	logger.SetLevel(level)
	log.SetDefault(logger)
	return logger
}

// loadEnv loads and normalizes the configuration and the pattern catalog.
// A broken config file is reported and the defaults are used.
func loadEnv(logger *log.Logger) registry.Env {
	cfg, err := config.LoadRunner(flagConfig)
	if err != nil {
		logger.Error("could not load config, using defaults", "error", err)
	}
	for _, c := range cfg.Normalize() {
		logger.Warn("config value corrected", "field", c.Field, "was", c.Was, "now", c.Now)
	}

	path := flagPatterns
	if path == "" {
		path = cfg.Spawning.Catalog
	}

	return registry.Env{
		Config:  cfg,
		Logger:  logger,
		Catalog: pattern.LoadCatalog(path, logger),
	}
}
