package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/registry"
	"github.com/vovakirdan/tui-runner/internal/runner"
	"github.com/vovakirdan/tui-runner/internal/storage"
	"github.com/vovakirdan/tui-runner/internal/telemetry"
)

var (
	flagSimMode        string
	flagSimRuns        int
	flagSimTicks       int
	flagSimCSV         string
	flagSimJumpEvery   int
	flagSimSampleEvery int
	flagSimSave        bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run headless simulations",
	Long: `Play runs without a terminal and report score statistics.

By default an autopilot jumps or slides when a hazard is about to reach
the player. With --jump-every the player jumps on a fixed cadence instead.
Run i uses seed --seed + i, so a batch is reproducible.

With --csv, samples.csv (one row every --sample-every ticks) and runs.csv
(one row per run) are written to the given directory.

Examples:
  runner sim
  runner sim --runs 50 --ticks 18000 --seed 1
  runner sim --mode hard --csv ./out --sample-every 30
  runner sim --jump-every 45`,
	RunE: runSim,
}

func init() {
	simCmd.Flags().StringVar(&flagSimMode, "mode", "normal", "Mode to simulate")
	simCmd.Flags().IntVar(&flagSimRuns, "runs", 10, "Number of runs")
	simCmd.Flags().IntVar(&flagSimTicks, "ticks", 6000, "Tick limit per run")
	simCmd.Flags().StringVar(&flagSimCSV, "csv", "", "Directory for CSV output (disabled if empty)")
	simCmd.Flags().IntVar(&flagSimJumpEvery, "jump-every", 0, "Jump every N ticks instead of using the autopilot")
	simCmd.Flags().IntVar(&flagSimSampleEvery, "sample-every", 60, "Ticks between CSV samples")
	simCmd.Flags().BoolVar(&flagSimSave, "save", false, "Save each run to the runs database under mode \"sim\"")
}

func runSim(_ *cobra.Command, _ []string) error {
	logger := newLogger("runner-sim")
	env := loadEnv(logger)

	rg, err := registry.Create(flagSimMode, env)
	if err != nil {
		return err
	}
	game, ok := rg.(*runner.Game)
	if !ok {
		return fmt.Errorf("mode %q cannot be simulated", flagSimMode)
	}

	out, err := telemetry.NewOutputManager(flagSimCSV)
	if err != nil {
		return err
	}
	defer out.Close()

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sampleEvery := flagSimSampleEvery
	if out == nil {
		sampleEvery = 0
	}

	start := time.Now()
	runs, err := telemetry.Simulate(game, telemetry.SimConfig{
		Runs:        flagSimRuns,
		Ticks:       flagSimTicks,
		Seed:        seed,
		TickRate:    flagFPS,
		JumpEvery:   flagSimJumpEvery,
		SampleEvery: sampleEvery,
	}, out)
	if err != nil {
		return err
	}
	logger.Info("simulation finished", "runs", len(runs), "elapsed", time.Since(start).Round(time.Millisecond))

	if flagSimSave {
		saveSimRuns(logger, runs)
	}

	printSummary(flagSimMode, seed, telemetry.Summarize(runs))
	if out != nil {
		fmt.Printf("\nCSV written to %s\n", out.Dir())
	}
	return nil
}

func saveSimRuns(logger *log.Logger, runs []telemetry.RunSummary) {
	store := openStore(logger)
	if store == nil {
		return
	}
	defer store.Close()

	tick := time.Second / time.Duration(max(flagFPS, 1))
	for _, r := range runs {
		_, err := store.SaveRun(storage.RunEntry{
			Mode:     "sim",
			Seed:     r.Seed,
			Score:    r.Score,
			Distance: r.Distance,
			Duration: time.Duration(r.Ticks) * tick,
			Items:    r.Items,
			MaxCombo: r.MaxCombo,
		})
		if err != nil {
			logger.Warn("could not save simulated run", "run", r.Run, "error", err)
			return
		}
	}
}

func printSummary(mode string, seed int64, s telemetry.Summary) {
	fmt.Printf("Simulated %d runs of %s (seed %d), %d died\n\n", s.Runs, mode, seed, s.Deaths)
	fmt.Printf("  %-9s %10s %10s %10s %10s %10s\n", "", "mean", "stddev", "min", "median", "max")
	row := func(name string, sp telemetry.Spread) {
		fmt.Printf("  %-9s %10.1f %10.1f %10.1f %10.1f %10.1f\n", name, sp.Mean, sp.StdDev, sp.Min, sp.Median, sp.Max)
	}
	row("score", s.Score)
	row("distance", s.Distance)
	row("items", s.Items)
}
