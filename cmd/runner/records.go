package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/platform/tui"
	"github.com/vovakirdan/tui-runner/internal/progress"
	"github.com/vovakirdan/tui-runner/internal/registry"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

var (
	flagRecordsPlain bool
	flagRecordsLimit int
)

var recordsCmd = &cobra.Command{
	Use:   "records [mode]",
	Short: "Browse the best runs",
	Long: `Open the records view: the best runs per mode next to the progress
record. With --plain, print the top runs of one mode (or all modes)
instead.

Examples:
  runner records
  runner records hard --plain
  runner records --plain --limit 25`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecords,
}

func init() {
	recordsCmd.Flags().BoolVar(&flagRecordsPlain, "plain", false, "Print a plain table instead of the interactive view")
	recordsCmd.Flags().IntVar(&flagRecordsLimit, "limit", 10, "Number of runs to print with --plain")
}

func runRecords(_ *cobra.Command, args []string) error {
	mode := ""
	if len(args) == 1 {
		mode = args[0]
		if mode != "sim" && !registry.Exists(mode) {
			return fmt.Errorf("unknown mode %q; run 'runner modes' to see available modes", mode)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagRecordsPlain {
		return printRecords(store, mode)
	}

	record, err := progress.LoadRecord(store)
	if err != nil {
		newLogger("runner").Warn("could not load progress record", "error", err)
	}
	cfg := runtimeConfig()
	_, err = tui.RunRecords(store, record, cfg.ScreenW, cfg.ScreenH)
	return err
}

func printRecords(store *storage.Store, mode string) error {
	runs, err := store.TopRuns(mode, flagRecordsLimit)
	if err != nil {
		return err
	}

	title := "all modes"
	if mode != "" {
		title = mode
	}
	fmt.Printf("Best runs - %s\n\n", title)

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %8s  %8s  %s\n", "Rank", "Score", "Mode", "Distance", "Time", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %8s  %8s  %s\n", "----", "-----", "----", "--------", "----", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-8d  %-6s  %7dm  %8s  %s\n",
			i+1, r.Score, r.Mode, int(r.Distance/10), r.Duration.Round(time.Second), r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
