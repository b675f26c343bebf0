package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/progress"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the persisted progress record",
	Long: `Display the high score, lifetime statistics and achievements stored
in the runs database, followed by per-mode run totals.

Examples:
  runner stats
  runner stats --db ./runs.db`,
	RunE: runStats,
}

func runStats(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	r, err := progress.LoadRecord(store)
	if err != nil {
		return err
	}

	fmt.Printf("High score      %d\n", r.HighScore)
	fmt.Printf("Best time       %.1fs\n", r.Stats.BestTime)
	fmt.Printf("Longest combo   %d\n", r.Stats.LongestCombo)
	fmt.Printf("Fastest speed   %.0f\n", r.Stats.FastestSpeed)
	fmt.Printf("Jumps           %d\n", r.Stats.TotalJumps)
	fmt.Printf("Dashes          %d\n", r.Stats.TotalDashes)
	fmt.Printf("Slides          %d\n", r.Stats.TotalSlides)
	fmt.Printf("Items           %d\n", r.Stats.TotalItemsCollected)
	fmt.Printf("Deaths          %d\n", r.Stats.TotalDeaths)

	all := progress.Achievements()
	fmt.Printf("\nAchievements %d/%d\n", r.UnlockedCount(), len(all))
	for _, a := range all {
		mark := " "
		if r.Unlocked(a.ID) {
			mark = "x"
		}
		fmt.Printf("  [%s] %-16s %-15s +%d\n", mark, a.Title, a.ID, a.Bonus)
	}

	stats, err := store.ModeStats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		return nil
	}

	modes := make([]string, 0, len(stats))
	for m := range stats {
		modes = append(modes, m)
	}
	sort.Strings(modes)

	fmt.Printf("\n  %-8s %6s %8s %10s %12s  %s\n", "Mode", "Runs", "Best", "Average", "Distance", "Last played")
	for _, m := range modes {
		st := stats[m]
		fmt.Printf("  %-8s %6d %8d %10.1f %12.0f  %s\n",
			m, st.Runs, st.HighScore, st.AvgScore, st.TotalDistance, st.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
