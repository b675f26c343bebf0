package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/pattern"
)

var (
	flagPatDifficulty int
	flagPatDistance   float64
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Show the pattern catalog and spawn weights",
	Long: `List every pattern of the loaded catalog with its tier, tags and
entity count, and the chance each eligible pattern is drawn at the given
difficulty tier and distance.

Examples:
  runner patterns
  runner patterns --difficulty 3 --distance 1500
  runner patterns --patterns ./my-patterns.yaml`,
	RunE: runPatterns,
}

func init() {
	patternsCmd.Flags().IntVar(&flagPatDifficulty, "difficulty", 1, "Difficulty tier (1-4)")
	patternsCmd.Flags().Float64Var(&flagPatDistance, "distance", 0, "Distance travelled")
}

func runPatterns(_ *cobra.Command, _ []string) error {
	logger := newLogger("runner")
	env := loadEnv(logger)
	catalog := env.Catalog

	for _, w := range catalog.Warnings {
		fmt.Printf("warning: %s\n", w)
	}

	spawner := pattern.NewSpawner(catalog, 0, env.Config.Spawning.Scale)
	candidates := spawner.Candidates(flagPatDifficulty)

	total := 0.0
	for _, p := range candidates {
		total += pattern.Weight(p, flagPatDifficulty, flagPatDistance)
	}

	fmt.Printf("%d patterns, difficulty %d, distance %.0f\n\n", catalog.Len(), flagPatDifficulty, flagPatDistance)
	fmt.Printf("  %-28s %-7s %8s %8s  %s\n", "Name", "Tier", "Entities", "Chance", "Tags")
	fmt.Printf("  %-28s %-7s %8s %8s  %s\n", "----", "----", "--------", "------", "----")

	for _, p := range catalog.Patterns() {
		chance := "-"
		if int(p.Tier) <= flagPatDifficulty && total > 0 {
			chance = fmt.Sprintf("%.1f%%", 100*pattern.Weight(p, flagPatDifficulty, flagPatDistance)/total)
		}
		fmt.Printf("  %-28s %-7s %8d %8s  %s\n", p.Name, p.Tier, len(p.Descriptors), chance, strings.Join(p.Tags, ","))
	}

	if len(candidates) == 0 {
		fmt.Println()
		fmt.Println("No pattern is eligible; the built-in default pattern will be used.")
	}
	return nil
}
