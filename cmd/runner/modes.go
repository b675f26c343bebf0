package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/registry"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List available modes",
	Run:   runModes,
}

func runModes(_ *cobra.Command, _ []string) {
	modes := registry.List()
	if len(modes) == 0 {
		fmt.Println("No modes available.")
		return
	}

	width := 2
	for _, m := range modes {
		width = max(width, len(m.ID))
	}

	fmt.Println("Available modes:")
	fmt.Println()
	fmt.Printf("  %-*s  %s\n", width, "ID", "Description")
	fmt.Printf("  %-*s  %s\n", width, "--", "-----------")
	for _, m := range modes {
		fmt.Printf("  %-*s  %s\n", width, m.ID, m.Description)
	}
	fmt.Println()
	fmt.Println("Run 'runner play <id>' to start a run.")
}
