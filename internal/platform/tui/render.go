package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-runner/internal/core"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells with the same color share one escape sequence.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			start := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != start {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[start]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
