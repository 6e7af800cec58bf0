package cmd

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var renderer = lipgloss.NewRenderer(os.Stdout)

var (
	headingStyle lipgloss.Style
	okStyle      lipgloss.Style
	warnStyle    lipgloss.Style
	errorStyle   lipgloss.Style
	dimStyle     lipgloss.Style
)

func init() {
	buildStyles()
}

// setupStyles applies --no-color and NO_COLOR. Plain output keeps the
// same text with no escape sequences.
func setupStyles() {
	if noColor || os.Getenv("NO_COLOR") != "" {
		renderer.SetColorProfile(termenv.Ascii)
	}
	buildStyles()
}

func buildStyles() {
	headingStyle = renderer.NewStyle().Bold(true)
	okStyle = renderer.NewStyle().Foreground(lipgloss.Color("#00FA9A"))
	warnStyle = renderer.NewStyle().Foreground(lipgloss.Color("#FFB347"))
	errorStyle = renderer.NewStyle().Foreground(lipgloss.Color("#FF4C4C")).Bold(true)
	dimStyle = renderer.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
}

// stateStyle colors a lock state for the status table.
func stateStyle(state string) lipgloss.Style {
	switch state {
	case "locked":
		return okStyle
	case "stale", "pending":
		return warnStyle
	case "invalid":
		return errorStyle
	}
	return dimStyle
}
