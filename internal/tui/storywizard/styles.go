package storywizard

import (
	"charm.land/lipgloss/v2"
	"github.com/storyloomhq/storyloom/internal/tui/theme"
)

// renderHintBar renders a hint bar with the given key-description pairs.
// Example: renderHintBar("↑↓", "navigate", "enter", "select", "esc", "back")
// Returns: "↑↓ navigate • enter select • esc back"
func renderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	th := theme.Current()
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.FgSubtle)).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.FgMuted))
	sepStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.BgSurface1))

	var result string
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			result += " " + sepStyle.Render("•") + " "
		}
		result += keyStyle.Render(pairs[i]) + " " + descStyle.Render(pairs[i+1])
	}
	return result
}
