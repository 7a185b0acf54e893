package storywizard

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/storyloomhq/storyloom/internal/tui/theme"
)

// visualTheme is one of the built-in video looks.
type visualTheme struct {
	id          string
	name        string
	description string
}

// visualThemes is the catalog of video looks the renderer supports.
var visualThemes = []visualTheme{
	{"ken-burns", "Ken Burns", "Slow pans and zooms across each photo"},
	{"polaroid", "Polaroid", "Scattered instant-camera frames with handwritten captions"},
	{"cinematic", "Cinematic", "Letterboxed crossfades with film grain"},
	{"scrapbook", "Scrapbook", "Paper textures, tape and playful transitions"},
	{"minimal", "Minimal", "Clean cuts on a plain background"},
}

// ThemeStep lets the user pick the visual theme for the video.
type ThemeStep struct {
	selectedIdx int
	width       int
	height      int
}

// NewThemeStep creates a new theme selection step, preselecting the
// given theme id when it matches a catalog entry.
func NewThemeStep(themeID string) *ThemeStep {
	s := &ThemeStep{}
	for i, vt := range visualThemes {
		if vt.id == themeID {
			s.selectedIdx = i
			break
		}
	}
	return s
}

// Init initializes the theme step.
func (s *ThemeStep) Init() tea.Cmd {
	return nil
}

// Update handles messages for the theme step.
func (s *ThemeStep) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if s.selectedIdx > 0 {
			s.selectedIdx--
		}
	case "down", "j":
		if s.selectedIdx < len(visualThemes)-1 {
			s.selectedIdx++
		}
	case "enter":
		return s.Submit()
	case "tab":
		return func() tea.Msg {
			return TabExitForwardMsg{}
		}
	case "shift+tab":
		return func() tea.Msg {
			return TabExitBackwardMsg{}
		}
	}
	return nil
}

// View renders the theme step content.
func (s *ThemeStep) View() string {
	th := theme.Current()
	var b strings.Builder

	instruction := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.FgBase)).
		MarginBottom(1).
		Render("Pick a look for your video:")
	b.WriteString(instruction)
	b.WriteString("\n")

	for i, vt := range visualThemes {
		name := vt.name
		desc := lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.FgMuted)).
			Render("  " + vt.description)

		if i == s.selectedIdx {
			line := lipgloss.NewStyle().
				Foreground(lipgloss.Color(th.Primary)).
				Background(lipgloss.Color(th.BgSurface0)).
				Bold(true).
				Render("▸ " + name)
			b.WriteString(line)
		} else {
			b.WriteString("  " + name)
		}
		b.WriteString("\n")
		b.WriteString(desc)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderHintBar(
		"↑↓/j/k", "navigate",
		"enter", "select",
		"esc", "back",
	))

	return b.String()
}

// SetSize updates the size of the theme step.
func (s *ThemeStep) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Selected returns the currently highlighted theme id.
func (s *ThemeStep) Selected() string {
	return visualThemes[s.selectedIdx].id
}

// Submit confirms the highlighted theme.
func (s *ThemeStep) Submit() tea.Cmd {
	id := visualThemes[s.selectedIdx].id
	return func() tea.Msg {
		return ThemeChosenMsg{ThemeID: id}
	}
}
