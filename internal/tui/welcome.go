package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/storyloomhq/storyloom/internal/tui/theme"
)

const logo = `
 ███████╗████████╗ ██████╗ ██████╗ ██╗   ██╗██╗      ██████╗  ██████╗ ███╗   ███╗
 ██╔════╝╚══██╔══╝██╔═══██╗██╔══██╗╚██╗ ██╔╝██║     ██╔═══██╗██╔═══██╗████╗ ████║
 ███████╗   ██║   ██║   ██║██████╔╝ ╚████╔╝ ██║     ██║   ██║██║   ██║██╔████╔██║
 ╚════██║   ██║   ██║   ██║██╔══██╗  ╚██╔╝  ██║     ██║   ██║██║   ██║██║╚██╔╝██║
 ███████║   ██║   ╚██████╔╝██║  ██║   ██║   ███████╗╚██████╔╝╚██████╔╝██║ ╚═╝ ██║
 ╚══════╝   ╚═╝    ╚═════╝ ╚═╝  ╚═╝   ╚═╝   ╚══════╝ ╚═════╝  ╚═════╝ ╚═╝     ╚═╝`

// Welcome menu choices.
const (
	welcomeNewStory = iota
	welcomeResume
	welcomeLibrary
	welcomeQuit
)

// WelcomeChoiceMsg is sent when the user picks a welcome menu entry.
type WelcomeChoiceMsg struct {
	Choice int
}

// Welcome is the entry screen with the main menu.
type Welcome struct {
	choices     []int
	labels      map[int]string
	selectedIdx int
	width       int
	height      int
}

// NewWelcome creates the welcome screen. canResume adds the
// "Resume draft" entry.
func NewWelcome(canResume bool) *Welcome {
	choices := []int{welcomeNewStory}
	if canResume {
		choices = append(choices, welcomeResume)
	}
	choices = append(choices, welcomeLibrary, welcomeQuit)

	return &Welcome{
		choices: choices,
		labels: map[int]string{
			welcomeNewStory: "Create a new story",
			welcomeResume:   "Resume draft",
			welcomeLibrary:  "My videos",
			welcomeQuit:     "Quit",
		},
	}
}

// Init initializes the welcome screen.
func (w *Welcome) Init() tea.Cmd {
	return nil
}

// SetSize updates the dimensions for the welcome screen.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// Update handles messages for the welcome screen.
func (w *Welcome) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if w.selectedIdx > 0 {
			w.selectedIdx--
		}
	case "down", "j":
		if w.selectedIdx < len(w.choices)-1 {
			w.selectedIdx++
		}
	case "enter":
		choice := w.choices[w.selectedIdx]
		return func() tea.Msg {
			return WelcomeChoiceMsg{Choice: choice}
		}
	case "l":
		return func() tea.Msg {
			return WelcomeChoiceMsg{Choice: welcomeLibrary}
		}
	case "q":
		return tea.Quit
	}
	return nil
}

// View renders the welcome screen content.
func (w *Welcome) View() string {
	th := theme.Current()
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.Primary)).
		Render(logo))
	b.WriteString("\n\n")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.FgSubtle)).
		Render("Turn your photos and stories into narrated videos")
	b.WriteString(lipgloss.Place(lipgloss.Width(logo), 1, lipgloss.Center, lipgloss.Center, tagline))
	b.WriteString("\n\n")

	var menu strings.Builder
	for i, choice := range w.choices {
		label := w.labels[choice]
		if i == w.selectedIdx {
			menu.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(th.Primary)).
				Background(lipgloss.Color(th.BgSurface0)).
				Bold(true).
				Render("▸ " + label))
		} else {
			menu.WriteString("  " + label)
		}
		menu.WriteString("\n")
	}
	b.WriteString(lipgloss.Place(lipgloss.Width(logo), len(w.choices), lipgloss.Center, lipgloss.Center, menu.String()))
	b.WriteString("\n")

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.FgMuted)).
		Render("↑↓ navigate • enter select • q quit")
	b.WriteString(lipgloss.Place(lipgloss.Width(logo), 1, lipgloss.Center, lipgloss.Center, hint))

	return b.String()
}
