package storywizard

import (
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/storyloomhq/storyloom/internal/session"
	"github.com/storyloomhq/storyloom/internal/tui/theme"
)

// FinalStep renders the finished video and offers Library/Exit.
type FinalStep struct {
	spinner       spinner.Model
	rendering     bool
	video         *session.VideoRef
	err           string
	buttonBar     *ButtonBar
	width         int
	height        int
}

// NewFinalStep creates a new final step in the rendering state.
func NewFinalStep() *FinalStep {
	s := spinner.New()
	s.Spinner = spinner.Dot

	buttons := []Button{
		{ID: ButtonLibrary, Label: "Open Library", State: ButtonNormal},
		{ID: ButtonExit, Label: "Exit", State: ButtonNormal},
	}
	bar := NewButtonBar(buttons)

	return &FinalStep{
		spinner:   s,
		rendering: true,
		buttonBar: bar,
	}
}

// Init initializes the final step.
func (s *FinalStep) Init() tea.Cmd {
	return s.spinner.Tick
}

// RenderDone installs the finished video and focuses the buttons.
func (s *FinalStep) RenderDone(video *session.VideoRef) {
	s.rendering = false
	s.video = video
	s.buttonBar.FocusFirst()
}

// Fail shows the render error with a retry hint.
func (s *FinalStep) Fail(err error) {
	s.rendering = false
	s.err = err.Error()
}

// Update handles messages for the final step.
func (s *FinalStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !s.rendering {
			return nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd

	case tea.KeyPressMsg:
		if s.rendering {
			return nil
		}
		if s.err != "" {
			if msg.String() == "r" {
				s.rendering = true
				s.err = ""
				return tea.Batch(s.spinner.Tick, func() tea.Msg {
					return RetryFinalizeMsg{}
				})
			}
			return nil
		}
		switch msg.String() {
		case "tab", "right":
			if !s.buttonBar.FocusNext() {
				s.buttonBar.FocusFirst()
			}
		case "shift+tab", "left":
			if !s.buttonBar.FocusPrev() {
				s.buttonBar.FocusLast()
			}
		case "enter", " ":
			switch s.buttonBar.FocusedButton() {
			case ButtonLibrary:
				video := s.video
				return func() tea.Msg {
					return WizardDoneMsg{Video: video}
				}
			case ButtonExit:
				return tea.Quit
			}
		}
	}
	return nil
}

// View renders the final step content.
func (s *FinalStep) View() string {
	th := theme.Current()

	if s.rendering {
		return s.spinner.View() + lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.FgBase)).
			Render(" Rendering your final video...")
	}

	if s.err != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.Error)).
			Bold(true)
		return errorStyle.Render("✗ "+s.err) + "\n\n" +
			renderHintBar("r", "retry", "esc", "back")
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.Success)).
		Bold(true).
		Render("✓ Your video is ready!"))
	b.WriteString("\n\n")

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgMuted))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(th.Primary)).Bold(true)
	b.WriteString(labelStyle.Render("Watch and share: "))
	b.WriteString(valueStyle.Render(s.video.URL))
	b.WriteString("\n\n")

	b.WriteString(s.buttonBar.Render())
	b.WriteString("\n")
	b.WriteString(renderHintBar(
		"tab/arrows", "navigate",
		"enter", "select",
	))
	return b.String()
}

// SetSize updates the size of the final step.
func (s *FinalStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.buttonBar.SetWidth(width)
}

// RetryFinalizeMsg is sent when the user retries a failed final render.
type RetryFinalizeMsg struct{}
