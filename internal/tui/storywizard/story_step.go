package storywizard

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/storyloomhq/storyloom/internal/tui/theme"
)

// StoryStep handles the story textarea input with validation.
type StoryStep struct {
	textarea textarea.Model
	spinner  spinner.Model
	parsing  bool
	width    int
	height   int
	err      string // Validation or parse error message
}

// NewStoryStep creates a new story input step, seeded with any previously
// entered text so a failed parse doesn't lose the user's work.
func NewStoryStep(text string) *StoryStep {
	ta := textarea.New()
	ta.Placeholder = "Tell the story behind these photos...\n\nWho is in them? Where were they taken? What happened?"
	ta.CharLimit = 10000
	ta.SetHeight(8)
	ta.SetWidth(60)
	ta.SetValue(text)
	ta.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot

	return &StoryStep{
		textarea: ta,
		spinner:  s,
	}
}

// validateStory checks if the story text is valid.
func validateStory(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("story cannot be empty")
	}
	if len(s) < 20 {
		return fmt.Errorf("story too short (minimum 20 characters)")
	}
	return nil
}

// Init initializes the story step.
func (s *StoryStep) Init() tea.Cmd {
	return textarea.Blink
}

// StartParsing switches the step into the waiting state.
func (s *StoryStep) StartParsing() tea.Cmd {
	s.parsing = true
	s.err = ""
	return s.spinner.Tick
}

// FailParsing returns the step to editing with the error shown.
func (s *StoryStep) FailParsing(err error) {
	s.parsing = false
	s.err = err.Error()
	s.textarea.Focus()
}

// Update handles messages for the story step.
func (s *StoryStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !s.parsing {
			return nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd

	case tea.KeyPressMsg:
		if s.parsing {
			return nil
		}
		switch msg.String() {
		case "ctrl+d":
			value := strings.TrimSpace(s.textarea.Value())
			if err := validateStory(value); err != nil {
				s.err = err.Error()
				return nil
			}
			s.err = ""
			return func() tea.Msg {
				return StorySubmittedMsg{Text: value}
			}
		case "tab":
			return func() tea.Msg {
				return TabExitForwardMsg{}
			}
		case "shift+tab":
			return func() tea.Msg {
				return TabExitBackwardMsg{}
			}
		default:
			if s.err != "" {
				s.err = ""
			}
		}
	}

	var cmd tea.Cmd
	s.textarea, cmd = s.textarea.Update(msg)
	return cmd
}

// View renders the story step content.
func (s *StoryStep) View() string {
	th := theme.Current()

	if s.parsing {
		return s.spinner.View() + lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.FgBase)).
			Render(" Turning your story into a script...")
	}

	instruction := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.FgBase)).
		MarginBottom(1).
		Render("Write the story you want narrated:")

	textareaStyle := lipgloss.NewStyle().
		Width(62).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(th.BorderDefault))

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.FgMuted)).
		Italic(true).
		MarginTop(1).
		Render("Press Ctrl+D when finished")

	parts := []string{
		instruction,
		textareaStyle.Render(s.textarea.View()),
		hint,
	}
	if s.err != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.Error)).
			Bold(true).
			MarginTop(1)
		parts = append(parts, errorStyle.Render("✗ "+s.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Text returns the current story text (trimmed).
func (s *StoryStep) Text() string {
	return strings.TrimSpace(s.textarea.Value())
}

// SetSize updates the size of the story step.
func (s *StoryStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	maxTextareaHeight := height - 12
	if maxTextareaHeight < 6 {
		maxTextareaHeight = 6
	}
	if maxTextareaHeight > 15 {
		maxTextareaHeight = 15
	}
	s.textarea.SetHeight(maxTextareaHeight)
}

// Focus focuses the story textarea.
func (s *StoryStep) Focus() {
	s.textarea.Focus()
}

// Blur blurs the story textarea.
func (s *StoryStep) Blur() {
	s.textarea.Blur()
}

// Submit submits the story (validates and sends StorySubmittedMsg).
func (s *StoryStep) Submit() tea.Cmd {
	value := strings.TrimSpace(s.textarea.Value())
	if err := validateStory(value); err != nil {
		s.err = err.Error()
		return nil
	}
	s.err = ""
	return func() tea.Msg {
		return StorySubmittedMsg{Text: value}
	}
}
