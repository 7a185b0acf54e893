package storywizard

import (
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/storyloomhq/storyloom/internal/session"
	"github.com/storyloomhq/storyloom/internal/tui/theme"
)

// Preview step phases.
const (
	previewNarrating = iota
	previewRendering
	previewReady
	previewFailed
)

// PreviewStep drives narration generation and the watermarked preview
// render, then shows the result for approval.
type PreviewStep struct {
	spinner  spinner.Model
	phase    int
	failedAt int // phase that was active when the failure happened
	video    *session.VideoRef
	err      string
	width    int
	height   int
}

// NewPreviewStep creates a new preview step in the narrating phase.
func NewPreviewStep() *PreviewStep {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return &PreviewStep{
		spinner: s,
		phase:   previewNarrating,
	}
}

// Init initializes the preview step.
func (s *PreviewStep) Init() tea.Cmd {
	return s.spinner.Tick
}

// NarrationDone moves the step into the rendering phase.
func (s *PreviewStep) NarrationDone() {
	s.phase = previewRendering
}

// RenderDone installs the finished preview.
func (s *PreviewStep) RenderDone(video *session.VideoRef) {
	s.phase = previewReady
	s.video = video
}

// Fail shows the error with a retry hint. Narration failures additionally
// offer continuing without narration, since the render does not require it.
func (s *PreviewStep) Fail(err error) {
	s.failedAt = s.phase
	s.phase = previewFailed
	s.err = err.Error()
}

// NarrationFailed reports whether the recorded failure happened while
// generating narration rather than rendering.
func (s *PreviewStep) NarrationFailed() bool {
	return s.failedAt == previewNarrating
}

// Busy reports whether a background call is still in flight.
func (s *PreviewStep) Busy() bool {
	return s.phase == previewNarrating || s.phase == previewRendering
}

// Update handles messages for the preview step.
func (s *PreviewStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !s.Busy() {
			return nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			if s.phase == previewReady {
				return s.Submit()
			}
		case "r":
			if s.phase == previewFailed {
				s.phase = s.failedAt
				s.err = ""
				return tea.Batch(s.spinner.Tick, func() tea.Msg {
					return RetryPreviewMsg{}
				})
			}
		case "c":
			if s.phase == previewFailed && s.NarrationFailed() {
				s.phase = previewRendering
				s.err = ""
				return tea.Batch(s.spinner.Tick, func() tea.Msg {
					return SkipNarrationMsg{}
				})
			}
		case "tab":
			if s.phase == previewReady {
				return func() tea.Msg {
					return TabExitForwardMsg{}
				}
			}
		}
	}
	return nil
}

// View renders the preview step content.
func (s *PreviewStep) View() string {
	th := theme.Current()

	switch s.phase {
	case previewNarrating:
		return s.spinner.View() + lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.FgBase)).
			Render(" Generating narration...")

	case previewRendering:
		return s.spinner.View() + lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.FgBase)).
			Render(" Rendering preview...")

	case previewFailed:
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.Error)).
			Bold(true)
		hints := []string{"r", "retry"}
		if s.NarrationFailed() {
			hints = append(hints, "c", "continue without narration")
		}
		hints = append(hints, "esc", "back")
		return errorStyle.Render("✗ "+s.err) + "\n\n" +
			renderHintBar(hints...)
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.Success)).
		Bold(true).
		Render("✓ Preview ready"))
	b.WriteString("\n\n")

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgMuted))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(th.Primary)).Bold(true)
	b.WriteString(labelStyle.Render("Watch it at: "))
	b.WriteString(valueStyle.Render(s.video.URL))
	b.WriteString("\n\n")

	noteStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgSubtle))
	b.WriteString(noteStyle.Render("The preview carries a watermark. Approving it renders the final video."))
	b.WriteString("\n\n")

	b.WriteString(renderHintBar(
		"enter", "approve",
		"tab", "buttons",
		"esc", "back",
	))
	return b.String()
}

// SetSize updates the size of the preview step.
func (s *PreviewStep) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Submit approves the preview.
func (s *PreviewStep) Submit() tea.Cmd {
	if s.phase != previewReady {
		return nil
	}
	return func() tea.Msg {
		return PreviewApprovedMsg{}
	}
}

// RetryPreviewMsg is sent when the user retries a failed preview.
type RetryPreviewMsg struct{}

// SkipNarrationMsg is sent when the user chooses to render the preview
// without narration after the narration call failed.
type SkipNarrationMsg struct{}
