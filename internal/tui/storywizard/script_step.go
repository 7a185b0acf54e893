package storywizard

import (
	"fmt"
	"os"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/glamour/v2"
	"github.com/charmbracelet/x/editor"
	"github.com/storyloomhq/storyloom/internal/session"
)

// ScriptStep shows the parsed chapters as rendered markdown for review
// and editing before the user approves the script.
type ScriptStep struct {
	viewport viewport.Model
	chapters []session.Chapter
	width    int
	height   int
	tmpFile  string // Path to temp file for editing
	edited   bool
	err      string
}

// NewScriptStep creates a new script review step.
func NewScriptStep(chapters []session.Chapter) *ScriptStep {
	vp := viewport.New(
		viewport.WithWidth(60),
		viewport.WithHeight(10),
	)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	s := &ScriptStep{
		viewport: vp,
		chapters: chapters,
		width:    60,
		height:   20,
	}
	s.viewport.SetContent(renderScript(chapters, 60))
	return s
}

// renderScript renders chapters as markdown with syntax highlighting.
func renderScript(chapters []session.Chapter, width int) string {
	content := chaptersToMarkdown(chapters)
	if width > 120 {
		width = 120
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSuffix(rendered, "\n")
}

// chaptersToMarkdown flattens chapters to an editable markdown document.
// Each chapter is a "## Title" heading followed by its narration.
func chaptersToMarkdown(chapters []session.Chapter) string {
	var b strings.Builder
	for i, ch := range chapters {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("## " + ch.Title + "\n\n")
		b.WriteString(ch.Narration + "\n")
	}
	return b.String()
}

// markdownToChapters parses an edited markdown document back into chapters.
func markdownToChapters(content string) ([]session.Chapter, error) {
	var chapters []session.Chapter
	var current *session.Chapter
	var narration []string

	flush := func() {
		if current != nil {
			current.Narration = strings.TrimSpace(strings.Join(narration, "\n"))
			chapters = append(chapters, *current)
		}
		narration = nil
	}

	for _, line := range strings.Split(content, "\n") {
		if title, ok := strings.CutPrefix(line, "## "); ok {
			flush()
			current = &session.Chapter{Title: strings.TrimSpace(title)}
			continue
		}
		if current != nil {
			narration = append(narration, line)
		}
	}
	flush()

	if len(chapters) == 0 {
		return nil, fmt.Errorf("script has no chapters (each chapter starts with \"## Title\")")
	}
	for _, ch := range chapters {
		if ch.Narration == "" {
			return nil, fmt.Errorf("chapter %q has no narration", ch.Title)
		}
	}
	return chapters, nil
}

// Init initializes the script step.
func (s *ScriptStep) Init() tea.Cmd {
	return nil
}

// SetSize updates the dimensions for the script step.
func (s *ScriptStep) SetSize(width, height int) {
	s.width = width
	s.height = height

	s.viewport.SetWidth(width)
	viewportHeight := height - 1
	if viewportHeight < 5 {
		viewportHeight = 5
	}
	s.viewport.SetHeight(viewportHeight)
	s.viewport.SetContent(renderScript(s.chapters, width))
}

// Update handles messages for the script step.
func (s *ScriptStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "e":
			if os.Getenv("EDITOR") != "" {
				return s.openEditor()
			}
		case "tab":
			return func() tea.Msg {
				return TabExitForwardMsg{}
			}
		case "shift+tab":
			return func() tea.Msg {
				return TabExitBackwardMsg{}
			}
		}

	case ScriptEditedMsg:
		// Editor returned with new content
		chapters, err := markdownToChapters(msg.Content)
		if s.tmpFile != "" {
			_ = os.Remove(s.tmpFile)
			s.tmpFile = ""
		}
		if err != nil {
			s.err = err.Error()
			return nil
		}
		s.err = ""
		s.chapters = chapters
		s.edited = true
		s.viewport.SetContent(renderScript(s.chapters, s.width))
		s.viewport.GotoTop()
		return nil
	}

	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return cmd
}

// openEditor launches the user's $EDITOR with the script content.
func (s *ScriptStep) openEditor() tea.Cmd {
	tmpfile, err := os.CreateTemp("", "storyloom_script_*.md")
	if err != nil {
		return nil // Silently fail - editor not available
	}

	if _, err := tmpfile.WriteString(chaptersToMarkdown(s.chapters)); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(tmpfile.Name())
		return nil
	}
	_ = tmpfile.Close()

	s.tmpFile = tmpfile.Name()

	cmd, err := editor.Command("storyloom", tmpfile.Name())
	if err != nil {
		_ = os.Remove(tmpfile.Name())
		return nil
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		if err != nil {
			return nil
		}
		content, err := os.ReadFile(tmpfile.Name())
		if err != nil {
			return nil
		}
		return ScriptEditedMsg{Content: string(content)}
	})
}

// View renders the script step.
func (s *ScriptStep) View() string {
	var b strings.Builder

	b.WriteString(s.viewport.View())
	b.WriteString("\n")

	if s.err != "" {
		b.WriteString("✗ " + s.err)
		b.WriteString("\n")
	}

	if os.Getenv("EDITOR") != "" {
		b.WriteString(renderHintBar(
			"↑↓", "scroll",
			"e", "edit",
			"tab", "buttons",
			"esc", "back",
		))
	} else {
		b.WriteString(renderHintBar(
			"↑↓", "scroll",
			"tab", "buttons",
			"esc", "back",
		))
	}

	return b.String()
}

// Chapters returns the current (possibly edited) chapters.
func (s *ScriptStep) Chapters() []session.Chapter {
	return s.chapters
}

// WasEdited returns true if the user edited the script via external editor.
func (s *ScriptStep) WasEdited() bool {
	return s.edited
}

// Submit approves the script and sends ScriptApprovedMsg.
func (s *ScriptStep) Submit() tea.Cmd {
	chapters := s.chapters
	return func() tea.Msg {
		return ScriptApprovedMsg{Chapters: chapters}
	}
}

// ScriptEditedMsg is sent when the external editor returns with new content.
type ScriptEditedMsg struct {
	Content string
}
