package storywizard

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/storyloomhq/storyloom/internal/api"
	"github.com/storyloomhq/storyloom/internal/session"
	"github.com/storyloomhq/storyloom/internal/tui/theme"
)

// Focus sections within the audio step.
const (
	audioFocusVoice = iota
	audioFocusTrack
	audioFocusSubtitles
)

// AudioStep lets the user pick a narration voice, a music track, and
// whether to burn in subtitles. Voices and tracks are fetched from the
// API when the step initializes.
type AudioStep struct {
	spinner  spinner.Model
	loading  bool
	loadErr  string
	voices   []api.Voice
	tracks   []api.MusicTrack
	voiceIdx int
	trackIdx int
	subs     bool
	focus    int
	width    int
	height   int
}

// NewAudioStep creates a new audio selection step seeded with any
// previously chosen configuration.
func NewAudioStep(cfg session.AudioConfig) *AudioStep {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return &AudioStep{
		spinner: s,
		loading: true,
		subs:    cfg.Subtitles,
	}
}

// Init initializes the audio step.
func (s *AudioStep) Init() tea.Cmd {
	return s.spinner.Tick
}

// SetOptions installs the fetched voices and tracks, and preselects the
// entries matching the given configuration.
func (s *AudioStep) SetOptions(voices []api.Voice, tracks []api.MusicTrack, cfg session.AudioConfig) {
	s.loading = false
	s.loadErr = ""
	s.voices = voices
	s.tracks = tracks
	for i, v := range voices {
		if v.ID == cfg.VoiceID {
			s.voiceIdx = i
			break
		}
	}
	for i, t := range tracks {
		if t.ID == cfg.MusicTrackID {
			s.trackIdx = i
			break
		}
	}
}

// FailLoad shows the fetch error in place of the option lists.
func (s *AudioStep) FailLoad(err error) {
	s.loading = false
	s.loadErr = err.Error()
}

// Update handles messages for the audio step.
func (s *AudioStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !s.loading {
			return nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd

	case tea.KeyPressMsg:
		if s.loading {
			return nil
		}
		switch msg.String() {
		case "up", "k":
			s.move(-1)
		case "down", "j":
			s.move(1)
		case " ":
			if s.focus == audioFocusSubtitles {
				s.subs = !s.subs
			}
		case "tab":
			if s.focus < audioFocusSubtitles {
				s.focus++
				return nil
			}
			return func() tea.Msg {
				return TabExitForwardMsg{}
			}
		case "shift+tab":
			if s.focus > audioFocusVoice {
				s.focus--
				return nil
			}
			return func() tea.Msg {
				return TabExitBackwardMsg{}
			}
		case "enter":
			return s.Submit()
		}
	}
	return nil
}

// move shifts the selection in the focused section.
func (s *AudioStep) move(delta int) {
	switch s.focus {
	case audioFocusVoice:
		s.voiceIdx = clamp(s.voiceIdx+delta, 0, len(s.voices)-1)
	case audioFocusTrack:
		s.trackIdx = clamp(s.trackIdx+delta, 0, len(s.tracks)-1)
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// View renders the audio step content.
func (s *AudioStep) View() string {
	th := theme.Current()

	if s.loading {
		return s.spinner.View() + lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.FgBase)).
			Render(" Loading voices and music...")
	}

	if s.loadErr != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.Error)).
			Bold(true)
		return errorStyle.Render("✗ "+s.loadErr) + "\n\n" +
			lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgMuted)).
				Render("Press ESC to go back and try again")
	}

	var b strings.Builder

	b.WriteString(s.renderSection("Narration voice", s.focus == audioFocusVoice))
	b.WriteString("\n")
	for i, v := range s.voices {
		label := fmt.Sprintf("%s (%s)", v.Name, v.Language)
		b.WriteString(s.renderOption(label, i == s.voiceIdx, s.focus == audioFocusVoice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.renderSection("Background music", s.focus == audioFocusTrack))
	b.WriteString("\n")
	for i, t := range s.tracks {
		label := t.Name
		if t.Mood != "" {
			label = fmt.Sprintf("%s (%s)", t.Name, t.Mood)
		}
		b.WriteString(s.renderOption(label, i == s.trackIdx, s.focus == audioFocusTrack))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.renderSection("Subtitles", s.focus == audioFocusSubtitles))
	b.WriteString("\n")
	check := "[ ]"
	if s.subs {
		check = "[x]"
	}
	b.WriteString(s.renderOption(check+" Burn subtitles into the video", true, s.focus == audioFocusSubtitles))
	b.WriteString("\n\n")

	b.WriteString(renderHintBar(
		"↑↓", "navigate",
		"tab", "next section",
		"space", "toggle",
		"enter", "confirm",
	))

	return b.String()
}

// renderSection renders a section header, highlighted when focused.
func (s *AudioStep) renderSection(title string, focused bool) string {
	th := theme.Current()
	style := lipgloss.NewStyle().Bold(true)
	if focused {
		style = style.Foreground(lipgloss.Color(th.Primary))
	} else {
		style = style.Foreground(lipgloss.Color(th.FgSubtle))
	}
	return style.Render(title)
}

// renderOption renders one selectable row.
func (s *AudioStep) renderOption(label string, selected, sectionFocused bool) string {
	th := theme.Current()
	if selected && sectionFocused {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.Primary)).
			Background(lipgloss.Color(th.BgSurface0)).
			Bold(true).
			Render("▸ " + label)
	}
	if selected {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.FgBase)).
			Render("▸ " + label)
	}
	return "  " + label
}

// SetSize updates the size of the audio step.
func (s *AudioStep) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Submit confirms the audio configuration.
func (s *AudioStep) Submit() tea.Cmd {
	if s.loading || s.loadErr != "" || len(s.voices) == 0 {
		return nil
	}
	cfg := session.AudioConfig{
		VoiceID:   s.voices[s.voiceIdx].ID,
		Subtitles: s.subs,
	}
	if len(s.tracks) > 0 {
		cfg.MusicTrackID = s.tracks[s.trackIdx].ID
	}
	return func() tea.Msg {
		return AudioChosenMsg{Config: cfg}
	}
}
