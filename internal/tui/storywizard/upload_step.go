package storywizard

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/storyloomhq/storyloom/internal/session"
	"github.com/storyloomhq/storyloom/internal/tui/theme"
)

// UploadStep handles photo selection and sequential upload.
type UploadStep struct {
	picker    *ImagePicker
	spinner   spinner.Model
	uploading bool
	done      int
	total     int
	uploaded  []session.ImageRef
	err       string
	width     int
	height    int
}

// NewUploadStep creates a new upload step.
func NewUploadStep() *UploadStep {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return &UploadStep{
		picker:  NewImagePicker(),
		spinner: s,
	}
}

// Init initializes the upload step.
func (u *UploadStep) Init() tea.Cmd {
	return nil
}

// StartUpload switches the step into uploading mode.
func (u *UploadStep) StartUpload(total int) tea.Cmd {
	u.uploading = true
	u.done = 0
	u.total = total
	u.uploaded = nil
	u.err = ""
	return u.spinner.Tick
}

// Update handles messages for the upload step.
func (u *UploadStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !u.uploading {
			return nil
		}
		var cmd tea.Cmd
		u.spinner, cmd = u.spinner.Update(msg)
		return cmd

	case UploadProgressMsg:
		u.done = msg.Done
		u.total = msg.Total
		u.uploaded = append(u.uploaded, msg.Ref)
		return nil

	case UploadsFinishedMsg:
		u.uploading = false
		if msg.Err != nil {
			u.err = msg.Err.Error()
		}
		return nil

	case tea.KeyPressMsg:
		if u.uploading {
			// Ignore input while the batch is in flight
			return nil
		}
		if u.err != "" {
			u.err = ""
		}
		return u.picker.Update(msg)
	}
	return nil
}

// SetSize updates the size of the upload step.
func (u *UploadStep) SetSize(width, height int) {
	u.width = width
	u.height = height
	u.picker.SetSize(width, height)
}

// View renders the upload step content.
func (u *UploadStep) View() string {
	th := theme.Current()

	if u.uploading {
		var b strings.Builder
		b.WriteString(u.spinner.View())
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.FgBase)).
			Render(fmt.Sprintf(" Uploading photo %d of %d...", u.done+1, u.total)))
		b.WriteString("\n\n")
		for _, ref := range u.uploaded {
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(th.Success)).
				Render("✓ " + ref.Filename))
			b.WriteString("\n")
		}
		return b.String()
	}

	var b strings.Builder
	instruction := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.FgBase)).
		MarginBottom(1).
		Render("Choose the photos for your story:")
	b.WriteString(instruction)
	b.WriteString("\n")
	b.WriteString(u.picker.View())

	if u.err != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.Error)).
			Bold(true).
			MarginTop(1)
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("✗ " + u.err))
	}

	return b.String()
}
