package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"
	"github.com/gosimple/slug"
	"github.com/storyloomhq/storyloom/internal/api"
	"github.com/storyloomhq/storyloom/internal/tui/theme"
)

// VideosLoadedMsg carries the fetched library.
type VideosLoadedMsg struct {
	Videos []api.Video
	Err    error
}

// VideoDeletedMsg reports the outcome of a delete.
type VideoDeletedMsg struct {
	ID  string
	Err error
}

// VideoDownloadedMsg reports the outcome of a download.
type VideoDownloadedMsg struct {
	Path string
	Err  error
}

// LibraryClosedMsg is sent when the user leaves the library.
type LibraryClosedMsg struct{}

// Library shows the user's finished videos with delete and download.
type Library struct {
	client      *api.Client
	ctx         context.Context
	spinner     spinner.Model
	loading     bool
	loadErr     string
	videos      []api.Video
	selectedIdx int
	confirmDel  bool
	downloading bool
	status      string
	width       int
	height      int
}

// NewLibrary creates the library screen.
func NewLibrary(ctx context.Context, client *api.Client) *Library {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return &Library{
		client:  client,
		ctx:     ctx,
		spinner: s,
		loading: true,
	}
}

// Init starts the spinner and the video fetch.
func (l *Library) Init() tea.Cmd {
	return tea.Batch(l.spinner.Tick, l.loadCmd())
}

// loadCmd fetches the video library.
func (l *Library) loadCmd() tea.Cmd {
	client := l.client
	ctx := l.ctx
	return func() tea.Msg {
		videos, err := client.ListVideos(ctx)
		return VideosLoadedMsg{Videos: videos, Err: err}
	}
}

// SetSize updates the dimensions for the library screen.
func (l *Library) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// Update handles messages for the library screen.
func (l *Library) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !l.loading && !l.downloading {
			return nil
		}
		var cmd tea.Cmd
		l.spinner, cmd = l.spinner.Update(msg)
		return cmd

	case VideosLoadedMsg:
		l.loading = false
		if msg.Err != nil {
			l.loadErr = msg.Err.Error()
			return nil
		}
		l.videos = msg.Videos
		if l.selectedIdx >= len(l.videos) {
			l.selectedIdx = 0
		}
		return nil

	case VideoDeletedMsg:
		if msg.Err != nil {
			l.status = "Delete failed: " + msg.Err.Error()
			return nil
		}
		l.status = "Video deleted"
		l.loading = true
		return tea.Batch(l.spinner.Tick, l.loadCmd())

	case VideoDownloadedMsg:
		l.downloading = false
		if msg.Err != nil {
			l.status = "Download failed: " + msg.Err.Error()
			return nil
		}
		l.status = "Saved to " + msg.Path
		return nil

	case tea.KeyPressMsg:
		return l.handleKey(msg)
	}
	return nil
}

// handleKey processes library keys.
func (l *Library) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if l.confirmDel {
		switch msg.String() {
		case "y", "Y":
			l.confirmDel = false
			return l.deleteCmd(l.videos[l.selectedIdx].ID)
		case "n", "N", "esc":
			l.confirmDel = false
		}
		return nil
	}

	switch msg.String() {
	case "up", "k":
		if l.selectedIdx > 0 {
			l.selectedIdx--
		}
	case "down", "j":
		if l.selectedIdx < len(l.videos)-1 {
			l.selectedIdx++
		}
	case "x", "delete":
		if len(l.videos) > 0 {
			l.confirmDel = true
		}
	case "d":
		if len(l.videos) > 0 && !l.downloading {
			l.downloading = true
			l.status = ""
			return tea.Batch(l.spinner.Tick, l.downloadCmd(l.videos[l.selectedIdx]))
		}
	case "r":
		l.loading = true
		l.loadErr = ""
		return tea.Batch(l.spinner.Tick, l.loadCmd())
	case "esc", "q":
		return func() tea.Msg {
			return LibraryClosedMsg{}
		}
	}
	return nil
}

// deleteCmd removes a video from the backend.
func (l *Library) deleteCmd(id string) tea.Cmd {
	client := l.client
	ctx := l.ctx
	return func() tea.Msg {
		return VideoDeletedMsg{ID: id, Err: client.DeleteVideo(ctx, id)}
	}
}

// downloadCmd saves a video to the working directory.
func (l *Library) downloadCmd(video api.Video) tea.Cmd {
	client := l.client
	ctx := l.ctx
	return func() tea.Msg {
		name := slug.Make(video.Title)
		if name == "" {
			name = video.ID
		}
		path := name + ".mp4"

		f, err := os.Create(path)
		if err != nil {
			return VideoDownloadedMsg{Err: err}
		}
		defer f.Close()

		if _, err := client.DownloadVideo(ctx, video.ID, f); err != nil {
			_ = os.Remove(path)
			return VideoDownloadedMsg{Err: err}
		}
		return VideoDownloadedMsg{Path: path}
	}
}

// View renders the library screen content.
func (l *Library) View() string {
	th := theme.Current()
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.Primary)).
		Bold(true).
		MarginBottom(1).
		Render("My Videos")
	b.WriteString(title)
	b.WriteString("\n\n")

	switch {
	case l.loading:
		b.WriteString(l.spinner.View())
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.FgBase)).
			Render(" Loading your videos..."))

	case l.loadErr != "":
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.Error)).
			Bold(true).
			Render("✗ " + l.loadErr))

	case len(l.videos) == 0:
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.FgMuted)).
			Italic(true).
			Render("No videos yet. Create your first story!"))

	default:
		for i, v := range l.videos {
			line := fmt.Sprintf("%s  %s  %s",
				v.Title,
				humanize.Bytes(uint64(v.SizeBytes)),
				humanize.Time(v.CreatedAt))
			if v.Watermarked {
				line += "  (preview)"
			}
			if i == l.selectedIdx {
				line = lipgloss.NewStyle().
					Foreground(lipgloss.Color(th.Primary)).
					Background(lipgloss.Color(th.BgSurface0)).
					Bold(true).
					Render("▸ " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")

	if l.confirmDel && len(l.videos) > 0 {
		warn := lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.Warning)).
			Bold(true).
			Render(fmt.Sprintf("Delete %q? (y/n)", l.videos[l.selectedIdx].Title))
		b.WriteString(warn)
		b.WriteString("\n")
	}

	if l.downloading {
		b.WriteString(l.spinner.View())
		b.WriteString(" Downloading...")
		b.WriteString("\n")
	}

	if l.status != "" {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.FgSubtle)).
			Render(l.status))
		b.WriteString("\n")
	}

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.FgMuted)).
		Render("↑↓ navigate • d download • x delete • r refresh • esc back")
	b.WriteString("\n")
	b.WriteString(hint)

	return b.String()
}
