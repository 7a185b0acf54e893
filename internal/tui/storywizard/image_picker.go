package storywizard

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/storyloomhq/storyloom/internal/tui/theme"
)

// imageExts are the photo file extensions the picker offers.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// pickerItem represents a file or directory in the image picker.
type pickerItem struct {
	name  string
	path  string
	isDir bool
}

// ImagePicker is a directory browser with multi-select for photo files.
type ImagePicker struct {
	currentPath string
	items       []pickerItem
	selectedIdx int
	chosen      map[string]bool // Paths toggled for upload, in chosenOrder
	chosenOrder []string
	width       int
	height      int
}

// NewImagePicker creates an image picker rooted at the working directory.
func NewImagePicker() *ImagePicker {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	p := &ImagePicker{
		currentPath: cwd,
		chosen:      make(map[string]bool),
		width:       60,
		height:      12,
	}
	p.loadDirectory(cwd)
	return p
}

// loadDirectory loads directories and photo files from the given path.
func (p *ImagePicker) loadDirectory(path string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		return err
	}

	p.items = nil

	absPath, err := filepath.Abs(path)
	if err == nil && absPath != filepath.Dir(absPath) {
		p.items = append(p.items, pickerItem{
			name:  "..",
			path:  filepath.Dir(absPath),
			isDir: true,
		})
	}

	var dirs []pickerItem
	var files []pickerItem
	for _, entry := range entries {
		fullPath := filepath.Join(path, entry.Name())
		if entry.IsDir() {
			dirs = append(dirs, pickerItem{name: entry.Name(), path: fullPath, isDir: true})
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if imageExts[ext] {
			files = append(files, pickerItem{name: entry.Name(), path: fullPath})
		}
	}

	sort.Slice(dirs, func(i, j int) bool {
		return strings.ToLower(dirs[i].name) < strings.ToLower(dirs[j].name)
	})
	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(files[i].name) < strings.ToLower(files[j].name)
	})

	p.items = append(p.items, dirs...)
	p.items = append(p.items, files...)
	p.currentPath = path
	p.selectedIdx = 0
	return nil
}

// SetSize updates the dimensions for the picker.
func (p *ImagePicker) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Chosen returns the toggled photo paths in selection order.
func (p *ImagePicker) Chosen() []string {
	out := make([]string, 0, len(p.chosenOrder))
	for _, path := range p.chosenOrder {
		if p.chosen[path] {
			out = append(out, path)
		}
	}
	return out
}

// toggle flips the selection state of a photo path.
func (p *ImagePicker) toggle(path string) {
	if p.chosen[path] {
		p.chosen[path] = false
		return
	}
	if !containsPath(p.chosenOrder, path) {
		p.chosenOrder = append(p.chosenOrder, path)
	}
	p.chosen[path] = true
}

func containsPath(paths []string, path string) bool {
	for _, q := range paths {
		if q == path {
			return true
		}
	}
	return false
}

// Update handles messages for the image picker.
func (p *ImagePicker) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if p.selectedIdx > 0 {
			p.selectedIdx--
		}
	case "down", "j":
		if p.selectedIdx < len(p.items)-1 {
			p.selectedIdx++
		}
	case " ":
		if p.selectedIdx >= 0 && p.selectedIdx < len(p.items) {
			item := p.items[p.selectedIdx]
			if !item.isDir {
				p.toggle(item.path)
			}
		}
	case "enter":
		if p.selectedIdx >= 0 && p.selectedIdx < len(p.items) {
			item := p.items[p.selectedIdx]
			if item.isDir {
				p.loadDirectory(item.path)
				return nil
			}
			// Enter on a file toggles it and confirms if anything is chosen
			p.toggle(item.path)
			if chosen := p.Chosen(); len(chosen) > 0 {
				return func() tea.Msg {
					return ImagesChosenMsg{Paths: chosen}
				}
			}
		}
	case "ctrl+d":
		if chosen := p.Chosen(); len(chosen) > 0 {
			return func() tea.Msg {
				return ImagesChosenMsg{Paths: chosen}
			}
		}
	case "backspace":
		parentPath := filepath.Dir(p.currentPath)
		if parentPath != p.currentPath {
			p.loadDirectory(parentPath)
		}
	}
	return nil
}

// View renders the image picker.
func (p *ImagePicker) View() string {
	th := theme.Current()
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgSubtle)).Render(p.currentPath))
	b.WriteString("\n\n")

	hasFiles := false
	for _, item := range p.items {
		if !item.isDir {
			hasFiles = true
			break
		}
	}

	if !hasFiles {
		emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgMuted)).Italic(true)
		b.WriteString(emptyStyle.Render("No photos in this directory"))
		b.WriteString("\n")
	}

	maxRows := p.height - 6
	if maxRows < 4 {
		maxRows = 4
	}
	start := 0
	if p.selectedIdx >= maxRows {
		start = p.selectedIdx - maxRows + 1
	}

	for i := start; i < len(p.items) && i < start+maxRows; i++ {
		item := p.items[i]

		marker := "  "
		if !item.isDir && p.chosen[item.path] {
			marker = lipgloss.NewStyle().Foreground(lipgloss.Color(th.Success)).Render("✓ ")
		}

		icon := "📄"
		if item.isDir {
			icon = "📁"
		}
		line := marker + icon + " " + item.name

		if i == p.selectedIdx {
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

	b.WriteString("\n")

	count := len(p.Chosen())
	if count > 0 {
		countStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(th.Success))
		label := fmt.Sprintf("%d photos selected", count)
		if count == 1 {
			label = "1 photo selected"
		}
		b.WriteString(countStyle.Render(label))
		b.WriteString("\n")
	}

	b.WriteString(renderHintBar(
		"↑↓/j/k", "navigate",
		"space", "toggle",
		"ctrl+d", "upload",
		"backspace", "up",
	))

	return b.String()
}
