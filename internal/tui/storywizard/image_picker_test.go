package storywizard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePhoto(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0o644))
	return path
}

func TestImagePickerFiltersToPhotos(t *testing.T) {
	dir := t.TempDir()
	writePhoto(t, dir, "beach.jpg")
	writePhoto(t, dir, "notes.txt")
	writePhoto(t, dir, "sunset.png")

	p := &ImagePicker{chosen: make(map[string]bool)}
	require.NoError(t, p.loadDirectory(dir))

	var names []string
	for _, item := range p.items {
		if !item.isDir {
			names = append(names, item.name)
		}
	}
	assert.Equal(t, []string{"beach.jpg", "sunset.png"}, names)
}

func TestImagePickerToggleKeepsSelectionOrder(t *testing.T) {
	dir := t.TempDir()
	a := writePhoto(t, dir, "a.jpg")
	b := writePhoto(t, dir, "b.jpg")
	c := writePhoto(t, dir, "c.jpg")

	p := &ImagePicker{chosen: make(map[string]bool)}
	require.NoError(t, p.loadDirectory(dir))

	p.toggle(c)
	p.toggle(a)
	p.toggle(b)
	assert.Equal(t, []string{c, a, b}, p.Chosen())

	// Untoggling drops the path without disturbing the rest
	p.toggle(a)
	assert.Equal(t, []string{c, b}, p.Chosen())

	// Re-toggling appends at the original position
	p.toggle(a)
	assert.Equal(t, []string{c, a, b}, p.Chosen())
}

func TestThemeStepPreselects(t *testing.T) {
	step := NewThemeStep("cinematic")
	assert.Equal(t, "cinematic", step.Selected())

	unknown := NewThemeStep("no-such-theme")
	assert.Equal(t, visualThemes[0].id, unknown.Selected())
}
