package storywizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestButtonBarFocusCycle(t *testing.T) {
	bar := NewButtonBar(CreateBackNextButtons(true, true, "Next →"))
	assert.Equal(t, ButtonNone, bar.FocusedButton())

	bar.FocusFirst()
	assert.Equal(t, ButtonBack, bar.FocusedButton())

	assert.True(t, bar.FocusNext())
	assert.Equal(t, ButtonNext, bar.FocusedButton())

	// Moving past the last button drops focus
	assert.False(t, bar.FocusNext())
	assert.Equal(t, ButtonNone, bar.FocusedButton())
}

func TestButtonBarFocusSkipsDisabled(t *testing.T) {
	bar := NewButtonBar(CreateBackNextButtons(false, true, "Next →"))

	bar.FocusFirst()
	assert.Equal(t, ButtonNext, bar.FocusedButton())

	assert.False(t, bar.FocusPrev())
	assert.Equal(t, ButtonNone, bar.FocusedButton())
}

func TestButtonBarFocusLast(t *testing.T) {
	bar := NewButtonBar(CreateBackNextButtons(true, true, "Approve"))

	bar.FocusLast()
	assert.Equal(t, ButtonNext, bar.FocusedButton())

	assert.True(t, bar.FocusPrev())
	assert.Equal(t, ButtonBack, bar.FocusedButton())

	bar.Blur()
	assert.Equal(t, ButtonNone, bar.FocusedButton())
}

func TestButtonBarRenderContainsLabels(t *testing.T) {
	bar := NewButtonBar(CreateBackNextButtons(true, true, "Next →"))
	out := bar.Render()
	assert.Contains(t, out, "Back")
	assert.Contains(t, out, "Next")
}
