package tui

import (
	"strings"
	"testing"

	"github.com/storyloomhq/storyloom/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToastShowAndDismiss(t *testing.T) {
	toast := NewToast()
	assert.False(t, toast.IsVisible())
	assert.Empty(t, toast.GetMessage())

	cmd := toast.Show(session.NotifyInfo, "Draft saved")
	require.NotNil(t, cmd)
	assert.True(t, toast.IsVisible())
	assert.Equal(t, "Draft saved", toast.GetMessage())

	toast.Update(ToastDismissMsg{})
	assert.False(t, toast.IsVisible())
	assert.Empty(t, toast.GetMessage())
}

func TestToastViewHiddenWhenNotVisible(t *testing.T) {
	toast := NewToast()
	assert.Empty(t, toast.View(80, 24))
}

func TestToastViewContainsMessage(t *testing.T) {
	toast := NewToast()
	toast.Show(session.NotifyWarn, "Image analysis failed")

	view := toast.View(80, 24)
	assert.True(t, strings.Contains(view, "Image analysis failed"))
}

func TestToastShowReplacesMessage(t *testing.T) {
	toast := NewToast()
	toast.Show(session.NotifyInfo, "first")
	toast.Show(session.NotifyError, "second")

	assert.Equal(t, "second", toast.GetMessage())
}
