package storywizard

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectMsgs executes a command and flattens any batches into the
// messages they produce.
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, sub := range batch {
			msgs = append(msgs, collectMsgs(sub)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func TestPreviewNarrationFailureOffersContinueWithout(t *testing.T) {
	step := NewPreviewStep()
	step.Fail(errors.New("tts unavailable"))

	assert.True(t, step.NarrationFailed())
	assert.Contains(t, step.View(), "continue without narration")

	cmd := step.Update(tea.KeyPressMsg{Code: 'c', Text: "c"})
	require.NotNil(t, cmd)

	var skipped bool
	for _, msg := range collectMsgs(cmd) {
		if _, ok := msg.(SkipNarrationMsg); ok {
			skipped = true
		}
	}
	assert.True(t, skipped, "expected SkipNarrationMsg")
	assert.Equal(t, previewRendering, step.phase)
}

func TestPreviewNarrationFailureRetry(t *testing.T) {
	step := NewPreviewStep()
	step.Fail(errors.New("tts unavailable"))

	cmd := step.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	require.NotNil(t, cmd)

	var retried bool
	for _, msg := range collectMsgs(cmd) {
		if _, ok := msg.(RetryPreviewMsg); ok {
			retried = true
		}
	}
	assert.True(t, retried, "expected RetryPreviewMsg")
	// Retry resumes from the phase that failed, not from the start
	assert.Equal(t, previewNarrating, step.phase)
}

func TestPreviewRenderFailureCannotSkipNarration(t *testing.T) {
	step := NewPreviewStep()
	step.NarrationDone()
	step.Fail(errors.New("render backend down"))

	assert.False(t, step.NarrationFailed())
	assert.False(t, strings.Contains(step.View(), "continue without narration"))

	cmd := step.Update(tea.KeyPressMsg{Code: 'c', Text: "c"})
	assert.Nil(t, cmd)
	assert.Equal(t, previewFailed, step.phase)

	cmd = step.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	require.NotNil(t, cmd)
	assert.Equal(t, previewRendering, step.phase)
}
