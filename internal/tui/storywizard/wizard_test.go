package storywizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/storyloomhq/storyloom/internal/session"
)

// ctrlAtTheme walks a controller up to the theme step.
func ctrlAtTheme(t *testing.T) *session.Controller {
	t.Helper()
	ctrl := session.NewController()
	ctrl.StartNew()
	require.NoError(t, ctrl.Advance(session.StepUpload, session.UploadPayload{
		Images: []session.ImageRef{{ID: "img-1"}},
	}))
	epoch := ctrl.StartScriptParsing("the summer we drove up the coast")
	chapters := []session.Chapter{{Title: "Day One", Narration: "We left at dawn."}}
	require.NoError(t, ctrl.FinishScriptParsing(epoch, chapters, nil))
	require.NoError(t, ctrl.Advance(session.StepScript, session.ScriptPayload{Chapters: chapters}))
	return ctrl
}

func TestConfiguredDefaultsPreselect(t *testing.T) {
	ctrl := ctrlAtTheme(t)
	m := New(t.Context(), Options{
		Ctrl:         ctrl,
		DefaultVoice: "v-emma",
		DefaultTheme: "cinematic",
	})

	m.initCurrentStep()
	require.NotNil(t, m.themeStep)
	assert.Equal(t, "cinematic", m.themeStep.Selected())

	assert.Equal(t, "v-emma", m.audioSeed().VoiceID)
}

func TestSessionChoicesBeatConfiguredDefaults(t *testing.T) {
	ctrl := ctrlAtTheme(t)
	require.NoError(t, ctrl.Advance(session.StepTheme, session.ThemePayload{ThemeID: "polaroid"}))
	require.NoError(t, ctrl.Advance(session.StepAudio, session.AudioPayload{
		Audio: session.AudioConfig{VoiceID: "v-liam", MusicTrackID: "t-1"},
	}))
	require.NoError(t, ctrl.JumpTo(session.StepTheme))

	m := New(t.Context(), Options{
		Ctrl:         ctrl,
		DefaultVoice: "v-emma",
		DefaultTheme: "cinematic",
	})

	m.initCurrentStep()
	require.NotNil(t, m.themeStep)
	assert.Equal(t, "polaroid", m.themeStep.Selected())

	assert.Equal(t, "v-liam", m.audioSeed().VoiceID)
}
