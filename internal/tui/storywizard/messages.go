package storywizard

import (
	"github.com/storyloomhq/storyloom/internal/api"
	"github.com/storyloomhq/storyloom/internal/session"
)

// TabExitForwardMsg is sent when Tab is pressed on the last input of a step.
type TabExitForwardMsg struct{}

// TabExitBackwardMsg is sent when Shift+Tab is pressed on the first input of a step.
type TabExitBackwardMsg struct{}

// ImagesChosenMsg is sent when the user confirms their photo selection.
type ImagesChosenMsg struct {
	Paths []string
}

// UploadProgressMsg reports one finished upload in a batch.
type UploadProgressMsg struct {
	Done  int
	Total int
	Ref   session.ImageRef
}

// UploadsFinishedMsg is sent when the whole upload batch resolves.
type UploadsFinishedMsg struct {
	Images []session.ImageRef
	Err    error
}

// StorySubmittedMsg is sent when the user submits their story text.
type StorySubmittedMsg struct {
	Text string
}

// StoryParsedMsg carries the outcome of remote script parsing.
type StoryParsedMsg struct {
	Epoch    int
	Chapters []session.Chapter
	Err      error
}

// AnalysisFinishedMsg carries the outcome of background image analysis.
type AnalysisFinishedMsg struct {
	Epoch  int
	Result *session.ImageAnalysis
	Err    error
}

// ScriptApprovedMsg is sent when the user approves the (possibly edited) script.
type ScriptApprovedMsg struct {
	Chapters []session.Chapter
}

// ThemeChosenMsg is sent when the user picks a visual theme.
type ThemeChosenMsg struct {
	ThemeID string
}

// AudioOptionsLoadedMsg carries the fetched voices and music tracks.
type AudioOptionsLoadedMsg struct {
	Voices []api.Voice
	Tracks []api.MusicTrack
	Err    error
}

// AudioChosenMsg is sent when the user confirms their audio configuration.
type AudioChosenMsg struct {
	Config session.AudioConfig
}

// NarrationReadyMsg carries the outcome of narration generation.
type NarrationReadyMsg struct {
	Result *api.NarrationResult
	Err    error
}

// PreviewReadyMsg carries the outcome of the preview render job.
type PreviewReadyMsg struct {
	Video *session.VideoRef
	Err   error
}

// PreviewApprovedMsg is sent when the user accepts the preview.
type PreviewApprovedMsg struct{}

// FinalizedMsg carries the outcome of final video rendering.
type FinalizedMsg struct {
	Video *session.VideoRef
	Err   error
}

// WizardDoneMsg is sent to the parent app when the wizard flow completes.
type WizardDoneMsg struct {
	Video *session.VideoRef
}

// WizardCancelledMsg is sent to the parent app when the user abandons the wizard.
type WizardCancelledMsg struct{}
