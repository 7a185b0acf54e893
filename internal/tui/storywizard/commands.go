package storywizard

import (
	tea "charm.land/bubbletea/v2"
	"github.com/storyloomhq/storyloom/internal/api"
	"github.com/storyloomhq/storyloom/internal/logger"
	"github.com/storyloomhq/storyloom/internal/session"
)

// uploadCmd uploads the chosen photos sequentially, reporting per-file
// progress through the program sender.
func (m *Model) uploadCmd(paths []string) tea.Cmd {
	client := m.client
	ctx := m.ctx
	program := m.program
	return func() tea.Msg {
		images, err := client.UploadImages(ctx, paths, func(done, total int, ref session.ImageRef) {
			if program != nil {
				program.Send(UploadProgressMsg{Done: done, Total: total, Ref: ref})
			}
		})
		return UploadsFinishedMsg{Images: images, Err: err}
	}
}

// analysisCmd runs image analysis in the background. The epoch ties the
// result to the session generation it was started for.
func (m *Model) analysisCmd(epoch int, images []session.ImageRef) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		result, err := client.AnalyzeImages(ctx, images)
		return AnalysisFinishedMsg{Epoch: epoch, Result: result, Err: err}
	}
}

// parseCmd sends the story for remote script parsing.
func (m *Model) parseCmd(epoch int, text string) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		chapters, err := client.ParseStory(ctx, text)
		return StoryParsedMsg{Epoch: epoch, Chapters: chapters, Err: err}
	}
}

// loadAudioCmd fetches the available voices and music tracks.
func (m *Model) loadAudioCmd() tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		voices, err := client.ListVoices(ctx)
		if err != nil {
			return AudioOptionsLoadedMsg{Err: err}
		}
		tracks, err := client.ListMusicTracks(ctx)
		if err != nil {
			return AudioOptionsLoadedMsg{Err: err}
		}
		return AudioOptionsLoadedMsg{Voices: voices, Tracks: tracks}
	}
}

// narrationCmd generates narration for the approved chapters.
func (m *Model) narrationCmd() tea.Cmd {
	client := m.client
	ctx := m.ctx
	sess := m.ctrl.Session()
	return func() tea.Msg {
		result, err := client.GenerateNarration(ctx, api.NarrationRequest{
			Chapters:  sess.Chapters,
			VoiceID:   sess.Audio.VoiceID,
			Subtitles: sess.Audio.Subtitles,
		})
		return NarrationReadyMsg{Result: result, Err: err}
	}
}

// previewCmd starts the watermarked preview render and waits for it.
func (m *Model) previewCmd() tea.Cmd {
	return m.renderCmd(true, func(video *session.VideoRef, err error) tea.Msg {
		return PreviewReadyMsg{Video: video, Err: err}
	})
}

// finalizeCmd renders the final video, watermarked per configuration.
func (m *Model) finalizeCmd() tea.Cmd {
	return m.renderCmd(m.watermarkFinal, func(video *session.VideoRef, err error) tea.Msg {
		return FinalizedMsg{Video: video, Err: err}
	})
}

// renderCmd submits a render job and polls until it resolves.
func (m *Model) renderCmd(watermark bool, wrap func(*session.VideoRef, error) tea.Msg) tea.Cmd {
	client := m.client
	ctx := m.ctx
	sess := m.ctrl.Session()
	var narrationID string
	if m.narration != nil {
		narrationID = m.narration.NarrationID
	}
	return func() tea.Msg {
		job, err := client.GeneratePreview(ctx, api.PreviewRequest{
			Chapters:     sess.Chapters,
			Images:       sess.Images,
			ThemeID:      sess.ThemeID,
			NarrationID:  narrationID,
			MusicTrackID: sess.Audio.MusicTrackID,
			Subtitles:    sess.Audio.Subtitles,
			Watermark:    watermark,
		})
		if err != nil {
			return wrap(nil, err)
		}
		done, err := client.WaitForPreview(ctx, job.ID, nil)
		if err != nil {
			return wrap(nil, err)
		}
		return wrap(&session.VideoRef{
			ID:          done.ID,
			URL:         done.URL,
			Status:      done.Status,
			Watermarked: watermark,
		}, nil)
	}
}

// persistAdvance records a committed step in the draft log.
func (m *Model) persistAdvance(step session.Step, payload session.Payload) tea.Cmd {
	if m.store == nil {
		return nil
	}
	store := m.store
	ctx := m.ctx
	draftID := m.draftID
	return func() tea.Msg {
		if err := store.RecordAdvance(ctx, draftID, step, payload); err != nil {
			logger.Warn("Recording draft event failed: %v", err)
		}
		return nil
	}
}

// persistAnalysis records an attached analysis result in the draft log.
func (m *Model) persistAnalysis(analysis *session.ImageAnalysis) tea.Cmd {
	if m.store == nil {
		return nil
	}
	store := m.store
	ctx := m.ctx
	draftID := m.draftID
	return func() tea.Msg {
		if err := store.RecordAnalysis(ctx, draftID, analysis); err != nil {
			logger.Warn("Recording draft analysis failed: %v", err)
		}
		return nil
	}
}
