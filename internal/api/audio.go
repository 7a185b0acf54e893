package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/storyloomhq/storyloom/internal/session"
)

// Voice is one narrator voice offered by the TTS service.
type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Preview  string `json:"preview_url,omitempty"`
}

// MusicTrack is one background music option.
type MusicTrack struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Mood     string `json:"mood,omitempty"`
	Duration int    `json:"duration_seconds,omitempty"`
}

// NarrationRequest asks the TTS service to narrate the chapters with the
// selected voice, mapped onto per-image display durations.
type NarrationRequest struct {
	Chapters       []session.Chapter `json:"chapters"`
	VoiceID        string            `json:"voice_id"`
	Subtitles      bool              `json:"subtitles"`
	ImageDurations []ImageDuration   `json:"image_durations,omitempty"`
}

// ImageDuration maps an image onto its display window in seconds.
type ImageDuration struct {
	ImageID string  `json:"image_id"`
	Seconds float64 `json:"seconds"`
}

// NarrationResult references the generated audio and optional subtitle track.
type NarrationResult struct {
	NarrationID string `json:"narration_id"`
	AudioURL    string `json:"audio_url"`
	SubtitleURL string `json:"subtitle_url,omitempty"`
}

// ListVoices returns the available narrator voices.
func (c *Client) ListVoices(ctx context.Context) ([]Voice, error) {
	var out struct {
		Voices []Voice `json:"voices"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/audio/voices", nil, &out); err != nil {
		return nil, fmt.Errorf("listing voices: %w", err)
	}
	return out.Voices, nil
}

// ListMusicTracks returns the available background music tracks.
func (c *Client) ListMusicTracks(ctx context.Context) ([]MusicTrack, error) {
	var out struct {
		Tracks []MusicTrack `json:"tracks"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/audio/tracks", nil, &out); err != nil {
		return nil, fmt.Errorf("listing music tracks: %w", err)
	}
	return out.Tracks, nil
}

// GenerateNarration produces narrated audio (and subtitles, if requested)
// for the chapters. Narration is optional for the final video: callers offer
// "retry" or "continue without" on failure.
func (c *Client) GenerateNarration(ctx context.Context, req NarrationRequest) (*NarrationResult, error) {
	var out NarrationResult
	if err := c.doJSON(ctx, http.MethodPost, "/audio/narration", req, &out); err != nil {
		return nil, fmt.Errorf("generating narration: %w", err)
	}
	return &out, nil
}
