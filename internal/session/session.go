// Package session implements the wizard session controller: the linear step
// sequence, the mutable session aggregate accumulated across steps, the
// completed-steps set that gates navigation, and the two background task
// trackers (image analysis, script parsing) whose results are merged into the
// session only while the launching session generation is still current.
package session

import (
	"time"

	"github.com/google/uuid"
)

// ImageRef is an uploaded image: an opaque backend id plus derived metadata.
type ImageRef struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
	Status    string `json:"status,omitempty"`
}

// Chapter is one parsed story chapter: a title and the narration text the
// backend derived from the free-text story.
type Chapter struct {
	Title     string `json:"title"`
	Narration string `json:"narration"`
}

// AudioConfig is the audio selection committed by the audio step.
type AudioConfig struct {
	MusicTrackID string `json:"music_track_id,omitempty"`
	VoiceID      string `json:"voice_id,omitempty"`
	Subtitles    bool   `json:"subtitles"`
	NarrationID  string `json:"narration_id,omitempty"`
}

// ImageInsight is the per-image slice of an analysis result.
type ImageInsight struct {
	ImageID     string   `json:"image_id"`
	Faces       int      `json:"faces"`
	Objects     []string `json:"objects,omitempty"`
	Demographic string   `json:"demographic,omitempty"`
}

// ImageAnalysis is the batch face/object summary attached asynchronously.
// Later steps must tolerate this being absent.
type ImageAnalysis struct {
	Insights  []ImageInsight `json:"insights"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
}

// VideoRef points at a generated (possibly watermarked) preview video.
type VideoRef struct {
	ID          string `json:"id"`
	URL         string `json:"url,omitempty"`
	Status      string `json:"status,omitempty"`
	Watermarked bool   `json:"watermarked"`
}

// Session is the single mutable aggregate for one video-creation attempt.
// It is owned by the Controller; views receive read-only copies and never
// mutate it directly.
type Session struct {
	ID        string         `json:"id"`
	Images    []ImageRef     `json:"images,omitempty"`
	Story     string         `json:"story,omitempty"`
	Chapters  []Chapter      `json:"chapters,omitempty"`
	ThemeID   string         `json:"theme_id,omitempty"`
	Audio     AudioConfig    `json:"audio"`
	Analysis  *ImageAnalysis `json:"analysis,omitempty"`
	Preview   *VideoRef      `json:"preview,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewSession returns a fresh empty session with a new identity.
func NewSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}
}

// IsEmpty reports whether the session holds no user data yet.
func (s *Session) IsEmpty() bool {
	return len(s.Images) == 0 &&
		s.Story == "" &&
		len(s.Chapters) == 0 &&
		s.ThemeID == "" &&
		s.Audio == AudioConfig{} &&
		s.Analysis == nil &&
		s.Preview == nil
}

// Payload is the per-step data committed by an advance. Merging is
// by-replacement: each payload overwrites its whole field group.
type Payload interface {
	isPayload()
}

// UploadPayload commits the ordered uploaded-image references.
type UploadPayload struct {
	Images []ImageRef
}

// StoryPayload commits the raw story text and, once parsing has resolved,
// the derived chapters.
type StoryPayload struct {
	Text     string
	Chapters []Chapter
}

// ScriptPayload commits the user-approved (possibly edited) chapters.
type ScriptPayload struct {
	Chapters []Chapter
}

// ThemePayload commits the selected theme identifier.
type ThemePayload struct {
	ThemeID string
}

// AudioPayload commits the audio configuration.
type AudioPayload struct {
	Audio AudioConfig
}

// PreviewPayload commits the generated preview video reference.
type PreviewPayload struct {
	Video VideoRef
}

// FinalPayload carries no data; the final step only acknowledges delivery.
type FinalPayload struct{}

func (UploadPayload) isPayload()  {}
func (StoryPayload) isPayload()   {}
func (ScriptPayload) isPayload()  {}
func (ThemePayload) isPayload()   {}
func (AudioPayload) isPayload()   {}
func (PreviewPayload) isPayload() {}
func (FinalPayload) isPayload()   {}

// Merge applies a payload to the session, replacing whole fields.
func (s *Session) Merge(p Payload) {
	switch p := p.(type) {
	case UploadPayload:
		s.Images = p.Images
	case StoryPayload:
		s.Story = p.Text
		if p.Chapters != nil {
			s.Chapters = p.Chapters
		}
	case ScriptPayload:
		s.Chapters = p.Chapters
	case ThemePayload:
		s.ThemeID = p.ThemeID
	case AudioPayload:
		s.Audio = p.Audio
	case PreviewPayload:
		video := p.Video
		s.Preview = &video
	case FinalPayload:
		// Nothing to merge.
	}
}
