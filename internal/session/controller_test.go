package session

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// advanceAll walks the controller through every wizard step with minimal
// payloads, asserting each advance succeeds.
func advanceAll(t *testing.T, c *Controller, upTo Step) {
	t.Helper()
	payloads := map[Step]Payload{
		StepUpload:  UploadPayload{Images: []ImageRef{{ID: "img-1", Filename: "a.jpg"}}},
		StepStory:   StoryPayload{Text: "a story", Chapters: []Chapter{{Title: "One", Narration: "..."}}},
		StepScript:  ScriptPayload{Chapters: []Chapter{{Title: "One", Narration: "..."}}},
		StepTheme:   ThemePayload{ThemeID: "dusk"},
		StepAudio:   AudioPayload{Audio: AudioConfig{VoiceID: "aria", Subtitles: true}},
		StepPreview: PreviewPayload{Video: VideoRef{ID: "vid-1", Watermarked: true}},
		StepFinal:   FinalPayload{},
	}
	for c.Current() != upTo {
		step := c.Current()
		if err := c.Advance(step, payloads[step]); err != nil {
			t.Fatalf("Advance(%s) failed: %v", step, err)
		}
	}
}

func TestAdvanceFollowsOrdering(t *testing.T) {
	c := NewController()
	c.StartNew()

	order := WizardSteps()
	for i, step := range order[:len(order)-1] {
		if c.Current() != step {
			t.Fatalf("before advance %d: current = %s, want %s", i, c.Current(), step)
		}
		advanceAll(t, c, order[i+1])
		if c.Current() != order[i+1] {
			t.Errorf("after %d valid advances: current = %s, want %s", i+1, c.Current(), order[i+1])
		}
		if !c.IsCompleted(step) {
			t.Errorf("step %s should be in completed set", step)
		}
	}
}

func TestAdvanceRejectsNonCurrent(t *testing.T) {
	c := NewController()
	c.StartNew()

	err := c.Advance(StepTheme, ThemePayload{ThemeID: "dusk"})
	if !errors.Is(err, ErrNotCurrent) {
		t.Errorf("expected ErrNotCurrent, got %v", err)
	}
	if c.Current() != StepUpload {
		t.Errorf("rejected advance must not move current, got %s", c.Current())
	}
}

func TestAdvanceRequiresPayload(t *testing.T) {
	c := NewController()
	c.StartNew()

	if err := c.Advance(StepUpload, nil); !errors.Is(err, ErrMissingPayload) {
		t.Errorf("expected ErrMissingPayload, got %v", err)
	}
}

func TestStoryAdvanceGatedOnParse(t *testing.T) {
	c := NewController()
	c.StartNew()
	if err := c.Advance(StepUpload, UploadPayload{Images: []ImageRef{{ID: "i1"}}}); err != nil {
		t.Fatalf("upload advance failed: %v", err)
	}

	err := c.Advance(StepStory, StoryPayload{Text: "unparsed"})
	if !errors.Is(err, ErrParseRequired) {
		t.Errorf("expected ErrParseRequired, got %v", err)
	}
	if c.Current() != StepStory {
		t.Errorf("current = %s, want story", c.Current())
	}
}

func TestJumpToRejectsAhead(t *testing.T) {
	c := NewController()
	c.StartNew()

	err := c.JumpTo(StepPreview)
	if !errors.Is(err, ErrStepLocked) {
		t.Errorf("expected ErrStepLocked, got %v", err)
	}
	if c.Current() != StepUpload {
		t.Errorf("rejected jump must not change state, current = %s", c.Current())
	}
}

func TestJumpToCompletedStep(t *testing.T) {
	c := NewController()
	c.StartNew()
	advanceAll(t, c, StepTheme)

	if err := c.JumpTo(StepUpload); err != nil {
		t.Fatalf("jump to completed step failed: %v", err)
	}
	if c.Current() != StepUpload {
		t.Errorf("current = %s, want upload", c.Current())
	}

	// Jumping forward again to a completed step is also allowed.
	if err := c.JumpTo(StepScript); err != nil {
		t.Errorf("jump to completed script failed: %v", err)
	}
}

func TestGoBack(t *testing.T) {
	c := NewController()
	c.StartNew()
	advanceAll(t, c, StepScript)

	c.GoBack()
	if c.Current() != StepStory {
		t.Errorf("current = %s, want story", c.Current())
	}
	c.GoBack()
	c.GoBack() // at upload, should be a no-op
	if c.Current() != StepUpload {
		t.Errorf("GoBack at first step must be no-op, current = %s", c.Current())
	}
}

func TestStartOverResetsEverything(t *testing.T) {
	c := NewController()
	c.StartNew()
	advanceAll(t, c, StepPreview)
	c.Notify(NotifyInfo, "pending")

	c.StartOver()

	if c.Current() != StepWelcome {
		t.Errorf("current = %s, want welcome", c.Current())
	}
	if got := c.Session(); !got.IsEmpty() {
		t.Errorf("session should be empty after StartOver, got %+v", got)
	}
	if len(c.Completed()) != 0 {
		t.Errorf("completed set should be empty, got %v", c.Completed())
	}
	if len(c.Notifications()) != 0 {
		t.Error("notifications should be cleared on StartOver")
	}

	// Scenario from the navigation contract: jumpTo(final) right after reset.
	if err := c.JumpTo(StepFinal); !errors.Is(err, ErrStepLocked) {
		t.Errorf("expected ErrStepLocked after StartOver, got %v", err)
	}
	if c.Current() != StepWelcome {
		t.Errorf("current = %s, want welcome", c.Current())
	}
}

func TestScriptParsingSuccess(t *testing.T) {
	c := NewController()
	c.StartNew()
	if err := c.Advance(StepUpload, UploadPayload{Images: []ImageRef{{ID: "1"}, {ID: "2"}, {ID: "3"}}}); err != nil {
		t.Fatalf("upload advance failed: %v", err)
	}

	story := "Once upon a time, a family went to the sea."
	epoch := c.StartScriptParsing(story)
	if c.ParsingTask().Status != TaskRunning {
		t.Errorf("parsing task = %s, want running", c.ParsingTask().Status)
	}

	chapters := []Chapter{
		{Title: "Departure", Narration: "They packed the car."},
		{Title: "The Sea", Narration: "Waves at last."},
	}
	if err := c.FinishScriptParsing(epoch, chapters, nil); err != nil {
		t.Fatalf("FinishScriptParsing failed: %v", err)
	}

	sess := c.Session()
	if len(sess.Chapters) != 2 {
		t.Errorf("chapters = %d, want 2", len(sess.Chapters))
	}
	if c.Current() != StepScript {
		t.Errorf("current = %s, want script", c.Current())
	}
	if !c.IsCompleted(StepUpload) || !c.IsCompleted(StepStory) {
		t.Error("upload and story should both be completed")
	}
	if sess.Story != story {
		t.Errorf("story text = %q, want %q", sess.Story, story)
	}
}

func TestScriptParsingFailureKeepsUserOnStory(t *testing.T) {
	c := NewController()
	c.StartNew()
	if err := c.Advance(StepUpload, UploadPayload{Images: []ImageRef{{ID: "1"}}}); err != nil {
		t.Fatalf("upload advance failed: %v", err)
	}

	epoch := c.StartScriptParsing("my story text")
	parseErr := fmt.Errorf("backend exploded")
	if err := c.FinishScriptParsing(epoch, nil, parseErr); err == nil {
		t.Fatal("expected error back from failed parse")
	}

	if c.Current() != StepStory {
		t.Errorf("current = %s, want story", c.Current())
	}
	if c.IsCompleted(StepStory) {
		t.Error("story must not be completed after failed parse")
	}
	sess := c.Session()
	if sess.Story != "my story text" {
		t.Errorf("story text must be retained for retry, got %q", sess.Story)
	}
	if sess.Chapters != nil {
		t.Errorf("chapters must remain unset, got %v", sess.Chapters)
	}
	if c.ParsingTask().Status != TaskFailed {
		t.Errorf("parsing task = %s, want failed", c.ParsingTask().Status)
	}
	notes := c.Notifications()
	if len(notes) != 1 || notes[0].Level != NotifyError {
		t.Errorf("expected one error notification, got %v", notes)
	}
}

func TestAnalysisFailureDoesNotBlockProgress(t *testing.T) {
	c := NewController()
	c.StartNew()
	if err := c.Advance(StepUpload, UploadPayload{Images: []ImageRef{{ID: "1"}}}); err != nil {
		t.Fatalf("upload advance failed: %v", err)
	}

	epoch, images := c.StartImageAnalysis()
	if len(images) != 1 {
		t.Fatalf("expected 1 image to analyze, got %d", len(images))
	}

	// Failure arrives while user is already on the story step.
	if err := c.FinishImageAnalysis(epoch, nil, fmt.Errorf("detector offline")); err != nil {
		t.Fatalf("FinishImageAnalysis returned %v", err)
	}

	if c.Current() != StepStory {
		t.Errorf("analysis failure must not block progress, current = %s", c.Current())
	}
	if c.Session().Analysis != nil {
		t.Error("analysis field must remain unset after failure")
	}
	notes := c.Notifications()
	if len(notes) != 1 || notes[0].Level != NotifyWarn {
		t.Errorf("expected one warn notification, got %v", notes)
	}
}

func TestLateAnalysisAttachesWithoutMovingStep(t *testing.T) {
	c := NewController()
	c.StartNew()
	if err := c.Advance(StepUpload, UploadPayload{Images: []ImageRef{{ID: "1"}}}); err != nil {
		t.Fatalf("upload advance failed: %v", err)
	}
	epoch, _ := c.StartImageAnalysis()

	// User keeps going: story parse resolves, then they commit the script.
	pe := c.StartScriptParsing("text")
	if err := c.FinishScriptParsing(pe, []Chapter{{Title: "A"}}, nil); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if err := c.Advance(StepScript, ScriptPayload{Chapters: []Chapter{{Title: "A"}}}); err != nil {
		t.Fatalf("script advance failed: %v", err)
	}

	// Analysis resolves late, on the theme step.
	res := &ImageAnalysis{Insights: []ImageInsight{{ImageID: "1", Faces: 2}}, Succeeded: 1}
	if err := c.FinishImageAnalysis(epoch, res, nil); err != nil {
		t.Fatalf("FinishImageAnalysis failed: %v", err)
	}

	if c.Current() != StepTheme {
		t.Errorf("late analysis must not alter current step, got %s", c.Current())
	}
	if got := c.Session().Analysis; got == nil || got.Succeeded != 1 {
		t.Errorf("analysis result should be attached, got %+v", got)
	}
}

func TestStaleTaskResultDiscardedAfterStartOver(t *testing.T) {
	c := NewController()
	c.StartNew()
	if err := c.Advance(StepUpload, UploadPayload{Images: []ImageRef{{ID: "1"}}}); err != nil {
		t.Fatalf("upload advance failed: %v", err)
	}
	epoch, _ := c.StartImageAnalysis()

	c.StartOver()

	err := c.FinishImageAnalysis(epoch, &ImageAnalysis{Succeeded: 1}, nil)
	if !errors.Is(err, ErrStaleTask) {
		t.Errorf("expected ErrStaleTask, got %v", err)
	}
	if c.Session().Analysis != nil {
		t.Error("stale result must not be merged into the new session")
	}
}

func TestThreeImagesTwoChapters(t *testing.T) {
	c := NewController()
	c.StartNew()

	images := []ImageRef{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	if err := c.Advance(StepUpload, UploadPayload{Images: images}); err != nil {
		t.Fatalf("upload advance failed: %v", err)
	}

	story := strings.Repeat("sea ", 50) // 200 characters
	epoch := c.StartScriptParsing(story)
	chapters := []Chapter{{Title: "One"}, {Title: "Two"}}
	if err := c.FinishScriptParsing(epoch, chapters, nil); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	sess := c.Session()
	if len(sess.Chapters) != 2 {
		t.Errorf("chapters = %d, want 2", len(sess.Chapters))
	}
	if c.Current() != StepScript {
		t.Errorf("current = %s, want script", c.Current())
	}
	completed := c.Completed()
	if !completed[StepUpload] || !completed[StepStory] {
		t.Errorf("upload and story should be completed, got %v", completed)
	}
}

func TestDrainNotifications(t *testing.T) {
	c := NewController()
	c.Notify(NotifyInfo, "one")
	c.Notify(NotifyWarn, "two")

	drained := c.DrainNotifications()
	if len(drained) != 2 {
		t.Fatalf("expected 2 drained notifications, got %d", len(drained))
	}
	if len(c.DrainNotifications()) != 0 {
		t.Error("second drain should be empty")
	}
}

func TestLibraryReachableFromWelcomeOnly(t *testing.T) {
	c := NewController()

	if err := c.OpenLibrary(); err != nil {
		t.Fatalf("OpenLibrary from welcome failed: %v", err)
	}
	if c.Current() != StepLibrary {
		t.Errorf("current = %s, want library", c.Current())
	}
	c.CloseLibrary()
	if c.Current() != StepWelcome {
		t.Errorf("current = %s, want welcome", c.Current())
	}

	c.StartNew()
	if err := c.OpenLibrary(); err == nil {
		t.Error("OpenLibrary mid-wizard should be rejected")
	}
}
