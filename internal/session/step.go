package session

// Step identifies one stage of the video-creation flow. The wizard steps form
// a fixed linear ordering; welcome and library sit outside the ordering and
// are never part of the completed set.
type Step string

const (
	StepWelcome Step = "welcome"
	StepUpload  Step = "upload"
	StepStory   Step = "story"
	StepScript  Step = "script"
	StepTheme   Step = "theme"
	StepAudio   Step = "audio"
	StepPreview Step = "preview"
	StepFinal   Step = "final"
	StepLibrary Step = "library"
)

// wizardOrder is the fixed forward chain. Transitions are strictly
// event-driven; nothing advances on a timer.
var wizardOrder = []Step{
	StepUpload,
	StepStory,
	StepScript,
	StepTheme,
	StepAudio,
	StepPreview,
	StepFinal,
}

// WizardSteps returns the ordered wizard steps (copy, safe to mutate).
func WizardSteps() []Step {
	out := make([]Step, len(wizardOrder))
	copy(out, wizardOrder)
	return out
}

// Index returns the position of s in the wizard ordering, or -1 for the
// non-wizard states (welcome, library) and unknown values.
func (s Step) Index() int {
	for i, step := range wizardOrder {
		if step == s {
			return i
		}
	}
	return -1
}

// IsWizard reports whether s is part of the linear wizard chain.
func (s Step) IsWizard() bool {
	return s.Index() >= 0
}

// Next returns the step after s in the ordering. ok is false at the terminal
// step and for non-wizard states.
func (s Step) Next() (next Step, ok bool) {
	i := s.Index()
	if i < 0 || i+1 >= len(wizardOrder) {
		return "", false
	}
	return wizardOrder[i+1], true
}

// Prev returns the step before s in the ordering. ok is false at the first
// step and for non-wizard states.
func (s Step) Prev() (prev Step, ok bool) {
	i := s.Index()
	if i <= 0 {
		return "", false
	}
	return wizardOrder[i-1], true
}

// Title returns the human-readable step name for navigation UI.
func (s Step) Title() string {
	switch s {
	case StepWelcome:
		return "Welcome"
	case StepUpload:
		return "Photos"
	case StepStory:
		return "Story"
	case StepScript:
		return "Script"
	case StepTheme:
		return "Theme"
	case StepAudio:
		return "Audio"
	case StepPreview:
		return "Preview"
	case StepFinal:
		return "Done"
	case StepLibrary:
		return "Library"
	default:
		return string(s)
	}
}

// Unlocked reports whether step may be visited given the completed set and
// the current step. A step is reachable if it was already committed, is the
// step being shown, or precedes the current step in the ordering. Anything
// strictly ahead of current that has not been completed stays locked, which
// guards against skipping work.
//
// Both the navigation UI and the controller's JumpTo guard call this, so the
// two can never disagree.
func Unlocked(step Step, completed map[Step]bool, current Step) bool {
	if step == current || completed[step] {
		return true
	}
	si, ci := step.Index(), current.Index()
	if si < 0 || ci < 0 {
		return false
	}
	return si < ci
}
