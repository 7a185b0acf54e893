package storywizard

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/storyloomhq/storyloom/internal/api"
	"github.com/storyloomhq/storyloom/internal/draft"
	"github.com/storyloomhq/storyloom/internal/logger"
	"github.com/storyloomhq/storyloom/internal/session"
	"github.com/storyloomhq/storyloom/internal/tui/theme"
)

// Modal layout constants
const (
	modalWidth        = 70
	modalPadding      = 2
	modalBorderWidth  = 1
	modalContentWidth = modalWidth - (modalPadding * 2) - (modalBorderWidth * 2) // 64
)

// ProgramSender is an interface for sending messages to the Bubbletea program.
// This allows for easier testing by mocking the Send method.
type ProgramSender interface {
	Send(tea.Msg)
}

// Options configures a wizard instance.
type Options struct {
	Ctrl           *session.Controller
	Client         *api.Client
	Store          *draft.Store // nil disables draft persistence
	DraftID        string
	WatermarkFinal bool   // Render the final video with a watermark
	DefaultVoice   string // Preselected narrator voice for new sessions
	DefaultTheme   string // Preselected visual theme for new sessions
}

// Model is the wizard component. It owns the step components and drives the
// session controller; the parent app embeds it and forwards messages while
// the controller is on a wizard step.
type Model struct {
	ctrl    *session.Controller
	client  *api.Client
	store   *draft.Store // nil when draft persistence is disabled
	draftID string
	ctx     context.Context
	program ProgramSender

	watermarkFinal bool
	defaultVoice   string
	defaultTheme   string

	width  int
	height int

	// Step components, created lazily as the controller advances
	uploadStep  *UploadStep
	storyStep   *StoryStep
	scriptStep  *ScriptStep
	themeStep   *ThemeStep
	audioStep   *AudioStep
	previewStep *PreviewStep
	finalStep   *FinalStep

	// Button bar with focus tracking
	buttonBar     *ButtonBar
	buttonFocused bool

	// Narration result, produced during the preview step
	narration *api.NarrationResult
}

// New creates a wizard bound to the given controller and API client.
func New(ctx context.Context, opts Options) *Model {
	return &Model{
		ctrl:           opts.Ctrl,
		client:         opts.Client,
		store:          opts.Store,
		draftID:        opts.DraftID,
		ctx:            ctx,
		watermarkFinal: opts.WatermarkFinal,
		defaultVoice:   opts.DefaultVoice,
		defaultTheme:   opts.DefaultTheme,
	}
}

// SetProgram installs the program sender used for mid-command progress messages.
func (m *Model) SetProgram(p ProgramSender) {
	m.program = p
}

// Init initializes the component for the controller's current step.
func (m *Model) Init() tea.Cmd {
	return m.initCurrentStep()
}

// Update handles messages for the wizard.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateCurrentStepSize()
		return nil

	case ImagesChosenMsg:
		cmd := m.uploadStep.StartUpload(len(msg.Paths))
		return tea.Batch(cmd, m.uploadCmd(msg.Paths))

	case UploadProgressMsg:
		return m.updateCurrentStep(msg)

	case UploadsFinishedMsg:
		stepCmd := m.updateCurrentStep(msg)
		if msg.Err != nil {
			logger.Warn("Photo upload failed: %v", msg.Err)
			return stepCmd
		}
		if err := m.ctrl.Advance(session.StepUpload, session.UploadPayload{Images: msg.Images}); err != nil {
			logger.Error("Upload advance rejected: %v", err)
			return stepCmd
		}
		epoch, images := m.ctrl.StartImageAnalysis()
		return tea.Batch(
			stepCmd,
			m.persistAdvance(session.StepUpload, session.UploadPayload{Images: msg.Images}),
			m.analysisCmd(epoch, images),
			m.initCurrentStep(),
		)

	case AnalysisFinishedMsg:
		err := m.ctrl.FinishImageAnalysis(msg.Epoch, msg.Result, msg.Err)
		if err == session.ErrStaleTask {
			logger.Debug("Discarding stale image analysis result")
			return nil
		}
		if msg.Err == nil && err == nil {
			return m.persistAnalysis(msg.Result)
		}
		return nil

	case StorySubmittedMsg:
		epoch := m.ctrl.StartScriptParsing(msg.Text)
		cmd := m.storyStep.StartParsing()
		return tea.Batch(cmd, m.parseCmd(epoch, msg.Text))

	case StoryParsedMsg:
		err := m.ctrl.FinishScriptParsing(msg.Epoch, msg.Chapters, msg.Err)
		if err == session.ErrStaleTask {
			logger.Debug("Discarding stale script parsing result")
			return nil
		}
		if err != nil {
			m.storyStep.FailParsing(err)
			return nil
		}
		sess := m.ctrl.Session()
		return tea.Batch(
			m.persistAdvance(session.StepStory, session.StoryPayload{Text: sess.Story, Chapters: msg.Chapters}),
			m.initCurrentStep(),
		)

	case ScriptApprovedMsg:
		if err := m.ctrl.Advance(session.StepScript, session.ScriptPayload{Chapters: msg.Chapters}); err != nil {
			logger.Error("Script advance rejected: %v", err)
			return nil
		}
		return tea.Batch(
			m.persistAdvance(session.StepScript, session.ScriptPayload{Chapters: msg.Chapters}),
			m.initCurrentStep(),
		)

	case ThemeChosenMsg:
		if err := m.ctrl.Advance(session.StepTheme, session.ThemePayload{ThemeID: msg.ThemeID}); err != nil {
			logger.Error("Theme advance rejected: %v", err)
			return nil
		}
		return tea.Batch(
			m.persistAdvance(session.StepTheme, session.ThemePayload{ThemeID: msg.ThemeID}),
			m.initCurrentStep(),
		)

	case AudioOptionsLoadedMsg:
		if m.audioStep == nil {
			return nil
		}
		if msg.Err != nil {
			m.audioStep.FailLoad(msg.Err)
			return nil
		}
		m.audioStep.SetOptions(msg.Voices, msg.Tracks, m.audioSeed())
		return nil

	case AudioChosenMsg:
		if err := m.ctrl.Advance(session.StepAudio, session.AudioPayload{Audio: msg.Config}); err != nil {
			logger.Error("Audio advance rejected: %v", err)
			return nil
		}
		return tea.Batch(
			m.persistAdvance(session.StepAudio, session.AudioPayload{Audio: msg.Config}),
			m.initCurrentStep(),
		)

	case NarrationReadyMsg:
		if m.previewStep == nil {
			return nil
		}
		if msg.Err != nil {
			m.previewStep.Fail(msg.Err)
			return nil
		}
		m.narration = msg.Result
		m.previewStep.NarrationDone()
		return m.previewCmd()

	case RetryPreviewMsg:
		if m.previewStep != nil && !m.previewStep.NarrationFailed() {
			return m.previewCmd()
		}
		return m.narrationCmd()

	case SkipNarrationMsg:
		// Narration is optional; render the preview without it
		m.narration = nil
		return m.previewCmd()

	case PreviewReadyMsg:
		if m.previewStep == nil {
			return nil
		}
		if msg.Err != nil {
			m.previewStep.Fail(msg.Err)
			return nil
		}
		m.previewStep.RenderDone(msg.Video)
		return nil

	case PreviewApprovedMsg:
		if m.previewStep == nil || m.previewStep.video == nil {
			return nil
		}
		payload := session.PreviewPayload{Video: *m.previewStep.video}
		if err := m.ctrl.Advance(session.StepPreview, payload); err != nil {
			logger.Error("Preview advance rejected: %v", err)
			return nil
		}
		return tea.Batch(
			m.persistAdvance(session.StepPreview, payload),
			m.initCurrentStep(),
			m.finalizeCmd(),
		)

	case RetryFinalizeMsg:
		return m.finalizeCmd()

	case FinalizedMsg:
		if m.finalStep == nil {
			return nil
		}
		if msg.Err != nil {
			m.finalStep.Fail(msg.Err)
			return nil
		}
		m.finalStep.RenderDone(msg.Video)
		if err := m.ctrl.Advance(session.StepFinal, session.FinalPayload{}); err != nil {
			logger.Error("Final advance rejected: %v", err)
			return nil
		}
		return m.persistAdvance(session.StepFinal, session.FinalPayload{})

	case TabExitForwardMsg:
		if m.hasButtons() {
			m.buttonFocused = true
			m.blurStepContent()
			m.ensureButtonBar()
			m.buttonBar.FocusFirst()
		}
		return nil

	case TabExitBackwardMsg:
		if m.hasButtons() {
			m.buttonFocused = true
			m.blurStepContent()
			m.ensureButtonBar()
			m.buttonBar.FocusLast()
		}
		return nil
	}

	return m.updateCurrentStep(msg)
}

// handleKey processes wizard-level keys. Returns handled=false when the key
// should be forwarded to the current step.
func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	// Button-focused navigation
	if m.buttonFocused && m.buttonBar != nil {
		switch msg.String() {
		case "tab", "right":
			if !m.buttonBar.FocusNext() {
				m.buttonFocused = false
				m.buttonBar.Blur()
				m.focusStepContent()
			}
			return nil, true
		case "shift+tab", "left":
			if !m.buttonBar.FocusPrev() {
				m.buttonFocused = false
				m.buttonBar.Blur()
				m.focusStepContent()
			}
			return nil, true
		case "enter", " ":
			return m.activateButton(m.buttonBar.FocusedButton()), true
		}
	}

	switch msg.String() {
	case "esc":
		if m.busy() {
			return nil, true
		}
		if m.ctrl.Current() == session.StepUpload {
			return func() tea.Msg { return WizardCancelledMsg{} }, true
		}
		m.ctrl.GoBack()
		return m.initCurrentStep(), true
	}
	return nil, false
}

// busy reports whether a blocking call is in flight on the current step.
func (m *Model) busy() bool {
	switch m.ctrl.Current() {
	case session.StepUpload:
		return m.uploadStep != nil && m.uploadStep.uploading
	case session.StepStory:
		return m.storyStep != nil && m.storyStep.parsing
	case session.StepPreview:
		return m.previewStep != nil && m.previewStep.Busy()
	case session.StepFinal:
		return m.finalStep != nil && m.finalStep.rendering
	}
	return false
}

// initCurrentStep builds the component for the controller's current step and
// returns its init command plus any kickoff API calls the step needs.
func (m *Model) initCurrentStep() tea.Cmd {
	m.buttonFocused = false
	m.buttonBar = nil

	sess := m.ctrl.Session()

	var cmds []tea.Cmd
	switch m.ctrl.Current() {
	case session.StepUpload:
		m.uploadStep = NewUploadStep()
		cmds = append(cmds, m.uploadStep.Init())
	case session.StepStory:
		m.storyStep = NewStoryStep(sess.Story)
		cmds = append(cmds, m.storyStep.Init())
	case session.StepScript:
		m.scriptStep = NewScriptStep(sess.Chapters)
		cmds = append(cmds, m.scriptStep.Init())
	case session.StepTheme:
		themeID := sess.ThemeID
		if themeID == "" {
			themeID = m.defaultTheme
		}
		m.themeStep = NewThemeStep(themeID)
		cmds = append(cmds, m.themeStep.Init())
	case session.StepAudio:
		m.audioStep = NewAudioStep(m.audioSeed())
		cmds = append(cmds, m.audioStep.Init(), m.loadAudioCmd())
	case session.StepPreview:
		m.previewStep = NewPreviewStep()
		cmds = append(cmds, m.previewStep.Init(), m.narrationCmd())
	case session.StepFinal:
		m.finalStep = NewFinalStep()
		cmds = append(cmds, m.finalStep.Init())
	}
	m.updateCurrentStepSize()
	return tea.Batch(cmds...)
}

// audioSeed returns the session's audio config with the configured
// default voice filled in when none has been chosen yet.
func (m *Model) audioSeed() session.AudioConfig {
	audio := m.ctrl.Session().Audio
	if audio.VoiceID == "" {
		audio.VoiceID = m.defaultVoice
	}
	return audio
}

// updateCurrentStep forwards a message to the current step component.
func (m *Model) updateCurrentStep(msg tea.Msg) tea.Cmd {
	switch m.ctrl.Current() {
	case session.StepUpload:
		if m.uploadStep != nil {
			return m.uploadStep.Update(msg)
		}
	case session.StepStory:
		if m.storyStep != nil {
			return m.storyStep.Update(msg)
		}
	case session.StepScript:
		if m.scriptStep != nil {
			return m.scriptStep.Update(msg)
		}
	case session.StepTheme:
		if m.themeStep != nil {
			return m.themeStep.Update(msg)
		}
	case session.StepAudio:
		if m.audioStep != nil {
			return m.audioStep.Update(msg)
		}
	case session.StepPreview:
		if m.previewStep != nil {
			return m.previewStep.Update(msg)
		}
	case session.StepFinal:
		if m.finalStep != nil {
			return m.finalStep.Update(msg)
		}
	}
	return nil
}

// getModalContentSize returns the internal content dimensions for the modal.
func (m *Model) getModalContentSize() (width, height int) {
	width = modalContentWidth

	height = m.height - 4
	if height < 20 {
		height = 20
	}
	if height > 40 {
		height = 40
	}
	// Subtract modal chrome: padding, border, breadcrumb, hint
	height -= 10
	if height < 10 {
		height = 10
	}
	return width, height
}

// updateCurrentStepSize updates the size of the current step component.
func (m *Model) updateCurrentStepSize() {
	contentWidth, contentHeight := m.getModalContentSize()

	switch m.ctrl.Current() {
	case session.StepUpload:
		if m.uploadStep != nil {
			m.uploadStep.SetSize(contentWidth, contentHeight)
		}
	case session.StepStory:
		if m.storyStep != nil {
			m.storyStep.SetSize(contentWidth, contentHeight)
		}
	case session.StepScript:
		if m.scriptStep != nil {
			m.scriptStep.SetSize(contentWidth, contentHeight)
		}
	case session.StepTheme:
		if m.themeStep != nil {
			m.themeStep.SetSize(contentWidth, contentHeight)
		}
	case session.StepAudio:
		if m.audioStep != nil {
			m.audioStep.SetSize(contentWidth, contentHeight)
		}
	case session.StepPreview:
		if m.previewStep != nil {
			m.previewStep.SetSize(contentWidth, contentHeight)
		}
	case session.StepFinal:
		if m.finalStep != nil {
			m.finalStep.SetSize(contentWidth, contentHeight)
		}
	}
}

// View renders the wizard modal.
func (m *Model) View() string {
	th := theme.Current()

	breadcrumb := m.renderBreadcrumb()

	var stepContent string
	switch m.ctrl.Current() {
	case session.StepUpload:
		if m.uploadStep != nil {
			stepContent = m.uploadStep.View()
		}
	case session.StepStory:
		if m.storyStep != nil {
			stepContent = m.storyStep.View()
		}
	case session.StepScript:
		if m.scriptStep != nil {
			stepContent = m.scriptStep.View()
		}
	case session.StepTheme:
		if m.themeStep != nil {
			stepContent = m.themeStep.View()
		}
	case session.StepAudio:
		if m.audioStep != nil {
			stepContent = m.audioStep.View()
		}
	case session.StepPreview:
		if m.previewStep != nil {
			stepContent = m.previewStep.View()
		}
	case session.StepFinal:
		if m.finalStep != nil {
			stepContent = m.finalStep.View()
		}
	}

	var buttonBarContent string
	if m.hasButtons() {
		m.ensureButtonBar()
		buttonBarContent = m.buttonBar.Render()
	}

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.FgMuted)).
		Render("tab to navigate • esc to go back")

	modalStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Padding(2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(th.BorderDefault))

	parts := []string{breadcrumb, stepContent}
	if buttonBarContent != "" {
		parts = append(parts, "", buttonBarContent, "", hint)
	}

	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// renderBreadcrumb renders the step trail with completed and locked markers.
func (m *Model) renderBreadcrumb() string {
	th := theme.Current()
	current := m.ctrl.Current()
	completed := m.ctrl.Completed()

	currentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(th.Primary)).Bold(true)
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(th.Success))
	lockedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgMuted))
	sepStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(th.BgSurface1))

	var parts []string
	for _, step := range session.WizardSteps() {
		title := step.Title()
		switch {
		case step == current:
			parts = append(parts, currentStyle.Render(title))
		case completed[step]:
			parts = append(parts, doneStyle.Render("✓ "+title))
		case session.Unlocked(step, completed, current):
			parts = append(parts, title)
		default:
			parts = append(parts, lockedStyle.Render(title))
		}
	}

	return lipgloss.NewStyle().MarginBottom(1).
		Render(strings.Join(parts, sepStyle.Render(" › ")))
}

// hasButtons returns true if the current step uses the wizard's Back/Next bar.
func (m *Model) hasButtons() bool {
	switch m.ctrl.Current() {
	case session.StepStory, session.StepScript, session.StepTheme, session.StepAudio:
		return !m.busy()
	}
	return false
}

// ensureButtonBar creates the button bar for the current step if needed.
func (m *Model) ensureButtonBar() {
	if m.buttonBar != nil {
		return
	}
	nextLabel := "Next →"
	if m.ctrl.Current() == session.StepScript {
		nextLabel = "Approve"
	}
	m.buttonBar = NewButtonBar(CreateBackNextButtons(true, true, nextLabel))
	m.buttonBar.SetWidth(modalContentWidth)
}

// activateButton handles Back/Next activation.
func (m *Model) activateButton(btnID ButtonID) tea.Cmd {
	switch btnID {
	case ButtonBack:
		m.ctrl.GoBack()
		return m.initCurrentStep()
	case ButtonNext:
		return m.submitCurrentStep()
	}
	return nil
}

// submitCurrentStep validates and submits the current step's content.
func (m *Model) submitCurrentStep() tea.Cmd {
	switch m.ctrl.Current() {
	case session.StepStory:
		if m.storyStep != nil {
			return m.storyStep.Submit()
		}
	case session.StepScript:
		if m.scriptStep != nil {
			return m.scriptStep.Submit()
		}
	case session.StepTheme:
		if m.themeStep != nil {
			return m.themeStep.Submit()
		}
	case session.StepAudio:
		if m.audioStep != nil {
			return m.audioStep.Submit()
		}
	}
	return nil
}

// focusStepContent returns focus to the current step's input.
func (m *Model) focusStepContent() {
	if m.ctrl.Current() == session.StepStory && m.storyStep != nil {
		m.storyStep.Focus()
	}
}

// blurStepContent blurs the current step's input.
func (m *Model) blurStepContent() {
	if m.ctrl.Current() == session.StepStory && m.storyStep != nil {
		m.storyStep.Blur()
	}
}
