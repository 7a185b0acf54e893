package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/storyloomhq/storyloom/internal/logger"
)

var (
	// ErrStepLocked is returned by JumpTo for steps ahead of the current one
	// that have not been completed.
	ErrStepLocked = errors.New("step is locked")

	// ErrNotCurrent is returned by Advance when the committed step is not the
	// step being shown.
	ErrNotCurrent = errors.New("step is not the current step")

	// ErrMissingPayload is returned by Advance when a data-carrying step is
	// committed without its payload. This is the only payload validation the
	// controller performs; screens gate their own Next buttons.
	ErrMissingPayload = errors.New("missing step payload")

	// ErrParseRequired is returned by Advance for the story step while no
	// chapters exist: the story → script transition is gated on script
	// parsing resolving successfully.
	ErrParseRequired = errors.New("story must be parsed before advancing")

	// ErrStaleTask is returned when a task completion arrives for a session
	// generation that has since been reset.
	ErrStaleTask = errors.New("task result is stale")
)

// NotifyLevel classifies a recorded notification.
type NotifyLevel int

const (
	NotifyInfo NotifyLevel = iota
	NotifyWarn
	NotifyError
)

// Notification is a transient user-facing message recorded by the controller.
// The UI drains these into toasts; nothing is silently swallowed.
type Notification struct {
	Level   NotifyLevel
	Message string
	Time    time.Time
}

// Controller sequences the wizard steps, gates navigation, merges each step's
// payload into the session, and tracks the two background jobs. It is the
// only writer of the session aggregate; updates are applied atomically per
// event under the mutex.
type Controller struct {
	mu        sync.Mutex
	sess      *Session
	current   Step
	completed map[Step]bool
	epoch     int

	analysis Task
	parsing  Task

	notes []Notification
}

// NewController returns a controller at the welcome state with an empty
// session.
func NewController() *Controller {
	return &Controller{
		sess:      NewSession(),
		current:   StepWelcome,
		completed: make(map[Step]bool),
	}
}

// Session returns a read-only copy of the session aggregate.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.sess
}

// Current returns the current step.
func (c *Controller) Current() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Epoch returns the session generation. It increments on every reset;
// background tasks carry the epoch they were launched against.
func (c *Controller) Epoch() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// Completed returns a copy of the completed-steps set.
func (c *Controller) Completed() map[Step]bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[Step]bool, len(c.completed))
	for k, v := range c.completed {
		out[k] = v
	}
	return out
}

// IsCompleted reports whether step has been committed in this session.
func (c *Controller) IsCompleted(step Step) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completed[step]
}

// AnalysisTask returns the image-analysis task handle.
func (c *Controller) AnalysisTask() Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.analysis
}

// ParsingTask returns the script-parsing task handle.
func (c *Controller) ParsingTask() Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parsing
}

// StartNew discards any in-progress session and enters the wizard at the
// upload step. Used for "create new" from the welcome screen.
func (c *Controller) StartNew() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	c.current = StepUpload
	logger.Info("Started new session %s", c.sess.ID)
}

// StartOver resets the session to its initial empty value, clears the
// completed set, and returns to the welcome state. Results from tasks
// launched before the reset are discarded when they arrive.
func (c *Controller) StartOver() {
	c.mu.Lock()
	defer c.mu.Unlock()
	old := c.sess.ID
	c.resetLocked()
	c.current = StepWelcome
	logger.Info("Session %s discarded, back to welcome", old)
}

func (c *Controller) resetLocked() {
	c.epoch++
	c.sess = NewSession()
	c.completed = make(map[Step]bool)
	c.analysis.reset()
	c.parsing.reset()
	c.notes = nil
}

// Advance merges payload into the session keyed by step, marks step
// completed, and moves the current-step pointer to the next step in the
// ordering. The story step additionally requires chapters (from a resolved
// parse) before it can be committed.
func (c *Controller) Advance(step Step, payload Payload) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if step != c.current {
		return fmt.Errorf("advance %s: %w (current is %s)", step, ErrNotCurrent, c.current)
	}
	if !step.IsWizard() {
		return fmt.Errorf("advance %s: %w", step, ErrNotCurrent)
	}
	if payload == nil && step != StepFinal {
		return fmt.Errorf("advance %s: %w", step, ErrMissingPayload)
	}

	if step == StepStory {
		sp, ok := payload.(StoryPayload)
		hasChapters := (ok && len(sp.Chapters) > 0) || len(c.sess.Chapters) > 0
		if !hasChapters {
			return fmt.Errorf("advance %s: %w", step, ErrParseRequired)
		}
	}

	if payload != nil {
		c.sess.Merge(payload)
	}
	c.completed[step] = true
	if next, ok := step.Next(); ok {
		c.current = next
	}
	logger.Debug("Advanced %s -> %s", step, c.current)
	return nil
}

// GoBack moves to the immediate predecessor in the ordering. No-op at the
// first wizard step and outside the wizard.
func (c *Controller) GoBack() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.current.Prev(); ok {
		logger.Debug("Back %s -> %s", c.current, prev)
		c.current = prev
	}
}

// JumpTo moves directly to step if it is unlocked: completed, current, or
// behind the current step in the ordering. Locked jumps are rejected with no
// state change.
func (c *Controller) JumpTo(step Step) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !Unlocked(step, c.completed, c.current) {
		return fmt.Errorf("jump to %s: %w", step, ErrStepLocked)
	}
	c.current = step
	return nil
}

// OpenLibrary enters the library view. The library is re-entrant from
// welcome only.
func (c *Controller) OpenLibrary() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != StepWelcome {
		return fmt.Errorf("library is reachable from welcome only (current %s)", c.current)
	}
	c.current = StepLibrary
	return nil
}

// CloseLibrary returns from the library to welcome.
func (c *Controller) CloseLibrary() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == StepLibrary {
		c.current = StepWelcome
	}
}

// StartImageAnalysis marks the analysis task running and returns the epoch
// and image set the caller's fire-and-forget job should run against. Step
// progression is never gated on this task.
func (c *Controller) StartImageAnalysis() (epoch int, images []ImageRef) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.analysis.start(c.epoch)
	images = make([]ImageRef, len(c.sess.Images))
	copy(images, c.sess.Images)
	return c.epoch, images
}

// FinishImageAnalysis applies the analysis result if the launching epoch is
// still current; stale results are discarded. On failure the session's
// analysis field stays unset and a non-blocking notification is recorded.
// The current step is never altered.
func (c *Controller) FinishImageAnalysis(epoch int, result *ImageAnalysis, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.epoch {
		logger.Debug("Discarding stale analysis result (epoch %d, current %d)", epoch, c.epoch)
		return ErrStaleTask
	}

	if err != nil {
		c.analysis.fail(err)
		c.noteLocked(NotifyWarn, "Image analysis failed, you can continue without it")
		logger.Warn("Image analysis failed: %v", err)
		return nil
	}

	c.analysis.succeed()
	c.sess.Analysis = result
	logger.Debug("Analysis attached: %d ok, %d failed", result.Succeeded, result.Failed)
	return nil
}

// StartScriptParsing records the raw story text (retained for retry even if
// parsing fails) and marks the parsing task running.
func (c *Controller) StartScriptParsing(text string) (epoch int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess.Story = text
	c.sess.Chapters = nil
	c.parsing.start(c.epoch)
	return c.epoch
}

// FinishScriptParsing resolves the story → script gate. On success the
// chapters are attached, the story step is committed, and the current step
// becomes script. On failure the user stays on story with the text retained
// and chapters unset; the error is surfaced for an explicit retry.
func (c *Controller) FinishScriptParsing(epoch int, chapters []Chapter, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.epoch {
		logger.Debug("Discarding stale parse result (epoch %d, current %d)", epoch, c.epoch)
		return ErrStaleTask
	}

	if err != nil {
		c.parsing.fail(err)
		c.noteLocked(NotifyError, "Could not turn your story into a script, please retry")
		logger.Warn("Script parsing failed: %v", err)
		return err
	}

	c.parsing.succeed()
	c.sess.Chapters = chapters
	c.completed[StepStory] = true
	if c.current == StepStory {
		c.current = StepScript
	}
	logger.Debug("Story parsed into %d chapters", len(chapters))
	return nil
}

// Notify records a transient user-facing notification.
func (c *Controller) Notify(level NotifyLevel, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.noteLocked(level, message)
}

func (c *Controller) noteLocked(level NotifyLevel, message string) {
	c.notes = append(c.notes, Notification{
		Level:   level,
		Message: message,
		Time:    time.Now(),
	})
}

// Notifications returns a copy of all recorded notifications.
func (c *Controller) Notifications() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.notes))
	copy(out, c.notes)
	return out
}

// DrainNotifications returns pending notifications and clears the queue. The
// TUI calls this to surface toasts.
func (c *Controller) DrainNotifications() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.notes
	c.notes = nil
	return out
}

// Restore replaces the controller state wholesale. Used by draft replay; the
// epoch is bumped so task results from before the restore are discarded.
func (c *Controller) Restore(sess *Session, completed map[Step]bool, current Step) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.sess = sess
	c.completed = completed
	if c.completed == nil {
		c.completed = make(map[Step]bool)
	}
	c.current = current
	c.analysis.reset()
	c.parsing.reset()
}
