package session

import "time"

// TaskStatus tracks one background side-effect delegated to the backend.
type TaskStatus int

const (
	TaskIdle TaskStatus = iota
	TaskRunning
	TaskSucceeded
	TaskFailed
)

// String returns the string representation of a task status.
func (s TaskStatus) String() string {
	switch s {
	case TaskIdle:
		return "idle"
	case TaskRunning:
		return "running"
	case TaskSucceeded:
		return "succeeded"
	case TaskFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Task is the handle for one background task launch. Epoch records the
// session generation the task was started against; completions carrying a
// stale epoch are discarded instead of merged.
type Task struct {
	Status     TaskStatus
	Epoch      int
	Err        string
	StartedAt  time.Time
	FinishedAt time.Time
}

func (t *Task) start(epoch int) {
	t.Status = TaskRunning
	t.Epoch = epoch
	t.Err = ""
	t.StartedAt = time.Now()
	t.FinishedAt = time.Time{}
}

func (t *Task) succeed() {
	t.Status = TaskSucceeded
	t.Err = ""
	t.FinishedAt = time.Now()
}

func (t *Task) fail(err error) {
	t.Status = TaskFailed
	if err != nil {
		t.Err = err.Error()
	}
	t.FinishedAt = time.Now()
}

func (t *Task) reset() {
	*t = Task{}
}
