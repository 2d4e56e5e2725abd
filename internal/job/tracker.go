package job

import (
	"errors"
	"fmt"
	"sync"
)

// Status names a phase of the generation job.
type Status string

// Job statuses, in lifecycle order. A run moves idle → crawling →
// processing and ends in completed or failed; there are no other
// transitions.
const (
	StatusIdle       Status = "idle"
	StatusCrawling   Status = "crawling"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Progress milestones reported for each phase.
const (
	ProgressCrawling   = 10
	ProgressProcessing = 50
	ProgressDone       = 100
)

// ErrConflict reports that a generation run is already in progress.
var ErrConflict = errors.New("a generation run is already in progress")

// Snapshot is the externally visible state of the generation job. The
// JSON shape is the status-endpoint contract.
type Snapshot struct {
	// Status is the current phase.
	Status Status `json:"status"`

	// Progress is a coarse percentage: 10 while crawling, 50 while
	// processing, 100 once terminal. It never decreases within a run.
	Progress int `json:"progress"`

	// Message is a short human-readable phase description.
	Message string `json:"message"`

	// Error carries the failure detail when Status is failed, and is
	// empty otherwise.
	Error string `json:"error"`
}

// Terminal reports whether the snapshot is in a terminal state.
func (s Snapshot) Terminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusFailed
}

// Tracker serializes generation runs and publishes their state. At
// most one run is active at a time; a second Start while one is active
// returns ErrConflict. The zero value is not usable; call NewTracker.
type Tracker struct {
	mu sync.Mutex

	// cur is the published state of the latest run.
	cur Snapshot

	// running latches from Start until the worker goroutine finishes,
	// closing the idle-reset race a status check followed by a separate
	// launch would have.
	running bool

	// done is closed when the active run's worker finishes. Replaced on
	// every Start.
	done chan struct{}
}

// NewTracker returns a Tracker in the idle state.
func NewTracker() *Tracker {
	return &Tracker{cur: Snapshot{Status: StatusIdle}}
}

// Start launches run on a new goroutine after resetting the published
// state. The check, reset and latch happen in one critical section, so
// two concurrent Starts cannot both launch. The worker reaches a
// terminal state no matter how run ends: a panic is recovered into
// failed, and a worker that returns without reporting completion is
// forced to failed as well.
func (t *Tracker) Start(run func(*Handle)) error {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return ErrConflict
	}
	t.running = true
	t.done = make(chan struct{})
	t.cur = Snapshot{Status: StatusIdle}
	done := t.done
	t.mu.Unlock()

	h := &Handle{t: t}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				h.Failed("generation failed", fmt.Sprintf("panic: %v", r))
			}
			t.finish()
			close(done)
		}()
		run(h)
	}()

	return nil
}

// Snapshot returns the current published state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cur
}

// Wait blocks until the active run finishes. It returns immediately
// when no run has been started or the last run is already done.
func (t *Tracker) Wait() {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()
	if done != nil {
		<-done
	}
}

// finish drops the running latch. A worker that stopped before
// reaching a terminal state is forced to failed so pollers never see a
// run stuck mid-phase.
func (t *Tracker) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.cur.Terminal() {
		t.cur = Snapshot{
			Status:   StatusFailed,
			Progress: ProgressDone,
			Message:  "generation failed",
			Error:    "worker stopped before reaching a terminal state",
		}
	}
	t.running = false
}

// set publishes a state transition. Progress is clamped so it never
// moves backwards within a run.
func (t *Tracker) set(status Status, progress int, message, errText string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if progress < t.cur.Progress {
		progress = t.cur.Progress
	}
	t.cur = Snapshot{Status: status, Progress: progress, Message: message, Error: errText}
}

// Handle is the worker's write access to its Tracker. Only the
// goroutine launched by Start uses it.
type Handle struct {
	t *Tracker
}

// Crawling reports that the run entered the crawling phase.
func (h *Handle) Crawling(message string) {
	h.t.set(StatusCrawling, ProgressCrawling, message, "")
}

// Processing reports that the run entered the processing phase.
func (h *Handle) Processing(message string) {
	h.t.set(StatusProcessing, ProgressProcessing, message, "")
}

// Completed reports that the run finished successfully.
func (h *Handle) Completed(message string) {
	h.t.set(StatusCompleted, ProgressDone, message, "")
}

// Failed reports that the run failed, with the failure detail.
func (h *Handle) Failed(message, errText string) {
	h.t.set(StatusFailed, ProgressDone, message, errText)
}
