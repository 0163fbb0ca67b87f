package job

import (
	"context"
	"sync"
	"time"
)

type State string

const (
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

type EventType string

const (
	EventProgress EventType = "progress"
	EventDone     EventType = "done"
)

// Event is one entry of a job's ordered event stream. A stream ends with
// exactly one EventDone.
type Event struct {
	Type    EventType `json:"type"`
	Percent int       `json:"percent"`
	Label   string    `json:"label,omitempty"`
	Message string    `json:"message,omitempty"`
	Success bool      `json:"success,omitempty"`
}

// Info is a point-in-time view of a job.
type Info struct {
	ID         string     `json:"id"`
	Preset     string     `json:"preset"`
	Path       string     `json:"path"`
	State      State      `json:"state"`
	Percent    int        `json:"percent"`
	Message    string     `json:"message"`
	Items      int        `json:"items"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Job is a single background materialization.
type Job struct {
	ID        string
	Preset    string
	Path      string
	Items     int
	CreatedAt time.Time

	mu         sync.Mutex
	state      State
	finishedAt time.Time
	events     []Event
	notify     chan struct{}
	done       chan struct{}
	cancel     context.CancelFunc
}

func newJob(id, presetName, path string, items int, cancel context.CancelFunc) *Job {
	return &Job{
		ID:        id,
		Preset:    presetName,
		Path:      path,
		Items:     items,
		CreatedAt: time.Now(),
		state:     StateRunning,
		notify:    make(chan struct{}),
		done:      make(chan struct{}),
		cancel:    cancel,
	}
}

// publish appends ev to the log and wakes every waiter.
func (j *Job) publish(ev Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, ev)
	close(j.notify)
	j.notify = make(chan struct{})
}

// finish records the terminal state and emits the done event.
func (j *Job) finish(state State, success bool, message string) {
	j.mu.Lock()
	j.state = state
	j.finishedAt = time.Now()
	j.mu.Unlock()

	percent := 100
	if !success {
		percent = j.percent()
	}
	j.publish(Event{Type: EventDone, Percent: percent, Success: success, Message: message})
	close(j.done)
}

func (j *Job) percent() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.events) == 0 {
		return 0
	}
	return j.events[len(j.events)-1].Percent
}

// Since returns the events after the first n and a channel that is closed
// when more arrive. Subscribers replay the log by starting from zero.
func (j *Job) Since(n int) ([]Event, <-chan struct{}) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if n < 0 {
		n = 0
	}
	var out []Event
	if n < len(j.events) {
		out = make([]Event, len(j.events)-n)
		copy(out, j.events[n:])
	}
	return out, j.notify
}

// Done returns a channel that is closed when the job finishes.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Cancel asks the worker to stop before its next entry. Entries already
// created are left in place.
func (j *Job) Cancel() {
	j.cancel()
}

// Info returns a snapshot of the job.
func (j *Job) Info() Info {
	j.mu.Lock()
	defer j.mu.Unlock()
	info := Info{
		ID:        j.ID,
		Preset:    j.Preset,
		Path:      j.Path,
		State:     j.state,
		Items:     j.Items,
		CreatedAt: j.CreatedAt,
	}
	if n := len(j.events); n > 0 {
		last := j.events[n-1]
		info.Percent = last.Percent
		info.Message = last.Message
	}
	if !j.finishedAt.IsZero() {
		t := j.finishedAt
		info.FinishedAt = &t
	}
	return info
}
