// Package job runs preset materializations on a background goroutine and
// records their progress as an ordered event log.
package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"blueprint/materialize"
	"blueprint/structure"
)

var (
	ErrBusy        = errors.New("a project is already being created")
	ErrNotFound    = errors.New("job not found")
	ErrInvalidPath = errors.New("destination path must not be empty")
)

const (
	msgPreparing = "Preparing project structure..."
	msgCreating  = "Creating directories..."
	msgCreated   = "Project created successfully!"
	msgSucceeded = "Project structure created successfully!"
	msgCancelled = "Project creation cancelled"
)

// finishedJobs bounds how many completed jobs stay queryable.
const finishedJobs = 64

// RunFunc performs the filesystem work of a job.
type RunFunc func(ctx context.Context, root string, node *structure.Node, emit func(materialize.Event)) error

// Recorder remembers successful destinations. *history.History satisfies it.
type Recorder interface {
	Add(path string) error
}

// Manager starts jobs and keeps them addressable by ID. At most one job runs
// at a time.
type Manager struct {
	mu       sync.RWMutex
	presets  materialize.Lookup
	active   *Job
	finished *lru.Cache[string, *Job]

	run     RunFunc
	history Recorder
	logger  *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithRunFunc replaces the materializer, mainly for tests.
func WithRunFunc(fn RunFunc) Option {
	return func(m *Manager) { m.run = fn }
}

// WithHistory records the path of every successful job.
func WithHistory(r Recorder) Option {
	return func(m *Manager) { m.history = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithMaterializeOptions passes options such as permissions to the default
// materializer.
func WithMaterializeOptions(opts ...materialize.Option) Option {
	return func(m *Manager) {
		m.run = func(ctx context.Context, root string, node *structure.Node, emit func(materialize.Event)) error {
			return materialize.CreateWithProgress(ctx, root, node, emit, opts...)
		}
	}
}

func NewManager(presets materialize.Lookup, opts ...Option) *Manager {
	finished, _ := lru.New[string, *Job](finishedJobs)
	m := &Manager{
		presets:  presets,
		finished: finished,
		logger:   slog.Default(),
	}
	WithMaterializeOptions()(m)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start resolves presetName and begins materializing it under path. The
// preset is copied at call time; later registry changes do not affect the
// job.
func (m *Manager) Start(presetName, path string) (*Job, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrInvalidPath
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		return nil, ErrBusy
	}
	node, ok := m.presets.Get(presetName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", materialize.ErrUnknownPreset, presetName)
	}

	ctx, cancel := context.WithCancel(context.Background())
	j := newJob(uuid.New().String(), presetName, path, structure.CountItems(node), cancel)
	m.active = j

	go m.work(ctx, j, node)
	return j, nil
}

func (m *Manager) work(ctx context.Context, j *Job, node *structure.Node) {
	defer j.cancel()
	log := m.logger.With("job", j.ID, "preset", j.Preset, "path", j.Path)
	log.Info("creating project")

	j.publish(Event{Type: EventProgress, Percent: 10, Message: msgPreparing})
	j.publish(Event{Type: EventProgress, Percent: materialize.ProgressStart, Message: msgCreating})

	err := m.run(ctx, j.Path, node, func(e materialize.Event) {
		j.publish(Event{
			Type:    EventProgress,
			Percent: e.Percent,
			Label:   e.Label,
			Message: "Created: " + e.Label,
		})
	})

	switch {
	case err == nil:
		j.publish(Event{Type: EventProgress, Percent: 100, Message: msgCreated})
		if m.history != nil {
			if herr := m.history.Add(j.Path); herr != nil {
				log.Warn("recording recent project failed", "err", herr)
			}
		}
		log.Info("project created")
		m.retire(j, StateSucceeded, true, msgSucceeded)
	case errors.Is(err, context.Canceled):
		log.Warn("project creation cancelled")
		m.retire(j, StateCancelled, false, msgCancelled)
	default:
		log.Error("project creation failed", "err", err)
		m.retire(j, StateFailed, false, "Failed to create project: "+err.Error())
	}
}

// retire moves j out of the active slot before announcing completion, so a
// caller woken by Done can start the next job immediately.
func (m *Manager) retire(j *Job, state State, success bool, message string) {
	m.mu.Lock()
	if m.active == j {
		m.active = nil
	}
	m.finished.Add(j.ID, j)
	m.mu.Unlock()

	j.finish(state, success, message)
}

// Get looks up a running or recently finished job.
func (m *Manager) Get(id string) (*Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.active != nil && m.active.ID == id {
		return m.active, true
	}
	return m.finished.Peek(id)
}

// Active returns the running job, if any.
func (m *Manager) Active() (*Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active, m.active != nil
}

// List returns the running job followed by finished jobs, newest first.
func (m *Manager) List() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]Info, 0, m.finished.Len()+1)
	if m.active != nil {
		list = append(list, m.active.Info())
	}
	keys := m.finished.Keys()
	for i := len(keys) - 1; i >= 0; i-- {
		if j, ok := m.finished.Peek(keys[i]); ok {
			list = append(list, j.Info())
		}
	}
	return list
}

// Cancel stops a running job. Cancelling a finished job is a no-op.
func (m *Manager) Cancel(id string) error {
	j, ok := m.Get(id)
	if !ok {
		return ErrNotFound
	}
	j.Cancel()
	return nil
}
