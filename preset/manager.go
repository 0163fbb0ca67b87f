package preset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"blueprint/structure"
)

//go:embed defaults.json
var defaultsJSON []byte

// Defaults returns a fresh copy of the built-in preset catalog.
func Defaults() *structure.Node {
	n, err := structure.Decode(bytes.NewReader(defaultsJSON))
	if err != nil {
		panic("preset: embedded defaults: " + err.Error())
	}
	return n
}

// Manager is the preset registry: the built-in catalog overlaid with the
// presets persisted at filePath. Every mutation rewrites the whole file.
type Manager struct {
	mu       sync.RWMutex
	filePath string
	presets  *structure.Node
	logger   *slog.Logger
}

// NewManager builds the registry. A missing or unreadable store leaves the
// defaults in place; so does a malformed one, which is only logged.
func NewManager(filePath string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{filePath: filePath, presets: Defaults(), logger: logger}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("reading preset store failed, using defaults", "path", filePath, "err", err)
		}
		return m
	}

	stored, err := structure.Decode(bytes.NewReader(data))
	if err != nil {
		logger.Warn("preset store is malformed, using defaults", "path", filePath, "err", err)
		return m
	}
	for _, e := range stored.Entries() {
		if !structure.IsDir(e.Content) {
			logger.Warn("skipping stored preset that is not a directory", "preset", e.Name)
			continue
		}
		m.presets.Set(e.Name, e.Content)
	}
	return m
}

// Path returns the location of the backing store.
func (m *Manager) Path() string { return m.filePath }

// Names returns preset names in registry order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.presets.Names()
}

// List returns a summary of every preset in registry order.
func (m *Manager) List() []Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Summary, 0, m.presets.Len())
	for _, e := range m.presets.Entries() {
		out = append(out, Summary{
			Name:        e.Name,
			Description: Description(e.Name),
			Items:       structure.CountItems(e.Content.(*structure.Node)),
		})
	}
	return out
}

// Get returns a copy of the named preset.
func (m *Manager) Get(name string) (*structure.Node, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.presets.Get(name)
	if !ok {
		return nil, false
	}
	return structure.Clone(c.(*structure.Node)), true
}

// Add inserts or overwrites a preset and saves the registry. When saving
// fails the preset stays added and a *PersistError is returned.
func (m *Manager) Add(name string, node *structure.Node) error {
	if name == "" {
		return ErrInvalidName
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presets.Set(name, structure.Clone(node))
	return m.save()
}

// Delete removes a preset and saves the registry. It reports whether the
// preset existed; an absent name touches nothing.
func (m *Manager) Delete(name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.presets.Delete(name) {
		return false, nil
	}
	return true, m.save()
}

// Save rewrites the backing store with the full registry.
func (m *Manager) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.save()
}

// Export encodes a single preset as {name: structure} for sharing.
func (m *Manager) Export(name string) ([]byte, error) {
	n, ok := m.Get(name)
	if !ok {
		return nil, ErrNotFound
	}
	doc := structure.New()
	doc.Set(name, n)
	return json.MarshalIndent(doc, "", "  ")
}

// ImportOption adjusts how Import treats name collisions.
type ImportOption func(*importOptions)

type importOptions struct {
	skipExisting bool
}

// SkipExisting leaves presets that already exist untouched instead of
// overwriting them.
func SkipExisting() ImportOption {
	return func(o *importOptions) { o.skipExisting = true }
}

// Import merges every top-level entry of a preset document into the
// registry and returns how many were inserted. The whole document is
// validated first: a parse failure or a top-level value that is not a
// directory object yields an *ImportError and imports nothing.
func (m *Manager) Import(r io.Reader, opts ...ImportOption) (int, error) {
	var o importOptions
	for _, opt := range opts {
		opt(&o)
	}

	doc, err := structure.Decode(r)
	if err != nil {
		return 0, &ImportError{Err: err}
	}
	for _, e := range doc.Entries() {
		if !structure.IsDir(e.Content) {
			return 0, &ImportError{Name: e.Name, Err: ErrNotDirectory}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	imported := 0
	for _, e := range doc.Entries() {
		if _, exists := m.presets.Get(e.Name); exists && o.skipExisting {
			continue
		}
		m.presets.Set(e.Name, e.Content)
		imported++
	}
	if imported == 0 {
		return 0, nil
	}
	return imported, m.save()
}

// save must be called with m.mu held.
func (m *Manager) save() error {
	if err := m.writeAtomic(); err != nil {
		m.logger.Error("saving presets failed", "path", m.filePath, "err", err)
		return &PersistError{Path: m.filePath, Err: err}
	}
	return nil
}

// writeAtomic writes to a temp file then renames it over filePath.
func (m *Manager) writeAtomic() error {
	dir := filepath.Dir(m.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(m.presets, "", "  ")
	if err != nil {
		return err
	}
	tmp := m.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, m.filePath)
}
