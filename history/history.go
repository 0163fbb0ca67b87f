// Package history remembers the destinations projects were recently created
// in, most recent first.
package history

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MaxEntries caps the number of remembered paths.
const MaxEntries = 10

// History is a bounded most-recently-used list of project paths persisted as
// a JSON array.
type History struct {
	mu       sync.Mutex
	filePath string
	recent   *lru.Cache[string, struct{}]
	logger   *slog.Logger
}

// Open loads the list stored at filePath. A missing file starts an empty
// list; a malformed one is logged and ignored.
func Open(filePath string, logger *slog.Logger) (*History, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := lru.New[string, struct{}](MaxEntries)
	if err != nil {
		return nil, err
	}
	h := &History{filePath: filePath, recent: cache, logger: logger}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return h, nil
		}
		return nil, err
	}

	var paths []string
	if err := json.Unmarshal(data, &paths); err != nil {
		logger.Warn("recent projects file is malformed, starting empty", "path", filePath, "err", err)
		return h, nil
	}
	// Stored newest first; replay oldest first so recency is preserved.
	for i := len(paths) - 1; i >= 0; i-- {
		if paths[i] != "" {
			h.recent.Add(paths[i], struct{}{})
		}
	}
	return h, nil
}

// Add moves path to the front of the list and saves it.
func (h *History) Add(path string) error {
	if path == "" {
		return nil
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.recent.Add(path, struct{}{})
	return h.writeAtomic(h.list())
}

// List returns remembered paths, most recent first.
func (h *History) List() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.list()
}

func (h *History) list() []string {
	keys := h.recent.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[len(keys)-1-i] = k
	}
	return out
}

func (h *History) writeAtomic(paths []string) error {
	if err := os.MkdirAll(filepath.Dir(h.filePath), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(paths, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	tmp := h.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, h.filePath)
}
