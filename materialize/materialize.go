// Package materialize creates real directories and empty files from a
// structure.Node. Creation is best effort: a failure stops the walk and
// whatever was already created stays on disk.
package materialize

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"blueprint/structure"
)

// Progress bands. Callers own 0-30 for setup and 90-100 for finalization.
const (
	ProgressStart = 30
	ProgressSpan  = 60
)

var (
	ErrUnknownPreset = errors.New("unknown preset")
	ErrNotDirectory  = errors.New("exists and is not a directory")
)

// Event is emitted after each entry is created.
type Event struct {
	Percent int    `json:"percent"`
	Label   string `json:"label"`
}

// IOError wraps a filesystem failure hit during the walk.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Lookup resolves a preset name to its structure. *preset.Manager
// satisfies it.
type Lookup interface {
	Get(name string) (*structure.Node, bool)
}

type options struct {
	dirPerm  os.FileMode
	filePerm os.FileMode
}

// Option configures a materialization.
type Option func(*options)

// WithDirPerm sets the mode for created directories (default 0755).
func WithDirPerm(m os.FileMode) Option {
	return func(o *options) {
		if m != 0 {
			o.dirPerm = m
		}
	}
}

// WithFilePerm sets the mode for created files (default 0644).
func WithFilePerm(m os.FileMode) Option {
	return func(o *options) {
		if m != 0 {
			o.filePerm = m
		}
	}
}

// Create builds node under root. root and its parents are created as needed.
func Create(root string, node *structure.Node, opts ...Option) error {
	return CreateWithProgress(context.Background(), root, node, nil, opts...)
}

// CreateWithProgress is Create with an emit callback invoked after every
// entry, in depth-first order with each directory reported before its
// children. Percent is scaled into [ProgressStart, ProgressStart+ProgressSpan].
// ctx is checked between entries; a cancelled walk returns ctx.Err().
func CreateWithProgress(ctx context.Context, root string, node *structure.Node, emit func(Event), opts ...Option) error {
	o := options{dirPerm: 0755, filePerm: 0644}
	for _, opt := range opts {
		opt(&o)
	}
	w := &walker{
		ctx:   ctx,
		opts:  o,
		emit:  emit,
		total: structure.CountItems(node),
	}
	if err := os.MkdirAll(root, o.dirPerm); err != nil {
		return &IOError{Op: "mkdir", Path: root, Err: err}
	}
	return w.walk(root, node)
}

// CreateByName resolves name through presets and materializes it. An absent
// name yields ErrUnknownPreset without touching the filesystem.
func CreateByName(ctx context.Context, presets Lookup, name, root string, emit func(Event), opts ...Option) error {
	node, ok := presets.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return CreateWithProgress(ctx, root, node, emit, opts...)
}

type walker struct {
	ctx     context.Context
	opts    options
	emit    func(Event)
	total   int
	created int
}

func (w *walker) walk(dir string, node *structure.Node) error {
	for _, e := range node.Entries() {
		if err := w.ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(dir, e.Name)

		child, isDir := e.Content.(*structure.Node)
		if isDir {
			if err := w.ensureDir(path); err != nil {
				return err
			}
		} else if err := w.ensureFile(path); err != nil {
			return err
		}
		w.report(e.Name)

		if isDir {
			if err := w.walk(path, child); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *walker) report(name string) {
	w.created++
	if w.emit == nil {
		return
	}
	w.emit(Event{
		Percent: ProgressStart + w.created*ProgressSpan/w.total,
		Label:   name,
	})
}

func (w *walker) ensureDir(path string) error {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return &IOError{Op: "mkdir", Path: path, Err: ErrNotDirectory}
	case errors.Is(err, fs.ErrNotExist):
		if err := os.Mkdir(path, w.opts.dirPerm); err != nil {
			return &IOError{Op: "mkdir", Path: path, Err: err}
		}
		return nil
	default:
		return &IOError{Op: "stat", Path: path, Err: err}
	}
}

// ensureFile creates an empty file, truncating any existing one.
func (w *walker) ensureFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, w.opts.filePerm)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}
	return nil
}
