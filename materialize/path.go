package materialize

import (
	"os"
	"path/filepath"
	"strings"
)

// PathStatus classifies a destination before a project is created there.
type PathStatus string

const (
	PathEmpty        PathStatus = "empty"
	PathValid        PathStatus = "valid"
	PathWillCreate   PathStatus = "will_create"
	PathNotDirectory PathStatus = "not_directory"
	PathInvalid      PathStatus = "invalid"
)

// Usable reports whether a project may be created at a path with this status.
func (s PathStatus) Usable() bool {
	return s == PathValid || s == PathWillCreate
}

func (s PathStatus) Message() string {
	switch s {
	case PathValid:
		return "Valid directory"
	case PathWillCreate:
		return "Directory will be created"
	case PathNotDirectory:
		return "Path exists but is not a directory"
	case PathInvalid:
		return "Invalid path"
	}
	return ""
}

// CheckPath reports whether path is an existing directory, can be created
// inside an existing parent, or cannot be used.
func CheckPath(path string) PathStatus {
	path = strings.TrimSpace(path)
	if path == "" {
		return PathEmpty
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return PathInvalid
	}
	if info, err := os.Stat(abs); err == nil {
		if info.IsDir() {
			return PathValid
		}
		return PathNotDirectory
	}
	if info, err := os.Stat(filepath.Dir(abs)); err == nil && info.IsDir() {
		return PathWillCreate
	}
	return PathInvalid
}
