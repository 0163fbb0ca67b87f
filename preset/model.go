package preset

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("preset not found")
	ErrInvalidName  = errors.New("preset name must not be empty")
	ErrNotDirectory = errors.New("preset must be a directory object")
)

// PersistError reports a failed write of the preset store. The in-memory
// change that triggered the write is kept.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("save presets to %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// ImportError reports an import document that could not be accepted. Nothing
// from the document is applied when it is returned.
type ImportError struct {
	Name string // offending preset, empty when the document itself is bad
	Err  error
}

func (e *ImportError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("import presets: %v", e.Err)
	}
	return fmt.Sprintf("import presets: %q: %v", e.Name, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// Summary is the list view of a preset.
type Summary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Items       int    `json:"items"`
}

const customDescription = "Custom project template structure."

var descriptions = map[string]string{
	"react-app":            "Modern React application with TypeScript support, testing setup, and build tools.",
	"nextjs-app":           "Next.js application with app router, TypeScript, and Tailwind CSS setup.",
	"express-api":          "Express.js REST API with middleware, authentication, and database integration.",
	"django-app":           "Django web application with apps structure, settings management, and deployment files.",
	"fastapi-app":          "FastAPI application with async support, automatic API documentation, and testing.",
	"vue-app":              "Vue.js application with router, state management, and component structure.",
	"data-science-project": "Data science project with notebooks, data pipelines, and model organization.",
	"flutter-app":          "Flutter mobile application with proper architecture and platform-specific code.",
	"go-microservice":      "Go microservice with clean architecture, API documentation, and deployment files.",
	"mobile-app-rn":        "React Native mobile app with navigation, services, and cross-platform support.",
}

// Description returns the catalog description of a built-in preset, or a
// generic one for custom presets.
func Description(name string) string {
	if d, ok := descriptions[name]; ok {
		return d
	}
	return customDescription
}
