package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"blueprint/history"
	"blueprint/job"
	"blueprint/preset"
)

func RegisterRoutes(pm *preset.Manager, jobs *job.Manager, recent *history.History, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := &handler{presets: pm, jobs: jobs, recent: recent, logger: logger}

	// Presets API
	r.Get("/api/presets", h.listPresets)
	r.Post("/api/presets/import", h.importPresets)
	r.Get("/api/presets/{name}", h.getPreset)
	r.Put("/api/presets/{name}", h.putPreset)
	r.Delete("/api/presets/{name}", h.deletePreset)
	r.Get("/api/presets/{name}/export", h.exportPreset)
	r.Get("/api/presets/{name}/tree", h.getPresetTree)
	r.Put("/api/presets/{name}/tree", h.putPresetTree)
	r.Post("/api/presets/{name}/text", h.postPresetText)

	// Jobs API
	r.Get("/api/jobs", h.listJobs)
	r.Post("/api/jobs", h.createJob)
	r.Get("/api/jobs/{id}", h.getJob)
	r.Delete("/api/jobs/{id}", h.cancelJob)

	// WebSocket
	r.Get("/api/jobs/{id}/ws", h.handleJobWS)

	r.Get("/api/recent", h.listRecent)
	r.Get("/api/paths/check", h.checkPath)

	return r
}

type handler struct {
	presets *preset.Manager
	jobs    *job.Manager
	recent  *history.History
	logger  *slog.Logger
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
