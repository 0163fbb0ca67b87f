package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"blueprint/job"
	"blueprint/materialize"
)

func (h *handler) listJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.jobs.List())
}

func (h *handler) createJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Preset string `json:"preset"`
		Path   string `json:"path"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil || req.Preset == "" || strings.TrimSpace(req.Path) == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if status := materialize.CheckPath(req.Path); !status.Usable() {
		http.Error(w, status.Message(), http.StatusBadRequest)
		return
	}

	j, err := h.jobs.Start(req.Preset, req.Path)
	if err != nil {
		switch {
		case errors.Is(err, materialize.ErrUnknownPreset):
			http.Error(w, "Template not found!", http.StatusNotFound)
		case errors.Is(err, job.ErrBusy):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, job.ErrInvalidPath):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "failed to start job", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusAccepted, j.Info())
}

func (h *handler) getJob(w http.ResponseWriter, r *http.Request) {
	j, ok := h.jobs.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, j.Info())
}

func (h *handler) cancelJob(w http.ResponseWriter, r *http.Request) {
	if err := h.jobs.Cancel(chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, job.ErrNotFound) {
			http.Error(w, "job not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to cancel job", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listRecent(w http.ResponseWriter, r *http.Request) {
	recent := []string{}
	if h.recent != nil {
		recent = h.recent.List()
	}
	writeJSON(w, http.StatusOK, map[string][]string{"recent": recent})
}

func (h *handler) checkPath(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	status := materialize.CheckPath(path)
	writeJSON(w, http.StatusOK, map[string]any{
		"path":    path,
		"status":  status,
		"message": status.Message(),
		"usable":  status.Usable(),
	})
}
