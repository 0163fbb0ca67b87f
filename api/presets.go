package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"blueprint/preset"
	"blueprint/structure"
	"blueprint/tree"
)

const maxBodyBytes = 4 << 20

type presetDetail struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Items       int             `json:"items"`
	Structure   *structure.Node `json:"structure"`
	Preview     string          `json:"preview"`
}

func (h *handler) listPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.presets.List())
}

func (h *handler) getPreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	node, ok := h.presets.Get(name)
	if !ok {
		http.Error(w, "preset not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, presetDetail{
		Name:        name,
		Description: preset.Description(name),
		Items:       structure.CountItems(node),
		Structure:   node,
		Preview:     tree.Render(node),
	})
}

func (h *handler) putPreset(w http.ResponseWriter, r *http.Request) {
	node, err := structure.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	h.savePreset(w, chi.URLParam(r, "name"), node)
}

func (h *handler) getPresetTree(w http.ResponseWriter, r *http.Request) {
	node, ok := h.presets.Get(chi.URLParam(r, "name"))
	if !ok {
		http.Error(w, "preset not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tree.FromModel(node))
}

func (h *handler) putPresetTree(w http.ResponseWriter, r *http.Request) {
	var root tree.Item
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&root); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	h.savePreset(w, chi.URLParam(r, "name"), tree.ToModel(&root))
}

func (h *handler) postPresetText(w http.ResponseWriter, r *http.Request) {
	_, node, err := tree.Parse(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid tree text: %v", err), http.StatusBadRequest)
		return
	}
	h.savePreset(w, chi.URLParam(r, "name"), node)
}

func (h *handler) savePreset(w http.ResponseWriter, name string, node *structure.Node) {
	if err := h.presets.Add(name, node); err != nil {
		if errors.Is(err, preset.ErrInvalidName) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "failed to save presets", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, preset.Summary{
		Name:        name,
		Description: preset.Description(name),
		Items:       structure.CountItems(node),
	})
}

func (h *handler) deletePreset(w http.ResponseWriter, r *http.Request) {
	removed, err := h.presets.Delete(chi.URLParam(r, "name"))
	if !removed {
		http.Error(w, "preset not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "failed to save presets", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) exportPreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, err := h.presets.Export(name)
	if err != nil {
		if errors.Is(err, preset.ErrNotFound) {
			http.Error(w, "preset not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to export preset", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(name+".json"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *handler) importPresets(w http.ResponseWriter, r *http.Request) {
	var opts []preset.ImportOption
	if skip, _ := strconv.ParseBool(r.URL.Query().Get("skip_existing")); skip {
		opts = append(opts, preset.SkipExisting())
	}

	n, err := h.presets.Import(http.MaxBytesReader(w, r.Body, maxBodyBytes), opts...)
	if err != nil {
		var ierr *preset.ImportError
		if errors.As(err, &ierr) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "failed to save presets", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": n})
}
