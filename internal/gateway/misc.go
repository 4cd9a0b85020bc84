package gateway

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/mimikastudio/orchestrator/internal/voice"
)

func (h *handler) registerMisc(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/voices/custom", h.handleVoicesCustom)
	mux.HandleFunc("GET /api/pregenerated", h.handlePregenerated)
	mux.HandleFunc("GET /api/samples/{engine}", h.handleSamples)
	mux.HandleFunc("GET /api/voice-samples", h.handleVoiceSamples)
}

// handleVoicesCustom returns the merged, deduplicated view across clone
// engines spec §6 names: the shared user pool is already deduplicated by
// name (internal/voice.Store enforces unique names), so this is just the
// user-sourced slice of Store.List().
func (h *handler) handleVoicesCustom(w http.ResponseWriter, r *http.Request) {
	all, err := h.deps.Voices.List()
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	custom := make([]voice.Voice, 0, len(all))
	for _, v := range all {
		if v.Source == voice.SourceUser {
			custom = append(custom, v)
		}
	}
	writeJSON(w, http.StatusOK, custom)
}

func (h *handler) handlePregenerated(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listDir(filepath.Join(h.deps.DataDir, "pregenerated")))
}

func (h *handler) handleSamples(w http.ResponseWriter, r *http.Request) {
	engineName, err := h.engineName(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, listDir(filepath.Join(h.deps.DataDir, "samples", engineName)))
}

func (h *handler) handleVoiceSamples(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listDir(filepath.Join(h.deps.DataDir, "voice-samples")))
}

// listDir returns the regular files under dir, or an empty slice if dir
// doesn't exist yet (e.g. nothing seeded this deployment).
func listDir(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}
