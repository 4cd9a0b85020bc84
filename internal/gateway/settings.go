package gateway

import (
	"encoding/json"
	"net/http"
)

func (h *handler) registerSettings(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/settings", h.handleSettingsGet)
	mux.HandleFunc("PUT /api/settings", h.handleSettingsPut)
	mux.HandleFunc("GET /api/settings/output-folder", h.handleOutputFolderGet)
	mux.HandleFunc("PUT /api/settings/output-folder", h.handleOutputFolderPut)
}

func (h *handler) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Settings.All())
}

func (h *handler) handleSettingsPut(w http.ResponseWriter, r *http.Request) {
	var updates map[string]string
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeError(w, r, h.log, validationErr("malformed JSON body"))
		return
	}

	for key, value := range updates {
		if err := h.deps.Settings.Set(key, value); err != nil {
			writeError(w, r, h.log, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, h.deps.Settings.All())
}

func (h *handler) handleOutputFolderGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"path": h.deps.Output.Dir()})
}

func (h *handler) handleOutputFolderPut(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, h.log, validationErr("malformed JSON body"))
		return
	}
	if body.Path == "" {
		writeError(w, r, h.log, validationErr(map[string]string{"path": "must not be empty"}))
		return
	}

	if err := h.deps.Output.SetDir(body.Path); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if err := h.deps.Settings.Set("output_folder", body.Path); err != nil {
		h.log.Warn("persist output folder setting failed", "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"path": h.deps.Output.Dir()})
}
