package gateway

import "net/http"

func (h *handler) registerModels(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/models/status", h.handleModelsStatus)
	mux.HandleFunc("POST /api/models/{name}/download", h.handleModelDownload)
	mux.HandleFunc("DELETE /api/models/{name}", h.handleModelDelete)
}

func (h *handler) handleModelsStatus(w http.ResponseWriter, r *http.Request) {
	type row struct {
		Name    string `json:"name"`
		Backend string `json:"backend"`
		Mode    string `json:"mode"`
		Ready   bool   `json:"ready"`
	}

	descriptors := h.deps.Models.List()
	statuses := make(map[string]bool, len(descriptors))
	for _, d := range descriptors {
		_, ready := h.deps.Models.Ready(d.Name)
		statuses[d.Name] = ready
	}

	rows := make([]row, 0, len(descriptors))
	for _, d := range descriptors {
		rows = append(rows, row{
			Name:    d.Name,
			Backend: string(d.Backend),
			Mode:    string(d.Mode),
			Ready:   statuses[d.Name],
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"models":    rows,
		"downloads": h.deps.Models.AllStatuses(),
	})
}

func (h *handler) handleModelDownload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	status, alreadyInProgress, err := h.deps.Models.Download(name)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	code := http.StatusAccepted
	if alreadyInProgress {
		code = http.StatusOK
	}
	writeJSON(w, code, status)
}

func (h *handler) handleModelDelete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if err := h.deps.Models.Delete(name); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
