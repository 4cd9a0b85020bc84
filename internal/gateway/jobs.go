package gateway

import "net/http"

func (h *handler) registerJobs(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/jobs", h.handleJobsList)
	mux.HandleFunc("GET /api/jobs/{id}", h.handleJobGet)
}

func (h *handler) handleJobsList(w http.ResponseWriter, r *http.Request) {
	limit := atoiOr(r.URL.Query().Get("limit"), 0)
	writeJSON(w, http.StatusOK, h.deps.Jobs.List(limit))
}

func (h *handler) handleJobGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	j, ok := h.deps.Jobs.Get(id)
	if !ok {
		writeError(w, r, h.log, notFound("job "+id+" not found"))
		return
	}
	writeJSON(w, http.StatusOK, j)
}
