package gateway

import (
	"net/http"
	"os"
	"strconv"

	"github.com/mimikastudio/orchestrator/internal/diag"
)

func (h *handler) registerSystem(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/system/info", h.handleSystemInfo)
	mux.HandleFunc("GET /api/system/stats", h.handleSystemStats)
	mux.HandleFunc("GET /api/system/logs", h.handleSystemLogs)
	mux.HandleFunc("GET /api/system/diagnostics/export", h.handleDiagnosticsExport)
}

func (h *handler) handleSystemInfo(w http.ResponseWriter, r *http.Request) {
	info := diag.CollectSystemInfo(h.deps.PythonProbe, h.deps.DeviceProbe)
	writeJSON(w, http.StatusOK, info)
}

func (h *handler) handleSystemStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, diag.CollectResourceStats())
}

func (h *handler) handleSystemLogs(w http.ResponseWriter, r *http.Request) {
	maxLines := 200
	if raw := r.URL.Query().Get("lines"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			maxLines = n
		}
	}

	lines, err := diag.Tail(h.deps.LogPaths, maxLines)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

func (h *handler) handleDiagnosticsExport(w http.ResponseWriter, r *http.Request) {
	zipPath, cleanup, err := diag.Export(h.deps.LogPaths)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	defer cleanup()

	f, err := os.Open(zipPath)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="diagnostics.zip"`)
	http.ServeContent(w, r, "diagnostics.zip", stat.ModTime(), f)
}
