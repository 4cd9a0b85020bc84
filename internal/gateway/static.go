package gateway

import (
	"net/http"
	"os"
	"path/filepath"
)

// registerStatic mounts the four static surfaces spec §6 names: the
// output directory (generated audio, runtime-retargetable via
// internal/output.Store), and three fixed read-only directories under
// DataDir/PDFDir.
func (h *handler) registerStatic(mux *http.ServeMux) {
	mux.Handle("GET /audio/", http.StripPrefix("/audio/", h.deps.Output.Handler()))
	mux.HandleFunc("DELETE /audio/{name}", h.handleDeleteOutput)

	mux.Handle("GET /pregenerated/", http.StripPrefix("/pregenerated/",
		http.FileServer(http.Dir(filepath.Join(h.deps.DataDir, "pregenerated")))))

	mux.Handle("GET /samples/", http.StripPrefix("/samples/",
		http.FileServer(http.Dir(filepath.Join(h.deps.DataDir, "samples")))))

	mux.Handle("GET /pdf/", http.StripPrefix("/pdf/", http.FileServer(http.Dir(h.deps.PDFDir))))
}

// handleDeleteOutput implements the output prefix enforcement property
// (spec §8 #5): DELETE /audio/{name} removes a generated artifact by
// filename, validated against the engine/audiobook naming grammar before
// any filesystem call, never trusted from the path alone.
func (h *handler) handleDeleteOutput(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !ValidOutputName(name) {
		writeError(w, r, h.log, badRequest("refusing to delete unrecognized output filename"))
		return
	}

	path := filepath.Join(h.deps.Output.Dir(), name)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			writeError(w, r, h.log, notFound("output "+name+" not found"))
			return
		}
		writeError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
