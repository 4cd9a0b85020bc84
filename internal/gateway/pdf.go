package gateway

import (
	"io"
	"net/http"
	"os"
)

func (h *handler) registerPDF(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/pdf/list", h.handlePDFList)
	mux.HandleFunc("POST /api/pdf/extract-text", h.handlePDFExtractText)
}

// handlePDFList lists the documents an operator has dropped into the
// uploaded-document scratch directory (MIMIKA_PDF_DIR), not just PDFs
// despite the route name — spec §6 groups every multi-format upload
// kind here alongside /pdf/* static serving.
func (h *handler) handlePDFList(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(h.deps.PDFDir)
	if err != nil {
		if os.IsNotExist(err) {
			writeJSON(w, http.StatusOK, []string{})
			return
		}
		writeError(w, r, h.log, err)
		return
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	writeJSON(w, http.StatusOK, names)
}

// handlePDFExtractText is the standalone text-extraction endpoint (as
// opposed to /api/audiobook/generate-from-file's fold-extraction-into-
// enqueue convenience); same out-of-scope TextExtractor collaborator.
func (h *handler) handlePDFExtractText(w http.ResponseWriter, r *http.Request) {
	if h.deps.TextExtractor == nil {
		writeError(w, r, h.log, serviceUnavailable("text extraction is not configured"))
		return
	}

	if err := r.ParseMultipartForm(h.opts.maxTextBytes); err != nil {
		writeError(w, r, h.log, badRequest("malformed multipart form: "+err.Error()))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, h.log, validationErr(map[string]string{"file": "is required"}))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, h.log, badRequest("read uploaded file: "+err.Error()))
		return
	}

	text, err := h.deps.TextExtractor.Extract(header.Filename, data)
	if err != nil {
		writeError(w, r, h.log, badRequest(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}
