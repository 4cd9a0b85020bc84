package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mimikastudio/orchestrator/internal/engine"
	"github.com/mimikastudio/orchestrator/internal/job"
)

// audiobookRequest is the JSON body of POST /api/audiobook/generate.
type audiobookRequest struct {
	Title               string             `json:"title"`
	Text                string             `json:"text"`
	Chapters            []string           `json:"chapters"`
	Backend             string             `json:"backend"`
	Voice               string             `json:"voice"`
	Speed               float64            `json:"speed"`
	Extra               map[string]float64 `json:"extra"`
	MaxCharsPerChunk    int                `json:"max_chars_per_chunk"`
	Format              string             `json:"format"`
	SubtitleFormat      string             `json:"subtitle_format"`
	CharsPerSecEstimate float64            `json:"chars_per_sec_estimate"`
}

func (h *handler) registerAudiobook(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/audiobook/generate", h.handleAudiobookGenerate)
	mux.HandleFunc("POST /api/audiobook/generate-from-file", h.handleAudiobookGenerateFromFile)
	mux.HandleFunc("GET /api/audiobook/status/{id}", h.handleAudiobookStatus)
	mux.HandleFunc("POST /api/audiobook/cancel/{id}", h.handleAudiobookCancel)
	mux.HandleFunc("GET /api/audiobook/list", h.handleAudiobookList)
	mux.HandleFunc("DELETE /api/audiobook/{id}", h.handleAudiobookDelete)
}

func (h *handler) enqueueAudiobook(w http.ResponseWriter, r *http.Request, req audiobookRequest) {
	if req.Text == "" {
		writeError(w, r, h.log, validationErr(map[string]string{"text": "must not be empty"}))
		return
	}
	if !engineNames[req.Backend] {
		writeError(w, r, h.log, validationErr(map[string]string{"backend": "unknown engine"}))
		return
	}

	if _, err := h.deps.Models.EnsureReady(req.Backend); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	maxChars := req.MaxCharsPerChunk
	if maxChars <= 0 {
		maxChars = 800
	}

	format := job.FormatWAV
	switch strings.ToLower(req.Format) {
	case "", "wav":
		format = job.FormatWAV
	case "mp3":
		format = job.FormatMP3
	case "m4b":
		format = job.FormatM4B
	default:
		writeError(w, r, h.log, validationErr(map[string]string{"format": "must be wav, mp3, or m4b"}))
		return
	}

	subFormat := job.SubtitleNone
	switch strings.ToLower(req.SubtitleFormat) {
	case "", "none":
		subFormat = job.SubtitleNone
	case "srt":
		subFormat = job.SubtitleSRT
	case "vtt":
		subFormat = job.SubtitleVTT
	default:
		writeError(w, r, h.log, validationErr(map[string]string{"subtitle_format": "must be none, srt, or vtt"}))
		return
	}

	j, err := h.deps.Jobs.EnqueueAudiobook(job.AudiobookRequest{
		Title:               req.Title,
		FullText:            req.Text,
		Chapters:            req.Chapters,
		Backend:             req.Backend,
		Model:               req.Backend,
		Params:              engine.Params{Voice: req.Voice, Speed: req.Speed, Extra: req.Extra},
		MaxCharsPerChunk:    maxChars,
		Format:              format,
		SubtitleFormat:      subFormat,
		CharsPerSecEstimate: req.CharsPerSecEstimate,
		OutputDir:           h.deps.Output.Dir(),
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, j)
}

func (h *handler) handleAudiobookGenerate(w http.ResponseWriter, r *http.Request) {
	h.limitBody(w, r)
	var req audiobookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, h.log, validationErr("malformed JSON body"))
		return
	}
	h.enqueueAudiobook(w, r, req)
}

// handleAudiobookGenerateFromFile routes an uploaded document through the
// TextExtractor collaborator (spec §1: PDF/EPUB/DOCX extraction is an
// external collaborator, not implemented by this service) before
// enqueuing exactly like a plain-text request.
func (h *handler) handleAudiobookGenerateFromFile(w http.ResponseWriter, r *http.Request) {
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

	req := audiobookRequest{
		Title:               r.FormValue("title"),
		Text:                text,
		Backend:             r.FormValue("backend"),
		Voice:               r.FormValue("voice"),
		Format:              r.FormValue("format"),
		SubtitleFormat:      r.FormValue("subtitle_format"),
		MaxCharsPerChunk:    atoiOr(r.FormValue("max_chars_per_chunk"), 0),
		CharsPerSecEstimate: atofOr(r.FormValue("chars_per_sec_estimate"), 0),
	}
	if title := header.Filename; req.Title == "" {
		req.Title = strings.TrimSuffix(title, filepath.Ext(title))
	}

	h.enqueueAudiobook(w, r, req)
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func atofOr(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}

func (h *handler) handleAudiobookStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	j, ok := h.deps.Jobs.Get(id)
	if !ok {
		writeError(w, r, h.log, notFound("job "+id+" not found"))
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (h *handler) handleAudiobookCancel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.deps.Jobs.Cancel(id); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelling"})
}

func (h *handler) handleAudiobookList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit = atoiOr(raw, 0)
	}

	all := h.deps.Jobs.List(limit)
	out := make([]*job.Job, 0, len(all))
	for _, j := range all {
		if j.Kind == job.KindAudiobook {
			out = append(out, j)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleAudiobookDelete removes a completed audiobook job's output (and
// sibling subtitle file, if any) from disk. The filename is validated
// against the output directory's own naming convention before any
// filesystem call, never trusted from the path alone.
func (h *handler) handleAudiobookDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	j, ok := h.deps.Jobs.Get(id)
	if !ok {
		writeError(w, r, h.log, notFound("job "+id+" not found"))
		return
	}
	if j.OutputPath == "" {
		writeError(w, r, h.log, notFound("job "+id+" has no output to delete"))
		return
	}

	name := filepath.Base(j.OutputPath)
	if !ValidOutputName(name) {
		writeError(w, r, h.log, badRequest("refusing to delete unrecognized output filename"))
		return
	}

	dir := filepath.Dir(j.OutputPath)
	if err := os.Remove(filepath.Join(dir, name)); err != nil && !os.IsNotExist(err) {
		writeError(w, r, h.log, err)
		return
	}

	if j.Audiobook != nil && j.Audiobook.SubtitlePath != "" {
		subName := filepath.Base(j.Audiobook.SubtitlePath)
		if ValidOutputName(subName) {
			_ = os.Remove(filepath.Join(dir, subName))
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
