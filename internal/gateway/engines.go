package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"

	"github.com/mimikastudio/orchestrator/internal/engine"
	"github.com/mimikastudio/orchestrator/internal/job"
	"github.com/mimikastudio/orchestrator/internal/stream"
)

// engineNames are the six back-ends spec §4.5 names. Every /api/{engine}/...
// route validates its path parameter against this set before touching the
// registry, so an unknown engine name is a 404 rather than a 503.
var engineNames = map[string]bool{
	"kokoro":     true,
	"supertonic": true,
	"cosyvoice3": true,
	"qwen3":      true,
	"chatterbox": true,
	"indextts2":  true,
}

// generateRequest is the JSON body of POST /api/{engine}/generate.
type generateRequest struct {
	Text    string             `json:"text"`
	Voice   string             `json:"voice"`
	Speed   float64            `json:"speed"`
	Mode    string             `json:"mode"`
	Enqueue bool               `json:"enqueue"`
	Extra   map[string]float64 `json:"extra"`
}

func (h *handler) registerEngines(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/{engine}/generate", h.handleGenerate)
	mux.HandleFunc("POST /api/qwen3/generate/stream", h.handleGenerateStream)

	mux.HandleFunc("GET /api/{engine}/voices", h.handleListVoices)
	mux.HandleFunc("POST /api/{engine}/voices", h.handleUploadVoice)
	mux.HandleFunc("PUT /api/{engine}/voices/{name}", h.handleReplaceVoice)
	mux.HandleFunc("DELETE /api/{engine}/voices/{name}", h.handleDeleteVoice)
	mux.HandleFunc("GET /api/{engine}/voices/{name}/audio", h.handleVoiceAudio)

	mux.HandleFunc("GET /api/{engine}/languages", h.handleLanguages)
	mux.HandleFunc("GET /api/{engine}/info", h.handleEngineInfo)
	mux.HandleFunc("GET /api/{engine}/speakers", h.handleSpeakers)
}

func (h *handler) engineName(r *http.Request) (string, error) {
	name := r.PathValue("engine")
	if !engineNames[name] {
		return "", notFound("unknown engine " + name)
	}
	return name, nil
}

func (h *handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	name, err := h.engineName(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	h.limitBody(w, r)
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, h.log, validationErr("malformed JSON body"))
		return
	}
	if req.Text == "" {
		writeError(w, r, h.log, validationErr(map[string]string{"text": "must not be empty"}))
		return
	}

	params := engine.Params{Voice: req.Voice, Speed: req.Speed, Extra: req.Extra}

	// Qwen3 alone supports deferred execution (spec §6: "enqueue: bool
	// → 202-equivalent with {job_id, status:'started'}"); every other
	// engine always runs synchronously.
	if name == "qwen3" && req.Enqueue {
		kind := job.KindTTS
		if req.Mode == "clone" || req.Mode == "custom" {
			kind = job.KindVoiceClone
		}
		j, err := h.deps.Jobs.EnqueueGeneration(job.GenerateRequest{
			Kind:      kind,
			Backend:   name,
			Model:     name,
			Mode:      req.Mode,
			Text:      req.Text,
			Params:    params,
			OutputDir: h.deps.Output.Dir(),
		})
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"job_id": j.ID, "status": string(j.Status)})
		return
	}

	if _, err := h.deps.Models.EnsureReady(name); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	adapter, err := h.deps.Engines.Get(name)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	path, err := adapter.Generate(r.Context(), req.Text, params)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	published, err := engine.PublishToDir(path, h.deps.Output.Dir())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"audio_url": outputURLForScratch(published),
	})
}

func (h *handler) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	h.limitBody(w, r)
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, h.log, validationErr("malformed JSON body"))
		return
	}
	if req.Text == "" {
		writeError(w, r, h.log, validationErr(map[string]string{"text": "must not be empty"}))
		return
	}

	if _, err := h.deps.Models.EnsureReady("qwen3"); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	adapter, err := h.deps.Engines.Get("qwen3")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	streamer, ok := adapter.(engine.Streamer)
	if !ok {
		writeError(w, r, h.log, serviceUnavailable("qwen3 does not support streaming"))
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	frames, err := streamer.Stream(ctx, req.Text, engine.Params{Voice: req.Voice, Speed: req.Speed, Extra: req.Extra})
	if err != nil {
		cancel()
		writeError(w, r, h.log, err)
		return
	}
	session := stream.Session{Cancel: cancel, Adapter: adapter, Log: h.log}
	defer session.Release()

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, h.log, serviceUnavailable("response writer does not support streaming"))
		return
	}

	speed := req.Speed
	if speed <= 0 {
		speed = 1
	}
	stream.SetHeaders(w)
	if _, err := stream.Pipe(w, flusher, frames, speed); err != nil {
		h.log.Error("stream pipe failed", "request_id", RequestIDFromContext(r.Context()), "error", err)
	}
}

func (h *handler) handleListVoices(w http.ResponseWriter, r *http.Request) {
	name, err := h.engineName(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	adapter, err := h.deps.Engines.Get(name)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if lister, ok := adapter.(engine.VoiceLister); ok {
		voices, err := lister.ListVoices()
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		writeJSON(w, http.StatusOK, voices)
		return
	}

	// Non-clone adapters (e.g. Kokoro) have no voice list of their own,
	// so the shared voice pool is returned instead; an empty pool yields
	// an empty list, not an error.
	voices, err := h.deps.Voices.List()
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, voices)
}

func (h *handler) handleUploadVoice(w http.ResponseWriter, r *http.Request) {
	name, err := h.engineName(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	voiceName, audioBytes, transcript, err := h.decodeVoiceUpload(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	v, err := h.deps.Voices.Upload(voiceName, audioBytes, transcript)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if saver, ok := mustAdapter(h, name); ok {
		if vs, ok := saver.(engine.VoiceSaver); ok {
			if _, err := vs.SaveVoice(voiceName, audioBytes, transcript); err != nil {
				h.log.Warn("engine-specific voice registration failed", "engine", name, "voice", voiceName, "error", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, v)
}

func (h *handler) handleReplaceVoice(w http.ResponseWriter, r *http.Request) {
	name, err := h.engineName(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	voiceName := r.PathValue("name")

	_, audioBytes, transcript, err := h.decodeVoiceUpload(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	v, err := h.deps.Voices.Replace(voiceName, audioBytes, transcript)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if saver, ok := mustAdapter(h, name); ok {
		if vs, ok := saver.(engine.VoiceSaver); ok {
			if _, err := vs.SaveVoice(voiceName, audioBytes, transcript); err != nil {
				h.log.Warn("engine-specific voice registration failed", "engine", name, "voice", voiceName, "error", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, v)
}

func (h *handler) handleDeleteVoice(w http.ResponseWriter, r *http.Request) {
	if _, err := h.engineName(r); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	voiceName := r.PathValue("name")

	if err := h.deps.Voices.Delete(voiceName); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleVoiceAudio(w http.ResponseWriter, r *http.Request) {
	if _, err := h.engineName(r); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	voiceName := r.PathValue("name")

	v, err := h.deps.Voices.Get(voiceName)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	http.ServeFile(w, r, v.Path)
}

// decodeVoiceUpload reads a multipart form with a "name" field, an
// "audio" file part, and an optional "transcript" field.
func (h *handler) decodeVoiceUpload(r *http.Request) (name string, audioBytes []byte, transcript string, err error) {
	if err := r.ParseMultipartForm(h.opts.maxTextBytes); err != nil {
		return "", nil, "", badRequest("malformed multipart form: " + err.Error())
	}

	name = r.FormValue("name")
	if name == "" {
		return "", nil, "", validationErr(map[string]string{"name": "must not be empty"})
	}
	transcript = r.FormValue("transcript")

	file, _, err := r.FormFile("audio")
	if err != nil {
		return "", nil, "", validationErr(map[string]string{"audio": "file part is required"})
	}
	defer file.Close()

	audioBytes, err = io.ReadAll(file)
	if err != nil {
		return "", nil, "", badRequest("read uploaded audio: " + err.Error())
	}

	return name, audioBytes, transcript, nil
}

func mustAdapter(h *handler, name string) (engine.Adapter, bool) {
	a, err := h.deps.Engines.Get(name)
	if err != nil {
		return nil, false
	}
	return a, true
}

func (h *handler) handleLanguages(w http.ResponseWriter, r *http.Request) {
	name, err := h.engineName(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if _, ok := h.deps.Models.Get(name); !ok {
		writeJSON(w, http.StatusOK, []string{})
		return
	}
	// No adapter in the retrieved corpus reports per-language support
	// distinctly from its model card; every back-end is English-first.
	writeJSON(w, http.StatusOK, []string{"en"})
}

func (h *handler) handleEngineInfo(w http.ResponseWriter, r *http.Request) {
	name, err := h.engineName(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	adapter, err := h.deps.Engines.Get(name)
	if err != nil {
		// Not-yet-constructed is not an error for an info probe: report
		// it unloaded rather than failing the request.
		writeJSON(w, http.StatusOK, engine.Info{Name: name, Backend: name, Loaded: false})
		return
	}
	writeJSON(w, http.StatusOK, adapter.GetInfo())
}

func (h *handler) handleSpeakers(w http.ResponseWriter, r *http.Request) {
	name, err := h.engineName(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	d, ok := h.deps.Models.Get(name)
	if !ok || len(d.PresetSpeakers) == 0 {
		writeJSON(w, http.StatusOK, []string{})
		return
	}
	writeJSON(w, http.StatusOK, d.PresetSpeakers)
}

// outputURLForScratch mirrors internal/job/engine.go's outputURLFor so a
// synchronous /generate response and an enqueued job's audio_url use the
// identical mapping from a published output path to its public URL.
func outputURLForScratch(path string) string {
	return "/audio/" + filepath.Base(path)
}
