// Package gateway implements the C9 request gateway: HTTP routing, JSON
// validation, the uniform error envelope, request-id propagation, and
// CORS (spec §4.9), replacing the teacher's internal/server. It wires
// together every other component package — internal/engine, internal/job,
// internal/model, internal/voice, internal/output, internal/settings, and
// internal/diag — behind the route table of spec §6.
package gateway

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/mimikastudio/orchestrator/internal/diag"
	"github.com/mimikastudio/orchestrator/internal/engine"
	"github.com/mimikastudio/orchestrator/internal/job"
	"github.com/mimikastudio/orchestrator/internal/model"
	"github.com/mimikastudio/orchestrator/internal/output"
	"github.com/mimikastudio/orchestrator/internal/settings"
	"github.com/mimikastudio/orchestrator/internal/voice"
)

// Dependencies are the already-constructed collaborators the gateway
// routes requests to. None of them are built here — NewHandler only wires
// HTTP on top of them (teacher's NewHandler(synth, voices, ...) pattern,
// generalized to the larger dependency set this domain needs).
type Dependencies struct {
	Models   *model.Registry
	Engines  *engine.Registry
	Jobs     *job.Engine
	Voices   *voice.Store
	Output   *output.Store
	Settings *settings.Store

	// DataDir is the runtime data root (spec §6 on-disk layout) backing
	// the /samples and /pregenerated static mounts and listings.
	DataDir string
	// PDFDir is the scratch directory for uploaded documents awaiting
	// text extraction (/api/pdf/list, /api/pdf/extract-text).
	PDFDir string

	// PythonProbe/DeviceProbe feed internal/diag's system info endpoint.
	PythonProbe diag.VersionFunc
	DeviceProbe diag.VersionFunc
	// LogPaths are the known log files merged by /api/system/logs and
	// bundled by /api/system/diagnostics/export.
	LogPaths []string

	// TextExtractor turns an uploaded PDF/EPUB/DOCX document into plain
	// text for /api/audiobook/generate-from-file. PDF/EPUB/DOCX
	// extraction is explicitly out of scope (spec §1: "treated as
	// external collaborators via named interfaces"); a nil TextExtractor
	// makes the endpoint report service_unavailable rather than guessing
	// at an implementation.
	TextExtractor TextExtractor
}

// TextExtractor is the out-of-scope document-extraction collaborator.
type TextExtractor interface {
	Extract(filename string, data []byte) (string, error)
}

type options struct {
	logger       *slog.Logger
	corsOrigins  []string
	maxTextBytes int64
}

func defaultOptions() options {
	return options{
		logger:       slog.Default(),
		corsOrigins:  []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		maxTextBytes: 1 << 20,
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithCORSOrigins sets the allowed CORS origins (spec §4.9, MIMIKA_CORS_ORIGINS).
func WithCORSOrigins(origins []string) Option {
	return func(o *options) { o.corsOrigins = origins }
}

// WithMaxTextBytes bounds request body size for text-bearing endpoints.
func WithMaxTextBytes(n int64) Option {
	return func(o *options) { o.maxTextBytes = n }
}

type handler struct {
	deps Dependencies
	opts options
	log  *slog.Logger
}

// NewHandler builds the full HTTP surface of spec §6 over deps.
func NewHandler(deps Dependencies, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{deps: deps, opts: opts, log: opts.logger}

	mux := http.NewServeMux()
	h.registerHealth(mux)
	h.registerSystem(mux)
	h.registerEngines(mux)
	h.registerModels(mux)
	h.registerAudiobook(mux)
	h.registerJobs(mux)
	h.registerMisc(mux)
	h.registerSettings(mux)
	h.registerPDF(mux)
	h.registerStatic(mux)

	return chain(mux,
		recoverMiddleware(h.log),
		requestIDMiddleware,
		corsMiddleware(opts.corsOrigins),
		loggingMiddleware(h.log),
	)
}

func (h *handler) registerHealth(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "mimikastudio",
			"version": buildVersion(),
		})
	})
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// limitBody applies the configured max text size to a request body,
// mirroring the teacher's WithMaxTextBytes guard on POST /tts.
func (h *handler) limitBody(w http.ResponseWriter, r *http.Request) {
	if h.opts.maxTextBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.opts.maxTextBytes)
	}
}
