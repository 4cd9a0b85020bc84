package gateway

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// Kind is one of the uniform error envelope's error categories (spec §7).
type Kind string

const (
	KindValidation         Kind = "validation_error"
	KindBadRequest         Kind = "bad_request"
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindServiceUnavailable Kind = "service_unavailable"
	KindInternal           Kind = "internal_error"
)

var kindStatus = map[Kind]int{
	KindValidation:         http.StatusUnprocessableEntity,
	KindBadRequest:         http.StatusBadRequest,
	KindNotFound:           http.StatusNotFound,
	KindConflict:           http.StatusConflict,
	KindServiceUnavailable: http.StatusServiceUnavailable,
	KindInternal:           http.StatusInternalServerError,
}

// envelope is the uniform error body every non-2xx response carries
// (spec §7): {error, detail, request_id}.
type envelope struct {
	Error     Kind   `json:"error"`
	Detail    any    `json:"detail"`
	RequestID string `json:"request_id"`
}

// apiError is a typed error a handler can return to have the gateway
// normalize it into the envelope with the right status code.
type apiError struct {
	Kind   Kind
	Detail any
}

func (e *apiError) Error() string {
	if s, ok := e.Detail.(string); ok {
		return s
	}
	return string(e.Kind)
}

func newAPIError(kind Kind, detail any) *apiError { return &apiError{Kind: kind, Detail: detail} }

func badRequest(msg string) *apiError         { return newAPIError(KindBadRequest, msg) }
func validationErr(detail any) *apiError      { return newAPIError(KindValidation, detail) }
func notFound(msg string) *apiError           { return newAPIError(KindNotFound, msg) }
func conflict(msg string) *apiError           { return newAPIError(KindConflict, msg) }
func serviceUnavailable(msg string) *apiError { return newAPIError(KindServiceUnavailable, msg) }

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode JSON response", "error", err)
	}
}

// writeError normalizes err into the envelope and writes it. Known
// domain errors (model/voice/job/engine package sentinels) are mapped to
// their spec §7 kind; anything else becomes internal_error with a fixed
// detail string, full error logged server-side only.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	requestID := RequestIDFromContext(r.Context())

	var ae *apiError
	if errors.As(err, &ae) {
		status := kindStatus[ae.Kind]
		if status == 0 {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, envelope{Error: ae.Kind, Detail: ae.Detail, RequestID: requestID})
		return
	}

	kind, detail, status := classifyErr(err)
	if kind == KindInternal {
		log.Error("unhandled request error", "request_id", requestID, "path", r.URL.Path, "error", err)
		writeJSON(w, status, envelope{Error: KindInternal, Detail: "Internal server error", RequestID: requestID})
		return
	}

	writeJSON(w, status, envelope{Error: kind, Detail: detail, RequestID: requestID})
}
