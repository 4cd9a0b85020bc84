package gateway

import (
	"errors"
	"net/http"

	"github.com/mimikastudio/orchestrator/internal/engine"
	"github.com/mimikastudio/orchestrator/internal/job"
	"github.com/mimikastudio/orchestrator/internal/model"
	"github.com/mimikastudio/orchestrator/internal/output"
	"github.com/mimikastudio/orchestrator/internal/voice"
)

// classifyErr maps a domain package's typed error to the spec §7 envelope
// kind and HTTP status, so handlers can return plain domain errors from
// internal/model, internal/voice, internal/job, and internal/engine without
// each one re-deriving the mapping.
func classifyErr(err error) (Kind, any, int) {
	var (
		notDownloaded  *model.NotDownloadedError
		pipUnsupported *model.PipUnsupportedError
		invalidName    *voice.InvalidNameError
		reservedName   *voice.ReservedNameError
		voiceNotFound  *voice.NotFoundError
		jobNotFound    *job.NotFoundError
		svcUnavailable *engine.ServiceUnavailableError
		pipUnsupported2 *engine.PipUnsupportedError
		envLocked      *output.EnvLockedError
	)

	switch {
	case errors.As(err, &notDownloaded):
		return KindConflict, notDownloaded.Error(), http.StatusConflict
	case errors.As(err, &pipUnsupported):
		return KindBadRequest, pipUnsupported.Error(), http.StatusBadRequest
	case errors.As(err, &invalidName):
		return KindBadRequest, invalidName.Error(), http.StatusBadRequest
	case errors.As(err, &reservedName):
		return KindBadRequest, reservedName.Error(), http.StatusBadRequest
	case errors.As(err, &voiceNotFound):
		return KindNotFound, voiceNotFound.Error(), http.StatusNotFound
	case errors.As(err, &jobNotFound):
		return KindNotFound, jobNotFound.Error(), http.StatusNotFound
	case errors.As(err, &svcUnavailable):
		return KindServiceUnavailable, svcUnavailable.Error(), http.StatusServiceUnavailable
	case errors.As(err, &pipUnsupported2):
		return KindBadRequest, pipUnsupported2.Error(), http.StatusBadRequest
	case errors.As(err, &envLocked):
		return KindBadRequest, envLocked.Error(), http.StatusBadRequest
	default:
		return KindInternal, "Internal server error", http.StatusInternalServerError
	}
}
