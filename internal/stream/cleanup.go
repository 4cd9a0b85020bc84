package stream

import (
	"context"
	"log/slog"
	"os"

	"github.com/mimikastudio/orchestrator/internal/engine"
)

// Session bundles what a streaming request must release on completion or
// client disconnect: the cancel func for the context driving the
// adapter's frame producer, the prompt-prep scratch file (if any), and
// whether the adapter should be unloaded afterward (spec §4.7: "any
// scratch reference file deleted, and (if requested) the adapter
// unloaded — all in a guaranteed-release scope").
type Session struct {
	Cancel      context.CancelFunc
	ScratchPath string
	Unload      bool
	Adapter     engine.Adapter
	Log         *slog.Logger
}

// Release performs the guaranteed-release cleanup. Call it in a defer
// immediately after acquiring the session's resources, regardless of how
// the streaming response ends.
func (s Session) Release() {
	if s.Cancel != nil {
		s.Cancel()
	}

	if s.ScratchPath != "" {
		if err := os.Remove(s.ScratchPath); err != nil && !os.IsNotExist(err) {
			s.logger().Warn("failed to remove stream scratch file", "path", s.ScratchPath, "error", err)
		}
	}

	if s.Unload && s.Adapter != nil {
		if err := s.Adapter.Unload(); err != nil {
			s.logger().Warn("failed to unload adapter after stream", "adapter", s.Adapter.Name(), "error", err)
		}
	}
}

func (s Session) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}
