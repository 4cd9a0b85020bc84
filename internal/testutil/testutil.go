// Package testutil provides shared skip helpers for integration tests.
//
// Each helper calls t.Skip with a clear human-readable reason when the named
// prerequisite is absent, so integration tests remain runnable in partial
// environments without failing noisily.
//
// Typical usage:
//
//	func TestMyIntegration(t *testing.T) {
//	    testutil.RequireFFmpeg(t)
//	    testutil.RequireModelReady(t, registry, "kokoro")
//	    ...
//	}
package testutil

import (
	"os"
	"os/exec"
	"testing"

	"github.com/mimikastudio/orchestrator/internal/model"
)

// RequireFFmpeg skips the test if no ffmpeg binary is found in PATH. Only
// the audiobook MP3/M4B transcoding path needs it; WAV output never does.
func RequireFFmpeg(t testing.TB) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg binary not available in PATH")
	}
}

// RequirePython3 skips the test if no python3 interpreter is found in PATH.
// Several engine runtimes are Python processes reached over EngineRunner.
func RequirePython3(t testing.TB) {
	t.Helper()
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 binary not available in PATH")
	}
}

// RequireModelReady skips the test unless name has a ready snapshot (or is
// pip-acquired) in reg.
func RequireModelReady(t testing.TB, reg *model.Registry, name string) {
	t.Helper()
	if _, ready := reg.Ready(name); !ready {
		t.Skipf("model %q is not downloaded", name)
	}
}

// RequireEnv skips the test unless the named environment variable is set,
// returning its value.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	v := os.Getenv(key)
	if v == "" {
		t.Skipf("environment variable %s not set", key)
	}
	return v
}
