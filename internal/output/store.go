// Package output implements the C8 output store: the writable directory
// generated artifacts are saved to and served from, with a runtime-
// retargetable static file handler (spec §4.8).
package output

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
)

// Candidates returns the ensure-with-fallback precedence for the output
// directory (spec §4.8): an explicit override (typically
// MIMIKA_OUTPUT_DIR, resolved by the caller), the persisted settings
// value, then two fixed fallbacks.
func Candidates(envOverride, settingsValue, homeDir string) []string {
	var out []string
	if envOverride != "" {
		out = append(out, envOverride)
	}
	if settingsValue != "" {
		out = append(out, settingsValue)
	}
	if homeDir != "" {
		out = append(out, filepath.Join(homeDir, "MimikaStudio", "outputs"))
	}
	out = append(out, filepath.Join(os.TempDir(), "mimikastudio-outputs"))
	return out
}

// Store is the writable output directory plus an atomically swappable
// http.Handler serving it, so the effective directory can change at
// runtime without restarting the listener (spec §4.8 (b)).
type Store struct {
	envLocked bool // true when MIMIKA_OUTPUT_DIR pins the directory

	dir     atomic.Pointer[string]
	handler atomic.Pointer[http.Handler]
}

// New probes candidates in order with mkdir, using the first that
// succeeds (spec §4.8: "Each candidate is probed by mkdir; on failure the
// next is tried"). envLocked marks the directory as pinned by an
// explicit env override, per spec §4.8 (d): "If the env override is set,
// runtime changes are refused."
func New(candidates []string, envLocked bool) (*Store, error) {
	var chosen string
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if err := os.MkdirAll(c, 0o755); err == nil {
			chosen = c
			break
		}
	}
	if chosen == "" {
		return nil, fmt.Errorf("output store: no candidate directory was writable")
	}

	s := &Store{envLocked: envLocked}
	s.dir.Store(&chosen)
	s.setHandler(chosen)

	return s, nil
}

// Dir returns the current effective output directory.
func (s *Store) Dir() string {
	return *s.dir.Load()
}

// Handler returns the current static file handler for the output
// directory. Retargeting via SetDir swaps what this returns without
// requiring callers to re-fetch it — wrap it behind http.StripPrefix in
// the gateway's route table.
func (s *Store) Handler() http.Handler {
	return &redirectingHandler{s: s}
}

// SetDir retargets the output directory at runtime: creates the new
// directory, then atomically swaps the handler so the static server
// observes the change with no restart (spec §4.8 (a)-(b)). It refuses
// when the directory was pinned by an env override (spec §4.8 (d)), in
// which case callers should still report the effective path as
// unchanged rather than erroring the request.
func (s *Store) SetDir(dir string) error {
	if s.envLocked {
		return &EnvLockedError{}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("output store: create %s: %w", dir, err)
	}

	s.dir.Store(&dir)
	s.setHandler(dir)

	return nil
}

func (s *Store) setHandler(dir string) {
	h := http.FileServer(http.Dir(dir))
	s.handler.Store(&h)
}

// redirectingHandler defers to whatever handler Store currently holds,
// so a reference taken before a SetDir call still observes the swap.
type redirectingHandler struct{ s *Store }

func (r *redirectingHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	(*r.s.handler.Load()).ServeHTTP(w, req)
}

// EnvLockedError is returned by SetDir when MIMIKA_OUTPUT_DIR pins the
// output directory (spec §4.8 (d)).
type EnvLockedError struct{}

func (e *EnvLockedError) Error() string {
	return "output directory is pinned by MIMIKA_OUTPUT_DIR and cannot be changed at runtime"
}
