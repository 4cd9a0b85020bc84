// Package pathstore implements the C10 "process-wide mutable
// directories → typed path service" design (spec §9 Design Note): one
// place resolving each runtime directory via the ensure-with-fallback
// rule spec §4.8/§4.10 names.
package pathstore

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir identifies one of the service's runtime directories.
type Dir string

const (
	DirRuntimeHome Dir = "runtime_home"
	DirData        Dir = "data"
	DirLog         Dir = "log"
	DirPDF         Dir = "pdf"
	DirHub         Dir = "hub"
)

// Service resolves and caches the effective path for each runtime
// directory, grounded on the teacher's config.Config/Load env-and-
// default resolution idiom generalized from flat fields to a lookup
// keyed by Dir.
type Service struct {
	resolved map[Dir]string
}

// New resolves every directory in overrides (first candidate that
// mkdir succeeds on wins, per spec §4.8's ensure-with-fallback rule).
// Each entry's candidate list should already be ordered env override →
// settings value → computed default, as spec §4.10 requires.
func New(overrides map[Dir][]string) (*Service, error) {
	s := &Service{resolved: make(map[Dir]string, len(overrides))}

	for dir, candidates := range overrides {
		chosen, err := ensureWithFallback(candidates)
		if err != nil {
			return nil, fmt.Errorf("pathstore: resolve %s: %w", dir, err)
		}
		s.resolved[dir] = chosen
	}

	return s, nil
}

// Path returns the resolved directory for d.
func (s *Service) Path(d Dir) string {
	return s.resolved[d]
}

// ensureWithFallback tries each candidate in order, returning the first
// whose directory can be created (spec §4.8).
func ensureWithFallback(candidates []string) (string, error) {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if err := os.MkdirAll(c, 0o755); err == nil {
			return c, nil
		}
	}
	return "", fmt.Errorf("no candidate directory was writable: %v", candidates)
}

// DefaultDataCandidates builds the standard candidate list for a
// sub-directory of the data root: an explicit override, then
// <runtimeHome>/<name>, then a temp-dir fallback.
func DefaultDataCandidates(override, runtimeHome, name string) []string {
	var out []string
	if override != "" {
		out = append(out, override)
	}
	if runtimeHome != "" {
		out = append(out, filepath.Join(runtimeHome, name))
	}
	out = append(out, filepath.Join(os.TempDir(), "mimikastudio-"+name))
	return out
}
