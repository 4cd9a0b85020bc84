// Package settings implements the C10 settings KV: a small JSON-file-
// backed key/value store with upsert semantics, a last-modified
// timestamp per key, and a filesystem watch so external edits are
// picked up without a restart (spec §4.10).
package settings

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Entry is one settings value plus its last-modified timestamp.
type Entry struct {
	Value      string    `json:"value"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Store is a mutex-guarded, file-persisted key/value map. Writes use the
// same write-to-temp-then-rename idiom as internal/model/download.go's
// downloadFile, so a crash mid-write never corrupts the file.
type Store struct {
	path string
	log  *slog.Logger

	mu      sync.RWMutex
	entries map[string]Entry

	watcher *fsnotify.Watcher
}

// Open loads path (creating an empty store if it doesn't exist yet) and
// starts an fsnotify watch so edits from another process are reloaded.
func Open(path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}

	s := &Store{path: path, log: log, entries: make(map[string]Entry)}

	if err := s.load(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("settings: create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("settings: watch %s: %w", filepath.Dir(path), err)
	}
	s.watcher = watcher

	go s.watch()

	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("settings: read %s: %w", s.path, err)
	}

	var loaded map[string]Entry
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("settings: parse %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.entries = loaded
	s.mu.Unlock()

	return nil
}

func (s *Store) watch() {
	for event := range s.watcher.Events {
		if event.Name != s.path {
			continue
		}
		if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			continue
		}
		if err := s.load(); err != nil {
			s.log.Warn("settings: failed to reload after external edit", "error", err)
		}
	}
}

// Close stops the filesystem watch.
func (s *Store) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// Get returns a key's value and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	return e.Value, ok
}

// Set upserts key, stamping the current time, and persists the store.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	s.entries[key] = Entry{Value: value, ModifiedAt: time.Now().UTC()}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	return s.persist(snapshot)
}

// All returns a snapshot map of every key's value (spec §4.10:
// "get-all returns a snapshot map").
func (s *Store) All() map[string]Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() map[string]Entry {
	out := make(map[string]Entry, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

func (s *Store) persist(snapshot map[string]Entry) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("settings: marshal: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("settings: write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("settings: rename into place: %w", err)
	}

	return nil
}
