package model

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// snapshotReady scans cacheDir/snapshots for a non-empty subdirectory
// containing a recognized weight file, returning the path of the most
// recently modified passing snapshot (spec §4.4).
func snapshotReady(cacheDir string) (string, bool) {
	snapshotsDir := filepath.Join(cacheDir, "snapshots")

	entries, err := os.ReadDir(snapshotsDir)
	if err != nil {
		return "", false
	}

	var (
		best     string
		bestTime time.Time
	)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		dir := filepath.Join(snapshotsDir, entry.Name())

		if !hasRecognizedWeightFile(dir) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if best == "" || info.ModTime().After(bestTime) {
			best = dir
			bestTime = info.ModTime()
		}
	}

	if best == "" {
		return "", false
	}

	return best, true
}

func hasRecognizedWeightFile(dir string) bool {
	files, err := os.ReadDir(dir)
	if err != nil {
		return false
	}

	found := false

	for _, f := range files {
		if f.IsDir() {
			continue
		}

		info, err := f.Info()
		if err != nil || info.Size() == 0 {
			continue
		}

		if hasRecognizedExtension(f.Name()) {
			found = true
		}
	}

	return found
}

func hasRecognizedExtension(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range recognizedWeightExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}

	return false
}
