package voice

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// migrateLegacy consolidates one legacy per-engine voice folder into the
// unified user pool (spec §4.3: "on startup it consolidates legacy folders
// into the unified user pool, preferring the destination on name
// collisions (source is then removed)"). Legacy folders hold loose
// "<name>.wav" files with an optional sibling "<name>.txt" transcript.
func migrateLegacy(legacyDir, userDir string) error {
	entries, err := os.ReadDir(legacyDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read legacy dir %s: %w", legacyDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".wav") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		srcWAV := filepath.Join(legacyDir, entry.Name())
		srcTxt := filepath.Join(legacyDir, name+".txt")
		dstWAV := voicePath(userDir, name)
		dstTxt := transcriptPath(userDir, name)

		if _, err := os.Stat(dstWAV); err == nil {
			// Destination already exists: it wins, source is discarded.
			_ = os.Remove(srcWAV)
			_ = os.Remove(srcTxt)

			continue
		}

		if err := os.Rename(srcWAV, dstWAV); err != nil {
			return fmt.Errorf("migrate voice %q: %w", name, err)
		}

		if _, err := os.Stat(srcTxt); err == nil {
			_ = os.Rename(srcTxt, dstTxt)
		}
	}

	return nil
}

func voicePath(dir, name string) string {
	return filepath.Join(dir, name+".wav")
}

func transcriptPath(dir, name string) string {
	return filepath.Join(dir, name+".txt")
}
