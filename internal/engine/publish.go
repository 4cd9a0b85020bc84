package engine

import (
	"fmt"
	"os"
	"path/filepath"
)

// PublishToDir copies a scratch file an adapter wrote into dir under its
// own basename, then removes the scratch copy. Scratch filenames already
// satisfy the output naming grammar (`{engine}-{label}-{8hex}`), so this
// only relocates the file out of the adapter's private scratch directory
// into whatever directory is actually served at /audio/ — it never
// renames.
func PublishToDir(scratchPath, dir string) (string, error) {
	data, err := os.ReadFile(scratchPath)
	if err != nil {
		return "", fmt.Errorf("read scratch audio: %w", err)
	}

	dest := filepath.Join(dir, filepath.Base(scratchPath))
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("publish audio to %s: %w", dir, err)
	}

	_ = os.Remove(scratchPath)
	return dest, nil
}
