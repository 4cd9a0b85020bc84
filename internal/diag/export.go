package diag

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Export bundles the files at paths into a temporary zip archive and
// returns its path plus a cleanup func the caller must invoke after the
// response completes (spec §4.11: "bundles recent logs into a temporary
// zip which is deleted after the response completes"). Grounded on the
// teacher's archive/zip bundle-packing idiom (previously
// internal/model/onnx_bundle.go, now superseded by this package).
func Export(paths []string) (zipPath string, cleanup func(), err error) {
	f, err := os.CreateTemp("", "mimikastudio-diagnostics-*.zip")
	if err != nil {
		return "", nil, fmt.Errorf("diag: create export archive: %w", err)
	}
	cleanup = func() { _ = os.Remove(f.Name()) }

	zw := zip.NewWriter(f)

	for _, path := range paths {
		if err := addFileToZip(zw, path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			zw.Close()
			f.Close()
			cleanup()
			return "", nil, fmt.Errorf("diag: add %s to archive: %w", path, err)
		}
	}

	if err := zw.Close(); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("diag: close archive: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("diag: close archive file: %w", err)
	}

	return f.Name(), cleanup, nil
}

func addFileToZip(zw *zip.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	w, err := zw.Create(filepath.Base(path))
	if err != nil {
		return err
	}

	_, err = io.Copy(w, src)
	return err
}
