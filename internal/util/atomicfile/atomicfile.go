// Package atomicfile writes small secret and state files (identity keys,
// control tokens, peer database snapshots) so a crash mid-write never
// leaves a truncated or partially-written file behind.
package atomicfile

import (
	"os"
	"path/filepath"
)

// Write writes data to path via a same-directory temp file plus rename.
// perm is applied to the temp file before the rename, so the final file
// never appears with looser permissions than requested even momentarily.
func Write(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	ok := false
	defer func() {
		if !ok {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	ok = true
	return nil
}
