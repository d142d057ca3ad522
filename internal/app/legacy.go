package app

import (
	"os"
	"path/filepath"
)

// legacyFiles are left over from predecessor node software and are
// deleted unconditionally on startup; a no-op if absent.
var legacyFiles = []string{"status", "thisdeviceismine"}

func removeLegacyFiles(homeDir string) {
	if homeDir == "" {
		return
	}
	for _, name := range legacyFiles {
		path := filepath.Join(homeDir, name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warn("failed to remove legacy file", "path", path, "err", err)
		}
	}
}
