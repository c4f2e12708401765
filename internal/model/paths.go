package model

import (
	"os"
	"path/filepath"
)

// defaultCacheDir returns ~/.curator/cache, or a temp dir when home is unavailable
func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "curator-cache")
	}
	return filepath.Join(home, ".curator", "cache")
}
