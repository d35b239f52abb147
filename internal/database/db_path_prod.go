//go:build prod

package database

import (
	"os"
	"path/filepath"
)

// GetDefaultDBPath places the settings database in the per-user config
// directory, or the working directory when that is unavailable.
func GetDefaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return settingsFile
	}
	dir = filepath.Join(dir, "Wingman")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return settingsFile
	}
	return filepath.Join(dir, settingsFile)
}

func IsDevelopment() bool {
	return false
}
