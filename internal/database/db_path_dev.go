//go:build !prod

package database

// GetDefaultDBPath keeps the settings database next to the binary in dev
// builds.
func GetDefaultDBPath() string {
	return settingsFile
}

func IsDevelopment() bool {
	return true
}
