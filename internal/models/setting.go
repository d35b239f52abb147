package models

import "time"

// Recognized setting keys.
const (
	SettingStartAtLogin = "startAtLogin"
	SettingPinPanel     = "pinPanel"
)

// Setting persists one named boolean preference.
type Setting struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     bool   `gorm:"not null;default:false"`
	UpdatedAt time.Time
}

// DefaultSettings returns the documented default for every recognized key.
func DefaultSettings() map[string]bool {
	return map[string]bool{
		SettingStartAtLogin: false,
		SettingPinPanel:     false,
	}
}
