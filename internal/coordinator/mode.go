package coordinator

import "wingman/internal/connectivity"

// Mode is the coarse application state shown by the panel.
type Mode int

const (
	Degraded Mode = iota
	Online
)

func (m Mode) String() string {
	if m == Online {
		return "online"
	}
	return "degraded"
}

// ModeFor maps a probe result to a mode.
func ModeFor(s connectivity.Status) Mode {
	if s == connectivity.Pass {
		return Online
	}
	return Degraded
}

// PanelState is the panel's visibility and pin state.
type PanelState struct {
	IsOpen   bool `json:"isOpen"`
	IsPinned bool `json:"isPinned"`
}
