// Package events carries notifications from the Go side to the panel's
// web view.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInfo EventType = "info"
	EventWarn EventType = "warn"
)

const (
	// ModeChanged is emitted whenever the panel's mode is applied.
	ModeChanged = "panel:mode"
	// Wake is emitted by the web view to ask for an immediate re-check.
	Wake = "panel:wake"
)

// PanelEvent is the payload of ModeChanged.
type PanelEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Mode      string    `json:"mode"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewModeEvent describes a switch to mode ("online" or "degraded").
func NewModeEvent(mode string) PanelEvent {
	evt := PanelEvent{
		ID:        uuid.NewString(),
		Type:      EventInfo,
		Mode:      mode,
		Message:   "Wingman is online",
		Timestamp: time.Now(),
	}
	if mode != "online" {
		evt.Type = EventWarn
		evt.Message = "Wingman can't reach the server"
	}
	return evt
}
