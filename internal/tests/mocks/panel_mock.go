package mocks

import (
	"sync"

	"wingman/internal/coordinator"
)

var _ coordinator.Panel = (*PanelMock)(nil)

// PanelMock records the calls the coordinator makes.
type PanelMock struct {
	CreateWindowFunc func() error

	mu          sync.Mutex
	Visible     bool
	Pinned      bool
	Mode        coordinator.Mode
	BaseURL     string
	Modes       []coordinator.Mode
	CreateCalls int
	ShowCalls   int
	HideCalls   int
}

func (m *PanelMock) CreateWindow() error {
	m.mu.Lock()
	m.CreateCalls++
	m.mu.Unlock()
	if m.CreateWindowFunc != nil {
		return m.CreateWindowFunc()
	}
	return nil
}

func (m *PanelMock) Show() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ShowCalls++
	m.Visible = true
}

func (m *PanelMock) Hide() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HideCalls++
	m.Visible = false
}

func (m *PanelMock) IsVisible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Visible
}

func (m *PanelMock) IsPinned() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Pinned
}

func (m *PanelMock) SetPinned(pinned bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Pinned = pinned
}

func (m *PanelMock) SetAppMode(mode coordinator.Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Mode = mode
	m.Modes = append(m.Modes, mode)
}

func (m *PanelMock) SetBaseURL(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BaseURL = url
}

// Snapshot returns counters under the lock for use from tests.
func (m *PanelMock) Snapshot() (creates, shows int, mode coordinator.Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CreateCalls, m.ShowCalls, m.Mode
}

func (m *PanelMock) BaseURLSnapshot() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.BaseURL
}
