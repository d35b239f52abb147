package mocks

import (
	"context"
	"sync"

	"wingman/internal/connectivity"
	"wingman/internal/coordinator"
)

var _ coordinator.Checker = (*CheckerMock)(nil)

// CheckerMock returns Status unless CheckFunc is set.
type CheckerMock struct {
	CheckFunc func(ctx context.Context) connectivity.Status

	mu     sync.Mutex
	Status connectivity.Status
	URL    string
	Calls  int
}

func (m *CheckerMock) Check(ctx context.Context) connectivity.Status {
	m.mu.Lock()
	m.Calls++
	status := m.Status
	m.mu.Unlock()
	if m.CheckFunc != nil {
		return m.CheckFunc(ctx)
	}
	return status
}

func (m *CheckerMock) SetURL(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.URL = url
}

func (m *CheckerMock) SetStatus(s connectivity.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Status = s
}

func (m *CheckerMock) CurrentURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.URL
}
