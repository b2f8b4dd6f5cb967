package service

import (
	"fmt"
	"sync"
)

// MockController implements Controller for testing
type MockController struct {
	mu sync.Mutex

	Active map[string]bool

	// Recorded calls (for assertions)
	Stopped   []string
	Started   []string
	Restarted []string

	// Hooks for testing error scenarios
	StopError     error
	StartError    error
	RestartError  error
	IsActiveError error

	// RefusesToStop keeps a unit active even after a successful stop
	// request, simulating a hung process.
	RefusesToStop bool
}

// NewMockController creates a MockController with no active units
func NewMockController() *MockController {
	return &MockController{
		Active: make(map[string]bool),
	}
}

// SetActive marks a unit as active (for test setup)
func (m *MockController) SetActive(name string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Active[name] = active
}

func (m *MockController) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StopError != nil {
		return m.StopError
	}
	m.Stopped = append(m.Stopped, name)
	if !m.RefusesToStop {
		m.Active[name] = false
	}
	return nil
}

func (m *MockController) Start(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StartError != nil {
		return m.StartError
	}
	m.Started = append(m.Started, name)
	m.Active[name] = true
	return nil
}

func (m *MockController) Restart(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RestartError != nil {
		return m.RestartError
	}
	m.Restarted = append(m.Restarted, name)
	m.Active[name] = true
	return nil
}

func (m *MockController) IsActive(name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsActiveError != nil {
		return false, fmt.Errorf("mock is-active failure: %w", m.IsActiveError)
	}
	return m.Active[name], nil
}
