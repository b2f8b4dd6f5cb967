package deps

import "sync"

// MockSyncer implements Syncer for testing
type MockSyncer struct {
	mu sync.Mutex

	// Calls counts how often Sync was invoked
	Calls int

	// SyncError makes Sync fail
	SyncError error
}

// NewMockSyncer creates a new MockSyncer
func NewMockSyncer() *MockSyncer {
	return &MockSyncer{}
}

func (m *MockSyncer) Sync() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	return m.SyncError
}
