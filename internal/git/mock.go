package git

import (
	"context"
	"fmt"
	"sync"
)

// MockClient implements Client for testing. Repository state is plain
// data so tests can arrange branches, remotes, and dirtiness directly,
// and every mutating call is recorded.
type MockClient struct {
	mu sync.RWMutex

	Repo           bool
	Root           string
	Branch         string
	TrackedChanges bool
	Remotes        map[string]string
	LocalBranches  map[string]bool
	RemoteBranches map[string]bool // key: "remote/branch"

	// Recorded mutations (for assertions)
	Stashes      []string
	Fetches      []string // "remote/branch", or "remote/*" for FetchAll
	Checkouts    []string
	ResetRefs    []string
	CreatedTags  map[string]string // tag -> message
	PushedTags   []string
	TrackingRefs []string // "remote/branch" passed to CheckoutTracking

	// Hooks for testing error scenarios
	StashError       error
	FetchError       error
	FetchAllError    error
	CheckoutError    error
	HardResetError   error
	CreateTagError   error
	PushTagError     error
	CurrentBranchErr error

	ctx context.Context
}

// NewMockClient creates a MockClient representing a clean checkout of
// main with an origin remote.
func NewMockClient() *MockClient {
	return &MockClient{
		Repo:           true,
		Root:           "/srv/app",
		Branch:         "main",
		Remotes:        map[string]string{"origin": "https://github.com/org/app.git"},
		LocalBranches:  map[string]bool{"main": true},
		RemoteBranches: map[string]bool{"origin/main": true},
		CreatedTags:    make(map[string]string),
		ctx:            context.Background(),
	}
}

// WithContext returns the same mock; context is irrelevant in tests
func (m *MockClient) WithContext(ctx context.Context) Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctx = ctx
	return m
}

func (m *MockClient) IsRepo() (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Repo, nil
}

func (m *MockClient) RootPath() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.Repo {
		return "", fmt.Errorf("not a git repository")
	}
	return m.Root, nil
}

func (m *MockClient) CurrentBranch() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.CurrentBranchErr != nil {
		return "", m.CurrentBranchErr
	}
	return m.Branch, nil
}

func (m *MockClient) HasTrackedChanges() (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.TrackedChanges, nil
}

func (m *MockClient) RemoteURL(remote string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	url, ok := m.Remotes[remote]
	if !ok {
		return "", fmt.Errorf("no such remote: %s", remote)
	}
	return url, nil
}

func (m *MockClient) Stash(message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StashError != nil {
		return m.StashError
	}
	m.Stashes = append(m.Stashes, message)
	m.TrackedChanges = false
	return nil
}

func (m *MockClient) Fetch(remote, branch string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchError != nil {
		return m.FetchError
	}
	m.Fetches = append(m.Fetches, remote+"/"+branch)
	return nil
}

func (m *MockClient) FetchAll(remote string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchAllError != nil {
		return m.FetchAllError
	}
	m.Fetches = append(m.Fetches, remote+"/*")
	return nil
}

func (m *MockClient) LocalBranchExists(branch string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LocalBranches[branch], nil
}

func (m *MockClient) RemoteBranchExists(remote, branch string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RemoteBranches[remote+"/"+branch], nil
}

func (m *MockClient) Checkout(branch string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CheckoutError != nil {
		return m.CheckoutError
	}
	if !m.LocalBranches[branch] {
		return fmt.Errorf("no local branch %s", branch)
	}
	m.Checkouts = append(m.Checkouts, branch)
	m.Branch = branch
	return nil
}

func (m *MockClient) CheckoutTracking(remote, branch string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CheckoutError != nil {
		return m.CheckoutError
	}
	if !m.RemoteBranches[remote+"/"+branch] {
		return fmt.Errorf("no remote branch %s/%s", remote, branch)
	}
	m.TrackingRefs = append(m.TrackingRefs, remote+"/"+branch)
	m.LocalBranches[branch] = true
	m.Branch = branch
	return nil
}

func (m *MockClient) HardReset(ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.HardResetError != nil {
		return m.HardResetError
	}
	m.ResetRefs = append(m.ResetRefs, ref)
	m.TrackedChanges = false
	return nil
}

func (m *MockClient) CreateTag(tagName, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateTagError != nil {
		return m.CreateTagError
	}
	m.CreatedTags[tagName] = message
	return nil
}

func (m *MockClient) PushTag(remote, tagName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PushTagError != nil {
		return m.PushTagError
	}
	m.PushedTags = append(m.PushedTags, remote+"/"+tagName)
	return nil
}
