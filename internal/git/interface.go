package git

import (
	"context"
)

// Client provides an abstraction over git operations for testability.
//
// The refresh workflow only ever talks to one remote ("origin" in
// practice); the remote name is still passed explicitly so tests can
// exercise the resolution logic without a real network remote.
type Client interface {
	// Repository introspection
	IsRepo() (bool, error)
	RootPath() (string, error)
	CurrentBranch() (string, error)
	HasTrackedChanges() (bool, error)
	RemoteURL(remote string) (string, error)

	// Refresh operations
	Stash(message string) error
	Fetch(remote, branch string) error
	FetchAll(remote string) error
	LocalBranchExists(branch string) (bool, error)
	RemoteBranchExists(remote, branch string) (bool, error)
	Checkout(branch string) error
	CheckoutTracking(remote, branch string) error
	HardReset(ref string) error

	// Release operations
	CreateTag(tagName, message string) error
	PushTag(remote, tagName string) error

	// Context support for network operations
	WithContext(ctx context.Context) Client
}
