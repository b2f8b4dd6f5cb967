package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// OSClient implements Client using real git commands
type OSClient struct {
	ctx context.Context
	dir string
}

// NewOSClient creates a new OSClient operating in the process's
// working directory
func NewOSClient() *OSClient {
	return &OSClient{
		ctx: context.Background(),
	}
}

// WithContext returns a new client with the given context
func (g *OSClient) WithContext(ctx context.Context) Client {
	return &OSClient{
		ctx: ctx,
		dir: g.dir,
	}
}

// WithDir returns a new client that runs git inside dir instead of the
// process's working directory
func (g *OSClient) WithDir(dir string) *OSClient {
	return &OSClient{
		ctx: g.ctx,
		dir: dir,
	}
}

func (g *OSClient) command(args ...string) *exec.Cmd {
	cmd := exec.CommandContext(g.ctx, "git", args...)
	cmd.Dir = g.dir
	return cmd
}

// IsRepo checks if the working directory is inside a git repository
func (g *OSClient) IsRepo() (bool, error) {
	cmd := g.command("rev-parse", "--git-dir")

	if err := cmd.Run(); err != nil {
		// Not a git repo
		return false, nil
	}

	return true, nil
}

// RootPath returns the absolute path of the repository root
func (g *OSClient) RootPath() (string, error) {
	cmd := g.command("rev-parse", "--show-toplevel")

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to resolve repository root: %w", err)
	}

	return strings.TrimSpace(out.String()), nil
}

// CurrentBranch returns the current git branch name
func (g *OSClient) CurrentBranch() (string, error) {
	cmd := g.command("branch", "--show-current")

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}

	return strings.TrimSpace(out.String()), nil
}

// HasTrackedChanges reports whether any tracked file has uncommitted
// changes in the working tree or the index. Untracked and ignored
// files are excluded.
func (g *OSClient) HasTrackedChanges() (bool, error) {
	cmd := g.command("status", "--porcelain", "--untracked-files=no")

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return false, fmt.Errorf("failed to check working tree status: %w", err)
	}

	return strings.TrimSpace(out.String()) != "", nil
}

// RemoteURL returns the URL of the named remote
func (g *OSClient) RemoteURL(remote string) (string, error) {
	cmd := g.command("remote", "get-url", remote)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to get URL of remote %s: %w: %s", remote, err, stderr.String())
	}

	return strings.TrimSpace(out.String()), nil
}

// Stash saves the tracked uncommitted changes under the given message.
// Untracked files are intentionally left in place.
func (g *OSClient) Stash(message string) error {
	cmd := g.command("stash", "push", "-m", message)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to stash changes: %w: %s", err, stderr.String())
	}

	return nil
}

// Fetch fetches a single branch and the tags from the remote
func (g *OSClient) Fetch(remote, branch string) error {
	cmd := g.command("fetch", remote, branch, "--tags")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to fetch %s from %s: %w: %s", branch, remote, err, stderr.String())
	}

	return nil
}

// FetchAll fetches all refs and tags from the remote
func (g *OSClient) FetchAll(remote string) error {
	cmd := g.command("fetch", remote, "--tags")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to fetch from %s: %w: %s", remote, err, stderr.String())
	}

	return nil
}

// LocalBranchExists checks if a local branch of that name exists
func (g *OSClient) LocalBranchExists(branch string) (bool, error) {
	cmd := g.command("show-ref", "--verify", "--quiet", "refs/heads/"+branch)

	if err := cmd.Run(); err != nil {
		return false, nil
	}

	return true, nil
}

// RemoteBranchExists checks if a remote-tracking branch exists for the
// given remote and branch name
func (g *OSClient) RemoteBranchExists(remote, branch string) (bool, error) {
	cmd := g.command("show-ref", "--verify", "--quiet", fmt.Sprintf("refs/remotes/%s/%s", remote, branch))

	if err := cmd.Run(); err != nil {
		return false, nil
	}

	return true, nil
}

// Checkout switches to an existing local branch
func (g *OSClient) Checkout(branch string) error {
	cmd := g.command("checkout", branch)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to checkout %s: %w: %s", branch, err, stderr.String())
	}

	return nil
}

// CheckoutTracking creates a local branch tracking the remote one and
// switches to it
func (g *OSClient) CheckoutTracking(remote, branch string) error {
	cmd := g.command("checkout", "-b", branch, "--track", fmt.Sprintf("%s/%s", remote, branch))

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to create tracking branch %s: %w: %s", branch, err, stderr.String())
	}

	return nil
}

// HardReset discards local commits and tracked-file changes, making the
// current branch exactly match ref
func (g *OSClient) HardReset(ref string) error {
	cmd := g.command("reset", "--hard", ref)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to reset to %s: %w: %s", ref, err, stderr.String())
	}

	return nil
}

// CreateTag creates an annotated tag
func (g *OSClient) CreateTag(tagName, message string) error {
	cmd := g.command("tag", "-a", tagName, "-m", message)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to create tag %s: %w: %s", tagName, err, stderr.String())
	}

	return nil
}

// PushTag pushes a tag to the remote
func (g *OSClient) PushTag(remote, tagName string) error {
	cmd := g.command("push", remote, tagName)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to push tag %s: %w: %s", tagName, err, stderr.String())
	}

	return nil
}
