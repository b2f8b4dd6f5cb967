// Package guard implements the ordered safety checks that run before a
// refresh is allowed to mutate the deployment.
//
// The checks fall into two classes. Overridable checks protect against
// accidentally refreshing a developer's working copy and yield to the
// allow-dev-refresh override (logged loudly, once per check). Fatal
// checks protect against operating with no meaningful git context at
// all and cannot be overridden.
package guard

import (
	"path/filepath"
	"strings"

	"github.com/mwaldner/deployctl/internal/config"
	"github.com/mwaldner/deployctl/internal/exit"
	"github.com/mwaldner/deployctl/internal/filesystem"
	"github.com/mwaldner/deployctl/internal/git"
)

// Kind tags the outcome of a single check.
type Kind int

const (
	Pass Kind = iota
	Block
	Overridden
)

// Result is the outcome of one guard check. It is consumed immediately
// to decide continuation or abort, never persisted.
type Result struct {
	Kind   Kind
	Reason string
	Code   int // exit code when Kind == Block
}

func pass() Result {
	return Result{Kind: Pass}
}

// blockOrOverride downgrades a block to a logged continuation when the
// dev-refresh override is active.
func blockOrOverride(in *Input, code int, reason string) Result {
	if in.Config.AllowDevRefresh {
		return Result{Kind: Overridden, Reason: reason}
	}
	return Result{Kind: Block, Reason: reason, Code: code}
}

// RepoState is the git working tree's identity, read fresh at guard
// evaluation time. It is never cached across invocations.
type RepoState struct {
	Root      string
	Branch    string
	Dirty     bool
	OriginURL string
}

// ReadRepoState snapshots the working tree through the git client.
// Fields that cannot be resolved stay empty; the corresponding fatal
// check reports them.
func ReadRepoState(client git.Client) RepoState {
	var state RepoState

	isRepo, err := client.IsRepo()
	if err != nil || !isRepo {
		return state
	}

	state.Root, _ = client.RootPath()
	state.Branch, _ = client.CurrentBranch()
	state.Dirty, _ = client.HasTrackedChanges()
	state.OriginURL, _ = client.RemoteURL("origin")

	return state
}

// Input is the shared record every check evaluates against.
type Input struct {
	Config *config.RefreshConfig
	Repo   RepoState
	FS     filesystem.FileSystem
}

// Check is one precondition in the chain.
type Check struct {
	Name string
	Eval func(in *Input) Result
}

// Chain returns the checks in their fixed evaluation order.
func Chain() []Check {
	return []Check{
		{Name: "working-tree", Eval: checkWorkingTree},
		{Name: "block-markers", Eval: checkBlockMarkers},
		{Name: "path-patterns", Eval: checkPathPatterns},
		{Name: "require-markers", Eval: checkRequireMarkers},
		{Name: "remote", Eval: checkRemote},
	}
}

// Evaluate runs the full chain in order. The first blocking result
// aborts with its exit code; overridden checks are reported through
// logf and evaluation continues.
func Evaluate(in *Input, logf func(format string, args ...interface{})) error {
	for _, check := range Chain() {
		result := check.Eval(in)
		switch result.Kind {
		case Overridden:
			logf("⚠️  %s override active: %s", check.Name, result.Reason)
		case Block:
			return exit.Errorf(result.Code, "%s", result.Reason)
		}
	}
	return nil
}

// checkWorkingTree confirms the repository root is resolvable. Never
// overridable.
func checkWorkingTree(in *Input) Result {
	if in.Repo.Root == "" {
		return Result{
			Kind:   Block,
			Reason: "not inside a git working tree",
			Code:   exit.NotARepo,
		}
	}
	return pass()
}

// checkBlockMarkers blocks when any configured marker file or directory
// exists at the repository root.
func checkBlockMarkers(in *Input) Result {
	var found []string
	for _, marker := range in.Config.BlockMarkers {
		if in.FS.Exists(filepath.Join(in.Repo.Root, marker)) {
			found = append(found, marker)
		}
	}
	if len(found) == 0 {
		return pass()
	}
	return blockOrOverride(in, exit.BlockedByMarker,
		"blocked by marker(s) at repository root: "+strings.Join(found, ", "))
}

// checkPathPatterns blocks when the repository root's absolute path
// contains any configured pattern as a substring.
func checkPathPatterns(in *Input) Result {
	var matched []string
	for _, pattern := range in.Config.BlockPathPatterns {
		if strings.Contains(in.Repo.Root, pattern) {
			matched = append(matched, pattern)
		}
	}
	if len(matched) == 0 {
		return pass()
	}
	return blockOrOverride(in, exit.BlockedByPath,
		"repository path "+in.Repo.Root+" matches blocked pattern(s): "+strings.Join(matched, ", "))
}

// checkRequireMarkers blocks when a non-empty require list has no
// existing entry at the repository root. An empty list trivially
// passes.
func checkRequireMarkers(in *Input) Result {
	if len(in.Config.RequireMarkers) == 0 {
		return pass()
	}
	for _, marker := range in.Config.RequireMarkers {
		if in.FS.Exists(filepath.Join(in.Repo.Root, marker)) {
			return pass()
		}
	}
	return blockOrOverride(in, exit.MissingRequiredMarker,
		"none of the required marker(s) exist at repository root: "+strings.Join(in.Config.RequireMarkers, ", "))
}

// checkRemote confirms the origin remote exists and, when configured,
// that its URL contains the required host. Never overridable: a wrong
// remote means the tool is pointed at the wrong target entirely.
func checkRemote(in *Input) Result {
	if in.Repo.OriginURL == "" {
		return Result{
			Kind:   Block,
			Reason: "repository has no origin remote",
			Code:   exit.NoOriginRemote,
		}
	}
	if host := in.Config.RequireRemoteHost; host != "" && !strings.Contains(in.Repo.OriginURL, host) {
		return Result{
			Kind:   Block,
			Reason: "origin remote " + in.Repo.OriginURL + " does not match required host " + host,
			Code:   exit.RemoteHostMismatch,
		}
	}
	return pass()
}
