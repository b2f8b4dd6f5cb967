// Package refresh drives the code-refresh state machine: stop the
// service, stash tracked changes, fetch, resolve the target branch,
// hard-reset to the remote tip, and resync dependencies.
package refresh

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/mwaldner/deployctl/internal/config"
	"github.com/mwaldner/deployctl/internal/deps"
	"github.com/mwaldner/deployctl/internal/exit"
	"github.com/mwaldner/deployctl/internal/git"
	"github.com/mwaldner/deployctl/internal/service"
)

// State names the engine's position in the refresh sequence.
type State int

const (
	Idle State = iota
	ServiceStopped
	Stashed
	Fetched
	BranchResolved
	Reset
	Synced
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ServiceStopped:
		return "service-stopped"
	case Stashed:
		return "stashed"
	case Fetched:
		return "fetched"
	case BranchResolved:
		return "branch-resolved"
	case Reset:
		return "reset"
	case Synced:
		return "synced"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// StopGracePeriod is how long the engine waits after requesting a
// service stop before verifying the unit actually went down.
const StopGracePeriod = 2 * time.Second

// remote is the only remote the refresh workflow talks to.
const remote = "origin"

// Engine executes one refresh run. It assumes the guard chain has
// already passed; it performs the destructive steps without further
// questions.
type Engine struct {
	cfg    *config.RefreshConfig
	git    git.Client
	svc    service.Controller
	syncer deps.Syncer

	state State
	runID string

	now   func() time.Time
	sleep func(time.Duration)
	logf  func(format string, args ...interface{})
}

// Option configures engine behavior.
type Option func(*Engine)

// WithClock replaces the wall clock (used by the stash message).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithSleep replaces the grace-period sleep.
func WithSleep(sleep func(time.Duration)) Option {
	return func(e *Engine) {
		e.sleep = sleep
	}
}

// WithLogf replaces the progress logger.
func WithLogf(logf func(format string, args ...interface{})) Option {
	return func(e *Engine) {
		e.logf = logf
	}
}

// New creates an Engine for one run.
func New(cfg *config.RefreshConfig, gitClient git.Client, controller service.Controller, syncer deps.Syncer, options ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		git:    gitClient,
		svc:    controller,
		syncer: syncer,
		state:  Idle,
		now:    time.Now,
		sleep:  time.Sleep,
		logf: func(format string, args ...interface{}) {
			fmt.Printf(format+"\n", args...)
		},
	}

	for _, option := range options {
		option(e)
	}

	return e
}

// State returns the engine's current state.
func (e *Engine) State() State {
	return e.state
}

// RunID returns the identifier assigned to this run, once started.
func (e *Engine) RunID() string {
	return e.runID
}

// Run executes the state machine to completion. Any error leaves the
// engine in Failed; completed steps are not rolled back.
func (e *Engine) Run() error {
	if err := e.run(); err != nil {
		e.state = Failed
		return err
	}
	e.state = Done
	e.logf("🎉 refresh %s complete: HEAD at %s/%s", e.runID, remote, e.cfg.Branch)
	return nil
}

func (e *Engine) run() error {
	runID, err := gonanoid.New(8)
	if err != nil {
		return fmt.Errorf("failed to generate run id: %w", err)
	}
	e.runID = runID

	if err := e.stopService(); err != nil {
		return err
	}
	e.state = ServiceStopped

	e.stashTrackedChanges()
	e.state = Stashed

	if err := e.fetch(); err != nil {
		return err
	}
	e.state = Fetched

	if err := e.resolveBranch(); err != nil {
		return err
	}
	e.state = BranchResolved

	if err := e.reset(); err != nil {
		return err
	}
	e.state = Reset

	if err := e.sync(); err != nil {
		return err
	}
	e.state = Synced

	return nil
}

// stopService stops the configured unit and verifies it went down.
// Refreshing against a live process is never allowed.
func (e *Engine) stopService() error {
	if e.cfg.Service == "" {
		return nil
	}

	e.logf("Stopping service %s...", e.cfg.Service)
	if err := e.svc.Stop(e.cfg.Service); err != nil {
		return fmt.Errorf("failed to stop service %s: %w", e.cfg.Service, err)
	}

	e.sleep(StopGracePeriod)

	active, err := e.svc.IsActive(e.cfg.Service)
	if err != nil {
		return fmt.Errorf("failed to verify service %s stopped: %w", e.cfg.Service, err)
	}
	if active {
		return fmt.Errorf("service %s is still active after stop request", e.cfg.Service)
	}

	e.logf("✓ Service %s stopped", e.cfg.Service)
	return nil
}

// stashTrackedChanges saves uncommitted tracked changes out of the way.
// Failures are warnings: the decision to refresh was already confirmed,
// and the hard reset discards local changes anyway.
func (e *Engine) stashTrackedChanges() {
	if !e.cfg.StashBeforeRefresh {
		return
	}

	dirty, err := e.git.HasTrackedChanges()
	if err != nil {
		e.logf("⚠️  Warning: failed to check for local changes: %v", err)
		return
	}
	if !dirty {
		return
	}

	message := fmt.Sprintf("deployctl refresh %s %s", e.runID, e.now().UTC().Format(time.RFC3339))
	if err := e.git.Stash(message); err != nil {
		e.logf("⚠️  Warning: failed to stash local changes: %v", err)
		return
	}

	e.logf("✓ Stashed local changes: %s", message)
}

// fetch updates the target branch from origin, falling back to a full
// fetch when the targeted one fails.
func (e *Engine) fetch() error {
	if err := e.git.Fetch(remote, e.cfg.Branch); err != nil {
		e.logf("⚠️  Targeted fetch failed (%v), falling back to full fetch", err)
		if err := e.git.FetchAll(remote); err != nil {
			return fmt.Errorf("failed to fetch from %s: %w", remote, err)
		}
	}

	e.logf("✓ Fetched %s", e.cfg.Branch)
	return nil
}

// resolveBranch moves the checkout onto the target branch, creating a
// tracking branch from origin when no local one exists.
func (e *Engine) resolveBranch() error {
	branch := e.cfg.Branch

	current, err := e.git.CurrentBranch()
	if err != nil {
		return fmt.Errorf("failed to determine current branch: %w", err)
	}
	if current == branch {
		return nil
	}

	localExists, err := e.git.LocalBranchExists(branch)
	if err != nil {
		return fmt.Errorf("failed to look up local branch %s: %w", branch, err)
	}
	if localExists {
		if err := e.git.Checkout(branch); err != nil {
			return err
		}
		e.logf("✓ Switched to branch %s", branch)
		return nil
	}

	remoteExists, err := e.git.RemoteBranchExists(remote, branch)
	if err != nil {
		return fmt.Errorf("failed to look up remote branch %s/%s: %w", remote, branch, err)
	}
	if remoteExists {
		if err := e.git.CheckoutTracking(remote, branch); err != nil {
			return err
		}
		e.logf("✓ Created branch %s tracking %s/%s", branch, remote, branch)
		return nil
	}

	return exit.Errorf(exit.BranchNotFound, "branch %s exists neither locally nor on %s", branch, remote)
}

// reset hard-resets the checkout to the remote tip. Destructive by
// design: discarding local divergence is the refresh's entire purpose.
func (e *Engine) reset() error {
	ref := remote + "/" + e.cfg.Branch
	if err := e.git.HardReset(ref); err != nil {
		return err
	}
	e.logf("✓ Reset to %s", ref)
	return nil
}

// sync resyncs dependencies. Failure is fatal but the completed reset
// is not rolled back: the repository state is already correct, only
// the dependency installation needs operator attention.
func (e *Engine) sync() error {
	e.logf("Syncing dependencies...")
	if err := e.syncer.Sync(); err != nil {
		return fmt.Errorf("dependency sync failed: %w", err)
	}
	e.logf("✓ Dependencies synced")
	return nil
}
