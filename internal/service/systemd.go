package service

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// SystemdController implements Controller using systemctl
type SystemdController struct {
	ctx context.Context
}

// NewSystemdController creates a new SystemdController
func NewSystemdController() *SystemdController {
	return &SystemdController{
		ctx: context.Background(),
	}
}

// WithContext returns a new controller with the given context
func (s *SystemdController) WithContext(ctx context.Context) *SystemdController {
	return &SystemdController{ctx: ctx}
}

// Stop stops the named unit
func (s *SystemdController) Stop(name string) error {
	return s.run("stop", name)
}

// Start starts the named unit
func (s *SystemdController) Start(name string) error {
	return s.run("start", name)
}

// Restart restarts the named unit
func (s *SystemdController) Restart(name string) error {
	return s.run("restart", name)
}

// IsActive reports whether the named unit is currently active.
// systemctl signals "inactive" through its exit status, not an error.
func (s *SystemdController) IsActive(name string) (bool, error) {
	cmd := exec.CommandContext(s.ctx, "systemctl", "is-active", "--quiet", name)

	err := cmd.Run()
	if err == nil {
		return true, nil
	}
	if _, ok := err.(*exec.ExitError); ok {
		return false, nil
	}
	return false, fmt.Errorf("failed to query unit %s: %w", name, err)
}

func (s *SystemdController) run(action, name string) error {
	cmd := exec.CommandContext(s.ctx, "systemctl", action, name)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to %s unit %s: %w: %s", action, name, err, stderr.String())
	}

	return nil
}
