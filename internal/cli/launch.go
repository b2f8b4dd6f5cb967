package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/mwaldner/deployctl/internal/exit"
	"github.com/mwaldner/deployctl/internal/filesystem"
	"github.com/mwaldner/deployctl/internal/manifest"
	"github.com/spf13/cobra"
)

// LaunchCommand handles the launch command
type LaunchCommand struct {
	fs filesystem.FileSystem
}

// NewLaunchCommand creates a new launch command
func NewLaunchCommand(fs filesystem.FileSystem) *cobra.Command {
	cmd := &LaunchCommand{
		fs: fs,
	}

	cobraCmd := &cobra.Command{
		Use:   "launch",
		Short: "Run the application in the foreground",
		Long: `Runs the application's launch_path executable in the foreground,
forwarding termination signals to it. An intentional stop (SIGINT or
SIGTERM) exits 0 so a surrounding process supervisor does not treat it
as a crash.`,
		Args: cobra.NoArgs,
		RunE: cmd.Run,
	}

	return cobraCmd
}

// Run executes the launch command
func (c *LaunchCommand) Run(cmd *cobra.Command, args []string) error {
	m, err := manifest.Read(c.fs, manifestPath(cmd))
	if err != nil {
		return err
	}
	if m.LaunchPath == "" {
		return fmt.Errorf("manifest does not set launch_path")
	}

	child := exec.Command(m.LaunchPath)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)

	if err := child.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", m.LaunchPath, err)
	}

	var stopRequested atomic.Bool
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case sig := <-sigc:
				stopRequested.Store(true)
				_ = child.Process.Signal(sig)
			case <-done:
				return
			}
		}
	}()

	waitErr := child.Wait()
	if waitErr == nil {
		return nil
	}

	if stopRequested.Load() {
		// An intentional stop is a clean shutdown, not a crash.
		fmt.Printf("%s stopped on request\n", m.Name)
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return exit.Errorf(exitErr.ExitCode(), "%s exited with status %d", m.Name, exitErr.ExitCode())
	}
	return waitErr
}
