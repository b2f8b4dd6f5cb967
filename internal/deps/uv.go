package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// FallbackInstallDir is where the uv installer places the binary when
// it is not on PATH.
const FallbackInstallDir = ".local/bin"

// UVSyncer implements Syncer by running `uv sync` in the checkout
// directory. The executable is located via PATH first, then via the
// fixed per-user install location.
type UVSyncer struct {
	dir      string
	lookPath func(file string) (string, error)
	userHome func() (string, error)
}

// NewUVSyncer creates a new UVSyncer running in the process's working
// directory
func NewUVSyncer() *UVSyncer {
	return &UVSyncer{
		lookPath: exec.LookPath,
		userHome: os.UserHomeDir,
	}
}

// WithDir returns a new syncer that runs inside dir
func (u *UVSyncer) WithDir(dir string) *UVSyncer {
	return &UVSyncer{
		dir:      dir,
		lookPath: u.lookPath,
		userHome: u.userHome,
	}
}

// Sync runs `uv sync`, streaming the tool's own diagnostics through
func (u *UVSyncer) Sync() error {
	executable, err := u.locate()
	if err != nil {
		return err
	}

	cmd := exec.Command(executable, "sync")
	cmd.Dir = u.dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("uv sync failed: %w", err)
	}

	return nil
}

func (u *UVSyncer) locate() (string, error) {
	if path, err := u.lookPath("uv"); err == nil {
		return path, nil
	}

	home, err := u.userHome()
	if err != nil {
		return "", fmt.Errorf("uv not found on PATH and home directory unavailable: %w", err)
	}

	fallback := filepath.Join(home, FallbackInstallDir, "uv")
	if _, err := os.Stat(fallback); err != nil {
		return "", fmt.Errorf("uv not found on PATH or at %s", fallback)
	}

	return fallback, nil
}
