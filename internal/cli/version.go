package cli

import (
	"fmt"

	"github.com/mwaldner/deployctl/internal/filesystem"
	"github.com/mwaldner/deployctl/internal/manifest"
	"github.com/mwaldner/deployctl/internal/service"
	"github.com/spf13/cobra"
)

// VersionCommand handles the version command
type VersionCommand struct {
	fs  filesystem.FileSystem
	svc service.Controller
}

// NewVersionCommand creates a new version command
func NewVersionCommand(fs filesystem.FileSystem, controller service.Controller) *cobra.Command {
	cmd := &VersionCommand{
		fs:  fs,
		svc: controller,
	}

	cobraCmd := &cobra.Command{
		Use:   "version",
		Short: "Show the deployed application's name, version, and service state",
		Args:  cobra.NoArgs,
		RunE:  cmd.Run,
	}

	return cobraCmd
}

// Run executes the version command
func (c *VersionCommand) Run(cmd *cobra.Command, args []string) error {
	m, err := manifest.Read(c.fs, manifestPath(cmd))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", m.Name, m.Version)

	if m.ServiceName != "" {
		active, err := c.svc.IsActive(m.ServiceName)
		if err != nil {
			return fmt.Errorf("failed to query service %s: %w", m.ServiceName, err)
		}
		state := "inactive"
		if active {
			state = "active"
		}
		fmt.Fprintf(out, "service: %s (%s)\n", m.ServiceName, state)
	}

	return nil
}
