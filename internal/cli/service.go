package cli

import (
	"fmt"

	"github.com/mwaldner/deployctl/internal/exit"
	"github.com/mwaldner/deployctl/internal/filesystem"
	"github.com/mwaldner/deployctl/internal/manifest"
	"github.com/mwaldner/deployctl/internal/service"
	"github.com/spf13/cobra"
)

// ServiceCommand handles the service command
type ServiceCommand struct {
	fs  filesystem.FileSystem
	svc service.Controller
}

// NewServiceCommand creates a new service command
func NewServiceCommand(fs filesystem.FileSystem, controller service.Controller) *cobra.Command {
	cmd := &ServiceCommand{
		fs:  fs,
		svc: controller,
	}

	cobraCmd := &cobra.Command{
		Use:   "service <start|stop|restart|status>",
		Short: "Control the application's service unit",
		Args:  cobra.ExactArgs(1),
		RunE:  cmd.Run,
	}

	cobraCmd.Flags().String("name", "", "Service unit (default: manifest service_name)")

	return cobraCmd
}

// Run executes the service command
func (c *ServiceCommand) Run(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		m, err := manifest.Read(c.fs, manifestPath(cmd))
		if err != nil {
			return err
		}
		name = m.ServiceName
	}
	if name == "" {
		return fmt.Errorf("no service configured: set service_name in the manifest or pass --name")
	}

	out := cmd.OutOrStdout()

	switch action := args[0]; action {
	case "start":
		if err := c.svc.Start(name); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Started %s\n", name)
	case "stop":
		if err := c.svc.Stop(name); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Stopped %s\n", name)
	case "restart":
		if err := c.svc.Restart(name); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Restarted %s\n", name)
	case "status":
		active, err := c.svc.IsActive(name)
		if err != nil {
			return err
		}
		state := "inactive"
		if active {
			state = "active"
		}
		fmt.Fprintf(out, "%s: %s\n", name, state)
	default:
		return exit.Errorf(exit.Usage, "unknown service action %q (want start, stop, restart, or status)", action)
	}

	return nil
}
