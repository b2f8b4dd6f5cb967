package cli

import (
	"fmt"
	"os"

	"github.com/mwaldner/deployctl/internal/deps"
	"github.com/mwaldner/deployctl/internal/exit"
	"github.com/mwaldner/deployctl/internal/filesystem"
	"github.com/mwaldner/deployctl/internal/git"
	"github.com/mwaldner/deployctl/internal/manifest"
	"github.com/mwaldner/deployctl/internal/service"
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command
func NewRootCommand(fs filesystem.FileSystem, gitClient git.Client, controller service.Controller, syncer deps.Syncer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "deployctl",
		Short: "Operate a deployed application",
		Long: `deployctl operates a single deployed application from its checkout:
show its version, refresh its code from the origin repository, control
its service unit, launch it in the foreground, and cut releases.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("manifest", manifest.DefaultFile, "Path to the project manifest")

	// Unknown or malformed flags are a usage error, distinct from
	// operational failures.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return exit.Errorf(exit.Usage, "%s", err)
	})

	// Add subcommands
	rootCmd.AddCommand(NewVersionCommand(fs, controller))
	rootCmd.AddCommand(NewRefreshCommand(fs, gitClient, controller, syncer))
	rootCmd.AddCommand(NewServiceCommand(fs, controller))
	rootCmd.AddCommand(NewLaunchCommand(fs))
	rootCmd.AddCommand(NewReleaseCommand(fs, gitClient))

	return rootCmd
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	fs := filesystem.NewOSFileSystem()
	gitClient := git.NewOSClient()
	controller := service.NewSystemdController()
	syncer := deps.NewUVSyncer()

	rootCmd := NewRootCommand(fs, gitClient, controller, syncer)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "deployctl: %v\n", err)
		return exit.CodeOf(err)
	}

	return exit.OK
}

// manifestPath resolves the --manifest flag, local or inherited.
func manifestPath(cmd *cobra.Command) string {
	if flag := cmd.Flag("manifest"); flag != nil {
		return flag.Value.String()
	}
	return manifest.DefaultFile
}
