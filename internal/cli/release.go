package cli

import (
	"fmt"

	"github.com/mwaldner/deployctl/internal/filesystem"
	"github.com/mwaldner/deployctl/internal/git"
	"github.com/mwaldner/deployctl/internal/manifest"
	"github.com/mwaldner/deployctl/internal/release"
	"github.com/spf13/cobra"
)

// ReleaseCommand handles the release command
type ReleaseCommand struct {
	fs  filesystem.FileSystem
	git git.Client

	confirm func(title string) (bool, error)
}

// NewReleaseCommand creates a new release command
func NewReleaseCommand(fs filesystem.FileSystem, gitClient git.Client) *cobra.Command {
	cmd := &ReleaseCommand{
		fs:      fs,
		git:     gitClient,
		confirm: confirmPrompt,
	}

	cobraCmd := &cobra.Command{
		Use:   "release",
		Short: "Run the release pipeline and tag the version",
		Long: `Runs the verification steps declared in release.yaml, then creates
and pushes the annotated tag v<version> from the manifest.`,
		Args: cobra.NoArgs,
		RunE: cmd.Run,
	}

	flags := cobraCmd.Flags()
	flags.Bool("skip-tests", false, "Skip steps of kind \"tests\"")
	flags.Bool("skip-docs", false, "Skip steps of kind \"docs\"")
	flags.BoolP("yes", "y", false, "Skip the confirmation prompt")

	return cobraCmd
}

// Run executes the release command
func (c *ReleaseCommand) Run(cmd *cobra.Command, args []string) error {
	m, err := manifest.Read(c.fs, manifestPath(cmd))
	if err != nil {
		return err
	}

	cfg, err := release.Load(c.fs, release.DefaultFile)
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		confirmed, err := c.confirm(fmt.Sprintf("Release %s v%s?", m.Name, m.Version))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	pipeline := release.New(c.git)
	pipeline.SkipTests, _ = cmd.Flags().GetBool("skip-tests")
	pipeline.SkipDocs, _ = cmd.Flags().GetBool("skip-docs")

	return pipeline.Run(cfg, m.Version)
}
