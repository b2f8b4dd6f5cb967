package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mwaldner/deployctl/internal/config"
	"github.com/mwaldner/deployctl/internal/deps"
	"github.com/mwaldner/deployctl/internal/exit"
	"github.com/mwaldner/deployctl/internal/filesystem"
	"github.com/mwaldner/deployctl/internal/git"
	"github.com/mwaldner/deployctl/internal/guard"
	"github.com/mwaldner/deployctl/internal/manifest"
	"github.com/mwaldner/deployctl/internal/refresh"
	"github.com/mwaldner/deployctl/internal/service"
	"github.com/spf13/cobra"
)

// RefreshCommand handles the refresh command
type RefreshCommand struct {
	fs     filesystem.FileSystem
	git    git.Client
	svc    service.Controller
	syncer deps.Syncer

	// confirm is injectable for tests; the default prompts on the
	// terminal.
	confirm func(title string) (bool, error)
}

// NewRefreshCommand creates a new refresh command
func NewRefreshCommand(fs filesystem.FileSystem, gitClient git.Client, controller service.Controller, syncer deps.Syncer) *cobra.Command {
	cmd := &RefreshCommand{
		fs:      fs,
		git:     gitClient,
		svc:     controller,
		syncer:  syncer,
		confirm: confirmPrompt,
	}

	cobraCmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the deployed checkout from origin",
		Long: `Stops the application's service, hard-resets the checkout to the
remote tip of the configured branch, and resyncs dependencies.

Local commits and tracked-file changes are discarded. A layered set of
safety checks blocks refreshes of development working copies; each
overridable check yields to --allow-dev-refresh.`,
		Args: cobra.NoArgs,
		RunE: cmd.Run,
	}

	flags := cobraCmd.Flags()
	flags.String("branch", "", "Target branch (default: BRANCH env or \"main\")")
	flags.Bool("allow-dev-refresh", false, "Override the development-workspace guards")
	flags.String("block-markers", "", "Colon-separated marker files that block the refresh")
	flags.String("require-markers", "", "Colon-separated marker files, at least one must exist")
	flags.String("block-path-patterns", "", "Colon-separated path substrings that block the refresh")
	flags.String("require-remote-host", "", "Required substring of the origin remote URL")
	flags.String("stash-before-refresh", "", "Stash tracked changes before the reset (0 or 1)")
	flags.String("service", "", "Service unit to stop (default: manifest service_name)")
	flags.BoolP("yes", "y", false, "Skip the confirmation prompt")

	return cobraCmd
}

// Run executes the refresh command
func (c *RefreshCommand) Run(cmd *cobra.Command, args []string) error {
	m, err := manifest.Read(c.fs, manifestPath(cmd))
	if err != nil {
		return err
	}

	flags, err := refreshFlags(cmd)
	if err != nil {
		return err
	}

	cfg := config.Resolve(os.Getenv, config.Defaults{Service: m.ServiceName}, flags)

	state := guard.ReadRepoState(c.git)
	in := &guard.Input{Config: cfg, Repo: state, FS: c.fs}
	if err := guard.Evaluate(in, func(format string, args ...interface{}) {
		fmt.Printf(format+"\n", args...)
	}); err != nil {
		return err
	}

	if !cfg.NonInteractive {
		fmt.Println(renderRefreshSummary(m, cfg))
		confirmed, err := c.confirm("Hard-reset this checkout and resync dependencies?")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	engine := refresh.New(cfg, c.git, c.svc, c.syncer)
	return engine.Run()
}

// refreshFlags collects the explicitly passed flags. Unset flags stay
// nil so the environment and defaults resolve underneath them.
func refreshFlags(cmd *cobra.Command) (config.Flags, error) {
	flags := config.Flags{
		Branch:            stringFlag(cmd, "branch"),
		BlockMarkers:      stringFlag(cmd, "block-markers"),
		RequireMarkers:    stringFlag(cmd, "require-markers"),
		BlockPathPatterns: stringFlag(cmd, "block-path-patterns"),
		RequireRemoteHost: stringFlag(cmd, "require-remote-host"),
		Service:           stringFlag(cmd, "service"),
	}

	if cmd.Flags().Changed("allow-dev-refresh") {
		value, _ := cmd.Flags().GetBool("allow-dev-refresh")
		flags.AllowDevRefresh = &value
	}

	if raw := stringFlag(cmd, "stash-before-refresh"); raw != nil {
		value, err := strconv.ParseBool(*raw)
		if err != nil {
			return flags, exit.Errorf(exit.Usage, "invalid --stash-before-refresh value %q (want 0 or 1)", *raw)
		}
		flags.StashBeforeRefresh = &value
	}

	flags.NonInteractive, _ = cmd.Flags().GetBool("yes")

	return flags, nil
}

func stringFlag(cmd *cobra.Command, name string) *string {
	flag := cmd.Flags().Lookup(name)
	if flag == nil || !flag.Changed {
		return nil
	}
	value := flag.Value.String()
	return &value
}
