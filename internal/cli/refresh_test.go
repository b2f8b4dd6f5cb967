package cli

import (
	"testing"

	"github.com/mwaldner/deployctl/internal/deps"
	"github.com/mwaldner/deployctl/internal/exit"
	"github.com/mwaldner/deployctl/internal/filesystem"
	"github.com/mwaldner/deployctl/internal/git"
	"github.com/mwaldner/deployctl/internal/service"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `name="app"
version="1.0.0"
service_name="app.service"
`

type cliFixture struct {
	fs     *filesystem.MockFileSystem
	git    *git.MockClient
	svc    *service.MockController
	syncer *deps.MockSyncer
	root   *cobra.Command
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()

	f := &cliFixture{
		fs:     filesystem.NewMockFileSystem(),
		git:    git.NewMockClient(),
		svc:    service.NewMockController(),
		syncer: deps.NewMockSyncer(),
	}
	f.fs.AddFile("/srv/app/deploy.conf", []byte(testManifest))
	f.svc.SetActive("app.service", true)
	f.root = NewRootCommand(f.fs, f.git, f.svc, f.syncer)
	return f
}

func (f *cliFixture) execute(args ...string) error {
	f.root.SetArgs(args)
	return f.root.Execute()
}

func TestRefresh_HappyPath(t *testing.T) {
	f := newCLIFixture(t)

	err := f.execute("refresh", "--manifest", "/srv/app/deploy.conf", "--branch", "main", "--yes")
	require.NoError(t, err)

	assert.Equal(t, []string{"app.service"}, f.svc.Stopped, "service stop must be attempted")
	assert.Empty(t, f.git.Stashes, "clean tree: no stash")
	assert.Equal(t, []string{"origin/main"}, f.git.Fetches)
	assert.Equal(t, []string{"origin/main"}, f.git.ResetRefs)
	assert.Equal(t, 1, f.syncer.Calls)
}

func TestRefresh_BlockedByDefaultMarker(t *testing.T) {
	f := newCLIFixture(t)
	f.fs.AddFile("/srv/app/.dev_workspace", nil)

	err := f.execute("refresh", "--manifest", "/srv/app/deploy.conf", "--yes")
	require.Error(t, err)
	assert.Equal(t, exit.BlockedByMarker, exit.CodeOf(err))

	assert.Empty(t, f.git.Fetches, "no git mutation on block")
	assert.Empty(t, f.git.ResetRefs)
	assert.Empty(t, f.svc.Stopped)
}

func TestRefresh_BlockedMarkerOverridden(t *testing.T) {
	f := newCLIFixture(t)
	f.fs.AddFile("/srv/app/.dev_workspace", nil)

	err := f.execute("refresh", "--manifest", "/srv/app/deploy.conf", "--allow-dev-refresh", "--yes")
	require.NoError(t, err)
	assert.Equal(t, []string{"origin/main"}, f.git.ResetRefs)
}

func TestRefresh_MissingRequiredMarker(t *testing.T) {
	f := newCLIFixture(t)

	err := f.execute("refresh", "--manifest", "/srv/app/deploy.conf",
		"--require-markers", ".deployment", "--yes")
	require.Error(t, err)
	assert.Equal(t, exit.MissingRequiredMarker, exit.CodeOf(err))
	assert.Empty(t, f.git.ResetRefs)
}

func TestRefresh_RequiredMarkerPresent(t *testing.T) {
	f := newCLIFixture(t)
	f.fs.AddFile("/srv/app/.deployment", nil)

	err := f.execute("refresh", "--manifest", "/srv/app/deploy.conf",
		"--require-markers", ".deployment", "--yes")
	require.NoError(t, err)
}

func TestRefresh_RemoteHostMismatch(t *testing.T) {
	f := newCLIFixture(t)

	err := f.execute("refresh", "--manifest", "/srv/app/deploy.conf",
		"--require-remote-host", "git.internal.example", "--yes")
	require.Error(t, err)
	assert.Equal(t, exit.RemoteHostMismatch, exit.CodeOf(err))
}

func TestRefresh_UnknownBranch(t *testing.T) {
	f := newCLIFixture(t)

	err := f.execute("refresh", "--manifest", "/srv/app/deploy.conf", "--branch", "ghost", "--yes")
	require.Error(t, err)
	assert.Equal(t, exit.BranchNotFound, exit.CodeOf(err))
	assert.Empty(t, f.git.ResetRefs)
}

func TestRefresh_UnknownFlag(t *testing.T) {
	f := newCLIFixture(t)

	err := f.execute("refresh", "--no-such-flag")
	require.Error(t, err)
	assert.Equal(t, exit.Usage, exit.CodeOf(err))
}

func TestRefresh_InvalidStashFlagValue(t *testing.T) {
	f := newCLIFixture(t)

	err := f.execute("refresh", "--manifest", "/srv/app/deploy.conf",
		"--stash-before-refresh", "maybe", "--yes")
	require.Error(t, err)
	assert.Equal(t, exit.Usage, exit.CodeOf(err))
}

func TestRefresh_StashFlagDisables(t *testing.T) {
	f := newCLIFixture(t)
	f.git.TrackedChanges = true

	err := f.execute("refresh", "--manifest", "/srv/app/deploy.conf",
		"--stash-before-refresh", "0", "--yes")
	require.NoError(t, err)
	assert.Empty(t, f.git.Stashes)
}

func TestRefresh_MissingManifest(t *testing.T) {
	f := newCLIFixture(t)

	err := f.execute("refresh", "--manifest", "/srv/app/missing.conf", "--yes")
	require.Error(t, err)
	assert.Equal(t, exit.Failure, exit.CodeOf(err))
	assert.Empty(t, f.svc.Stopped, "config errors abort before any mutation")
}

func TestRefresh_ServiceFromManifest(t *testing.T) {
	f := newCLIFixture(t)

	err := f.execute("refresh", "--manifest", "/srv/app/deploy.conf", "--yes")
	require.NoError(t, err)
	assert.Equal(t, []string{"app.service"}, f.svc.Stopped)
}

func TestRefresh_ServiceFlagOverridesManifest(t *testing.T) {
	f := newCLIFixture(t)
	f.svc.SetActive("other.service", true)

	err := f.execute("refresh", "--manifest", "/srv/app/deploy.conf",
		"--service", "other.service", "--yes")
	require.NoError(t, err)
	assert.Equal(t, []string{"other.service"}, f.svc.Stopped)
}

func TestRefresh_EnvironmentBranch(t *testing.T) {
	t.Setenv("BRANCH", "release")

	f := newCLIFixture(t)
	f.git.RemoteBranches["origin/release"] = true

	err := f.execute("refresh", "--manifest", "/srv/app/deploy.conf", "--yes")
	require.NoError(t, err)
	assert.Equal(t, []string{"origin/release"}, f.git.ResetRefs)
}

func TestRefresh_DeclinedConfirmationExitsCleanly(t *testing.T) {
	f := newCLIFixture(t)

	// Rebuild the refresh command with a declining confirm.
	cmd := &RefreshCommand{
		fs:      f.fs,
		git:     f.git,
		svc:     f.svc,
		syncer:  f.syncer,
		confirm: func(string) (bool, error) { return false, nil },
	}
	cobraCmd := NewRefreshCommand(f.fs, f.git, f.svc, f.syncer)
	cobraCmd.RunE = cmd.Run
	cobraCmd.Flags().String("manifest", "/srv/app/deploy.conf", "")
	cobraCmd.SetArgs([]string{})

	err := cobraCmd.Execute()
	require.NoError(t, err, "a deliberate abort is not an error")
	assert.Empty(t, f.svc.Stopped)
	assert.Empty(t, f.git.ResetRefs)
}
