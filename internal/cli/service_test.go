package cli

import (
	"bytes"
	"testing"

	"github.com/mwaldner/deployctl/internal/exit"
	"github.com/mwaldner/deployctl/internal/filesystem"
	"github.com/mwaldner/deployctl/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeService(t *testing.T, svc service.Controller, args ...string) (string, error) {
	t.Helper()

	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/srv/app/deploy.conf", []byte(testManifest))

	cmd := NewServiceCommand(fs, svc)
	cmd.Flags().String("manifest", "/srv/app/deploy.conf", "")

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestService_StartStopRestart(t *testing.T) {
	svc := service.NewMockController()

	_, err := executeService(t, svc, "start")
	require.NoError(t, err)
	assert.Equal(t, []string{"app.service"}, svc.Started)

	_, err = executeService(t, svc, "stop")
	require.NoError(t, err)
	assert.Equal(t, []string{"app.service"}, svc.Stopped)

	_, err = executeService(t, svc, "restart")
	require.NoError(t, err)
	assert.Equal(t, []string{"app.service"}, svc.Restarted)
}

func TestService_Status(t *testing.T) {
	svc := service.NewMockController()
	svc.SetActive("app.service", true)

	out, err := executeService(t, svc, "status")
	require.NoError(t, err)
	assert.Equal(t, "app.service: active\n", out)
}

func TestService_NameFlagOverridesManifest(t *testing.T) {
	svc := service.NewMockController()

	_, err := executeService(t, svc, "start", "--name", "other.service")
	require.NoError(t, err)
	assert.Equal(t, []string{"other.service"}, svc.Started)
}

func TestService_UnknownAction(t *testing.T) {
	_, err := executeService(t, service.NewMockController(), "reload")
	require.Error(t, err)
	assert.Equal(t, exit.Usage, exit.CodeOf(err))
}
