package cli

import (
	"bytes"
	"testing"

	"github.com/mwaldner/deployctl/internal/filesystem"
	"github.com/mwaldner/deployctl/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeVersion(t *testing.T, fs *filesystem.MockFileSystem, svc service.Controller) (string, error) {
	t.Helper()

	cmd := NewVersionCommand(fs, svc)
	cmd.Flags().String("manifest", "/srv/app/deploy.conf", "")

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	return out.String(), err
}

func TestVersion_WithService(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/srv/app/deploy.conf", []byte(testManifest))

	svc := service.NewMockController()
	svc.SetActive("app.service", true)

	out, err := executeVersion(t, fs, svc)
	require.NoError(t, err)

	assert.Contains(t, out, "app 1.0.0")
	assert.Contains(t, out, "service: app.service (active)")
}

func TestVersion_InactiveService(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/srv/app/deploy.conf", []byte(testManifest))

	out, err := executeVersion(t, fs, service.NewMockController())
	require.NoError(t, err)

	assert.Contains(t, out, "service: app.service (inactive)")
}

func TestVersion_NoServiceConfigured(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/srv/app/deploy.conf", []byte("name=\"app\"\nversion=\"1.0.0\"\n"))

	out, err := executeVersion(t, fs, service.NewMockController())
	require.NoError(t, err)

	assert.Equal(t, "app 1.0.0\n", out)
}

func TestVersion_MissingManifest(t *testing.T) {
	fs := filesystem.NewMockFileSystem()

	_, err := executeVersion(t, fs, service.NewMockController())
	require.Error(t, err)
}
