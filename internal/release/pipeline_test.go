package release

import (
	"errors"
	"strings"
	"testing"

	"github.com/mwaldner/deployctl/internal/filesystem"
	"github.com/mwaldner/deployctl/internal/git"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pipelineYAML = `steps:
  - name: unit tests
    kind: tests
    command: ["pytest", "-q"]
  - name: build docs
    kind: docs
    command: ["mkdocs", "build", "--strict"]
  - name: lint
    command: ["ruff", "check", "."]
`

func loadTestConfig(t *testing.T) *Config {
	t.Helper()
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/srv/app/release.yaml", []byte(pipelineYAML))

	cfg, err := Load(fs, "/srv/app/release.yaml")
	require.NoError(t, err)
	return cfg
}

type recordingRunner struct {
	commands []string
	failOn   string
}

func (r *recordingRunner) run(name string, args ...string) error {
	command := strings.Join(append([]string{name}, args...), " ")
	r.commands = append(r.commands, command)
	if r.failOn != "" && strings.HasPrefix(command, r.failOn) {
		return errors.New("command failed")
	}
	return nil
}

func TestLoad(t *testing.T) {
	cfg := loadTestConfig(t)

	require.Len(t, cfg.Steps, 3)
	assert.Equal(t, "unit tests", cfg.Steps[0].Name)
	assert.Equal(t, KindTests, cfg.Steps[0].Kind)
	assert.Equal(t, []string{"pytest", "-q"}, cfg.Steps[0].Command)
	assert.Empty(t, cfg.Steps[2].Kind)
}

func TestLoad_MissingFile(t *testing.T) {
	fs := filesystem.NewMockFileSystem()

	_, err := Load(fs, "/srv/app/release.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "release pipeline not found")
}

func TestLoad_StepWithoutCommand(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/srv/app/release.yaml", []byte("steps:\n  - name: broken\n"))

	_, err := Load(fs, "/srv/app/release.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no command")
}

func TestRun_AllStepsThenTag(t *testing.T) {
	runner := &recordingRunner{}
	client := git.NewMockClient()
	pipeline := New(client, WithRunner(runner.run), WithLogf(func(string, ...interface{}) {}))

	require.NoError(t, pipeline.Run(loadTestConfig(t), "1.4.0"))

	assert.Equal(t, []string{
		"pytest -q",
		"mkdocs build --strict",
		"ruff check .",
	}, runner.commands)
	assert.Contains(t, client.CreatedTags, "v1.4.0")
	assert.Equal(t, []string{"origin/v1.4.0"}, client.PushedTags)
}

func TestRun_FailingStepStopsBeforeTag(t *testing.T) {
	runner := &recordingRunner{failOn: "mkdocs"}
	client := git.NewMockClient()
	pipeline := New(client, WithRunner(runner.run), WithLogf(func(string, ...interface{}) {}))

	err := pipeline.Run(loadTestConfig(t), "1.4.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build docs")

	assert.Equal(t, []string{"pytest -q", "mkdocs build --strict"}, runner.commands,
		"later steps must not run")
	assert.Empty(t, client.CreatedTags)
	assert.Empty(t, client.PushedTags)
}

func TestRun_SkipFlags(t *testing.T) {
	runner := &recordingRunner{}
	client := git.NewMockClient()
	pipeline := New(client, WithRunner(runner.run), WithLogf(func(string, ...interface{}) {}))
	pipeline.SkipTests = true
	pipeline.SkipDocs = true

	require.NoError(t, pipeline.Run(loadTestConfig(t), "1.4.0"))

	assert.Equal(t, []string{"ruff check ."}, runner.commands)
	assert.Contains(t, client.CreatedTags, "v1.4.0")
}

func TestRun_TagPushFailure(t *testing.T) {
	runner := &recordingRunner{}
	client := git.NewMockClient()
	client.PushTagError = errors.New("remote rejected")
	pipeline := New(client, WithRunner(runner.run), WithLogf(func(string, ...interface{}) {}))

	err := pipeline.Run(loadTestConfig(t), "1.4.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote rejected")
}
