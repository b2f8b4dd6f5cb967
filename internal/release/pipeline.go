// Package release runs the project's release pipeline: the
// verification steps declared in release.yaml, then an annotated
// version tag pushed to origin.
package release

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/mwaldner/deployctl/internal/filesystem"
	"github.com/mwaldner/deployctl/internal/git"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the pipeline definition looked up at the checkout root.
const DefaultFile = "release.yaml"

// Step kinds that can be skipped from the command line.
const (
	KindTests = "tests"
	KindDocs  = "docs"
)

// Step is one named external command in the pipeline.
type Step struct {
	Name    string   `yaml:"name"`
	Command []string `yaml:"command"`
	Kind    string   `yaml:"kind,omitempty"`
}

// Config is the release.yaml document.
type Config struct {
	Steps []Step `yaml:"steps"`
}

// Load reads and parses the pipeline definition.
func Load(fs filesystem.FileSystem, path string) (*Config, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("release pipeline not found at %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for i, step := range cfg.Steps {
		if len(step.Command) == 0 {
			return nil, fmt.Errorf("%s: step %d (%s) has no command", path, i+1, step.Name)
		}
	}

	return &cfg, nil
}

// Pipeline executes release steps and tags the release.
type Pipeline struct {
	git git.Client

	SkipTests bool
	SkipDocs  bool

	run  func(name string, args ...string) error
	logf func(format string, args ...interface{})
}

// Option configures pipeline behavior.
type Option func(*Pipeline)

// WithRunner replaces the external-command runner.
func WithRunner(run func(name string, args ...string) error) Option {
	return func(p *Pipeline) {
		p.run = run
	}
}

// WithLogf replaces the progress logger.
func WithLogf(logf func(format string, args ...interface{})) Option {
	return func(p *Pipeline) {
		p.logf = logf
	}
}

// New creates a Pipeline.
func New(gitClient git.Client, options ...Option) *Pipeline {
	p := &Pipeline{
		git: gitClient,
		run: runCommand,
		logf: func(format string, args ...interface{}) {
			fmt.Printf(format+"\n", args...)
		},
	}

	for _, option := range options {
		option(p)
	}

	return p
}

// Run executes every step in order, stopping at the first failure,
// then creates and pushes the annotated tag v<version>. A failed step
// means no tag is created.
func (p *Pipeline) Run(cfg *Config, version string) error {
	for _, step := range cfg.Steps {
		if p.skips(step) {
			p.logf("⏭  Skipping %s", step.Name)
			continue
		}

		p.logf("Running %s...", step.Name)
		if err := p.run(step.Command[0], step.Command[1:]...); err != nil {
			return fmt.Errorf("release step %q failed: %w", step.Name, err)
		}
		p.logf("✓ %s", step.Name)
	}

	tag := "v" + version
	if err := p.git.CreateTag(tag, fmt.Sprintf("release %s", version)); err != nil {
		return err
	}
	if err := p.git.PushTag("origin", tag); err != nil {
		return err
	}

	p.logf("🎉 Released %s", tag)
	return nil
}

func (p *Pipeline) skips(step Step) bool {
	return (step.Kind == KindTests && p.SkipTests) || (step.Kind == KindDocs && p.SkipDocs)
}

func runCommand(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
