// Package manifest reads the deployed application's metadata file.
//
// The manifest is a flat key="value" file kept at the checkout root.
// Only the first match per key is used; anything that is not a quoted
// assignment (comments, blank lines, unrelated settings) is ignored.
package manifest

import (
	"fmt"
	"regexp"

	"github.com/mwaldner/deployctl/internal/filesystem"
)

// DefaultFile is the manifest filename looked up in the current
// directory when no explicit path is given.
const DefaultFile = "deploy.conf"

// Manifest is the read-only project metadata record.
type Manifest struct {
	// Name is the application identifier.
	Name string

	// Version is the deployed application version.
	Version string

	// ServiceName is the systemd unit running the application, if any.
	ServiceName string

	// LaunchPath is the application entry point for the launcher, if any.
	LaunchPath string
}

var (
	namePattern    = keyPattern("name")
	versionPattern = keyPattern("version")
	servicePattern = keyPattern("service_name")
	launchPattern  = keyPattern("launch_path")
)

func keyPattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^\s*` + regexp.QuoteMeta(key) + `\s*=\s*"([^"]*)"`)
}

// Read loads and validates the manifest at path. Name and version are
// mandatory; service_name and launch_path default to unset.
func Read(fs filesystem.FileSystem, path string) (*Manifest, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest not found at %s: %w", path, err)
	}

	m := &Manifest{
		Name:        extract(data, namePattern),
		Version:     extract(data, versionPattern),
		ServiceName: extract(data, servicePattern),
		LaunchPath:  extract(data, launchPattern),
	}

	if m.Name == "" {
		return nil, fmt.Errorf("manifest %s: required field %q is missing or empty", path, "name")
	}
	if m.Version == "" {
		return nil, fmt.Errorf("manifest %s: required field %q is missing or empty", path, "version")
	}

	return m, nil
}

func extract(data []byte, re *regexp.Regexp) string {
	match := re.FindSubmatch(data)
	if match == nil {
		return ""
	}
	return string(match[1])
}
