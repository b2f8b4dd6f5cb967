// Package config resolves the refresh configuration by layering
// built-in defaults, environment variables, and command-line flags.
//
// Resolution happens exactly once per invocation; the resulting record
// is never re-read from the environment mid-run.
package config

import (
	"strconv"
	"strings"
)

// Environment variable names, one per overridable setting.
const (
	EnvBranch             = "BRANCH"
	EnvAllowDevRefresh    = "ALLOW_DEV_REFRESH"
	EnvBlockMarkers       = "BLOCK_MARKERS"
	EnvRequireMarkers     = "REQUIRE_MARKERS"
	EnvBlockPathPatterns  = "BLOCK_PATH_PATTERNS"
	EnvRequireRemoteHost  = "REQUIRE_REMOTE_HOST"
	EnvStashBeforeRefresh = "STASH_BEFORE_REFRESH"
)

// Built-in defaults.
const (
	DefaultBranch       = "main"
	DefaultBlockMarkers = ".dev_workspace"
)

// ListSeparator splits list-valued settings such as BLOCK_MARKERS.
const ListSeparator = ":"

// RefreshConfig is the resolved configuration for one refresh run.
type RefreshConfig struct {
	Branch             string
	AllowDevRefresh    bool
	BlockMarkers       []string
	RequireMarkers     []string
	BlockPathPatterns  []string
	RequireRemoteHost  string
	StashBeforeRefresh bool
	Service            string
	NonInteractive     bool
}

// Flags carries explicit invocation-time overrides. A nil field means
// the flag was not passed, letting the environment or default through.
type Flags struct {
	Branch             *string
	AllowDevRefresh    *bool
	BlockMarkers       *string
	RequireMarkers     *string
	BlockPathPatterns  *string
	RequireRemoteHost  *string
	StashBeforeRefresh *bool
	Service            *string
	NonInteractive     bool
}

// Defaults supplies invocation-level defaults sourced outside the
// environment, such as the manifest's service name.
type Defaults struct {
	Service string
}

// Resolve layers defaults, then environment, then flags. Each layer
// only overrides when it provides a value.
func Resolve(getenv func(string) string, defs Defaults, flags Flags) *RefreshConfig {
	cfg := &RefreshConfig{
		Branch:             resolveString(DefaultBranch, getenv(EnvBranch), flags.Branch),
		AllowDevRefresh:    resolveBool(false, getenv(EnvAllowDevRefresh), flags.AllowDevRefresh),
		RequireRemoteHost:  resolveString("", getenv(EnvRequireRemoteHost), flags.RequireRemoteHost),
		StashBeforeRefresh: resolveBool(true, getenv(EnvStashBeforeRefresh), flags.StashBeforeRefresh),
		Service:            resolveString(defs.Service, "", flags.Service),
		NonInteractive:     flags.NonInteractive,
	}

	cfg.BlockMarkers = SplitList(resolveString(DefaultBlockMarkers, getenv(EnvBlockMarkers), flags.BlockMarkers))
	cfg.RequireMarkers = SplitList(resolveString("", getenv(EnvRequireMarkers), flags.RequireMarkers))
	cfg.BlockPathPatterns = SplitList(resolveString("", getenv(EnvBlockPathPatterns), flags.BlockPathPatterns))

	return cfg
}

// SplitList parses a delimiter-separated setting into its non-empty
// tokens, preserving order.
func SplitList(value string) []string {
	var tokens []string
	for _, token := range strings.Split(value, ListSeparator) {
		token = strings.TrimSpace(token)
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func resolveString(def, env string, flag *string) string {
	value := def
	if env != "" {
		value = env
	}
	if flag != nil {
		value = *flag
	}
	return value
}

func resolveBool(def bool, env string, flag *bool) bool {
	value := def
	if env != "" {
		if parsed, err := strconv.ParseBool(env); err == nil {
			value = parsed
		}
	}
	if flag != nil {
		value = *flag
	}
	return value
}
