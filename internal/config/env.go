package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Environment variables overriding the config files.
const (
	EnvDotGitDir     = "DOTGIT_DIR"
	EnvFailOnMissing = "DOTGIT_FAIL_ON_MISSING"
	EnvStrict        = "DOTGIT_STRICT"
)

// EnvOverrides holds settings taken from DOTGIT_* environment variables.
// An empty DotGitDir or a nil pointer means the variable is unset.
type EnvOverrides struct {
	DotGitDir     string
	FailOnMissing *bool
	Strict        *bool
}

// LoadEnv reads the DOTGIT_* environment variables.
// A relative DOTGIT_DIR is made absolute against the working directory.
func LoadEnv() (EnvOverrides, error) {
	var env EnvOverrides

	if dir := os.Getenv(EnvDotGitDir); dir != "" {
		expanded, err := expandPath(dir)
		if err != nil {
			return EnvOverrides{}, fmt.Errorf("expand %s: %w", EnvDotGitDir, err)
		}
		abs, err := filepath.Abs(expanded)
		if err != nil {
			return EnvOverrides{}, fmt.Errorf("resolve %s: %w", EnvDotGitDir, err)
		}
		env.DotGitDir = abs
	}

	for _, b := range []struct {
		name  string
		field **bool
	}{
		{EnvFailOnMissing, &env.FailOnMissing},
		{EnvStrict, &env.Strict},
	} {
		v := os.Getenv(b.name)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return EnvOverrides{}, fmt.Errorf("invalid %s %q: must be a boolean", b.name, v)
		}
		*b.field = &parsed
	}

	return env, nil
}

// IsZero reports whether no override is set.
func (e EnvOverrides) IsZero() bool {
	return e.DotGitDir == "" && e.FailOnMissing == nil && e.Strict == nil
}

// Apply returns a copy of cfg with the overrides applied.
// Returns cfg itself when no override is set.
func (e EnvOverrides) Apply(cfg *Config) *Config {
	if e.IsZero() {
		return cfg
	}

	applied := *cfg
	if e.DotGitDir != "" {
		applied.Resolve.DotGitDir = e.DotGitDir
	}
	if e.FailOnMissing != nil {
		applied.Resolve.FailOnMissing = *e.FailOnMissing
	}
	if e.Strict != nil {
		applied.Resolve.Strict = *e.Strict
	}
	return &applied
}
