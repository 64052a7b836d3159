package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the per-project config file in the project root.
const LocalConfigFileName = ".dotgit.toml"

// LocalConfig holds per-project configuration overrides from .dotgit.toml.
// Pointer fields and zero-value strings indicate "not set" (inherit from global).
type LocalConfig struct {
	Resolve LocalResolve `toml:"resolve"`
	Output  LocalOutput  `toml:"output"`
}

// LocalResolve holds local resolve overrides
type LocalResolve struct {
	DotGitDir     string `toml:"dot_git_dir"` // relative paths are relative to the project root
	FailOnMissing *bool  `toml:"fail_on_missing"`
	Strict        *bool  `toml:"strict"`
}

// LocalOutput holds local output overrides
type LocalOutput struct {
	Color string `toml:"color"`
}

// LoadLocal reads a per-project .dotgit.toml from projectRoot.
// Returns nil (no error) if the file doesn't exist.
// Returns an error only on parse or validation failure.
func LoadLocal(projectRoot string) (*LocalConfig, error) {
	configFile := filepath.Join(projectRoot, LocalConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local config %s: %w", configFile, err)
	}

	var local LocalConfig
	if err := toml.Unmarshal(data, &local); err != nil {
		return nil, fmt.Errorf("failed to parse local config %s: %w", configFile, err)
	}

	if dir := local.Resolve.DotGitDir; dir != "" {
		expanded, err := expandPath(dir)
		if err != nil {
			return nil, fmt.Errorf("expand resolve.dot_git_dir in %s: %w", configFile, err)
		}
		if !filepath.IsAbs(expanded) {
			expanded = filepath.Join(projectRoot, expanded)
		}
		local.Resolve.DotGitDir = expanded
	}

	if err := validateEnum(local.Output.Color, "output.color", ValidColorModes); err != nil {
		return nil, fmt.Errorf("%w in %s", err, configFile)
	}

	return &local, nil
}

// defaultLocalConfig is the template for dotgit config init --local
const defaultLocalConfig = `# dotgit local config (per-project overrides)
# Place this file at the root of your project.
# Settings here override the global ~/.config/dotgit/config.toml.

# [resolve]
# Relative paths are relative to this file's directory.
# dot_git_dir = "../parent/.git/modules/this"
# fail_on_missing = true
# strict = true

# [output]
# color = "never"
`

// DefaultLocalConfig returns the default local configuration template content.
func DefaultLocalConfig() string {
	return defaultLocalConfig
}
