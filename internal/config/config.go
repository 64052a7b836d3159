package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Color modes for [output] color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ResolveConfig holds .git lookup settings
type ResolveConfig struct {
	DotGitDir     string `toml:"dot_git_dir" json:"dot_git_dir"`         // manual location, empty = search only
	FailOnMissing bool   `toml:"fail_on_missing" json:"fail_on_missing"` // error when nothing is found
	Strict        bool   `toml:"strict" json:"strict"`                   // error when dot_git_dir is set but unusable
}

// OutputConfig holds output settings
type OutputConfig struct {
	Color string `toml:"color" json:"color"` // "auto", "always", or "never"
}

// Config holds the dotgit configuration
type Config struct {
	Resolve ResolveConfig `toml:"resolve" json:"resolve"`
	Output  OutputConfig  `toml:"output" json:"output"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Output: OutputConfig{Color: ColorAuto},
	}
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the path to the global config file
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dotgit", "config.toml"), nil
}

// Load reads config from ~/.config/dotgit/config.toml.
// Returns Default() if file doesn't exist (no error)
// Returns error only if file exists but is invalid
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from path. Environment overrides are not applied
// here; they take precedence over .dotgit.toml and are applied by
// ConfigResolver after the local merge.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	// Global dot_git_dir has no project to be relative to
	if err := ValidatePath(cfg.Resolve.DotGitDir, "resolve.dot_git_dir"); err != nil {
		return Default(), err
	}
	expanded, err := expandPath(cfg.Resolve.DotGitDir)
	if err != nil {
		return Default(), fmt.Errorf("expand resolve.dot_git_dir: %w", err)
	}
	cfg.Resolve.DotGitDir = expanded

	if cfg.Output.Color == "" {
		cfg.Output.Color = ColorAuto
	}
	if err := validateEnum(cfg.Output.Color, "output.color", ValidColorModes); err != nil {
		return Default(), err
	}

	return cfg, nil
}

const defaultConfig = `# dotgit configuration

[resolve]
# Location of the .git directory, or of a "gitdir: <path>" link file.
# Must be an absolute path or start with ~. Leave unset to search upward
# from the project root. Per-project .dotgit.toml files may use paths
# relative to the project root.
# dot_git_dir = "~/src/project/.git"

# Fail when no .git directory can be found (default: false)
fail_on_missing = false

# Fail when dot_git_dir is set but unusable instead of searching upward
# (default: false)
strict = false

[output]
# Colored annotations: "auto", "always", or "never"
color = "auto"
`

// DefaultConfig returns the default global configuration template content.
func DefaultConfig() string {
	return defaultConfig
}

// Init creates a default config file at path.
// If force is true, overwrites existing file
func Init(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s (use -f to overwrite)", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}

type configKey struct{}

type workDirKey struct{}

// WithConfig attaches the config to the context.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the config from context, or nil if none is attached.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey{}).(*Config); ok {
		return cfg
	}
	return nil
}

// WithWorkDir attaches the working directory to the context.
func WithWorkDir(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, workDirKey{}, dir)
}

// WorkDirFromContext returns the working directory from context.
// Falls back to os.Getwd, then ".".
func WorkDirFromContext(ctx context.Context) string {
	if dir, ok := ctx.Value(workDirKey{}).(string); ok && dir != "" {
		return dir
	}
	if dir, err := os.Getwd(); err == nil {
		return dir
	}
	return "."
}
