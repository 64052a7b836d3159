// Package config handles loading and validation of dotgit configuration.
//
// Configuration is read from ~/.config/dotgit/config.toml, optionally
// overridden per project by a .dotgit.toml file in the project root.
//
// # Configuration Sources (highest priority first)
//
//   - Command line flags (--dir, --fail, --strict)
//   - DOTGIT_DIR, DOTGIT_FAIL_ON_MISSING, DOTGIT_STRICT env vars
//   - .dotgit.toml in the project root
//   - Global config file
//   - Default values
//
// ConfigResolver merges the local file over the global one and applies
// env vars last. [output] color has no env var.
//
// # Key Settings
//
//	[resolve]
//	dot_git_dir = "~/src/app/.git"  # manual .git directory or link file
//	fail_on_missing = true          # error when nothing is found
//	strict = false                  # error when dot_git_dir is unusable
//
//	[output]
//	color = "auto"                  # auto, always, or never
//
// # Path Validation
//
// A global dot_git_dir must be absolute or start with ~ since there is no
// project to be relative to. In .dotgit.toml relative paths are resolved
// against the project root.
package config
