package config

// MergeLocal merges a local per-project config into a global config,
// returning a new Config without mutating the global.
// Returns global unchanged if local is nil.
func MergeLocal(global *Config, local *LocalConfig) *Config {
	if local == nil {
		return global
	}

	merged := *global

	if local.Resolve.DotGitDir != "" {
		merged.Resolve.DotGitDir = local.Resolve.DotGitDir
	}
	if local.Resolve.FailOnMissing != nil {
		merged.Resolve.FailOnMissing = *local.Resolve.FailOnMissing
	}
	if local.Resolve.Strict != nil {
		merged.Resolve.Strict = *local.Resolve.Strict
	}

	if local.Output.Color != "" {
		merged.Output.Color = local.Output.Color
	}

	return &merged
}
