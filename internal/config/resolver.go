package config

import "context"

type resolverKey struct{}

// ConfigResolver computes the effective config of each project root:
// global file, then .dotgit.toml, then DOTGIT_* env vars. Results are
// cached per root.
type ConfigResolver struct {
	global *Config
	env    EnvOverrides
	byRoot map[string]*Config
}

// NewResolver returns a ConfigResolver layering env over global and any
// .dotgit.toml it loads.
func NewResolver(global *Config, env EnvOverrides) *ConfigResolver {
	return &ConfigResolver{
		global: global,
		env:    env,
		byRoot: make(map[string]*Config),
	}
}

// ConfigForProject returns the effective config for projectRoot.
// A broken .dotgit.toml is an error and is not cached.
func (r *ConfigResolver) ConfigForProject(projectRoot string) (*Config, error) {
	if cfg, ok := r.byRoot[projectRoot]; ok {
		return cfg, nil
	}

	local, err := LoadLocal(projectRoot)
	if err != nil {
		return nil, err
	}

	cfg := r.env.Apply(MergeLocal(r.global, local))
	r.byRoot[projectRoot] = cfg
	return cfg, nil
}

// Global returns the global config without local or env overrides.
func (r *ConfigResolver) Global() *Config {
	return r.global
}

// Env returns the environment overrides applied to every project.
func (r *ConfigResolver) Env() EnvOverrides {
	return r.env
}

// WithResolver attaches r to the context.
func WithResolver(ctx context.Context, r *ConfigResolver) context.Context {
	return context.WithValue(ctx, resolverKey{}, r)
}

// ResolverFromContext returns the ConfigResolver from context, or nil.
func ResolverFromContext(ctx context.Context) *ConfigResolver {
	r, _ := ctx.Value(resolverKey{}).(*ConfigResolver)
	return r
}
