package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/dotgit/internal/config"
	"github.com/raphi011/dotgit/internal/log"
	"github.com/raphi011/dotgit/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage dotgit configuration.

Global config: ~/.config/dotgit/config.toml
Local config:  .dotgit.toml (in the project root)`,
		Example: `  dotgit config init          # Create default global config
  dotgit config init --local  # Create local project config
  dotgit config show          # Show effective config`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
		local  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Long: `Create default config file.

Without flags, creates global config at ~/.config/dotgit/config.toml.
With --local, creates .dotgit.toml in the current directory.`,
		Example: `  dotgit config init           # Create global config
  dotgit config init --local   # Create local project config
  dotgit config init -f        # Overwrite existing config
  dotgit config init -s        # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			content := config.DefaultConfig()
			if local {
				content = config.DefaultLocalConfig()
			}
			if stdout {
				out.Print(content)
				return nil
			}

			if local {
				path := filepath.Join(config.WorkDirFromContext(ctx), config.LocalConfigFileName)
				if !force {
					if _, err := os.Stat(path); err == nil {
						return fmt.Errorf("local config already exists: %s (use -f to overwrite)", path)
					}
				}
				if err := os.WriteFile(path, []byte(content), 0644); err != nil {
					return err
				}
				l.Printf("Created local config: %s\n", path)
				return nil
			}

			path, err := config.Path()
			if err != nil {
				return err
			}
			if err := config.Init(path, force); err != nil {
				return err
			}
			l.Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")
	cmd.Flags().BoolVar(&local, "local", false, "Create per-project .dotgit.toml instead of global config")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show [project-root]",
		Short: "Show effective configuration",
		Args:  cobra.MaximumNArgs(1),
		Long: `Show effective configuration for a project.

Shows the global config merged with the project's .dotgit.toml and the
DOTGIT_* environment variables, with source annotations for overrides.`,
		Example: `  dotgit config show          # Config for the current directory
  dotgit config show ~/src/app
  dotgit config show --json   # Output as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			root := config.WorkDirFromContext(ctx)
			if len(args) == 1 {
				root = args[0]
			}
			root, err := filepath.Abs(root)
			if err != nil {
				return err
			}

			resolver, err := projectResolver(ctx)
			if err != nil {
				return err
			}
			env := resolver.Env()

			local, err := config.LoadLocal(root)
			if err != nil {
				l.Printf("Warning: failed to load local config: %v (using global config)\n", err)
			}
			eff := env.Apply(config.MergeLocal(resolver.Global(), local))

			if jsonOutput {
				return out.JSON(eff)
			}

			// Helper to annotate source; env wins over local
			source := func(isLocal, isEnv bool) string {
				switch {
				case isEnv:
					return " (env)"
				case isLocal:
					return " (local)"
				}
				return ""
			}

			globalPath, _ := config.Path()
			out.Printf("Global config: %s\n", globalPath)
			if local != nil {
				out.Printf("Local config:  %s\n", filepath.Join(root, config.LocalConfigFileName))
			} else {
				out.Printf("Local config:  (none)\n")
			}
			out.Println()

			manual := eff.Resolve.DotGitDir
			if manual == "" {
				manual = "(search)"
			}
			out.Printf("resolve.dot_git_dir: %s%s\n", manual, source(local != nil && local.Resolve.DotGitDir != "", env.DotGitDir != ""))
			out.Printf("resolve.fail_on_missing: %v%s\n", eff.Resolve.FailOnMissing, source(local != nil && local.Resolve.FailOnMissing != nil, env.FailOnMissing != nil))
			out.Printf("resolve.strict: %v%s\n", eff.Resolve.Strict, source(local != nil && local.Resolve.Strict != nil, env.Strict != nil))
			out.Printf("output.color: %s%s\n", eff.Output.Color, source(local != nil && local.Output.Color != "", false))

			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
