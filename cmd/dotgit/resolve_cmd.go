package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/dotgit/internal/config"
	"github.com/raphi011/dotgit/internal/dotgit"
	"github.com/raphi011/dotgit/internal/log"
	"github.com/raphi011/dotgit/internal/output"
	"github.com/raphi011/dotgit/internal/ui/styles"
)

// resolveOutput is one project's result in --json output.
type resolveOutput struct {
	ProjectRoot string        `json:"project_root"`
	Path        string        `json:"path,omitempty"`
	Source      dotgit.Source `json:"source,omitempty"`
	Found       bool          `json:"found"`
}

// resolveOverrides holds flag values that take precedence over config.
// Nil pointers mean the flag was not given.
type resolveOverrides struct {
	dir    string
	fail   *bool
	strict *bool
}

func newResolveCmd() *cobra.Command {
	var (
		dir             string
		fail            bool
		strict          bool
		jsonOutput      bool
		copyToClipboard bool
	)

	cmd := &cobra.Command{
		Use:     "resolve [project-root...]",
		Short:   "Print the .git directory of a project",
		Aliases: []string{"r"},
		GroupID: GroupCore,
		Args:    cobra.ArbitraryArgs,
		Long: `Print the .git directory of one or more projects.

Without arguments the current directory is the project root.

Resolution order:
  1. --dir (or resolve.dot_git_dir): a directory is used as-is, a file is
     read as a "gitdir: <path>" link file
  2. .git in the project root or any parent directory

Worktree link files resolve to the main repository's .git directory.
A relative --dir is relative to the project root.

When stdout is a terminal each path is annotated with how it was found;
when piped only the path is printed.`,
		Example: `  dotgit resolve                      # .git of the current project
  cd $(dotgit resolve)/..             # jump to the repository root
  dotgit resolve ~/src/app --fail     # exit 1 if there is no repository
  dotgit resolve --dir vendor/lib/.git
  dotgit resolve a b c --json         # batch lookup as JSON
  dotgit resolve --copy               # copy path to clipboard`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			ov := resolveOverrides{dir: dir}
			if cmd.Flags().Changed("fail") {
				ov.fail = &fail
			}
			if cmd.Flags().Changed("strict") {
				ov.strict = &strict
			}

			roots := args
			if len(roots) == 0 {
				roots = []string{config.WorkDirFromContext(ctx)}
			}

			resolver, err := projectResolver(ctx)
			if err != nil {
				return err
			}

			results := make([]resolveOutput, 0, len(roots))
			for _, root := range roots {
				res, err := resolveProject(ctx, resolver, root, ov)
				if err != nil {
					return err
				}
				results = append(results, res)
			}

			// Output color follows the first project's .dotgit.toml
			first, err := resolver.ConfigForProject(results[0].ProjectRoot)
			if err != nil {
				return err
			}
			out = out.WithColor(first.Output.Color)

			if jsonOutput {
				if len(results) == 1 {
					return out.JSON(results[0])
				}
				return out.JSON(results)
			}

			var found []string
			for _, res := range results {
				switch {
				case res.Found && out.IsTerminal():
					out.Println(styles.FormatResult(dotgit.Result{Path: res.Path, Source: res.Source}))
				case res.Found:
					out.Println(res.Path)
				case out.IsTerminal():
					out.Println(styles.FormatMissing(res.ProjectRoot))
				default:
					l.Printf("no .git directory found for %s\n", res.ProjectRoot)
				}
				if res.Found {
					found = append(found, res.Path)
				}
			}

			if copyToClipboard && len(found) > 0 {
				if err := clipboard.WriteAll(strings.Join(found, "\n")); err != nil {
					l.Printf("Warning: failed to copy to clipboard: %v\n", err)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Manual .git directory or gitdir link file")
	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with an error when no .git directory is found")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when --dir is set but unusable instead of searching")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "Copy resolved path to clipboard")
	cmd.MarkFlagsMutuallyExclusive("json", "copy")
	cmd.MarkFlagFilename("dir")

	return cmd
}

// resolveProject looks up the .git directory for one project root using the
// project's effective config and the command line overrides.
func resolveProject(ctx context.Context, resolver *config.ConfigResolver, root string, ov resolveOverrides) (resolveOutput, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return resolveOutput{}, fmt.Errorf("resolve project root: %w", err)
	}

	cfg, err := resolver.ConfigForProject(root)
	if err != nil {
		return resolveOutput{}, fmt.Errorf("load project config: %w", err)
	}

	req := dotgit.Request{
		ProjectRoot:   root,
		ManualDir:     cfg.Resolve.DotGitDir,
		FailOnMissing: cfg.Resolve.FailOnMissing,
		Strict:        cfg.Resolve.Strict,
	}
	if ov.dir != "" {
		req.ManualDir = ov.dir
		if !filepath.IsAbs(req.ManualDir) {
			req.ManualDir = filepath.Join(root, req.ManualDir)
		}
	}
	if ov.fail != nil {
		req.FailOnMissing = *ov.fail
	}
	if ov.strict != nil {
		req.Strict = *ov.strict
	}

	res, ok, err := dotgit.Resolve(ctx, req)
	if err != nil {
		return resolveOutput{}, err
	}
	return resolveOutput{ProjectRoot: root, Path: res.Path, Source: res.Source, Found: ok}, nil
}

// projectResolver returns the ConfigResolver from context, or builds one
// from the context's global config and the current environment.
func projectResolver(ctx context.Context) (*config.ConfigResolver, error) {
	if r := config.ResolverFromContext(ctx); r != nil {
		return r, nil
	}

	global := config.FromContext(ctx)
	if global == nil {
		def := config.Default()
		global = &def
	}
	env, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	return config.NewResolver(global, env), nil
}
