package dotgit

import (
	"context"
	"os"
	"path/filepath"

	"github.com/raphi011/dotgit/internal/log"
)

// Source identifies which step of the lookup produced a result.
type Source string

const (
	SourceManual        Source = "manual"
	SourceManualLink    Source = "manual-link"
	SourceHierarchy     Source = "hierarchy"
	SourceHierarchyLink Source = "hierarchy-link"
)

// Result is a resolved metadata directory.
type Result struct {
	Path   string `json:"path"`
	Source Source `json:"source"`
}

// Request bundles the inputs of a one-shot resolution.
type Request struct {
	ProjectRoot   string
	ManualDir     string // empty means not configured
	FailOnMissing bool
	Strict        bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStrictManualDir makes Lookup fail with *InvalidManualDirError when a
// manual directory is configured but does not resolve, instead of falling
// back to the hierarchy search.
func WithStrictManualDir(strict bool) Option {
	return func(r *Resolver) {
		r.strict = strict
	}
}

// Resolver locates the metadata directory of a project.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	projectRoot   string
	failOnMissing bool
	strict        bool
}

// New creates a resolver searching upward from projectRoot.
func New(projectRoot string, failOnMissing bool, opts ...Option) *Resolver {
	r := &Resolver{
		projectRoot:   projectRoot,
		failOnMissing: failOnMissing,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs a single lookup for req.
func Resolve(ctx context.Context, req Request) (Result, bool, error) {
	r := New(req.ProjectRoot, req.FailOnMissing, WithStrictManualDir(req.Strict))
	return r.Lookup(ctx, req.ManualDir)
}

// Lookup returns the metadata directory for the project. manualDir is the
// user-configured location and may be empty.
//
// The returned bool is false when nothing was found; the error is only set
// when the resolver requires a result or rejects the manual directory.
func (r *Resolver) Lookup(ctx context.Context, manualDir string) (Result, bool, error) {
	l := log.FromContext(ctx)

	if manualDir != "" {
		res, ok, reason := r.lookupManual(manualDir)
		if ok {
			l.Debug("resolved manual dir", "path", res.Path, "source", res.Source)
			return res, true, nil
		}
		if r.strict {
			return Result{}, false, &InvalidManualDirError{Path: manualDir, Reason: reason}
		}
		l.Debug("manual dir unusable, searching hierarchy", "path", manualDir, "reason", reason)
	}

	res, ok := r.searchHierarchy(l)
	if ok {
		l.Debug("resolved from hierarchy", "path", res.Path, "source", res.Source)
		return res, true, nil
	}

	if r.failOnMissing {
		return Result{}, false, &MissingGitDirError{ProjectRoot: r.projectRoot, ManualDir: manualDir}
	}
	l.Debug("no .git directory found", "root", r.projectRoot)
	return Result{}, false, nil
}

// lookupManual resolves the configured directory. On failure it returns a
// short reason for logging.
func (r *Resolver) lookupManual(dir string) (Result, bool, string) {
	info, err := os.Stat(dir)
	if err != nil {
		return Result{}, false, "does not exist"
	}
	if info.IsDir() {
		return Result{Path: dir, Source: SourceManual}, true, ""
	}

	target, ok := ParseLinkFile(dir)
	if !ok {
		return Result{}, false, "not a gitdir link file"
	}
	if !isDir(target) {
		return Result{}, false, "link target " + target + " is not a directory"
	}
	return Result{Path: target, Source: SourceManualLink}, true, ""
}

// searchHierarchy looks for a .git entry in the project root and each of its
// ancestors. A .git entry that is neither a directory nor a regular file ends
// the search. A .git file that is malformed or points at a missing directory
// is skipped and the search continues upward rather than returning the
// dangling target.
func (r *Resolver) searchHierarchy(l *log.Logger) (Result, bool) {
	for _, dir := range Ancestors(r.projectRoot) {
		candidate := filepath.Join(dir, DirName)
		info, err := os.Stat(candidate)
		if err != nil {
			continue
		}

		switch {
		case info.IsDir():
			return Result{Path: candidate, Source: SourceHierarchy}, true
		case info.Mode().IsRegular():
			target, ok := ParseLinkFile(candidate)
			if ok && isDir(target) {
				return Result{Path: target, Source: SourceHierarchyLink}, true
			}
			l.Debug("skipping unusable .git file", "path", candidate, "target", target)
		default:
			l.Debug("unsupported .git entry", "path", candidate, "mode", info.Mode().String())
			return Result{}, false
		}
	}
	return Result{}, false
}

// Ancestors returns dir followed by each of its parents up to the filesystem
// root. Relative paths are made absolute first; if that fails the path is
// used as given.
func Ancestors(dir string) []string {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	dir = filepath.Clean(dir)

	dirs := []string{dir}
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return dirs
		}
		dirs = append(dirs, parent)
		dir = parent
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
