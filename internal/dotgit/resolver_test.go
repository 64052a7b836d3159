package dotgit

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/raphi011/dotgit/internal/log"
)

// resolveTempDir creates a temp directory and resolves macOS symlinks.
func resolveTempDir(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("failed to resolve symlinks for %s: %v", tmpDir, err)
	}
	return resolved
}

// mkdirs creates every directory and returns the first one.
func mkdirs(t *testing.T, dirs ...string) string {
	t.Helper()
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	return dirs[0]
}

// setupHierarchy creates <tmp>/A/B/C and returns the paths of A, B and C.
func setupHierarchy(t *testing.T) (a, b, c string) {
	t.Helper()
	a = filepath.Join(resolveTempDir(t), "A")
	b = filepath.Join(a, "B")
	c = filepath.Join(b, "C")
	mkdirs(t, c)
	return a, b, c
}

func TestLookup_ManualDir(t *testing.T) {
	t.Parallel()

	t.Run("existing directory is returned unchanged", func(t *testing.T) {
		t.Parallel()
		_, _, c := setupHierarchy(t)
		// Not named .git and containing nothing: no link logic applies.
		manual := mkdirs(t, filepath.Join(resolveTempDir(t), "custom-metadata"))

		res, ok, err := New(c, true).Lookup(context.Background(), manual)
		if err != nil || !ok {
			t.Fatalf("Lookup() = %v, %v, %v", res, ok, err)
		}
		want := Result{Path: manual, Source: SourceManual}
		if res != want {
			t.Errorf("Lookup() = %+v, want %+v", res, want)
		}
	})

	t.Run("manual directory wins over hierarchy", func(t *testing.T) {
		t.Parallel()
		a, _, c := setupHierarchy(t)
		mkdirs(t, filepath.Join(a, ".git"))
		manual := mkdirs(t, filepath.Join(resolveTempDir(t), "other", ".git"))

		res, ok, _ := New(c, false).Lookup(context.Background(), manual)
		if !ok || res.Path != manual {
			t.Errorf("Lookup() = %+v, %v, want %q", res, ok, manual)
		}
	})

	t.Run("link file with absolute target", func(t *testing.T) {
		t.Parallel()
		_, _, c := setupHierarchy(t)
		target := mkdirs(t, filepath.Join(resolveTempDir(t), "super", ".git", "modules", "lib"))
		link := writeFile(t, filepath.Join(resolveTempDir(t), "lib"), ".git", "gitdir: "+target+"\n")

		res, ok, err := New(c, true).Lookup(context.Background(), link)
		if err != nil || !ok {
			t.Fatalf("Lookup() = %v, %v, %v", res, ok, err)
		}
		want := Result{Path: target, Source: SourceManualLink}
		if res != want {
			t.Errorf("Lookup() = %+v, want %+v", res, want)
		}
	})

	t.Run("link file with relative target", func(t *testing.T) {
		t.Parallel()
		_, _, c := setupHierarchy(t)
		root := resolveTempDir(t)
		mkdirs(t, filepath.Join(root, "relative", "path"))
		link := writeFile(t, root, "link", "gitdir: relative/path\n")

		res, ok, err := New(c, true).Lookup(context.Background(), link)
		if err != nil || !ok {
			t.Fatalf("Lookup() = %v, %v, %v", res, ok, err)
		}
		if want := filepath.Join(root, "relative", "path"); res.Path != want {
			t.Errorf("Lookup() path = %q, want %q", res.Path, want)
		}
	})

	t.Run("link file to worktree resolves main .git", func(t *testing.T) {
		t.Parallel()
		_, _, c := setupHierarchy(t)
		root := resolveTempDir(t)
		mainGit := mkdirs(t, filepath.Join(root, "main", ".git"), filepath.Join(root, "main", ".git", "worktrees", "feature"))
		link := writeFile(t, filepath.Join(root, "feature"), ".git", "gitdir: "+filepath.Join(mainGit, "worktrees", "feature")+"\n")

		res, ok, _ := New(c, false).Lookup(context.Background(), link)
		if !ok || res.Path != mainGit {
			t.Errorf("Lookup() = %+v, %v, want %q", res, ok, mainGit)
		}
	})

	fallbacks := []struct {
		name   string
		manual func(t *testing.T) string
	}{
		{
			name: "malformed link file",
			manual: func(t *testing.T) string {
				return writeFile(t, resolveTempDir(t), "broken", "not a link file\n")
			},
		},
		{
			name: "link target does not exist",
			manual: func(t *testing.T) string {
				return writeFile(t, resolveTempDir(t), "dangling", "gitdir: /does/not/exist\n")
			},
		},
		{
			name: "link target is a file",
			manual: func(t *testing.T) string {
				dir := resolveTempDir(t)
				target := writeFile(t, dir, "plain", "")
				return writeFile(t, dir, "link", "gitdir: "+target+"\n")
			},
		},
		{
			name: "path does not exist",
			manual: func(t *testing.T) string {
				return filepath.Join(resolveTempDir(t), "missing")
			},
		},
	}

	for _, tt := range fallbacks {
		t.Run("falls back to hierarchy when "+tt.name, func(t *testing.T) {
			t.Parallel()
			a, _, c := setupHierarchy(t)
			gitDir := mkdirs(t, filepath.Join(a, ".git"))

			res, ok, err := New(c, true).Lookup(context.Background(), tt.manual(t))
			if err != nil {
				t.Fatalf("Lookup() error = %v, want fallback", err)
			}
			want := Result{Path: gitDir, Source: SourceHierarchy}
			if !ok || res != want {
				t.Errorf("Lookup() = %+v, %v, want %+v", res, ok, want)
			}
		})

		t.Run("strict mode rejects "+tt.name, func(t *testing.T) {
			t.Parallel()
			a, _, c := setupHierarchy(t)
			mkdirs(t, filepath.Join(a, ".git"))
			manual := tt.manual(t)

			_, ok, err := New(c, false, WithStrictManualDir(true)).Lookup(context.Background(), manual)
			if ok {
				t.Fatal("Lookup() found a result in strict mode")
			}
			var invalid *InvalidManualDirError
			if !errors.As(err, &invalid) {
				t.Fatalf("Lookup() error = %v, want *InvalidManualDirError", err)
			}
			if invalid.Path != manual {
				t.Errorf("InvalidManualDirError.Path = %q, want %q", invalid.Path, manual)
			}
		})
	}
}

func TestLookup_Hierarchy(t *testing.T) {
	t.Parallel()

	t.Run("finds .git in project root", func(t *testing.T) {
		t.Parallel()
		_, _, c := setupHierarchy(t)
		gitDir := mkdirs(t, filepath.Join(c, ".git"))

		res, ok, _ := New(c, false).Lookup(context.Background(), "")
		want := Result{Path: gitDir, Source: SourceHierarchy}
		if !ok || res != want {
			t.Errorf("Lookup() = %+v, %v, want %+v", res, ok, want)
		}
	})

	t.Run("climbs to ancestor .git", func(t *testing.T) {
		t.Parallel()
		a, _, c := setupHierarchy(t)
		gitDir := mkdirs(t, filepath.Join(a, ".git"))

		res, ok, _ := New(c, false).Lookup(context.Background(), "")
		if !ok || res.Path != gitDir {
			t.Errorf("Lookup() = %+v, %v, want %q", res, ok, gitDir)
		}
	})

	t.Run("nearest .git wins", func(t *testing.T) {
		t.Parallel()
		a, b, c := setupHierarchy(t)
		mkdirs(t, filepath.Join(a, ".git"))
		inner := mkdirs(t, filepath.Join(b, ".git"))

		res, ok, _ := New(c, false).Lookup(context.Background(), "")
		if !ok || res.Path != inner {
			t.Errorf("Lookup() = %+v, %v, want %q", res, ok, inner)
		}
	})

	t.Run("submodule link file", func(t *testing.T) {
		t.Parallel()
		a, b, c := setupHierarchy(t)
		modules := mkdirs(t, filepath.Join(a, ".git", "modules", "B"))
		writeFile(t, b, ".git", "gitdir: ../.git/modules/B\n")

		res, ok, _ := New(c, false).Lookup(context.Background(), "")
		want := Result{Path: modules, Source: SourceHierarchyLink}
		if !ok || res != want {
			t.Errorf("Lookup() = %+v, %v, want %+v", res, ok, want)
		}
	})

	t.Run("worktree link file", func(t *testing.T) {
		t.Parallel()
		root := resolveTempDir(t)
		mainGit := mkdirs(t, filepath.Join(root, "main", ".git"), filepath.Join(root, "main", ".git", "worktrees", "feature"))
		worktree := mkdirs(t, filepath.Join(root, "feature"), filepath.Join(root, "feature", "src"))
		writeFile(t, worktree, ".git", "gitdir: "+filepath.Join(mainGit, "worktrees", "feature")+"\n")

		res, ok, _ := New(filepath.Join(worktree, "src"), false).Lookup(context.Background(), "")
		want := Result{Path: mainGit, Source: SourceHierarchyLink}
		if !ok || res != want {
			t.Errorf("Lookup() = %+v, %v, want %+v", res, ok, want)
		}
	})

	t.Run("malformed link file keeps climbing", func(t *testing.T) {
		t.Parallel()
		a, b, c := setupHierarchy(t)
		writeFile(t, b, ".git", "gitdir "+filepath.Join(a, "elsewhere")+"\n")
		gitDir := mkdirs(t, filepath.Join(a, ".git"))

		res, ok, _ := New(c, false).Lookup(context.Background(), "")
		if !ok || res.Path != gitDir {
			t.Errorf("Lookup() = %+v, %v, want %q", res, ok, gitDir)
		}
	})

	t.Run("link to missing directory keeps climbing", func(t *testing.T) {
		t.Parallel()
		a, b, c := setupHierarchy(t)
		writeFile(t, b, ".git", "gitdir: "+filepath.Join(a, "gone")+"\n")
		gitDir := mkdirs(t, filepath.Join(a, ".git"))

		res, ok, _ := New(c, false).Lookup(context.Background(), "")
		if !ok || res.Path != gitDir {
			t.Errorf("Lookup() = %+v, %v, want %q", res, ok, gitDir)
		}
	})

	t.Run("malformed link file and nothing above", func(t *testing.T) {
		t.Parallel()
		_, b, c := setupHierarchy(t)
		writeFile(t, b, ".git", "garbage\n")

		res, ok, err := New(c, false).Lookup(context.Background(), "")
		if err != nil || ok {
			t.Errorf("Lookup() = %+v, %v, %v, want no result", res, ok, err)
		}
	})

	t.Run("relative project root", func(t *testing.T) {
		t.Parallel()
		_, _, c := setupHierarchy(t)
		gitDir := mkdirs(t, filepath.Join(c, ".git"))
		wd, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		rel, err := filepath.Rel(wd, c)
		if err != nil {
			t.Skipf("no relative path from %s to %s", wd, c)
		}

		res, ok, _ := New(rel, false).Lookup(context.Background(), "")
		if !ok || res.Path != gitDir {
			t.Errorf("Lookup() = %+v, %v, want %q", res, ok, gitDir)
		}
	})
}

func TestLookup_Missing(t *testing.T) {
	t.Parallel()

	t.Run("fail on missing", func(t *testing.T) {
		t.Parallel()
		_, _, c := setupHierarchy(t)

		_, ok, err := New(c, true).Lookup(context.Background(), "")
		if ok {
			t.Fatal("Lookup() found a result")
		}
		if !errors.Is(err, ErrMissingGitDir) {
			t.Fatalf("Lookup() error = %v, want ErrMissingGitDir", err)
		}
		var missing *MissingGitDirError
		if !errors.As(err, &missing) || missing.ProjectRoot != c {
			t.Errorf("Lookup() error = %#v, want *MissingGitDirError for %s", err, c)
		}
		if !strings.Contains(err.Error(), "dot_git_dir") {
			t.Errorf("error %q should tell the user to configure dot_git_dir", err)
		}
	})

	t.Run("absence without error", func(t *testing.T) {
		t.Parallel()
		_, _, c := setupHierarchy(t)

		res, ok, err := New(c, false).Lookup(context.Background(), "")
		if err != nil || ok || res != (Result{}) {
			t.Errorf("Lookup() = %+v, %v, %v, want zero result", res, ok, err)
		}
	})

	t.Run("unusable manual dir then missing", func(t *testing.T) {
		t.Parallel()
		_, _, c := setupHierarchy(t)
		manual := writeFile(t, resolveTempDir(t), "broken", "gitdir:nope\n")

		_, _, err := New(c, true).Lookup(context.Background(), manual)
		var missing *MissingGitDirError
		if !errors.As(err, &missing) || missing.ManualDir != manual {
			t.Errorf("Lookup() error = %v, want *MissingGitDirError with manual dir", err)
		}
	})
}

func TestResolve(t *testing.T) {
	t.Parallel()

	a, _, c := setupHierarchy(t)
	gitDir := mkdirs(t, filepath.Join(a, ".git"))

	res, ok, err := Resolve(context.Background(), Request{ProjectRoot: c, FailOnMissing: true})
	if err != nil || !ok || res.Path != gitDir {
		t.Errorf("Resolve() = %+v, %v, %v, want %q", res, ok, err, gitDir)
	}

	_, _, err = Resolve(context.Background(), Request{ProjectRoot: c, ManualDir: filepath.Join(a, "nope"), Strict: true})
	var invalid *InvalidManualDirError
	if !errors.As(err, &invalid) {
		t.Errorf("Resolve() strict error = %v, want *InvalidManualDirError", err)
	}
}

func TestLookup_LogsProbes(t *testing.T) {
	t.Parallel()

	_, b, c := setupHierarchy(t)
	writeFile(t, b, ".git", "garbage\n")

	var buf bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&buf, true, false))
	if _, ok, _ := New(c, false).Lookup(ctx, ""); ok {
		t.Fatal("Lookup() found a result")
	}

	got := buf.String()
	if !strings.Contains(got, "skipping unusable .git file path="+filepath.Join(b, ".git")) {
		t.Errorf("log output = %q, want the skipped link file", got)
	}
	if !strings.Contains(got, "no .git directory found") {
		t.Errorf("log output = %q, want final miss", got)
	}
}

func TestAncestors(t *testing.T) {
	t.Parallel()

	root := resolveTempDir(t)
	start := filepath.Join(root, "A", "B")

	got := Ancestors(start)
	if len(got) < 3 {
		t.Fatalf("Ancestors(%q) = %v, want at least 3 entries", start, got)
	}
	wantPrefix := []string{start, filepath.Join(root, "A"), root}
	if !reflect.DeepEqual(got[:3], wantPrefix) {
		t.Errorf("Ancestors(%q)[:3] = %v, want %v", start, got[:3], wantPrefix)
	}
	last := got[len(got)-1]
	if filepath.Dir(last) != last {
		t.Errorf("last ancestor %q is not a filesystem root", last)
	}

	t.Run("cleans input", func(t *testing.T) {
		t.Parallel()
		got := Ancestors(filepath.Join(root, "A", "..", "A", "B") + string(filepath.Separator))
		if got[0] != start {
			t.Errorf("Ancestors()[0] = %q, want %q", got[0], start)
		}
	})
}
