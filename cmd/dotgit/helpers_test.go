package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/raphi011/dotgit/internal/config"
	"github.com/raphi011/dotgit/internal/log"
	"github.com/raphi011/dotgit/internal/output"
)

// resolvePath resolves symlinks in a path.
// This is needed on macOS where /var is a symlink to /private/var.
func resolvePath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve path %s: %v", path, err)
	}
	return resolved
}

// testContext builds a command context with cfg, workDir and captured
// stdout/stderr buffers.
func testContext(t *testing.T, cfg *config.Config, workDir string) (context.Context, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	ctx := context.Background()
	ctx = config.WithConfig(ctx, cfg)
	ctx = config.WithWorkDir(ctx, workDir)
	ctx = log.WithLogger(ctx, log.New(&errOut, false, false))
	ctx = output.WithPrinter(ctx, &out)
	return ctx, &out, &errOut
}

// mustMkdir creates dir and its parents.
func mustMkdir(t *testing.T, dir string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}
	return dir
}

// mustWrite writes content to path.
func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
