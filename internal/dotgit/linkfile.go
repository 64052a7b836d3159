package dotgit

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DirName is the name of the metadata entry inside a working tree.
	DirName = ".git"

	linkKey       = "gitdir"
	linkSeparator = ": "
	worktreesDir  = "worktrees"
)

// linkRecord is the parsed "key: value" line of a link file.
type linkRecord struct {
	Key   string
	Value string
}

// readLinkRecord reads the first line of a link file.
// Returns false if the file cannot be read, is empty, or the line does not
// split into exactly one key and one value.
func readLinkRecord(path string) (linkRecord, bool) {
	f, err := os.Open(path)
	if err != nil {
		return linkRecord{}, false
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	if !s.Scan() {
		return linkRecord{}, false
	}

	// Trailing empty fields are dropped, so "gitdir: " has no value.
	parts := strings.Split(s.Text(), linkSeparator)
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) != 2 {
		return linkRecord{}, false
	}
	return linkRecord{Key: parts[0], Value: parts[1]}, true
}

// ParseLinkFile reads a "gitdir: <path>" link file and returns the metadata
// directory it points to. Worktree targets are normalized to the main
// repository's .git directory; relative targets are resolved against the
// directory containing the link file.
//
// The target's existence is not checked.
func ParseLinkFile(path string) (string, bool) {
	rec, ok := readLinkRecord(path)
	if !ok || rec.Key != linkKey {
		return "", false
	}

	target := NormalizeWorktree(rec.Value)
	if filepath.IsAbs(target) {
		return target, true
	}
	return filepath.Join(filepath.Dir(path), target), true
}

// NormalizeWorktree maps a per-worktree metadata directory
// (<repo>/.git/worktrees/<name>) to the shared <repo>/.git directory.
// Any other path is returned unchanged.
func NormalizeWorktree(path string) string {
	parent := filepath.Dir(filepath.Clean(path))
	if filepath.Base(parent) == worktreesDir && filepath.Base(filepath.Dir(parent)) == DirName {
		return filepath.Dir(parent)
	}
	return path
}
