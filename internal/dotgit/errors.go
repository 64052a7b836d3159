package dotgit

import (
	"errors"
	"fmt"
)

// ErrMissingGitDir matches any *MissingGitDirError via errors.Is.
var ErrMissingGitDir = errors.New(".git directory not found")

// MissingGitDirError is returned when failOnMissing is set and no metadata
// directory could be resolved.
type MissingGitDirError struct {
	ProjectRoot string
	ManualDir   string
}

func (e *MissingGitDirError) Error() string {
	return fmt.Sprintf(".git directory is not found from %s! Please specify a valid dot_git_dir (--dir) for your project", e.ProjectRoot)
}

// Is reports whether target is ErrMissingGitDir.
func (e *MissingGitDirError) Is(target error) bool {
	return target == ErrMissingGitDir
}

// InvalidManualDirError is returned in strict mode when a manually configured
// directory is set but resolves to nothing.
type InvalidManualDirError struct {
	Path   string
	Reason string
}

func (e *InvalidManualDirError) Error() string {
	return fmt.Sprintf("invalid dot_git_dir %s: %s", e.Path, e.Reason)
}
