// Package dotgit locates the metadata directory (".git") of a project.
//
// A repository's metadata can live in three physical layouts:
//
//   - a plain .git directory inside the working tree
//   - a .git link file of a submodule, pointing into the parent's
//     .git/modules/<name> directory
//   - a .git link file of a linked worktree, pointing into the main
//     repository's .git/worktrees/<name> directory
//
// Link files hold a single line of the form "gitdir: <path>". The path may be
// relative, in which case it is relative to the directory containing the link
// file. Worktree targets are normalized back to the shared .git directory of
// the main repository.
//
// # Resolution Order
//
// [Resolver.Lookup] tries, first success wins:
//
//  1. The manually configured path, when it exists: a directory is returned
//     as-is, a file is parsed as a link file.
//  2. The project hierarchy, from the project root up to the filesystem root.
//
// An unusable manual path silently falls back to the hierarchy search unless
// the resolver is built with [WithStrictManualDir].
//
// # Errors
//
// Probe failures (unreadable files, malformed lines, missing targets) never
// surface; they only make a candidate not resolve. The only error returned in
// lenient mode is [*MissingGitDirError], and only when the resolver was built
// with failOnMissing set.
package dotgit
