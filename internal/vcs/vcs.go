package vcs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/wallacegibbon/stopgate/internal/shell"
)

// ErrNoRepo is returned by operations that need a repository when none was found
var ErrNoRepo = errors.New("not a git repository")

// Repo inspects the working tree that contains a directory
type Repo struct {
	dir    string
	repo   *git.Repository
	runner *shell.Runner

	// Author signs commits; nil uses the repository's configured user
	Author *object.Signature
}

// Open locates the repository containing dir. A directory outside any
// repository yields a Repo whose Available reports false.
func Open(dir string, runner *shell.Runner) *Repo {
	if runner == nil {
		runner = shell.New(dir)
	}
	r := &Repo{dir: dir, runner: runner}
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err == nil {
		r.repo = repo
	}
	return r
}

// Available reports whether dir is inside a git repository
func (r *Repo) Available() bool {
	return r != nil && r.repo != nil
}

// Root returns the worktree root, or "" when unavailable
func (r *Repo) Root() string {
	if !r.Available() {
		return ""
	}
	wt, err := r.repo.Worktree()
	if err != nil {
		return ""
	}
	return wt.Filesystem.Root()
}

// UncommittedChanges lists staged, unstaged and untracked paths, sorted.
// A clean tree, or a directory outside any repository, yields an empty list.
func (r *Repo) UncommittedChanges(ctx context.Context) ([]string, error) {
	if !r.Available() {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to read status: %w", err)
	}

	var paths []string
	for path, fs := range status {
		if fs.Staging == git.Unmodified && fs.Worktree == git.Unmodified {
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// Diff returns the staged and unstaged diffs under markdown headings, or ""
// when both are empty or git cannot produce them.
func (r *Repo) Diff(ctx context.Context) string {
	staged, err := r.runner.Output(ctx, "git diff --cached")
	if err != nil {
		return ""
	}
	unstaged, err := r.runner.Output(ctx, "git diff")
	if err != nil {
		return ""
	}
	if strings.TrimSpace(staged) == "" && strings.TrimSpace(unstaged) == "" {
		return ""
	}
	return fmt.Sprintf("## Staged Changes\n%s\n\n## Unstaged Changes\n%s", staged, unstaged)
}

// Commit stages path and commits the index with message
func (r *Repo) Commit(ctx context.Context, path, message string) error {
	if !r.Available() {
		return ErrNoRepo
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open worktree: %w", err)
	}

	rel := path
	if filepath.IsAbs(path) {
		rel, err = filepath.Rel(wt.Filesystem.Root(), path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", path, err)
		}
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return fmt.Errorf("%s is outside the repository", path)
	}

	if _, err := wt.Add(rel); err != nil {
		return fmt.Errorf("failed to stage %s: %w", rel, err)
	}
	if _, err := wt.Commit(message, &git.CommitOptions{Author: r.Author}); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
