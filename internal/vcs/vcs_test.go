package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthor = &object.Signature{Name: "Test", Email: "test@example.com", When: time.Unix(0, 0)}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return dir
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestOpenOutsideRepository(t *testing.T) {
	r := Open(t.TempDir(), nil)
	assert.False(t, r.Available())
	assert.Empty(t, r.Root())

	paths, err := r.UncommittedChanges(context.Background())
	require.NoError(t, err)
	assert.Empty(t, paths)

	assert.ErrorIs(t, r.Commit(context.Background(), "x", "msg"), ErrNoRepo)
}

func TestUncommittedChanges(t *testing.T) {
	dir := initRepo(t)
	ctx := context.Background()
	r := Open(dir, nil)
	r.Author = testAuthor
	require.True(t, r.Available())

	paths, err := r.UncommittedChanges(ctx)
	require.NoError(t, err)
	assert.Empty(t, paths, "fresh repository is clean")

	write(t, filepath.Join(dir, "b.txt"), "b")
	write(t, filepath.Join(dir, "a.txt"), "a")

	paths, err = r.UncommittedChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, paths)

	require.NoError(t, r.Commit(ctx, filepath.Join(dir, "a.txt"), "add a"))
	paths, err = r.UncommittedChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.txt"}, paths)

	require.NoError(t, r.Commit(ctx, "b.txt", "add b"))
	paths, err = r.UncommittedChanges(ctx)
	require.NoError(t, err)
	assert.Empty(t, paths)

	write(t, filepath.Join(dir, "a.txt"), "changed")
	paths, err = r.UncommittedChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, paths)
}

func TestOpenFromSubdirectory(t *testing.T) {
	dir := initRepo(t)
	sub := filepath.Join(dir, "nested", "pkg")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	r := Open(sub, nil)
	assert.True(t, r.Available())
	assert.Equal(t, dir, r.Root())
}

func TestCommitOutsideRepository(t *testing.T) {
	dir := initRepo(t)
	r := Open(dir, nil)
	r.Author = testAuthor

	err := r.Commit(context.Background(), filepath.Join(t.TempDir(), "other.md"), "msg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside the repository")
}

func TestDiff(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := initRepo(t)
	ctx := context.Background()
	r := Open(dir, nil)
	r.Author = testAuthor

	write(t, filepath.Join(dir, "main.go"), "package main\n")
	require.NoError(t, r.Commit(ctx, "main.go", "init"))
	assert.Empty(t, r.Diff(ctx), "clean tree has no diff")

	write(t, filepath.Join(dir, "main.go"), "package main\n\nfunc main() {}\n")
	diff := r.Diff(ctx)
	assert.Contains(t, diff, "## Staged Changes\n")
	assert.Contains(t, diff, "## Unstaged Changes\n")
	assert.Contains(t, diff, "+func main() {}")
}

func TestDiffOutsideRepository(t *testing.T) {
	assert.Empty(t, Open(t.TempDir(), nil).Diff(context.Background()))
}
