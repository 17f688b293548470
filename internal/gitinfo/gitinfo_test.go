package gitinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// initRepoWithCommit initializes a git repository in a temp dir with one
// commit and a docs/ subdirectory, returning the repo path and commit hash.
func initRepoWithCommit(t *testing.T) (string, plumbing.Hash) {
	t.Helper()

	repoPath := t.TempDir()
	repo, err := git.PlainInit(repoPath, false)
	if err != nil {
		t.Fatalf("failed to initialize git repo: %v", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}

	if err := os.MkdirAll(filepath.Join(repoPath, "docs"), 0o755); err != nil {
		t.Fatalf("failed to create docs dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(repoPath, "docs", "index.md"), []byte("# Docs\n"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := wt.Add("docs/index.md"); err != nil {
		t.Fatalf("failed to add file: %v", err)
	}

	hash, err := wt.Commit("add docs", &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "t@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("failed to commit: %v", err)
	}

	return repoPath, hash
}

func TestLookupInsideRepository(t *testing.T) {
	repoPath, hash := initRepoWithCommit(t)

	info, ok := Lookup(filepath.Join(repoPath, "docs"))
	if !ok {
		t.Fatal("expected lookup to succeed inside a repository")
	}

	if info.Commit != hash.String() {
		t.Errorf("expected commit %s, got %s", hash.String(), info.Commit)
	}
	if info.Branch == "" {
		t.Error("expected a branch name for a fresh commit on HEAD")
	}
}

func TestLookupOutsideRepository(t *testing.T) {
	info, ok := Lookup(t.TempDir())
	if ok {
		t.Errorf("expected lookup to fail outside a repository, got %+v", info)
	}
	if info.Commit != "" || info.Branch != "" {
		t.Errorf("expected zero info, got %+v", info)
	}
}

func TestLookupEmptyRepository(t *testing.T) {
	repoPath := t.TempDir()
	if _, err := git.PlainInit(repoPath, false); err != nil {
		t.Fatalf("failed to initialize git repo: %v", err)
	}

	// HEAD exists but points at an unborn branch.
	if _, ok := Lookup(repoPath); ok {
		t.Error("expected lookup to fail in an empty repository")
	}
}

func TestShortCommit(t *testing.T) {
	tests := []struct {
		name   string
		commit string
		want   string
	}{
		{name: "full hash", commit: "0123456789abcdef0123456789abcdef01234567", want: "01234567"},
		{name: "short value", commit: "abc", want: "abc"},
		{name: "empty", commit: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Info{Commit: tt.commit}.ShortCommit()
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
