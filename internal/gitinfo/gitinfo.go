// Package gitinfo resolves the repository state a lint run executed against.
// Lookups are best effort; a docs tree outside any git repository is normal
// and reports ok=false rather than an error.
package gitinfo

import (
	"log/slog"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/doclint/internal/logfields"
)

// Info identifies the commit a run linted.
type Info struct {
	Commit string
	Branch string
}

// ShortCommit returns the abbreviated commit hash for display.
func (i Info) ShortCommit() string {
	if len(i.Commit) < 8 {
		return i.Commit
	}
	return i.Commit[:8]
}

// Lookup resolves the HEAD commit and branch of the repository enclosing
// path. The second return value is false when path is not inside a git
// repository or HEAD cannot be resolved (for example an empty repository).
func Lookup(path string) (Info, bool) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		slog.Debug("No git repository found for docs root", logfields.Path(path), logfields.Error(err))
		return Info{}, false
	}

	ref, err := repo.Head()
	if err != nil {
		slog.Debug("Failed to resolve HEAD for docs root", logfields.Path(path), logfields.Error(err))
		return Info{}, false
	}

	info := Info{Commit: ref.Hash().String()}
	if ref.Name().IsBranch() {
		info.Branch = ref.Name().Short()
	}

	return info, true
}
