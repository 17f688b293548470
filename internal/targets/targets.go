// Package targets models a lint run's target set: the documentation root,
// handed whole to the style linter, plus the notebook files discovered
// beneath it. The set is recomputed on every run; nothing here caches.
package targets

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/doclint/internal/logfields"
)

// Kind classifies a lint target.
type Kind string

const (
	KindDocsDir  Kind = "docs-dir"
	KindNotebook Kind = "notebook"
)

// Target is one unit of work for the runner. Path is relative to the
// documentation root; the directory target uses ".".
type Target struct {
	Path string
	Kind Kind
}

// Set is the complete target set for one run.
type Set struct {
	// Root is the documentation root as given by the caller.
	Root string
	// Notebooks holds root-relative notebook paths in sorted order.
	Notebooks []string
}

// Targets returns the ordered work list: the directory target first, then
// every notebook.
func (s *Set) Targets() []Target {
	out := make([]Target, 0, len(s.Notebooks)+1)
	out = append(out, Target{Path: ".", Kind: KindDocsDir})
	for _, nb := range s.Notebooks {
		out = append(out, Target{Path: nb, Kind: KindNotebook})
	}
	return out
}

// DiscoverOptions tunes notebook discovery.
type DiscoverOptions struct {
	// NotebooksEnabled gates notebook discovery entirely.
	NotebooksEnabled bool
	// IncludeCheckpoints disables the checkpoint-artifact filter.
	IncludeCheckpoints bool
}

// Discover walks root and builds the target set. Notebook paths are matched
// by the .ipynb suffix, returned relative to root and sorted. Checkpoint
// artifacts are excluded unless opts.IncludeCheckpoints is set. Hidden
// directories are traversed (checkpoint directories are hidden); .git is
// always skipped.
func Discover(root string, opts DiscoverOptions) (*Set, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	set := &Set{Root: root}
	if !opts.NotebooksEnabled {
		return set, nil
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".ipynb") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if !opts.IncludeCheckpoints && IsCheckpointArtifact(rel) {
			slog.Debug("skipping checkpoint artifact", logfields.Path(rel))
			return nil
		}
		set.Notebooks = append(set.Notebooks, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWalkFailed, root, err)
	}

	sort.Strings(set.Notebooks)
	return set, nil
}

// DetectRoot detects the documentation directory using conventional
// locations. The boolean reports whether a conventional directory was found
// or the current directory fallback is in effect.
func DetectRoot() (string, bool) {
	if info, err := os.Stat("docs"); err == nil && info.IsDir() {
		return "docs", true
	}

	if info, err := os.Stat("documentation"); err == nil && info.IsDir() {
		return "documentation", true
	}

	return ".", false
}

// ResolveRoot returns the documentation root to lint. An explicit non-empty
// path must exist; an empty path falls back to DetectRoot.
func ResolveRoot(explicit string) (root string, autoDetected bool, err error) {
	if explicit != "" {
		info, statErr := os.Stat(explicit)
		if statErr != nil || !info.IsDir() {
			return "", false, fmt.Errorf("%w: %s", ErrRootNotFound, explicit)
		}
		return explicit, false, nil
	}
	root, _ = DetectRoot()
	return root, true, nil
}
