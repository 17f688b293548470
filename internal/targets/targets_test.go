package targets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newDocsTree creates a documentation tree with regular notebooks,
// checkpoint artifacts, and non-notebook files.
func newDocsTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := []string{
		"a.ipynb",
		"b.ipynb",
		"a-checkpoint.ipynb",
		".ipynb_checkpoints/a.ipynb",
		"nested/deep/c.ipynb",
		"nested/.ipynb_checkpoints/c.ipynb",
		".git/objects/stray.ipynb",
		"guide.md",
		"notes.txt",
	}
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	}
	return root
}

func TestDiscover(t *testing.T) {
	t.Run("default filters checkpoints", func(t *testing.T) {
		root := newDocsTree(t)

		set, err := Discover(root, DiscoverOptions{NotebooksEnabled: true})
		require.NoError(t, err)

		assert.Equal(t, root, set.Root)
		assert.Equal(t, []string{"a.ipynb", "b.ipynb", "nested/deep/c.ipynb"}, set.Notebooks)
	})

	t.Run("include checkpoints keeps artifacts", func(t *testing.T) {
		root := newDocsTree(t)

		set, err := Discover(root, DiscoverOptions{NotebooksEnabled: true, IncludeCheckpoints: true})
		require.NoError(t, err)

		assert.Equal(t, []string{
			".ipynb_checkpoints/a.ipynb",
			"a-checkpoint.ipynb",
			"a.ipynb",
			"b.ipynb",
			"nested/.ipynb_checkpoints/c.ipynb",
			"nested/deep/c.ipynb",
		}, set.Notebooks)
	})

	t.Run("git directory is always skipped", func(t *testing.T) {
		root := newDocsTree(t)

		set, err := Discover(root, DiscoverOptions{NotebooksEnabled: true, IncludeCheckpoints: true})
		require.NoError(t, err)

		for _, nb := range set.Notebooks {
			assert.NotContains(t, nb, ".git/")
		}
	})

	t.Run("notebooks disabled yields empty set", func(t *testing.T) {
		root := newDocsTree(t)

		set, err := Discover(root, DiscoverOptions{NotebooksEnabled: false})
		require.NoError(t, err)
		assert.Empty(t, set.Notebooks)
	})

	t.Run("tree without notebooks", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "guide.md"), []byte("# hi"), 0o644))

		set, err := Discover(root, DiscoverOptions{NotebooksEnabled: true})
		require.NoError(t, err)
		assert.Empty(t, set.Notebooks)
	})

	t.Run("deterministic ordering", func(t *testing.T) {
		root := newDocsTree(t)

		first, err := Discover(root, DiscoverOptions{NotebooksEnabled: true})
		require.NoError(t, err)
		second, err := Discover(root, DiscoverOptions{NotebooksEnabled: true})
		require.NoError(t, err)

		assert.Equal(t, first.Notebooks, second.Notebooks)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := Discover(filepath.Join(t.TempDir(), "absent"), DiscoverOptions{NotebooksEnabled: true})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRootNotFound)
	})
}

func TestSet_Targets(t *testing.T) {
	set := &Set{Root: "docs", Notebooks: []string{"a.ipynb", "b.ipynb"}}

	got := set.Targets()
	require.Len(t, got, 3)
	assert.Equal(t, Target{Path: ".", Kind: KindDocsDir}, got[0])
	assert.Equal(t, Target{Path: "a.ipynb", Kind: KindNotebook}, got[1])
	assert.Equal(t, Target{Path: "b.ipynb", Kind: KindNotebook}, got[2])
}

func TestDetectRoot(t *testing.T) {
	chdir := func(t *testing.T, dir string) {
		t.Helper()
		cwd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(dir))
		t.Cleanup(func() { _ = os.Chdir(cwd) })
	}

	t.Run("prefers docs", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "docs"), 0o755))
		require.NoError(t, os.Mkdir(filepath.Join(dir, "documentation"), 0o755))
		chdir(t, dir)

		root, found := DetectRoot()
		assert.True(t, found)
		assert.Equal(t, "docs", root)
	})

	t.Run("falls back to documentation", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "documentation"), 0o755))
		chdir(t, dir)

		root, found := DetectRoot()
		assert.True(t, found)
		assert.Equal(t, "documentation", root)
	})

	t.Run("falls back to current directory", func(t *testing.T) {
		chdir(t, t.TempDir())

		root, found := DetectRoot()
		assert.False(t, found)
		assert.Equal(t, ".", root)
	})
}

func TestResolveRoot(t *testing.T) {
	t.Run("explicit root must exist", func(t *testing.T) {
		_, _, err := ResolveRoot(filepath.Join(t.TempDir(), "absent"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRootNotFound)
	})

	t.Run("explicit root is returned as given", func(t *testing.T) {
		dir := t.TempDir()
		root, auto, err := ResolveRoot(dir)
		require.NoError(t, err)
		assert.False(t, auto)
		assert.Equal(t, dir, root)
	})

	t.Run("empty root auto-detects", func(t *testing.T) {
		cwd, err := os.Getwd()
		require.NoError(t, err)
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "docs"), 0o755))
		require.NoError(t, os.Chdir(dir))
		t.Cleanup(func() { _ = os.Chdir(cwd) })

		root, auto, err := ResolveRoot("")
		require.NoError(t, err)
		assert.True(t, auto)
		assert.Equal(t, "docs", root)
	})
}
