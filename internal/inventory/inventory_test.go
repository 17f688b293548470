package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnalyze_TitleAndHeadings(t *testing.T) {
	body := []byte("# User Guide\n\nSome intro text here.\n\n## Setup\n\nMore words follow.\n")

	stats := Analyze(body)
	require.Equal(t, "User Guide", stats.Title)
	require.Equal(t, 2, stats.Headings)
	require.Equal(t, 10, stats.Words)
}

func TestAnalyze_Links(t *testing.T) {
	body := []byte("See [API](api.md) and ![Diagram](d.png) and <https://example.com>.\n")

	stats := Analyze(body)
	require.Equal(t, 3, stats.Links)
}

func TestAnalyze_CodeBlocksNotCountedAsProse(t *testing.T) {
	body := []byte("Two words.\n\n```\nfunc main() { fmt.Println(\"ignored\") }\n```\n")

	stats := Analyze(body)
	require.Equal(t, 2, stats.Words)
}

func TestAnalyze_NoTitle(t *testing.T) {
	stats := Analyze([]byte("## Only a subheading\n\nBody text.\n"))
	require.Empty(t, stats.Title)
	require.Equal(t, 1, stats.Headings)
}

func TestScan_WalksTreeSorted(t *testing.T) {
	root := t.TempDir()
	writeDoc := func(rel, content string) {
		t.Helper()
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	}

	writeDoc("zebra.md", "# Zebra\n\nStripes.\n")
	writeDoc("guides/intro.md", "# Intro\n\nHello [world](w.md).\n")
	writeDoc("notes.txt", "not markdown")
	writeDoc(".git/README.md", "# Ignored\n")

	report, err := Scan(root)
	require.NoError(t, err)

	require.Len(t, report.Files, 2)
	require.Equal(t, "guides/intro.md", report.Files[0].Path)
	require.Equal(t, "zebra.md", report.Files[1].Path)
	require.Equal(t, "Intro", report.Files[0].Title)
	require.Equal(t, 1, report.Files[0].Links)

	require.Equal(t, report.Files[0].Words+report.Files[1].Words, report.TotalWords())
	require.Equal(t, 1, report.TotalLinks())
}

func TestScan_EmptyTree(t *testing.T) {
	report, err := Scan(t.TempDir())
	require.NoError(t, err)
	require.Empty(t, report.Files)
	require.Zero(t, report.TotalWords())
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
