package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doclint/internal/config"
	"git.home.luguber.info/inful/doclint/internal/history"
	"git.home.luguber.info/inful/doclint/internal/inventory"
	"git.home.luguber.info/inful/doclint/internal/runner"
	"git.home.luguber.info/inful/doclint/internal/targets"
)

const fakeValeScript = `#!/bin/sh
echo "doc.md:3:1: error wordy prose"
exit ${FAKEVALE_EXIT:-0}
`

const fakeNbqaScript = `#!/bin/sh
shift
nb="$1"
case "$nb" in
  *fail*)
    echo "$nb:cell_1:1: error style violation"
    exit 1
    ;;
esac
echo "$nb: no issues"
exit 0
`

// newCLIEnv installs fake tools on PATH, writes a config file wired to them,
// and creates a docs tree with the given notebooks. It returns the CLI root
// and the docs root path.
func newCLIEnv(t *testing.T, notebooks ...string) (*CLI, string) {
	t.Helper()

	binDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "fakevale"), []byte(fakeValeScript), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "fakenbqa"), []byte(fakeNbqaScript), 0o755))
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Setenv("FAKEVALE_EXIT", "0")

	workDir := t.TempDir()
	docsRoot := filepath.Join(workDir, "docs")
	require.NoError(t, os.MkdirAll(docsRoot, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(docsRoot, "guide.md"), []byte("# Guide\n\nSome prose.\n"), 0o644))
	for _, nb := range notebooks {
		path := filepath.Join(docsRoot, filepath.FromSlash(nb))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	}

	configPath := filepath.Join(workDir, "doclint.yaml")
	configBody := fmt.Sprintf(`docs:
  root: %q
linter:
  command: fakevale
adapter:
  command: fakenbqa
  linter: fakevale
history:
  path: %q
`, docsRoot, filepath.Join(workDir, ".doclint", "history.db"))
	require.NoError(t, os.WriteFile(configPath, []byte(configBody), 0o644))

	return &CLI{Config: configPath}, docsRoot
}

func TestCheckRun_CleanTree(t *testing.T) {
	root, _ := newCLIEnv(t, "a.ipynb")

	var out bytes.Buffer
	outcome, err := (&CheckCmd{Format: "text"}).run(context.Background(), root, &out)
	require.NoError(t, err)

	assert.Equal(t, runner.OutcomePassed, outcome)
	assert.Contains(t, out.String(), "All documentation passes linting")
	assert.Contains(t, out.String(), "1 notebook discovered")
	// Relayed tool output appears before the summary.
	assert.Contains(t, out.String(), "a.ipynb: no issues")
}

func TestCheckRun_ViolationsSummarized(t *testing.T) {
	root, _ := newCLIEnv(t, "a-fail.ipynb", "b.ipynb")

	var out bytes.Buffer
	outcome, err := (&CheckCmd{Format: "text", KeepGoing: true}).run(context.Background(), root, &out)
	require.NoError(t, err)

	assert.Equal(t, runner.OutcomeViolations, outcome)
	assert.Contains(t, out.String(), "✗ a-fail.ipynb")
	assert.Contains(t, out.String(), "style violations")
}

func TestCheckRun_QuietSuppressesRelay(t *testing.T) {
	root, _ := newCLIEnv(t, "a.ipynb")

	var out bytes.Buffer
	_, err := (&CheckCmd{Format: "text", Quiet: true}).run(context.Background(), root, &out)
	require.NoError(t, err)

	assert.NotContains(t, out.String(), "no issues")
	assert.Contains(t, out.String(), "All documentation passes linting")
}

func TestCheckRun_JSONFormat(t *testing.T) {
	root, _ := newCLIEnv(t, "a-fail.ipynb")

	var out bytes.Buffer
	outcome, err := (&CheckCmd{Format: "json", KeepGoing: true}).run(context.Background(), root, &out)
	require.NoError(t, err)
	assert.Equal(t, runner.OutcomeViolations, outcome)

	// JSON mode never interleaves raw tool output.
	var decoded struct {
		Outcome       string `json:"outcome"`
		TargetsTotal  int    `json:"targets_total"`
		TargetsFailed int    `json:"targets_failed"`
		Results       []struct {
			Target string `json:"target"`
			Output string `json:"output"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "violations", decoded.Outcome)
	assert.Equal(t, 2, decoded.TargetsTotal)
	assert.Equal(t, 1, decoded.TargetsFailed)
	// Tool output is embedded per target instead.
	require.Len(t, decoded.Results, 2)
	assert.Contains(t, decoded.Results[1].Output, "style violation")
}

func TestCheckRun_PathArgOverridesConfig(t *testing.T) {
	root, _ := newCLIEnv(t)

	otherDocs := filepath.Join(t.TempDir(), "elsewhere")
	require.NoError(t, os.MkdirAll(otherDocs, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(otherDocs, "x.md"), []byte("# X\n"), 0o644))

	var out bytes.Buffer
	outcome, err := (&CheckCmd{Path: otherDocs, Format: "json"}).run(context.Background(), root, &out)
	require.NoError(t, err)
	assert.Equal(t, runner.OutcomePassed, outcome)

	var decoded struct {
		DocsRoot string `json:"docs_root"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, otherDocs, decoded.DocsRoot)
}

func TestCheckRun_MissingRootFails(t *testing.T) {
	root, _ := newCLIEnv(t)

	var out bytes.Buffer
	_, err := (&CheckCmd{Path: filepath.Join(t.TempDir(), "absent")}).run(context.Background(), root, &out)
	require.Error(t, err)
}

func TestCheckRun_RecordStoresRun(t *testing.T) {
	root, docsRoot := newCLIEnv(t, "a.ipynb")

	var out bytes.Buffer
	_, err := (&CheckCmd{Format: "text", Quiet: true, Record: true}).run(context.Background(), root, &out)
	require.NoError(t, err)

	cfg, err := config.Load(root.Config)
	require.NoError(t, err)
	store, err := history.Open(cfg.History.Path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	recs, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, docsRoot, recs[0].DocsRoot)
	assert.Equal(t, "passed", recs[0].Outcome)
	assert.Equal(t, 2, recs[0].TargetsTotal)
}

func TestCheckRun_ExplicitConfigMustExist(t *testing.T) {
	root := &CLI{Config: filepath.Join(t.TempDir(), "nope.yaml")}

	var out bytes.Buffer
	_, err := (&CheckCmd{}).run(context.Background(), root, &out)
	require.Error(t, err)
}

func TestCheckEffectiveTimeout(t *testing.T) {
	cfg := config.Default()
	cfg.Run.Timeout = "30s"

	assert.Equal(t, 30*time.Second, (&CheckCmd{}).effectiveTimeout(cfg))
	assert.Equal(t, time.Second, (&CheckCmd{Timeout: time.Second}).effectiveTimeout(cfg))
}

func TestLoadConfig_DefaultPathIsOptional(t *testing.T) {
	oldCwd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(oldCwd) }()
	require.NoError(t, os.Chdir(t.TempDir()))

	cfg, err := loadConfig(&CLI{Config: config.DefaultPath})
	require.NoError(t, err)
	assert.Equal(t, "vale", cfg.Linter.Command)
}

func TestDiscoverPrint_Text(t *testing.T) {
	set := &targets.Set{Root: "docs", Notebooks: []string{"a.ipynb", "sub/b.ipynb"}}

	var out bytes.Buffer
	cmd := &DiscoverCmd{Format: "text"}
	require.NoError(t, cmd.print(&out, set, nil, true))

	assert.Contains(t, out.String(), "Detected documentation directory: docs")
	assert.Contains(t, out.String(), "Targets (3):")
	assert.Contains(t, out.String(), ". (directory lint)")
	assert.Contains(t, out.String(), "sub/b.ipynb")
}

func TestDiscoverPrint_JSON(t *testing.T) {
	set := &targets.Set{Root: "docs"}
	report := &inventory.Report{Files: []inventory.DocStats{{Path: "guide.md", Title: "Guide", Words: 12}}}

	var out bytes.Buffer
	cmd := &DiscoverCmd{Format: "json"}
	require.NoError(t, cmd.print(&out, set, report, false))

	var decoded struct {
		DocsRoot        string   `json:"docs_root"`
		WasAutoDetected bool     `json:"was_auto_detected"`
		Notebooks       []string `json:"notebooks"`
		Stats           *struct {
			Files []inventory.DocStats `json:"files"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "docs", decoded.DocsRoot)
	assert.False(t, decoded.WasAutoDetected)
	assert.NotNil(t, decoded.Notebooks)
	assert.Empty(t, decoded.Notebooks)
	require.NotNil(t, decoded.Stats)
	assert.Equal(t, "Guide", decoded.Stats.Files[0].Title)
}

func TestHistoryPrintList(t *testing.T) {
	recs := []history.Record{
		{
			ID:            "aabbccddeeff",
			StartedAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			Outcome:       "violations",
			TargetsTotal:  3,
			TargetsFailed: 1,
			DocsRoot:      "docs",
			GitCommit:     "0123456789abcdef",
			GitBranch:     "main",
		},
	}

	var out bytes.Buffer
	cmd := &HistoryCmd{Format: "text"}
	require.NoError(t, cmd.printList(&out, recs))

	assert.Contains(t, out.String(), "aabbccdd")
	assert.Contains(t, out.String(), "violations")
	assert.Contains(t, out.String(), "1/3 targets failed")
	assert.Contains(t, out.String(), "[main @ 01234567]")
}

func TestHistoryPrintList_Empty(t *testing.T) {
	var out bytes.Buffer
	cmd := &HistoryCmd{Format: "text"}
	require.NoError(t, cmd.printList(&out, nil))
	assert.Contains(t, out.String(), "No recorded runs.")
}

func TestHistoryPrintRecord(t *testing.T) {
	rec := &history.Record{
		ID:            "aabbccddeeff",
		StartedAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Duration:      3 * time.Second,
		DocsRoot:      "docs",
		Policy:        "fail-fast",
		Outcome:       "violations",
		TargetsTotal:  2,
		TargetsFailed: 1,
		Targets: []history.TargetRecord{
			{Target: ".", Kind: "docs-dir", ExitCode: 0, Passed: true},
			{Target: "a.ipynb", Kind: "notebook", ExitCode: 1, Passed: false, Output: "a.ipynb:cell_1:1: error\n"},
		},
	}

	var out bytes.Buffer
	cmd := &HistoryCmd{Format: "text"}
	require.NoError(t, cmd.printRecord(&out, rec))

	assert.Contains(t, out.String(), "Run:        aabbccddeeff")
	assert.Contains(t, out.String(), "✓ . (docs-dir, exit 0")
	assert.Contains(t, out.String(), "✗ a.ipynb (notebook, exit 1")
	assert.Contains(t, out.String(), "cell_1:1: error")
}

func TestHistoryPrintRecord_JSON(t *testing.T) {
	rec := &history.Record{ID: "aabb", Outcome: "passed"}

	var out bytes.Buffer
	cmd := &HistoryCmd{Format: "json"}
	require.NoError(t, cmd.printRecord(&out, rec))

	var decoded history.Record
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "aabb", decoded.ID)
}

func TestRunInit_WritesLoadableConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "doclint.yaml")

	require.NoError(t, RunInit(configPath, false))

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "vale", cfg.Linter.Command)
	assert.Equal(t, "nbqa", cfg.Adapter.Command)
	assert.True(t, cfg.Notebooks.Enabled)

	// A second init without force refuses to overwrite.
	require.Error(t, RunInit(configPath, false))
	require.NoError(t, RunInit(configPath, true))
}

func TestWatchCmd_DebounceDefaultsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Watch.Debounce = "2s"
	assert.Equal(t, 2*time.Second, cfg.WatchDebounce())
}
