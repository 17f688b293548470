package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	derrors "git.home.luguber.info/inful/doclint/internal/errors"
	"git.home.luguber.info/inful/doclint/internal/inventory"
	"git.home.luguber.info/inful/doclint/internal/targets"
)

// DiscoverCmd implements the 'discover' command. It lists what a check run
// would lint without invoking any external tool.
type DiscoverCmd struct {
	Path               string `arg:"" optional:"" help:"Documentation root to inspect. Defaults to intelligent detection"`
	IncludeCheckpoints bool   `help:"Also list notebook checkpoint artifacts"`
	Stats              bool   `help:"Include Markdown prose statistics per document"`
	Format             string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
}

func (d *DiscoverCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return derrors.ConfigInvalid(root.Config, err)
	}

	explicit := d.Path
	if explicit == "" {
		explicit = cfg.Docs.Root
	}
	docsRoot, autoDetected, err := targets.ResolveRoot(explicit)
	if err != nil {
		return err
	}

	set, err := targets.Discover(docsRoot, targets.DiscoverOptions{
		NotebooksEnabled:   cfg.Notebooks.Enabled,
		IncludeCheckpoints: d.IncludeCheckpoints || cfg.Notebooks.IncludeCheckpoints,
	})
	if err != nil {
		return derrors.DiscoveryError(docsRoot, err)
	}

	var report *inventory.Report
	if d.Stats {
		report, err = inventory.Scan(docsRoot)
		if err != nil {
			return derrors.DiscoveryError(docsRoot, err)
		}
	}

	return d.print(os.Stdout, set, report, autoDetected)
}

// discoveryOutput is the JSON shape of a discovery listing.
type discoveryOutput struct {
	DocsRoot        string            `json:"docs_root"`
	WasAutoDetected bool              `json:"was_auto_detected"`
	Notebooks       []string          `json:"notebooks"`
	Stats           *inventory.Report `json:"stats,omitempty"`
}

func (d *DiscoverCmd) print(w io.Writer, set *targets.Set, report *inventory.Report, autoDetected bool) error {
	if d.Format == "json" {
		notebooks := set.Notebooks
		if notebooks == nil {
			notebooks = []string{}
		}
		out := discoveryOutput{
			DocsRoot:        set.Root,
			WasAutoDetected: autoDetected,
			Notebooks:       notebooks,
			Stats:           report,
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if autoDetected {
		fmt.Fprintf(w, "Detected documentation directory: %s\n", set.Root)
	} else {
		fmt.Fprintf(w, "Documentation directory: %s\n", set.Root)
	}

	fmt.Fprintf(w, "\nTargets (%d):\n", len(set.Notebooks)+1)
	fmt.Fprintf(w, "  . (directory lint)\n")
	for _, nb := range set.Notebooks {
		fmt.Fprintf(w, "  %s\n", nb)
	}

	if report != nil {
		fmt.Fprintf(w, "\nMarkdown documents (%d, %d words, %d links):\n",
			len(report.Files), report.TotalWords(), report.TotalLinks())
		for _, f := range report.Files {
			title := f.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Fprintf(w, "  %s  %q  %d headings, %d links, %d words\n",
				f.Path, title, f.Headings, f.Links, f.Words)
		}
	}

	return nil
}
