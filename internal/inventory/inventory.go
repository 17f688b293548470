// Package inventory summarizes the prose content of a documentation tree.
//
// This is an analysis API for reporting; it does not attempt to re-render
// Markdown or judge style (that is the lint tool's job).
package inventory

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// DocStats describes one Markdown document.
type DocStats struct {
	Path     string `json:"path"`
	Title    string `json:"title,omitempty"`
	Headings int    `json:"headings"`
	Links    int    `json:"links"`
	Words    int    `json:"words"`
}

// Report aggregates stats for every Markdown document under a docs root.
type Report struct {
	Files []DocStats `json:"files"`
}

// TotalWords sums the word counts of all documents.
func (r *Report) TotalWords() int {
	total := 0
	for _, f := range r.Files {
		total += f.Words
	}
	return total
}

// TotalLinks sums the link counts of all documents.
func (r *Report) TotalLinks() int {
	total := 0
	for _, f := range r.Files {
		total += f.Links
	}
	return total
}

// Scan walks root and analyzes every Markdown file, in sorted path order.
// Paths in the report are relative to root with forward slashes.
func Scan(root string) (*Report, error) {
	report := &Report{Files: []DocStats{}}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		body, err := os.ReadFile(path) // #nosec G304 -- path comes from walking the docs root
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", rel, err)
		}

		stats := Analyze(body)
		stats.Path = filepath.ToSlash(rel)
		report.Files = append(report.Files, stats)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan docs tree: %w", err)
	}

	sort.Slice(report.Files, func(i, j int) bool {
		return report.Files[i].Path < report.Files[j].Path
	})

	return report, nil
}

// Analyze parses a Markdown body and counts its prose structure.
// Words cover prose text only; fenced code is not represented as text
// nodes in the AST and is therefore not counted.
func Analyze(body []byte) DocStats {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var stats DocStats
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.Heading:
			stats.Headings++
			if node.Level == 1 && stats.Title == "" {
				stats.Title = nodeText(node, body)
			}
		case *gmast.Link, *gmast.AutoLink, *gmast.Image:
			stats.Links++
		case *gmast.Text:
			stats.Words += len(strings.Fields(string(node.Segment.Value(body))))
		}
		return gmast.WalkContinue, nil
	})

	return stats
}

// nodeText concatenates the text segments beneath a node.
func nodeText(n gmast.Node, source []byte) string {
	var sb strings.Builder
	_ = gmast.Walk(n, func(child gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if t, ok := child.(*gmast.Text); ok {
			sb.Write(t.Segment.Value(source))
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
