package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pevans/techcrunch-parser/document"
	"github.com/pevans/techcrunch-parser/plugin"
)

const (
	titleWidth    = 60
	authorWidth   = 20
	categoryWidth = 12
)

// printListTable prints documents in human-readable table format
func printListTable(w io.Writer, docs []document.Document) {
	if len(docs) == 0 {
		fmt.Fprintln(w, "No documents to display.")
		return
	}

	row := func(published, title, author, category string) {
		fmt.Fprintf(w, "%-16s  %s  %s  %s\n",
			published,
			cell(title, titleWidth),
			cell(author, authorWidth),
			cell(category, categoryWidth),
		)
	}

	row("PUBLISHED", "TITLE", "AUTHOR", "CATEGORY")
	fmt.Fprintln(w, strings.Repeat("-", 16+2+titleWidth+2+authorWidth+2+categoryWidth))

	for _, doc := range docs {
		author := doc.Author()
		if author == "" {
			author = "Unknown"
		}
		row(doc.Published.Format("2006-01-02 15:04"), doc.Title, author, doc.Category())
	}

	fmt.Fprintf(w, "\nTotal: %d documents\n", len(docs))
}

// cell truncates and pads s to width display columns.
func cell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "..."), width)
}

// printListJSON prints documents in JSON format
func printListJSON(w io.Writer, docs []document.Document) error {
	if docs == nil {
		docs = []document.Document{}
	}

	output := map[string]any{
		"documents": docs,
		"total":     len(docs),
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Fprintln(w, string(data))
	return nil
}

// printOutcome summarises a finished run. Submitted counts every document
// the host took, stored only the new ones.
func printOutcome(w io.Writer, outcome plugin.Outcome, stored, duplicates int) {
	fmt.Fprintf(w, "Run %s: %s\n", outcome.Status, outcome.Reason)
	fmt.Fprintf(w, "  Pages:      %d\n", outcome.Pages)
	fmt.Fprintf(w, "  Submitted:  %d\n", outcome.Accepted)
	fmt.Fprintf(w, "  Stored:     %d\n", stored)
	fmt.Fprintf(w, "  Duplicates: %d\n", duplicates)
	fmt.Fprintf(w, "  Skipped:    %d\n", outcome.Skipped)
	if kind, ok := outcome.Restriction(); ok {
		fmt.Fprintf(w, "  Restriction: %s\n", kind)
	}
}
