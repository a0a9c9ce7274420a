// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search retrieves candidate abstracts from the arXiv query API and
// parses the Atom feeds it returns into Articles.
package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/argument-engine/pkg/types"
)

// DedupeByLink drops every article whose link already appeared earlier in
// articles and returns the kept records plus the number removed. Articles
// without a link are always kept.
func DedupeByLink(articles []types.Article) ([]types.Article, int) {
	seen := make(map[string]bool, len(articles))
	kept := make([]types.Article, 0, len(articles))
	removed := 0
	for _, a := range articles {
		key := strings.TrimSpace(a.Link)
		if key != "" && seen[key] {
			removed++
			continue
		}
		if key != "" {
			seen[key] = true
		}
		kept = append(kept, a)
	}
	return kept, removed
}

// FormatTable writes articles as a human-readable ranked table to w.
func FormatTable(articles []types.Article, w io.Writer) {
	if len(articles) == 0 {
		fmt.Fprintln(w, "No relevant articles found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-6s  %s\n", "Rank", "Title", "Score", "Link")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, a := range articles {
		score := "-"
		if a.Similarity != nil {
			score = fmt.Sprintf("%.2f", *a.Similarity)
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-6s  %s\n", i+1, truncate(oneLine(a.Title), 60), score, a.Link)
	}

	fmt.Fprintf(w, "\n%d results\n", len(articles))
}

// FormatJSON writes articles as indented JSON to w.
func FormatJSON(articles []types.Article, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(articles)
}

// oneLine collapses the line breaks arXiv puts inside long titles.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
