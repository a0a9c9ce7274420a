// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pdiddy/argument-engine/pkg/types"
)

// --- Deduplication ---

func TestDedupeByLink(t *testing.T) {
	in := []types.Article{
		{Title: "A", Link: "http://arxiv.org/abs/1"},
		{Title: "B", Link: "http://arxiv.org/abs/2"},
		{Title: "A again", Link: " http://arxiv.org/abs/1 "},
		{Title: "no link"},
		{Title: "no link either"},
	}

	got, removed := DedupeByLink(in)
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	wantTitles := []string{"A", "B", "no link", "no link either"}
	if len(got) != len(wantTitles) {
		t.Fatalf("got %d articles, want %d", len(got), len(wantTitles))
	}
	for i, title := range wantTitles {
		if got[i].Title != title {
			t.Errorf("[%d] Title = %q, want %q", i, got[i].Title, title)
		}
	}
}

func TestDedupeByLinkEmpty(t *testing.T) {
	got, removed := DedupeByLink(nil)
	if len(got) != 0 || removed != 0 {
		t.Errorf("DedupeByLink(nil) = %v, %d", got, removed)
	}
}

// --- Formatting ---

func TestFormatTable(t *testing.T) {
	score := 0.87
	articles := []types.Article{
		{Title: "Dark Matter Halos\n  and Galaxy Formation", Link: "http://arxiv.org/abs/1", Similarity: &score},
		{Title: strings.Repeat("x", 80), Link: "http://arxiv.org/abs/2"},
	}

	var buf bytes.Buffer
	FormatTable(articles, &buf)
	out := buf.String()

	for _, want := range []string{
		"Rank",
		"Dark Matter Halos and Galaxy Formation",
		"0.87",
		"http://arxiv.org/abs/1",
		strings.Repeat("x", 57) + "...",
		"2 results",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, strings.Repeat("x", 58)) {
		t.Error("long title was not truncated")
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	title := strings.Repeat("é", 70)
	got := truncate(title, 60)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate produced invalid UTF-8: %q", got)
	}
	if want := strings.Repeat("é", 57) + "..."; got != want {
		t.Errorf("truncate = %q, want %q", got, want)
	}
	if got := truncate("Étoiles", 60); got != "Étoiles" {
		t.Errorf("short title changed: %q", got)
	}
}

func TestFormatTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(nil, &buf)
	if got := buf.String(); got != "No relevant articles found.\n" {
		t.Errorf("output = %q", got)
	}
}

func TestFormatJSON(t *testing.T) {
	score := 0.5
	articles := []types.Article{
		{Title: "T", Summary: "S", Link: "L", Similarity: &score},
		{Title: "U", Summary: "V", Link: "W"},
	}

	var buf bytes.Buffer
	if err := FormatJSON(articles, &buf); err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if len(decoded) != 2 {
		t.Fatalf("got %d records, want 2", len(decoded))
	}
	if decoded[0]["similarity"] != 0.5 {
		t.Errorf("similarity = %v, want 0.5", decoded[0]["similarity"])
	}
	if _, ok := decoded[1]["similarity"]; ok {
		t.Error("absent similarity should be omitted")
	}
}
