// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query turns a free-text argument into normalized search queries:
// it asks the generative service for alternative phrasings, extracts the
// numbered items from the reply, and cleans them into keyword strings.
package query

import (
	"regexp"
	"strings"
)

// stopWords is the closed set of function words excluded from search terms.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {}, "for": {},
	"from": {}, "has": {}, "he": {}, "in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {},
	"that": {}, "the": {}, "to": {}, "was": {}, "were": {}, "will": {}, "with": {},
	"more": {}, "also": {}, "such": {}, "then": {}, "than": {}, "this": {},
}

var (
	// edgeNonAlpha matches the leading or trailing run of non-letters.
	edgeNonAlpha = regexp.MustCompile(`^[^a-zA-Z]+|[^a-zA-Z]+$`)

	// wordPattern accepts tokens made only of lowercase ASCII letters.
	wordPattern = regexp.MustCompile(`^[a-z]+$`)
)

// IsStopWord reports whether w is in the stop-word set.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

// Normalize cleans each raw query and removes empty and duplicate results,
// keeping the first occurrence of each. Tokens containing anything other
// than letters (digits, hyphens, apostrophes) are dropped whole.
func Normalize(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	var out []string
	for _, r := range raw {
		q := normalizeOne(r)
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
	}
	return out
}

func normalizeOne(s string) string {
	s = strings.ToLower(edgeNonAlpha.ReplaceAllString(s, ""))

	var kept []string
	for _, w := range strings.Fields(s) {
		if IsStopWord(w) || !wordPattern.MatchString(w) {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}
