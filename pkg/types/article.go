// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the argument-engine pipeline:
// retrieved articles, configuration, and the error sentinels that stages use
// to classify upstream failures.
package types

// Article represents one bibliographic entry retrieved from the literature
// search service. Fields are copied verbatim from the feed entry; an Article
// is never mutated after the aggregator has scored and ordered it.
type Article struct {
	// Title is the entry title as returned by the source, untrimmed.
	Title string `json:"title" yaml:"title"`

	// Summary is the abstract text.
	Summary string `json:"summary" yaml:"summary"`

	// Link is the canonical identifier URI of the entry (the Atom <id>).
	Link string `json:"link" yaml:"link"`

	// Similarity is the optional relevance score against the argument.
	// Nil means the record was never scored and sorts as 0.
	Similarity *float64 `json:"similarity,omitempty" yaml:"similarity,omitempty"`
}

// Score returns the sort key for the article: its similarity, or 0 when absent.
func (a Article) Score() float64 {
	if a.Similarity == nil {
		return 0
	}
	return *a.Similarity
}

// WithSimilarity returns a copy of a carrying the given score.
func (a Article) WithSimilarity(score float64) Article {
	a.Similarity = &score
	return a
}
