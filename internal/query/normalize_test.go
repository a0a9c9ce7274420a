// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "dedup keeps first occurrence",
			in:   []string{"gravity waves", "GRAVITY WAVES!", "dark matter"},
			want: []string{"gravity waves", "dark matter"},
		},
		{
			name: "stop words removed",
			in:   []string{"The effect of dark matter on the formation of galaxies"},
			want: []string{"effect dark matter formation galaxies"},
		},
		{
			name: "edge punctuation stripped before lowercasing",
			in:   []string{"\"[Quantum entanglement]\"", "  ...EPR paradox?!"},
			want: []string{"quantum entanglement", "epr paradox"},
		},
		{
			name: "tokens with digits hyphens or apostrophes dropped whole",
			in:   []string{"COVID-19 vaccine efficacy in 2021 children's trials"},
			want: []string{"vaccine efficacy trials"},
		},
		{
			name: "inner punctuation drops the token",
			in:   []string{"climate change, adaptation"},
			want: []string{"climate adaptation"},
		},
		{
			name: "only stop words and punctuation yields nothing",
			in:   []string{"the, and of", "!!!", "A is the"},
			want: nil,
		},
		{
			name: "empty input",
			in:   nil,
			want: nil,
		},
		{
			name: "empty strings discarded",
			in:   []string{"", "   ", "neural networks"},
			want: []string{"neural networks"},
		},
		{
			name: "collapses internal whitespace",
			in:   []string{"deep \t  reinforcement\nlearning"},
			want: []string{"deep reinforcement learning"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := [][]string{
		{"gravity waves", "GRAVITY WAVES!", "dark matter"},
		{"1. The role of CRISPR-Cas9 in gene therapy", "gene therapy", "Gene Therapy."},
		{"it's a test", "more than this", "x"},
		{},
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestStopWordOnlyInputIsEmpty(t *testing.T) {
	var all []string
	for w := range stopWords {
		all = append(all, w+"!", "("+w+" "+w+")")
	}
	assert.Empty(t, Normalize(all))
}

func TestIsStopWord(t *testing.T) {
	assert.True(t, IsStopWord("the"))
	assert.True(t, IsStopWord("than"))
	assert.False(t, IsStopWord("The"), "lookup is case sensitive; callers lowercase first")
	assert.False(t, IsStopWord("matter"))
	assert.Len(t, stopWords, 31)
}
