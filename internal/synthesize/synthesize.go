// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synthesize asks the generative service for a written argument
// grounded in a supplied set of articles.
package synthesize

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/pdiddy/argument-engine/internal/llm"
	"github.com/pdiddy/argument-engine/pkg/types"
)

// argumentPromptTmpl lists every article, then restricts the model to
// citing only those articles.
var argumentPromptTmpl = template.Must(template.New("argument").Parse(
	`Using the following academic papers, write a comprehensive argument on the topic of {{.Argument}}. ` +
		`The argument should draw from the papers provided below and reference them in a logical, coherent way. ` +
		`Do not use any other papers other than the ones I provided.

Articles:
{{range $i, $a := .Articles}}{{if $i}}
{{end}}Title: {{$a.Title}}
Summary: {{$a.Summary}}
Link: {{$a.Link}}{{end}}

Argument:`))

// Synthesizer writes the referenced argument.
type Synthesizer struct {
	LLM llm.Completer
}

// Synthesize builds the grounding prompt for articles, in the order given,
// and returns the generated text verbatim. A completion failure is fatal.
func (s *Synthesizer) Synthesize(ctx context.Context, articles []types.Article, argument string) (string, error) {
	prompt, err := Prompt(articles, argument)
	if err != nil {
		return "", fmt.Errorf("rendering argument prompt: %w", err)
	}

	text, err := s.LLM.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("writing argument: %w", err)
	}
	return text, nil
}

// Prompt renders the grounding prompt.
func Prompt(articles []types.Article, argument string) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Argument string
		Articles []types.Article
	}{argument, articles}
	if err := argumentPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
