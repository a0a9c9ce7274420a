// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/argument-engine/internal/llm"
)

// expansionPromptTmpl asks the model for three alternative academic search
// queries, one per numbered line.
var expansionPromptTmpl = template.Must(template.New("expansion").Parse(`I have a search query: '{{.Argument}}'. ` +
	`Your task is to expand this query into three alternative search queries that are suitable for finding academic articles or research papers. ` +
	`Each query should be brief, to the point, and use different phrasing or synonyms. ` +
	`Please format your response in the following way:
1. [First query]
2. [Second query]
3. [Third query]`))

// Expander obtains alternative search phrasings for an argument.
type Expander struct {
	LLM llm.Completer

	// FallbackToArgument searches with the argument itself when the reply
	// holds no usable numbered item.
	FallbackToArgument bool
}

// Expand asks the model for alternative phrasings of argument and returns
// them normalized. A completion failure is returned as is; it is never
// replaced by the argument.
func (e *Expander) Expand(ctx context.Context, argument string) ([]string, error) {
	prompt, err := ExpansionPrompt(argument)
	if err != nil {
		return nil, fmt.Errorf("rendering expansion prompt: %w", err)
	}

	reply, err := e.LLM.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("expanding query: %w", err)
	}

	queries := Normalize(ParseNumberedList(reply))
	if len(queries) == 0 && e.FallbackToArgument {
		queries = Normalize([]string{argument})
	}
	return queries, nil
}

// ExpansionPrompt renders the expansion instruction for argument.
func ExpansionPrompt(argument string) (string, error) {
	var buf bytes.Buffer
	if err := expansionPromptTmpl.Execute(&buf, struct{ Argument string }{argument}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ParseNumberedList extracts the items of a "1. foo" style list. A line
// counts when, once trimmed, it is an ASCII digit followed immediately by
// ". "; the item is the rest of the line, trimmed. Other lines are ignored.
func ParseNumberedList(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 3 || line[0] < '0' || line[0] > '9' || line[1:3] != ". " {
			continue
		}
		items = append(items, strings.TrimSpace(line[3:]))
	}
	return items
}
