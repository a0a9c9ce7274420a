// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/argument-engine/internal/analyze"
	"github.com/pdiddy/argument-engine/internal/corpus"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [argument]",
	Short: "Write a referenced argument from arXiv abstracts",
	Long: `Analyze runs the whole pipeline once: it expands the argument into search
queries, retrieves and ranks arXiv abstracts for each, and asks the model to
write an argument that cites only the retrieved papers.

When no query finds an article the command prints an informational message
and exits successfully.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format); err != nil {
		return err
	}

	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	applySearchFlags(cmd, &cfg)

	svc := analyze.NewService(cfg, logger, nil)
	res, err := svc.Analyze(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	return writeResult(cmd.OutOrStdout(), res, format)
}

// analyzeOutput is the machine-readable form of a run, including the
// corpus the argument was written from.
type analyzeOutput struct {
	Message  string          `json:"message,omitempty" yaml:"message,omitempty"`
	Argument string          `json:"argument,omitempty" yaml:"argument,omitempty"`
	Results  string          `json:"results,omitempty" yaml:"results,omitempty"`
	Queries  []string        `json:"queries" yaml:"queries"`
	Articles []articleOutput `json:"articles" yaml:"articles"`
	Failures []string        `json:"failures,omitempty" yaml:"failures,omitempty"`
}

type articleOutput struct {
	Title      string   `json:"title" yaml:"title"`
	Link       string   `json:"link" yaml:"link"`
	Similarity *float64 `json:"similarity,omitempty" yaml:"similarity,omitempty"`
}

func checkFormat(format string) error {
	switch format {
	case "text", "json", "yaml":
		return nil
	}
	return fmt.Errorf("unknown format %q: want text, json, or yaml", format)
}

func writeResult(w io.Writer, res analyze.Result, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(toOutput(res))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(toOutput(res)); err != nil {
			return err
		}
		return enc.Close()
	}

	if res.NoResults() {
		fmt.Fprintln(w, res.Message)
		return nil
	}
	fmt.Fprintln(w, res.Results)
	return nil
}

func toOutput(res analyze.Result) analyzeOutput {
	out := analyzeOutput{
		Message:  res.Message,
		Argument: res.Argument,
		Results:  res.Results,
		Queries:  res.Corpus.Queries,
		Articles: []articleOutput{},
	}
	for _, a := range res.Corpus.Articles {
		out.Articles = append(out.Articles, articleOutput{
			Title:      strings.Join(strings.Fields(a.Title), " "),
			Link:       a.Link,
			Similarity: a.Similarity,
		})
	}
	out.Failures = failureStrings(res.Corpus.Failures)
	return out
}

func failureStrings(failures []corpus.QueryFailure) []string {
	var out []string
	for _, f := range failures {
		out = append(out, f.String())
	}
	return out
}

func init() {
	analyzeCmd.Flags().String("format", "text", "output format: text, json, or yaml")
	addSearchFlags(analyzeCmd)

	rootCmd.AddCommand(analyzeCmd)
}
