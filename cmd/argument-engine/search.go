package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/argument-engine/internal/analyze"
	"github.com/pdiddy/argument-engine/internal/search"
	"github.com/pdiddy/argument-engine/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [argument]",
	Short: "Expand an argument and list the ranked arXiv abstracts",
	Long: `Search runs query expansion and retrieval without writing an argument.
Results from every expanded query are merged in query order and ranked by
similarity; unscored results keep retrieval order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
		if err != nil {
			return err
		}
		applySearchFlags(cmd, &cfg)

		c, err := analyze.Build(cfg, logger, nil).Aggregator.Aggregate(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for _, f := range c.Failures {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", f)
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return search.FormatJSON(c.Articles, w)
		}
		search.FormatTable(c.Articles, w)
		return nil
	},
}

// addSearchFlags registers the flags shared by analyze and search.
func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().String("model", "", "generative model identifier")
	cmd.Flags().Int("max-results", 10, "maximum arXiv entries per expanded query")
	cmd.Flags().Bool("parallel", false, "retrieve expanded queries concurrently")
	cmd.Flags().Bool("dedupe", false, "drop articles already found by an earlier query")
}

// applySearchFlags overrides cfg with the flags the user set explicitly.
func applySearchFlags(cmd *cobra.Command, cfg *types.Config) {
	f := cmd.Flags()
	if f.Changed("model") {
		cfg.LLM.Model, _ = f.GetString("model")
	}
	if f.Changed("max-results") {
		cfg.Search.MaxResults, _ = f.GetInt("max-results")
	}
	if f.Changed("parallel") {
		cfg.Search.Parallel, _ = f.GetBool("parallel")
	}
	if f.Changed("dedupe") {
		cfg.Search.Dedupe, _ = f.GetBool("dedupe")
	}
}

func init() {
	addSearchFlags(searchCmd)
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
