package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/argument-engine/internal/analyze"
)

var expandCmd = &cobra.Command{
	Use:   "expand [argument]",
	Short: "Print the normalized search queries generated for an argument",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
		if err != nil {
			return err
		}

		queries, err := analyze.Build(cfg, logger, nil).Expander.Expand(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if len(queries) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "no usable queries")
			return nil
		}
		for _, q := range queries {
			fmt.Fprintln(cmd.OutOrStdout(), q)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(expandCmd)
}
