package main

import (
	"github.com/aretw0/sortstep/internal/cli"
	"github.com/spf13/cobra"
)

var algorithmsCmd = &cobra.Command{
	Use:     "algorithms",
	Aliases: []string{"algos", "list"},
	Short:   "Describe the supported algorithms",
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		style, _ := cmd.Flags().GetString("style")
		return cli.PrintAlgorithms(cmd.OutOrStdout(), jsonMode, style)
	},
}

func init() {
	rootCmd.AddCommand(algorithmsCmd)

	algorithmsCmd.Flags().Bool("json", false, "Print the catalog as JSON")
	algorithmsCmd.Flags().String("style", "", "Markdown style: dark, light, notty (default detects the terminal)")
}
