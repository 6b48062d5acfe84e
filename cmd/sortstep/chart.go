package main

import (
	"strings"

	"github.com/aretw0/sortstep/internal/cli"
	"github.com/spf13/cobra"
)

// chartCmd represents the chart command
var chartCmd = &cobra.Command{
	Use:   "chart [values]",
	Short: "Export a run step as a Mermaid diagram",
	Long: `Sorts the array, then outputs a Mermaid flowchart (graph LR) of the array at
the chosen step, with the step's cells and the sorted cells highlighted.`,
	Example: `  sortstep chart 5,3,8,1 --algorithm quick --step 4`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig(cmd.Flags())
		if err != nil {
			return err
		}
		step, _ := cmd.Flags().GetInt("step")

		return cli.Chart(cmd.Context(), cmd.OutOrStdout(), cli.ChartOptions{
			RunOptions: cli.RunOptions{Config: cfg, Values: strings.Join(args, ",")},
			Step:       step,
		})
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)

	chartCmd.Flags().StringP(cli.FlagAlgorithm, "a", "", "Algorithm: bubble, selection, insertion, merge, quick or heap")
	chartCmd.Flags().Int("step", 0, "Step number to draw (default the final state)")
	cli.AddGenerateFlags(chartCmd.Flags())
}
