package main

import (
	"strings"

	"github.com/aretw0/sortstep/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [values]",
	Short: "Sort an array once and draw every step",
	Long: `Sorts the given comma-separated values (or a random array) with the selected
algorithm, drawing each step as colored bars, then prints the run summary.
Ctrl+C stops the run and still prints the summary.`,
	Example: `  sortstep run 5,3,8,1 --algorithm quick
  sortstep run --algorithm heap --size 40 --delay 20ms
  sortstep run --json 9,2,7 | jq .`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig(cmd.Flags())
		if err != nil {
			return err
		}
		logger, err := cli.NewLogger(cfg.Log)
		if err != nil {
			return err
		}

		jsonMode, _ := cmd.Flags().GetBool("json")
		quiet, _ := cmd.Flags().GetBool("quiet")

		_, err = cli.Execute(cmd.Context(), cli.RunOptions{
			Config: cfg,
			Logger: logger,
			Out:    cmd.OutOrStdout(),
			Values: strings.Join(args, ","),
			JSON:   jsonMode,
			Quiet:  quiet,
		})
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	cli.AddRunFlags(runCmd.Flags())
	cli.AddRedisFlags(runCmd.Flags())
	runCmd.Flags().Bool("json", false, "Write NDJSON step events instead of bars")
	runCmd.Flags().BoolP("quiet", "q", false, "Skip the banner and system messages")
}
