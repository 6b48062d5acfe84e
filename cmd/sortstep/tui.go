package main

import (
	"github.com/aretw0/sortstep/internal/cli"
	"github.com/aretw0/sortstep/internal/logging"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive visualizer",
	Long: `Opens a full-screen visualizer. Generate arrays, pick an algorithm, start,
pause, stop, change the speed and undo steps from the keyboard. Press ? for
all keys.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig(cmd.Flags())
		if err != nil {
			return err
		}
		// Logs would tear the alternate screen.
		return cli.RunTUI(cmd.Context(), cfg, logging.NewNop())
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	cli.AddRunFlags(tuiCmd.Flags())
	tuiCmd.Flags().String(cli.FlagTheme, "", "Color theme: dark or light")
}
