package main

import (
	"os/signal"
	"syscall"

	"github.com/aretw0/sortstep/internal/cli"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Draw the runs published on redis by another sortstep",
	Long: `Subscribes to the redis channel that 'sortstep serve' or 'sortstep run'
publish step events on, and draws them locally.`,
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

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return cli.Watch(ctx, cfg, logger, cmd.OutOrStdout(), jsonMode)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	cli.AddRedisFlags(watchCmd.Flags())
	watchCmd.Flags().Bool("json", false, "Write NDJSON step events instead of bars")
}
