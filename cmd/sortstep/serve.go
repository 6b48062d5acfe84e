package main

import (
	"github.com/aretw0/sortstep/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP control server",
	Long: `Starts a controller behind a JSON API with a server-sent event stream of
steps, Prometheus metrics and the OpenAPI document at /openapi.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig(cmd.Flags())
		if err != nil {
			return err
		}
		logger, err := cli.NewLogger(cfg.Log)
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		if err := cli.Serve(ctx, cfg, logger); err != nil {
			return err
		}
		if sig := ctx.Signal(); sig != nil {
			logger.Info("sortstep server stopped gracefully", "signal", sig.String())
		} else {
			logger.Info("sortstep server stopped gracefully")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String(cli.FlagAddr, "", "Address to listen on (default :8080)")
	serveCmd.Flags().Duration(cli.FlagDelay, 0, "Pause between steps")
	cli.AddGenerateFlags(serveCmd.Flags())
	cli.AddRedisFlags(serveCmd.Flags())
}
