package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/sortstep/internal/cli"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts a controller as an MCP Server, so agents can generate arrays, start
and cancel runs, change the delay, undo steps and read the state as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig(cmd.Flags())
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed(cli.FlagDelay) {
			cfg.Delay = 0
		}
		logger, err := cli.NewLogger(cfg.Log)
		if err != nil {
			return err
		}

		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return cli.ServeMCP(ctx, cfg, logger, transport, port)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", cli.TransportStdio, "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().Duration(cli.FlagDelay, 0, "Pause between steps (default none over MCP)")
	cli.AddGenerateFlags(mcpCmd.Flags())
}
