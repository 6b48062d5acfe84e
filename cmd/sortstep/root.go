package main

import (
	"fmt"
	"os"

	"github.com/aretw0/sortstep/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sortstep",
	Short: "sortstep animates sorting algorithms one step at a time",
	Long: `sortstep runs bubble, selection, insertion, merge, quick and heap sort as
observable step sequences. Watch them in the terminal, drive them over HTTP or
MCP, and step back through every swap.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String(cli.FlagConfig, "", "Config file (default sortstep.yaml or $SORTSTEP_CONFIG)")
	rootCmd.PersistentFlags().String(cli.FlagLogLevel, "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String(cli.FlagLogFormat, "", "Log format: text, json or pretty")
}
