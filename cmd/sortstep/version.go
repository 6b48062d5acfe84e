package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/sortstep"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of sortstep",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sortstep version %s\n", strings.TrimSpace(sortstep.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
