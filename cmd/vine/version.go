package main

import (
	"fmt"

	"github.com/aretw0/vine"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of vine",
	// no configuration needed
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "vine version %s\n", vine.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
