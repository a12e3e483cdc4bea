package main

import (
	"fmt"

	"github.com/aretw0/vine/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <pipeline>...",
	Short: "Check pipelines for consistency",
	Long:  `Compiles every pipeline and checks its step links, step ids and branches.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeEngine, err := cli.BuildEngine(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer closeEngine()

		if err := cli.Validate(eng, args, cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
