package main

import (
	"github.com/aretw0/vine/internal/cli"
	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain <pipeline>",
	Short: "Show the step tree of a pipeline without running it",
	Long: `Compiles the pipeline, assigns step ids and prints the tree either as a
markdown table or as a Mermaid flowchart.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		highlight, _ := cmd.Flags().GetStringSlice("highlight")
		focus, _ := cmd.Flags().GetString("focus")

		eng, closeEngine, err := cli.BuildEngine(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer closeEngine()

		return cli.Explain(eng, cli.ExplainOptions{
			Pipeline:  args[0],
			Format:    format,
			Highlight: highlight,
			Focus:     focus,
		}, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)
	explainCmd.Flags().StringP("format", "f", "markdown", "Output format: markdown or mermaid")
	explainCmd.Flags().StringSlice("highlight", nil, "Step ids to mark as visited in the Mermaid output")
	explainCmd.Flags().String("focus", "", "Step id to mark as current in the Mermaid output")
}
