package main

import (
	"github.com/aretw0/vine/internal/cli"
	"github.com/aretw0/vine/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <pipeline>",
	Short: "Run a pipeline and print its results",
	Long: `Compiles the pipeline file and runs it against the configured graph.
Results are printed one per line; side-effects follow as '>>>' lines.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		quiet, _ := cmd.Flags().GetBool("quiet")
		starts, _ := cmd.Flags().GetStringArray("start")
		mode, _ := cmd.Flags().GetString("mode")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		eng, closeEngine, err := cli.BuildEngine(sigCtx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeEngine()

		if !jsonMode && !quiet {
			tui.PrintBanner(cmd.ErrOrStderr())
		}
		err = cli.Run(sigCtx, eng, cli.RunOptions{
			Pipeline: args[0],
			Mode:     mode,
			JSON:     jsonMode,
			Quiet:    quiet,
			Starts:   starts,
		}, cmd.OutOrStdout())
		if sig := sigCtx.Signal(); sig != nil {
			logger.Info("run interrupted", "signal", sig)
		}
		return cli.HandleExecutionError(err)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("json", false, "Print results as a JSON document")
	runCmd.Flags().BoolP("quiet", "q", false, "Print results only")
	runCmd.Flags().StringArray("start", nil, "Inject a start value (JSON, or a raw string); repeatable")
}
