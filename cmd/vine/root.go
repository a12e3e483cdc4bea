package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/vine/internal/cli"
	"github.com/aretw0/vine/internal/config"
	"github.com/aretw0/vine/pkg/observability"
	"github.com/spf13/cobra"
)

// state shared by the subcommands, filled in before any of them runs
var (
	cfg             config.Config
	logger          *slog.Logger
	shutdownTracing func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "vine",
	Short: "vine runs graph traversal pipelines",
	Long: `vine compiles YAML pipeline definitions into graph traversals and runs them
either by pulling results through the pipeline or as a bulk-synchronous
computer job spread over workers.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
		if shutdownTracing == nil {
			return nil
		}
		return shutdownTracing(cmd.Context())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", config.DefaultPath, "Engine configuration file (YAML or JSON)")
	flags.Bool("debug", false, "Enable debug logging")
	flags.String("graph", "", "Graph file to traverse (default: the modern toy graph)")
	flags.String("mode", "", "Execution mode: standard or computer")
	flags.Int("workers", 0, "Number of computer-mode workers")
	flags.String("log-format", "", "Log format: text or json")
	flags.String("otlp-endpoint", "", "OTLP/gRPC collector for computer-mode spans")
}

func setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")

	var err error
	cfg, err = config.Load(path, flags.Changed("config"))
	if err != nil {
		return err
	}
	if flags.Changed("graph") {
		cfg.Graph, _ = flags.GetString("graph")
	}
	if flags.Changed("mode") {
		cfg.Mode, _ = flags.GetString("mode")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}
	if flags.Changed("otlp-endpoint") {
		cfg.OTLPEndpoint, _ = flags.GetString("otlp-endpoint")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	debug, _ := flags.GetBool("debug")
	if logger, err = cli.NewLogger(cfg, debug); err != nil {
		return err
	}
	shutdownTracing, err = observability.Setup(cfg.OTLPEndpoint, "vine")
	return err
}
