package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aretw0/vine/internal/cli"
	"github.com/aretw0/vine/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the operations HTTP server",
	Long: `Serves /healthz, /version, /metrics and POST /explain. The server explains
pipelines but never runs them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.MetricsAddr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err := observability.NewMetrics(reg)
		if err != nil {
			return err
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		eng, closeEngine, err := cli.BuildEngine(sigCtx, cfg, logger, metrics.Hooks())
		if err != nil {
			return err
		}
		defer closeEngine()

		srv := &http.Server{
			Addr:              addr,
			Handler:           cli.NewHandler(eng, reg),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("vine server listening", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-sigCtx.Done():
			logger.Info("shutting down", "signal", sigCtx.Signal())
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
				return srv.Close()
			}
			logger.Info("vine server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default: metrics_addr from the config)")
}
