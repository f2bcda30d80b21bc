package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/streambind/pkg/metrics"
	"github.com/vango-dev/streambind/pkg/server"
	"github.com/vango-dev/streambind/pkg/snapshot"
	"github.com/vango-dev/streambind/pkg/tracing"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the live dashboard server",
		Long: `Run the live dashboard server.

Every browser tab gets its own session: a dashboard whose clock and
counter streams tick on the configured interval and re-render the
component over WebSocket.

Examples:
  streambind serve
  streambind serve --port=8080
  streambind serve --config=deploy/streambind.yaml --log-format=json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}

			logger, err := newLogger(cfg, os.Stderr)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			opts := []server.Option{
				server.WithLogger(logger),
				server.WithMetrics(metrics.New(metrics.WithRegistry(reg)), reg),
				server.WithTracing(tracing.New()),
			}

			store, err := snapshot.Open(ctx, cfg.Snapshot, logger)
			if err != nil {
				return err
			}
			if store != nil {
				rec := snapshot.NewRecorder(store, logger, 256)
				defer rec.Close()
				opts = append(opts, server.WithRecorder(rec))
			}

			srv := server.New(server.FromConfig(cfg), opts...)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")

	return cmd
}
