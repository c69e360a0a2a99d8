package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/moti-registry/internal/api"
	"github.com/Veraticus/moti-registry/internal/registry"
	"github.com/Veraticus/moti-registry/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the register over HTTP",
		Long: `Serve the register as a JSON API with Prometheus metrics.

Endpoints:
  GET   /api/v1/dashboard
  POST  /api/v1/correspondence
  GET   /api/v1/correspondence/search?q=
  PATCH /api/v1/correspondence/{refID}/status
  GET   /metrics
  GET   /healthz`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default :8080)")
	_ = viper.BindPFlag("serve.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	metrics := api.NewMetrics()

	reg, closeStore, err := openRegistry(ctx, registry.WithObserver(metrics))
	if err != nil {
		return err
	}
	defer closeStore()

	router := api.NewRouter(api.NewHandler(reg, slog.Default()), metrics)

	cfg := server.DefaultConfig()
	if addr := viper.GetString("serve.addr"); addr != "" {
		cfg.Addr = addr
	}

	return server.New(cfg, router, slog.Default()).Run(ctx)
}
