package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/briefd/internal/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the briefd HTTP server",
	Long: `Start the briefd HTTP server.

Endpoints:
  POST /api/v1/research          Run a research query
  POST /api/v1/redact            Redact arbitrary text
  GET  /api/v1/redactions/stats  Cumulative redaction statistics
  GET  /health                   Health check
  GET  /metrics                  Prometheus metrics

Examples:
  # Start with defaults
  briefd serve

  # Start with a config file
  briefd serve --config ./config.yaml

  # Configure via environment
  BRIEFD_SERVER_ADDR=:9090 briefd serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	registry := prometheus.NewRegistry()
	assistant, redactor, err := buildAssistant(cfg, logger, registry)
	if err != nil {
		return err
	}

	server, err := httpapi.NewServer(assistant, redactor, registry, logger, &httpapi.Config{Addr: cfg.Server.Addr})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
