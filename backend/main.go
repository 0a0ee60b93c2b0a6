// ABOUTME: Entry point for the fabric designer backend service
// ABOUTME: Serves the topology synthesis and project API over HTTP

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/markalston/fabric-designer/backend/config"
	"github.com/markalston/fabric-designer/backend/logger"
	"github.com/markalston/fabric-designer/backend/server"
)

func main() {
	// Initialize structured logging
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting Fabric Designer Backend")
	slog.Info("Project store configured", "driver", cfg.StoreDriver, "path", cfg.StorePath)
	slog.Info("Default switch model", "model", cfg.SwitchModel)
	if len(cfg.CORSAllowedOrigins) == 0 {
		slog.Info("CORS_ALLOWED_ORIGINS not set, cross-origin requests are blocked")
	}

	srv, err := server.New(cfg)
	if err != nil {
		slog.Error("Failed to initialize server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := srv.Run(ctx)
	if err := srv.Close(); err != nil {
		slog.Error("Failed to close project store", "error", err)
	}
	if runErr != nil {
		slog.Error("Server failed", "error", runErr)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}
