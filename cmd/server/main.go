// Package main implements the entry point for the reelgen API server,
// which turns user-submitted stories into narrated short videos via an
// external render worker pool.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/reelgen/reelgen-api/internal/config"
	"github.com/reelgen/reelgen-api/internal/platform/logger"
)

// main loads configuration, wires the application and runs the HTTP
// server until a shutdown signal arrives.
func main() {
	cfg, err := initializeConfig()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	ctx := context.Background()

	app, err := newApplication(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to wire application: %v", err)
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeConfig loads configuration and sets up logging.
func initializeConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if _, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel}); err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	return cfg, nil
}
