// ABOUTME: Main entry point for the Nova MCP server with stdio transport
// ABOUTME: Wires storage, inference and the assistant, then serves all tools
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/harper/nova/internal/app"
	"github.com/harper/nova/internal/charm"
	"github.com/harper/nova/internal/config"
	"github.com/harper/nova/internal/logging"
	"github.com/harper/nova/internal/mcp"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if it exists (for API keys)
	_ = godotenv.Load()

	logger, err := logging.New(os.Getenv("NOVA_VERBOSE") != "")
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	nova, err := app.New(ctx, cfg, logger, app.Options{Channel: "mcp"})
	if err != nil {
		return err
	}
	defer func() { _ = nova.Close() }()

	// Charm mirroring is optional; keep serving without it
	var mirror mcp.FactMirror
	if cfg.CharmMirror {
		m, err := charm.Open(charm.ConfigFrom(cfg), logger)
		if err != nil {
			logger.Warn("charm mirror disabled", zap.Error(err))
		} else {
			defer func() { _ = m.Close() }()
			mirror = m
		}
	}

	server := mcpserver.NewMCPServer("Nova", "0.1.0")
	handlers := mcp.RegisterTools(server, nova, mirror)

	logger.Info("nova MCP server starting on stdio", zap.String("engine", nova.Engine.Name()))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			handlers.Shutdown()
			return fmt.Errorf("server error: %w", err)
		}
	}

	handlers.Shutdown()
	return nil
}
