// ABOUTME: Serve and MCP commands that keep Nova running
// ABOUTME: serve hosts the SMS webhook; mcp speaks Model Context Protocol on stdio
package commands

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harper/nova/internal/app"
	"github.com/harper/nova/internal/charm"
	"github.com/harper/nova/internal/llm"
	"github.com/harper/nova/internal/mcp"
	"github.com/harper/nova/internal/sms"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the SMS webhook",
		Long: `Run a Twilio-compatible SMS webhook.

POST /sms with a form field "Body" returns a TwiML reply generated by
the configured engine. GET /healthz answers "." for load balancers.

Examples:
  nova serve
  nova serve --addr :9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.SMSAddr
			}

			engine, err := llm.NewEngine(cmd.Context(), cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to create inference engine: %w", err)
			}

			if !quiet {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "SMS webhook on %s (engine: %s)\n", addr, engine.Name())
			}
			return sms.NewServer(engine, logger).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default NOVA_SMS_ADDR or :8081)")
	return cmd
}

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs Nova as an MCP (Model Context Protocol) server so agents like
Claude can chat with it, save and read facts, and parse tasks via stdio.

Set NOVA_CHARM_MIRROR=true to copy saved facts to Charm cloud.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  nova mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "nova": {
  #       "command": "nova",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	nova, err := app.New(cmd.Context(), cfg, logger, app.Options{Channel: "mcp"})
	if err != nil {
		return err
	}
	defer func() { _ = nova.Close() }()

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

	server := mcpserver.NewMCPServer("Nova", versionInfo.Version)
	handlers := mcp.RegisterTools(server, nova, mirror)

	logger.Info("nova MCP server starting on stdio", zap.String("engine", nova.Engine.Name()))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-cmd.Context().Done():
		logger.Info("shutdown signal received, waiting for pending work")
		handlers.Shutdown()
	case err := <-serverErr:
		handlers.Shutdown()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
