// ABOUTME: Root CLI command, global flags, and shared setup for subcommands
// ABOUTME: Builds the zap logger before any subcommand runs and flushes it after
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harper/nova/internal/app"
	"github.com/harper/nova/internal/config"
	"github.com/harper/nova/internal/logging"
	"github.com/harper/nova/internal/storage/sqlite"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string

	logger = zap.NewNop()
)

const banner = `
 ███╗   ██╗ ██████╗ ██╗   ██╗ █████╗
 ████╗  ██║██╔═══██╗██║   ██║██╔══██╗
 ██╔██╗ ██║██║   ██║██║   ██║███████║
 ██║╚██╗██║██║   ██║╚██╗ ██╔╝██╔══██║
 ██║ ╚████║╚██████╔╝ ╚████╔╝ ██║  ██║
 ╚═╝  ╚═══╝ ╚═════╝   ╚═══╝  ╚═╝  ╚═╝
`

// NewRootCmd creates the root command with every subcommand attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nova",
		Short: "A small personal assistant that remembers you",
		Long: banner + `
Nova understands short messages, remembers facts about you and the
people you mention, and answers in one or two friendly sentences
without repeating itself.

Everything lives in a local SQLite database. Inference uses OpenAI or
Gemini when a key is configured and a built-in offline responder
otherwise.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return errors.New("--verbose and --quiet cannot be used together")
			}

			// Load .env file if it exists (for API keys)
			_ = godotenv.Load()

			l, err := logging.New(verbose)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print results")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto or json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewChatCmd())
	cmd.AddCommand(NewSayCmd())
	cmd.AddCommand(NewRememberCmd())
	cmd.AddCommand(NewFactsCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewActivityCmd())
	cmd.AddCommand(NewParseCmd())
	cmd.AddCommand(NewSuggestCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewInstallSkillCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command, cancelling on SIGINT/SIGTERM
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

func jsonOutput() bool {
	return outputFormat == "json"
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openApp wires the full assistant for commands that converse
func openApp(cmd *cobra.Command, channel string) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return app.New(cmd.Context(), cfg, logger, app.Options{Channel: channel})
}

// openStore opens only the database for commands that read or write memory
func openStore() (*sqlite.Storage, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return app.OpenStore(cfg, logger, false)
}
