// ABOUTME: Builds the full Nova object graph from configuration
// ABOUTME: Shared by the CLI commands and the MCP stdio server
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/harper/nova/internal/assistant"
	"github.com/harper/nova/internal/config"
	"github.com/harper/nova/internal/core"
	"github.com/harper/nova/internal/llm"
	"github.com/harper/nova/internal/logging"
	"github.com/harper/nova/internal/resolve"
	"github.com/harper/nova/internal/storage/sqlite"
	"github.com/harper/nova/internal/web"
)

// App holds every long-lived component of one Nova process
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     *sqlite.Storage
	Engine    *llm.Guarded
	Resolver  *resolve.Resolver
	Web       *web.Provider
	Drafts    *core.DraftEngine
	Composer  *core.Composer
	Suggester *core.Suggester
	Assistant *assistant.Assistant
}

// Options tweak construction for callers that need something other than
// the configured defaults
type Options struct {
	// InMemory uses a throwaway database instead of cfg.DBPath
	InMemory bool
	// Channel is passed to the quick-reply suggester ("sms", "cli", "mcp")
	Channel string
}

// New opens storage, seeds templates, selects the inference engine and
// wires the assistant. Stale activities are swept on the way up.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	logger = logging.OrNop(logger)

	store, err := OpenStore(cfg, logger, opts.InMemory)
	if err != nil {
		return nil, err
	}

	if err := core.SeedAllIfEmpty(store); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to seed templates: %w", err)
	}

	engine, err := llm.NewEngine(ctx, cfg, logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to create inference engine: %w", err)
	}

	resolver, err := resolve.New(logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load resolver tables: %w", err)
	}

	provider := web.NewProvider(web.DefaultEndpoints(), cfg.WebTimeout, logger)
	drafts := core.NewDraftEngine(store, logger)
	composer := core.NewComposer(store, drafts, engine, logger)
	suggester := core.NewSuggester(engine, logger)

	a := assistant.New(store, composer, suggester, provider, resolver, assistant.Options{
		Locale:         cfg.Locale,
		Offline:        cfg.Offline,
		HeadlineRegion: cfg.HeadlineRegion,
		Channel:        opts.Channel,
	}, logger)

	if cfg.ActivityMaxAge > 0 {
		if n := a.SweepActivities(cfg.ActivityMaxAge); n > 0 {
			logger.Debug("swept stale activities", zap.Int64("removed", n))
		}
	}

	logger.Debug("nova ready",
		zap.String("engine", engine.Name()),
		zap.String("db", store.Path()),
		zap.String("session", a.Session()))

	return &App{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Engine:    engine,
		Resolver:  resolver,
		Web:       provider,
		Drafts:    drafts,
		Composer:  composer,
		Suggester: suggester,
		Assistant: a,
	}, nil
}

// Close releases the database
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

// OpenStore opens the configured database (or a throwaway one) without
// building the rest of the graph
func OpenStore(cfg *config.Config, logger *zap.Logger, inMemory bool) (*sqlite.Storage, error) {
	var (
		store *sqlite.Storage
		err   error
	)
	switch {
	case inMemory:
		store, err = sqlite.NewStorageInMemory(logger)
	case cfg.DBPath != "":
		store, err = sqlite.NewStorageWithPath(cfg.DBPath, logger)
	default:
		store, err = sqlite.NewStorage(logger)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return store, nil
}
