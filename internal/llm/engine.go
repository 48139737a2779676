// ABOUTME: Inference engine contract used by the composer, suggester and SMS webhook
// ABOUTME: Selects OpenAI, Gemini or the offline responder from configuration
package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/harper/nova/internal/config"
	"github.com/harper/nova/internal/logging"
	"go.uber.org/zap"
)

// Default generation settings applied when a caller leaves an option unset.
const (
	DefaultSystem      = "Be brief, kind, helpful."
	DefaultMaxTokens   = 196
	DefaultTemperature = 0.7
)

// ErrEmptyPrompt is returned by remote engines for a blank prompt.
var ErrEmptyPrompt = errors.New("prompt is empty")

// Options bound a single generation.
type Options struct {
	System      string
	MaxTokens   int
	Temperature float32
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.System) == "" {
		o.System = DefaultSystem
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.Temperature <= 0 {
		o.Temperature = DefaultTemperature
	}
	return o
}

// Engine turns a prompt into text.
type Engine interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
	Name() string
}

// NewEngine picks the backend named by cfg.Engine and wraps it so that
// failures and timeouts degrade to the offline responder.
func NewEngine(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Guarded, error) {
	logger = logging.OrNop(logger).Named("llm")

	var primary Engine
	var err error

	switch cfg.Engine {
	case config.EngineOpenAI:
		primary, err = NewOpenAIEngine(OpenAIConfig{
			APIKey:     cfg.OpenAIKey,
			Model:      cfg.OpenAIModel,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
		})
	case config.EngineGemini:
		primary, err = NewGeminiEngine(ctx, GeminiConfig{APIKey: cfg.GeminiKey, Model: cfg.GeminiModel})
	case config.EngineFallback:
		primary = Fallback{}
	default:
		switch {
		case cfg.OpenAIKey != "":
			primary, err = NewOpenAIEngine(OpenAIConfig{
				APIKey:     cfg.OpenAIKey,
				Model:      cfg.OpenAIModel,
				MaxRetries: cfg.MaxRetries,
				RetryDelay: cfg.RetryDelay,
			})
		case cfg.GeminiKey != "":
			primary, err = NewGeminiEngine(ctx, GeminiConfig{APIKey: cfg.GeminiKey, Model: cfg.GeminiModel})
		default:
			primary = Fallback{}
		}
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("inference engine selected", zap.String("engine", primary.Name()))
	return NewGuarded(primary, cfg.Timeout, logger), nil
}
