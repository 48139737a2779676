// ABOUTME: Timeout-bounded wrapper that degrades inference failures to the offline responder
package llm

import (
	"context"
	"time"

	"github.com/harper/nova/internal/logging"
	"go.uber.org/zap"
)

// Guarded calls the primary engine under a deadline. Errors and timeouts
// are logged and answered by Fallback instead.
type Guarded struct {
	primary  Engine
	fallback Engine
	timeout  time.Duration
	logger   *zap.Logger
}

func NewGuarded(primary Engine, timeout time.Duration, logger *zap.Logger) *Guarded {
	if primary == nil {
		primary = Fallback{}
	}
	return &Guarded{
		primary:  primary,
		fallback: Fallback{},
		timeout:  timeout,
		logger:   logging.OrNop(logger),
	}
}

func (g *Guarded) Name() string { return g.primary.Name() }

// Generate never returns an error.
func (g *Guarded) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := g.primary.Generate(callCtx, prompt, opts)
	if err == nil {
		g.logger.Debug("generated",
			zap.String("engine", g.primary.Name()),
			zap.Duration("took", time.Since(start)))
		return text, nil
	}

	g.logger.Warn("inference failed, using offline reply",
		zap.String("engine", g.primary.Name()),
		zap.Error(err))
	return g.fallback.Generate(ctx, prompt, opts)
}
