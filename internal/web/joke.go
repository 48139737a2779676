package web

import (
	"context"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// JokeUnavailable is said when the joke service cannot be reached
const JokeUnavailable = "I tried to fetch a joke, but the internet ghosted me."

// Joke fetches one plain-text dad joke
func (p *Provider) Joke(ctx context.Context) string {
	resp, err := p.get(ctx, p.endpoints.Joke, "text/plain")
	if err != nil {
		p.logger.Warn("joke request failed", zap.Error(err))
		return JokeUnavailable
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return JokeUnavailable
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 16*1024))
	if err != nil {
		return JokeUnavailable
	}
	if joke := clean(string(body)); joke != "" {
		return joke
	}
	return JokeUnavailable
}
