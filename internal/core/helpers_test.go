package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harper/nova/internal/llm"
	"github.com/harper/nova/internal/models"
	"github.com/harper/nova/internal/storage/sqlite"
)

func newTestStore(t *testing.T, rows ...models.Template) *sqlite.Storage {
	t.Helper()
	store, err := sqlite.NewStorageInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	if len(rows) > 0 {
		store.SeedTemplatesIfEmpty(rows)
	}
	return store
}

func tmpl(kind models.TemplateKind, text string) models.Template {
	return models.Template{Kind: kind, Locale: "en", Text: text}
}

// scriptedEngine replays canned replies and records what it was asked.
type scriptedEngine struct {
	replies []string
	err     error
	prompts []string
	opts    []llm.Options
}

func (s *scriptedEngine) Name() string { return "scripted" }

func (s *scriptedEngine) Generate(_ context.Context, prompt string, opts llm.Options) (string, error) {
	s.prompts = append(s.prompts, prompt)
	s.opts = append(s.opts, opts)
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", nil
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}
