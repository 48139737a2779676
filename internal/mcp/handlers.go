// ABOUTME: MCP tool handler implementations for the Nova server
// ABOUTME: Each handler returns JSON text, or a tool error result on bad input
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/harper/nova/internal/app"
	"github.com/harper/nova/internal/assistant"
	"github.com/harper/nova/internal/charm"
	"github.com/harper/nova/internal/core"
	"github.com/harper/nova/internal/logging"
	"github.com/harper/nova/internal/models"
	"github.com/harper/nova/internal/nlu"
)

const (
	defaultFactLimit = 10
	defaultTurnLimit = 10
	maxListLimit     = 100
)

// FactMirror receives the latest facts after a remember_fact call
type FactMirror interface {
	PushFacts(src charm.FactSource) (int, error)
}

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	nova       *app.App
	mirror     FactMirror
	logger     *zap.Logger
	shutdownWg *sync.WaitGroup // pending mirror pushes
}

// NewHandlers builds handlers over a wired app. mirror may be nil.
func NewHandlers(nova *app.App, mirror FactMirror) *Handlers {
	return &Handlers{
		nova:       nova,
		mirror:     mirror,
		logger:     logging.OrNop(nova.Logger).Named("mcp"),
		shutdownWg: &sync.WaitGroup{},
	}
}

// Chat handles the chat tool
func (h *Handlers) Chat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message argument is required and must be a string"), nil
	}
	if strings.TrimSpace(message) == "" {
		return mcp.NewToolResultError("message cannot be empty"), nil
	}

	requestID := uuid.NewString()
	reply, err := h.nova.Assistant.Handle(ctx, message)
	if errors.Is(err, assistant.ErrBusy) {
		return mcp.NewToolResultError("assistant is busy with another message, try again"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("chat failed: %v", err)), nil
	}
	h.logger.Debug("chat", zap.String("request_id", requestID), zap.String("kind", string(reply.Kind)))

	if reply.Kind == assistant.ReplyFactAdded {
		h.pushFactsAsync()
	}

	return jsonResult(map[string]interface{}{
		"request_id": requestID,
		"reply":      reply,
	})
}

// RememberFact handles the remember_fact tool
func (h *Handlers) RememberFact(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key argument is required and must be a string"), nil
	}
	value, err := request.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError("value argument is required and must be a string"), nil
	}
	subject := nlu.NormalizeSubject(request.GetString("subject", ""))

	fact, err := models.NewFact(subject, nlu.SlugKey(key), nlu.CleanValue(value))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid fact: %v", err)), nil
	}

	h.nova.Store.RememberFact(fact.Subject, fact.Key, fact.Value)
	h.pushFactsAsync()

	return jsonResult(map[string]interface{}{
		"success": true,
		"subject": fact.Subject,
		"key":     fact.Key,
		"value":   fact.Value,
	})
}

// QueryFacts handles the query_facts tool
func (h *Handlers) QueryFacts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subject := nlu.NormalizeSubject(request.GetString("subject", ""))
	key := request.GetString("key", "")
	limit := clampLimit(request.GetInt("limit", defaultFactLimit), defaultFactLimit)

	var facts []models.Fact
	if key != "" {
		facts = h.nova.Store.FactsByKey(nlu.SlugKey(key), subject)
		if len(facts) > limit {
			facts = facts[:limit]
		}
	} else {
		facts = h.nova.Store.AllFacts(limit, subject)
	}
	if facts == nil {
		facts = []models.Fact{}
	}

	return jsonResult(map[string]interface{}{
		"subject": subject,
		"facts":   facts,
		"count":   len(facts),
	})
}

// ParseTask handles the parse_task tool
func (h *Handlers) ParseTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}

	var task *models.Task
	if request.GetBool("record", false) {
		task = h.nova.Assistant.Act(ctx, text)
	} else {
		task = nlu.ParseTask(ctx, text, h.nova.Resolver)
	}

	return jsonResult(map[string]interface{}{
		"matched": task != nil,
		"task":    task,
	})
}

// ClassifyIntent handles the classify_intent tool
func (h *Handlers) ClassifyIntent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}

	return jsonResult(map[string]interface{}{
		"intent": nlu.ClassifyIntent(text),
		"mood":   nlu.DetectMood(text),
	})
}

// SuggestReplies handles the suggest_replies tool
func (h *Handlers) SuggestReplies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := core.SuggestOptions{
		Channel: request.GetString("channel", "sms"),
		Starter: request.GetString("starter", ""),
		Max:     request.GetInt("max", core.DefaultMaxSuggestions),
	}

	if last := request.GetString("last_message", ""); last != "" {
		opts.LastTwo = []core.Message{{FromMe: false, Text: last}}
	} else {
		for _, t := range h.nova.Store.RecentTurns(2) {
			opts.LastTwo = append(opts.LastTwo, core.Message{FromMe: true, Text: t.UserText})
		}
	}

	suggestions := h.nova.Suggester.SuggestReplies(ctx, opts)
	if suggestions == nil {
		suggestions = []core.QuickReply{}
	}

	return jsonResult(map[string]interface{}{
		"suggestions": suggestions,
	})
}

// RecentTurns handles the recent_turns tool
func (h *Handlers) RecentTurns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := clampLimit(request.GetInt("limit", defaultTurnLimit), defaultTurnLimit)

	turns := h.nova.Store.RecentTurns(limit)
	items := make([]map[string]interface{}, 0, len(turns))
	for _, t := range turns {
		items = append(items, map[string]interface{}{
			"user":       t.UserText,
			"bot":        t.BotText,
			"mood":       string(t.Mood),
			"created_at": t.CreatedAt.Format(time.RFC3339),
		})
	}

	return jsonResult(map[string]interface{}{
		"turns": items,
		"count": len(items),
	})
}

// Shutdown waits for pending mirror pushes to finish
func (h *Handlers) Shutdown() {
	h.shutdownWg.Wait()
}

func (h *Handlers) pushFactsAsync() {
	if h.mirror == nil {
		return
	}
	h.shutdownWg.Add(1)
	go func() {
		defer h.shutdownWg.Done()
		n, err := h.mirror.PushFacts(h.nova.Store)
		if err != nil {
			h.logger.Warn("fact mirror push failed", zap.Error(err))
			return
		}
		h.logger.Debug("mirrored facts", zap.Int("written", n))
	}()
}

func jsonResult(response map[string]interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

func clampLimit(n, def int) int {
	if n <= 0 {
		return def
	}
	if n > maxListLimit {
		return maxListLimit
	}
	return n
}
