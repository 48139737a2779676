// ABOUTME: MCP tool definitions and registration for the Nova server
// ABOUTME: Exposes chat, fact memory, NLU parsing and quick replies as tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/nova/internal/app"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, nova *app.App, mirror FactMirror) *Handlers {
	handlers := NewHandlers(nova, mirror)

	// 1. chat - one utterance through the full assistant pipeline
	server.AddTool(mcp.Tool{
		Name:        "chat",
		Description: "Send one message to Nova. Facts are remembered, questions are answered from memory, and everything else gets a short mood-aware reply.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"message": map[string]interface{}{
					"type":        "string",
					"description": "What the user said",
				},
			},
			Required: []string{"message"},
		},
	}, handlers.Chat)

	// 2. remember_fact - store a (subject, key, value) fact directly
	server.AddTool(mcp.Tool{
		Name:        "remember_fact",
		Description: "Remember a fact about the user or someone they know. The newest value for a subject and key wins.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"key": map[string]interface{}{
					"type":        "string",
					"description": "Fact key, e.g. birthday or favorite color",
				},
				"value": map[string]interface{}{
					"type":        "string",
					"description": "Fact value",
				},
				"subject": map[string]interface{}{
					"type":        "string",
					"description": "Who the fact is about (default: me)",
				},
			},
			Required: []string{"key", "value"},
		},
	}, handlers.RememberFact)

	// 3. query_facts - read remembered facts
	server.AddTool(mcp.Tool{
		Name:        "query_facts",
		Description: "List remembered facts for a subject, newest first. Pass a key to get the history of one fact.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"subject": map[string]interface{}{
					"type":        "string",
					"description": "Who to look up (default: me)",
				},
				"key": map[string]interface{}{
					"type":        "string",
					"description": "Optional fact key",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of facts (default: 10)",
					"default":     defaultFactLimit,
				},
			},
		},
	}, handlers.QueryFacts)

	// 4. parse_task - structured action parsing
	server.AddTool(mcp.Tool{
		Name:        "parse_task",
		Description: "Parse an utterance into an action task such as CALL, RIDE, FLIGHT_BOOK or REMINDER. Returns matched=false when nothing is actionable.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Utterance to parse",
				},
				"record": map[string]interface{}{
					"type":        "boolean",
					"description": "Also log travel, order, ride, reminder and note tasks to the activity feed",
					"default":     false,
				},
			},
			Required: []string{"text"},
		},
	}, handlers.ParseTask)

	// 5. classify_intent - conversational intent and mood
	server.AddTool(mcp.Tool{
		Name:        "classify_intent",
		Description: "Classify an utterance into a conversational intent and detect its mood.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Utterance to classify",
				},
			},
			Required: []string{"text"},
		},
	}, handlers.ClassifyIntent)

	// 6. suggest_replies - quick reply chips
	server.AddTool(mcp.Tool{
		Name:        "suggest_replies",
		Description: "Suggest short quick replies for the current conversation.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"channel": map[string]interface{}{
					"type":        "string",
					"description": "sms, whatsapp or email (default: sms)",
				},
				"last_message": map[string]interface{}{
					"type":        "string",
					"description": "Message to reply to; defaults to the recent conversation",
				},
				"starter": map[string]interface{}{
					"type":        "string",
					"description": "Optional starter: hi, thanks, confirm or followup",
				},
				"max": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of suggestions (default: 3)",
					"default":     3,
				},
			},
		},
	}, handlers.SuggestReplies)

	// 7. recent_turns - conversation log
	server.AddTool(mcp.Tool{
		Name:        "recent_turns",
		Description: "Get the most recent conversation turns, newest first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of turns (default: 10)",
					"default":     defaultTurnLimit,
				},
			},
		},
	}, handlers.RecentTurns)

	return handlers
}
