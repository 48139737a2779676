// ABOUTME: Quick-reply suggester asking the engine for short next messages
package core

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/harper/nova/internal/llm"
	"github.com/harper/nova/internal/logging"
)

// DefaultMaxSuggestions is used when SuggestOptions.Max is unset
const DefaultMaxSuggestions = 3

var (
	suggestionSplit = regexp.MustCompile(`\n|•`)
	// a dash only marks a bullet at the start of a line; "check-in" stays whole
	dashBullet      = regexp.MustCompile(`^\s*[-*]+\s*`)
)

// Message is one line of a transcript
type Message struct {
	FromMe bool   `json:"from_me"`
	Text   string `json:"text"`
}

// QuickReply is one tappable suggestion
type QuickReply struct {
	Text string `json:"text"`
}

// SuggestOptions describe the conversation to suggest for
type SuggestOptions struct {
	Channel string // sms, whatsapp or email
	LastTwo []Message
	Starter string // hi, thanks, confirm or followup
	Max     int
}

type Suggester struct {
	engine llm.Engine
	logger *zap.Logger
}

func NewSuggester(engine llm.Engine, logger *zap.Logger) *Suggester {
	return &Suggester{engine: engine, logger: logging.OrNop(logger).Named("suggest")}
}

// SuggestReplies never fails; a bad or empty response yields no suggestions.
func (s *Suggester) SuggestReplies(ctx context.Context, opts SuggestOptions) []QuickReply {
	limit := opts.Max
	if limit <= 0 {
		limit = DefaultMaxSuggestions
	}
	channel := opts.Channel
	if channel == "" {
		channel = "sms"
	}

	var history []string
	for _, m := range opts.LastTwo {
		who := "Them"
		if m.FromMe {
			who = "Me"
		}
		history = append(history, who+": "+m.Text)
	}
	transcript := strings.Join(history, " | ")
	if transcript == "" {
		transcript = "(new chat)"
	}

	system := fmt.Sprintf(`You suggest 1-3 short, polite replies (max ~12 words).
Keep it simple. Prefer one-tap friendly options. Avoid emojis unless casual is explicit.
Channel: %s. Conversation: %s.
If completely new chat, include one warm "Hi ..." opener.`, channel, transcript)
	if opts.Starter != "" {
		system += "\nSeed tone: " + opts.Starter
	}

	raw, err := s.engine.Generate(ctx, "Suggest quick replies only.", llm.Options{
		System:      system,
		MaxTokens:   120,
		Temperature: 0.7,
	})
	if err != nil {
		s.logger.Warn("suggestion failed", zap.Error(err))
		return nil
	}

	var picks []QuickReply
	for _, part := range suggestionSplit.Split(raw, -1) {
		text := strings.TrimSpace(dashBullet.ReplaceAllString(part, ""))
		if text == "" {
			continue
		}
		picks = append(picks, QuickReply{Text: text})
		if len(picks) == limit {
			break
		}
	}
	return picks
}
