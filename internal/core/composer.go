// ABOUTME: Reply composer that turns drafts, facts, mood and persona into a prompt
// ABOUTME: Enforces the short-reply post-condition on whatever the engine returns
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/harper/nova/internal/lexical"
	"github.com/harper/nova/internal/llm"
	"github.com/harper/nova/internal/logging"
	"github.com/harper/nova/internal/models"
)

const (
	// OpenerWindowDays is how far back recent openers are avoided
	OpenerWindowDays = 7
	// MaxOpenerChars caps the persisted last opener
	MaxOpenerChars = 80

	humanFactLimit = 8
	replyFactLimit = 12
	replyTurnLimit = 3
)

// KindSmalltalk composes like a check-in
const KindSmalltalk models.TemplateKind = "smalltalk"

// HumanReplyOptions parameterize ComposeHumanReply
type HumanReplyOptions struct {
	Mood     models.Mood
	Kind     models.TemplateKind
	Locale   string
	Headline string
	Festival string
}

// ReplyOptions parameterize ComposeReply
type ReplyOptions struct {
	Mood     models.Mood
	Headline string
	Draft    string
}

// Composer builds one reply per call
type Composer struct {
	store  Store
	drafts *DraftEngine
	engine llm.Engine
	logger *zap.Logger
}

func NewComposer(store Store, drafts *DraftEngine, engine llm.Engine, logger *zap.Logger) *Composer {
	return &Composer{
		store:  store,
		drafts: drafts,
		engine: engine,
		logger: logging.OrNop(logger).Named("composer"),
	}
}

// ComposeHumanReply returns exactly one short sentence. It never returns "".
func (c *Composer) ComposeHumanReply(ctx context.Context, userText string, opts HumanReplyOptions) string {
	if opts.Mood == "" {
		opts.Mood = models.MoodNeutral
	}
	avoid := c.store.RecentOpeners(OpenerWindowDays)

	draft, err := c.drafts.BuildDraft(draftKind(opts.Kind), DraftOptions{
		Mood:         opts.Mood,
		Locale:       opts.Locale,
		AvoidOpeners: avoid,
		Festival:     opts.Festival,
	})
	if err != nil {
		c.logger.Warn("no draft available", zap.String("kind", string(opts.Kind)), zap.Error(err))
	}

	system := fmt.Sprintf(`You are a considerate, succinct companion.
Return ONE sentence only (at most ~25 words). No second sentence, no fragments after a period.
Be warm and specific. Vary openings and avoid ones used recently.
Respect boundaries in facts (e.g., block_checkins=true).
Never claim internet access; no medical/legal claims.
Style today: %s.
Known user facts: %s.
Avoid openings: %s.`,
		Guidance(Persona(c.store)),
		c.factLine(humanFactLimit, "; ", "="),
		jsonString(avoid))

	lines := []string{fmt.Sprintf("User said: %q", userText)}
	if draft.Text != "" {
		lines = append(lines, fmt.Sprintf("Refine this draft but keep its intent: %q", draft.Text))
	}
	if opts.Headline != "" {
		lines = append(lines, "Optional headline to weave in: "+opts.Headline)
	}
	lines = append(lines,
		"Mood: "+string(opts.Mood),
		"Playbook: "+jsonString(PlaybookFor(opts.Mood)))

	raw := c.generate(ctx, strings.Join(lines, "\n"), llm.Options{System: system, MaxTokens: 80, Temperature: 0.7})

	reply := lexical.OneSentence(raw, lexical.MaxReplyWords)
	if reply == "" {
		reply = lexical.OneSentence(draft.Text, lexical.MaxReplyWords)
	}
	if reply == "" {
		reply, _ = llm.Fallback{}.Generate(ctx, userText, llm.Options{})
	}

	c.store.UsageSet(models.LastOpenerKey, truncateRunes(lexical.FirstClause(reply), MaxOpenerChars))
	return reply
}

// ComposeReply answers free-form smalltalk in at most two sentences
func (c *Composer) ComposeReply(ctx context.Context, userText string, opts ReplyOptions) string {
	if opts.Mood == "" {
		opts.Mood = models.MoodNeutral
	}

	var pairs []string
	for _, t := range c.store.RecentTurns(replyTurnLimit) {
		pairs = append(pairs, fmt.Sprintf("U:%s / A:%s", t.UserText, t.BotText))
	}
	recent := strings.Join(pairs, " | ")
	if recent == "" {
		recent = "(none)"
	}

	system := fmt.Sprintf(`You are "Nova", a supportive AI friend on a phone.
- 1-2 sentences, concise.
- Vary phrasing; avoid stock lines and openings recently used.
- Offer to search first; fetch only after user says "more" or "search".
- Use memory lightly, never invent facts. Be extra kind if mood is negative.
Style today: %s.
Known user facts: %s.
Recent messages: %s.
Avoid openings: %s.
Mood: %s.`,
		Guidance(Persona(c.store)),
		c.factLine(replyFactLimit, "; ", "="),
		recent,
		jsonString(c.store.RecentOpeners(OpenerWindowDays)),
		opts.Mood)

	lines := []string{fmt.Sprintf("User said: %q", userText)}
	if opts.Headline != "" {
		lines = append(lines, "Optional headline: "+opts.Headline)
	}
	if opts.Draft != "" {
		lines = append(lines, fmt.Sprintf("Draft to refine: %q", opts.Draft))
	}
	lines = append(lines, "Constraint: return only the final message, max 2 sentences.")

	raw := c.generate(ctx, strings.Join(lines, "\n"), llm.Options{System: system, MaxTokens: 100, Temperature: 0.75})

	reply := lexical.KeepSentences(raw, 2)
	if reply == "" {
		reply, _ = llm.Fallback{}.Generate(ctx, userText, llm.Options{})
	}
	return reply
}

func (c *Composer) generate(ctx context.Context, prompt string, opts llm.Options) string {
	raw, err := c.engine.Generate(ctx, prompt, opts)
	if err != nil {
		c.logger.Warn("generation failed", zap.Error(err))
		return ""
	}
	return raw
}

func (c *Composer) factLine(limit int, sep, kv string) string {
	facts := c.store.AllFacts(limit, models.DefaultSubject)
	if len(facts) == 0 {
		return "(none)"
	}
	parts := make([]string, len(facts))
	for i, f := range facts {
		parts[i] = f.Key + kv + f.Value
	}
	return strings.Join(parts, sep)
}

func draftKind(kind models.TemplateKind) models.TemplateKind {
	switch kind {
	case models.KindGreeting, models.KindBirthday, models.KindFestival:
		return kind
	default:
		return models.KindCheckin
	}
}

func jsonString(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
