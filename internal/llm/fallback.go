// ABOUTME: Deterministic offline responder used when no backend is reachable
// ABOUTME: Pattern-matches sad, question and joke keywords in the prompt
package llm

import (
	"context"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	fallbackSad      = regexp.MustCompile(`(?i)sad|upset|lonely|tired|down`)
	fallbackQuestion = regexp.MustCompile(`(?i)^who|what|when|where|why|how\b`)
	fallbackJoke     = regexp.MustCompile(`(?i)joke|funny`)
)

// Offline replies.
const (
	ListeningReply = "I'm here and listening. What's up?"
	SupportReply   = "I'm with you. Want to share a bit more? One small step at a time, you've got this."
	QuestionReply  = "Here's a short offline answer. If you need details, tell me and I'll keep it concise."
	JokeReply      = "Quick one: Why did the dev cross the road? To get to the other IDE. 😄"
	LongReply      = "Okay, I'll keep it short and helpful."
)

// Fallback never fails and never blocks.
type Fallback struct{}

func (Fallback) Name() string { return "fallback" }

func (Fallback) Generate(_ context.Context, prompt string, _ Options) (string, error) {
	p := strings.TrimSpace(prompt)
	switch {
	case p == "":
		return ListeningReply, nil
	case fallbackSad.MatchString(p):
		return SupportReply, nil
	case fallbackQuestion.MatchString(p):
		return QuestionReply, nil
	case fallbackJoke.MatchString(p):
		return JokeReply, nil
	case len(p) < 80:
		r, size := utf8.DecodeRuneInString(p)
		return "Got it. " + string(unicode.ToUpper(r)) + p[size:], nil
	default:
		return LongReply, nil
	}
}
