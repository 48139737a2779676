package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestReplies_SplitsAndCaps(t *testing.T) {
	engine := &scriptedEngine{replies: []string{"- Sounds good\n• On my way\n\n- Thanks so much\n- One more"}}
	s := NewSuggester(engine, nil)

	got := s.SuggestReplies(context.Background(), SuggestOptions{
		Channel: "whatsapp",
		LastTwo: []Message{{FromMe: true, Text: "running late"}, {Text: "no worries"}},
	})

	require.Len(t, got, 3)
	assert.Equal(t, "Sounds good", got[0].Text)
	assert.Equal(t, "On my way", got[1].Text)
	assert.Equal(t, "Thanks so much", got[2].Text)

	require.Len(t, engine.opts, 1)
	assert.Contains(t, engine.opts[0].System, "Channel: whatsapp")
	assert.Contains(t, engine.opts[0].System, "Me: running late | Them: no worries")
	assert.Equal(t, 120, engine.opts[0].MaxTokens)
	assert.Equal(t, "Suggest quick replies only.", engine.prompts[0])
}

func TestSuggestReplies_KeepsHyphenatedWords(t *testing.T) {
	engine := &scriptedEngine{replies: []string{"- Quick check-in tomorrow?\n- Let's do a follow-up call\n* Sounds good • Thanks"}}
	s := NewSuggester(engine, nil)

	got := s.SuggestReplies(context.Background(), SuggestOptions{Max: 4})
	require.Len(t, got, 4)
	assert.Equal(t, "Quick check-in tomorrow?", got[0].Text)
	assert.Equal(t, "Let's do a follow-up call", got[1].Text)
	assert.Equal(t, "Sounds good", got[2].Text)
	assert.Equal(t, "Thanks", got[3].Text)
}

func TestSuggestReplies_NewChatAndStarter(t *testing.T) {
	engine := &scriptedEngine{replies: []string{"Hi there!\nHey, how are you?"}}
	s := NewSuggester(engine, nil)

	got := s.SuggestReplies(context.Background(), SuggestOptions{Starter: "hi", Max: 1})
	require.Len(t, got, 1)
	assert.Equal(t, "Hi there!", got[0].Text)
	assert.Contains(t, engine.opts[0].System, "(new chat)")
	assert.Contains(t, engine.opts[0].System, "Seed tone: hi")
	assert.Contains(t, engine.opts[0].System, "Channel: sms")
}

func TestSuggestReplies_EmptyOrFailed(t *testing.T) {
	s := NewSuggester(&scriptedEngine{replies: []string{"  \n • \n"}}, nil)
	assert.Empty(t, s.SuggestReplies(context.Background(), SuggestOptions{}))

	s = NewSuggester(&scriptedEngine{err: errors.New("down")}, nil)
	assert.Empty(t, s.SuggestReplies(context.Background(), SuggestOptions{}))
}
