// ABOUTME: Turn represents a single conversation exchange between user and assistant
// ABOUTME: Append-only log; read paths return the most recent rows first
package models

import "time"

// Turn represents a single conversation turn
type Turn struct {
	ID        int64     `json:"id" yaml:"id"`
	UserText  string    `json:"user_text" yaml:"user_text"`
	BotText   string    `json:"bot_text" yaml:"bot_text"`
	Mood      Mood      `json:"mood" yaml:"mood"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewTurn creates a Turn stamped with the current time
func NewTurn(userText, botText string, mood Mood) *Turn {
	if mood == "" {
		mood = MoodNeutral
	}
	return &Turn{
		UserText:  userText,
		BotText:   botText,
		Mood:      mood,
		CreatedAt: time.Now().UTC(),
	}
}
