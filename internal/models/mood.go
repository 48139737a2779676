// ABOUTME: Mood is the four-valued affect label attached to turns and drafts
package models

// Mood classifies the affect of an utterance
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodSad     Mood = "sad"
	MoodAngry   Mood = "angry"
	MoodNeutral Mood = "neutral"
)

// ParseMood maps a stored string back to a Mood, defaulting to neutral
func ParseMood(s string) Mood {
	switch Mood(s) {
	case MoodHappy, MoodSad, MoodAngry:
		return Mood(s)
	default:
		return MoodNeutral
	}
}
