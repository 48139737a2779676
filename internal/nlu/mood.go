// ABOUTME: Keyword-based mood detection for utterances
// ABOUTME: First matching class wins: happy, then angry, then sad
package nlu

import (
	"regexp"

	"github.com/harper/nova/internal/models"
)

type moodRule struct {
	mood    models.Mood
	pattern *regexp.Regexp
}

var moodRules = []moodRule{
	{models.MoodHappy, regexp.MustCompile(`(?i)\b(happy|great|awesome|excited|good day)\b`)},
	{models.MoodAngry, regexp.MustCompile(`(?i)\b(angry|mad|furious|annoyed)\b`)},
	{models.MoodSad, regexp.MustCompile(`(?i)\b(sad|rough day|down|tired|stressed|overwhelmed|anxious)\b`)},
}

// DetectMood classifies text as happy, angry, sad or neutral
func DetectMood(text string) models.Mood {
	for _, rule := range moodRules {
		if rule.pattern.MatchString(text) {
			return rule.mood
		}
	}
	return models.MoodNeutral
}
