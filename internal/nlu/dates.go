// ABOUTME: Date and time phrase recognition shared by the task parser
package nlu

import "regexp"

var (
	datePhrase = regexp.MustCompile(`(?i)\b(?:today|tomorrow|day after|on\s+\w+\s+\d{1,2}|on\s+\d{4}-\d{2}-\d{2}|\d{1,2}(?::\d{2})?\s*(?:am|pm))\b`)
	whenPhrase = regexp.MustCompile(`(?i)\b(?:today|tomorrow|day after|\d{4}-\d{2}-\d{2}|\d{1,2}(?::\d{2})?\s*(?:am|pm))\b`)
	clockTime  = regexp.MustCompile(`(?i)(\d{1,2}(?::\d{2})?\s*(?:am|pm)?)`)
)

// DatePhrase returns the first recognized date phrase in text, or ""
func DatePhrase(text string) string {
	return datePhrase.FindString(text)
}
