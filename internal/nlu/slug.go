// ABOUTME: Subject, key and value normalization for fact statements
// ABOUTME: Key synonyms are a fixed ordered table, applied before slugging
package nlu

import (
	"regexp"
	"strings"

	"github.com/harper/nova/internal/models"
)

type synonym struct {
	pattern   *regexp.Regexp
	canonical string
}

// keySynonyms canonicalizes common spellings of fact keys. Order matters:
// "phone number" must collapse before the generic slug step.
var keySynonyms = []synonym{
	{regexp.MustCompile(`\bfavou?rite\b`), "favorite"},
	{regexp.MustCompile(`\bcolou?r\b`), "color"},
	{regexp.MustCompile(`\b(dob|birth\s*date)\b`), "birthday"},
	{regexp.MustCompile(`\b(mobile|telephone|phone number)\b`), "phone"},
}

var (
	nonSlug        = regexp.MustCompile(`[^a-z0-9]+`)
	trailingStop   = regexp.MustCompile(`[.?!]+$`)
	trailingValue  = regexp.MustCompile(`[.,!?]\s*$`)
	leadingPossess = regexp.MustCompile(`^(my|our)\s+`)
	firstPerson    = map[string]bool{"i": true, "me": true, "my": true, "myself": true}
)

// NormalizeSubject lowercases a possessor and collapses first-person pronouns to "me"
func NormalizeSubject(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || firstPerson[s] {
		return models.DefaultSubject
	}
	s = strings.TrimSpace(trailingStop.ReplaceAllString(s, ""))
	s = leadingPossess.ReplaceAllString(s, "")
	if s == "" {
		return models.DefaultSubject
	}
	return s
}

// SlugKey canonicalizes synonyms and reduces a key to [a-z0-9_]+
func SlugKey(raw string) string {
	k := strings.ToLower(strings.TrimSpace(raw))
	for _, syn := range keySynonyms {
		k = syn.pattern.ReplaceAllString(k, syn.canonical)
	}
	k = strings.Trim(nonSlug.ReplaceAllString(k, "_"), "_")
	if k == "" {
		return "value"
	}
	return k
}

// CleanValue strips one trailing punctuation mark and surrounding space
func CleanValue(v string) string {
	return strings.TrimSpace(trailingValue.ReplaceAllString(v, ""))
}
