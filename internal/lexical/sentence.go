// ABOUTME: Sentence and clause helpers for reply post-processing
// ABOUTME: Enforces the one-sentence, bounded-word output contract
package lexical

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxReplyWords is the word cap applied by OneSentence
const MaxReplyWords = 25

// Ellipsis is appended when a sentence is hard-truncated
const Ellipsis = "…"

const terminalMarks = ".!?…"

var (
	sentenceEnd   = regexp.MustCompile(`[.!?]`)
	trailingPunct = regexp.MustCompile(`[,:;]+$`)
)

// FirstClause returns the text before the first . ! or ?, trimmed
func FirstClause(s string) string {
	loc := sentenceEnd.FindStringIndex(s)
	if loc == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(s[:loc[0]])
}

// Sentences splits collapsed text after each run of terminal marks that is
// followed by a space or the end of the text. Marks inside a token, as in
// "72.5" or "v1.2", do not end a sentence. Each run collapses to its first
// mark, so "Wow!!" becomes "Wow!" and "Hmm..." becomes "Hmm.".
func Sentences(s string) []string {
	text := strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
	if text == "" {
		return nil
	}

	runes := []rune(text)
	var out []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		end := i
		for end+1 < len(runes) && isTerminal(runes[end+1]) {
			end++
		}
		if end+1 == len(runes) || runes[end+1] == ' ' {
			if sentence := collapseMarks(string(runes[start : end+1])); sentence != "" {
				out = append(out, sentence)
			}
			start = end + 1
		}
		i = end
	}
	if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
		out = append(out, rest)
	}
	return out
}

func isTerminal(r rune) bool {
	return strings.ContainsRune(terminalMarks, r)
}

// collapseMarks trims s and reduces its trailing run of terminal marks to
// the first mark of the run. A sentence made only of marks is dropped.
func collapseMarks(s string) string {
	s = strings.TrimSpace(s)
	body := strings.TrimRightFunc(s, isTerminal)
	if strings.TrimSpace(body) == "" {
		return ""
	}
	if body == s {
		return s
	}
	mark, _ := utf8.DecodeRuneInString(s[len(body):])
	return strings.TrimSpace(body) + string(mark)
}

// FirstSentence returns the first sentence of s with whitespace collapsed
func FirstSentence(s string) string {
	parts := Sentences(s)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// KeepSentences returns at most n leading sentences joined by a space
func KeepSentences(s string, n int) string {
	parts := Sentences(s)
	if len(parts) > n {
		parts = parts[:n]
	}
	return strings.Join(parts, " ")
}

// OneSentence reduces s to its first sentence. If that sentence exceeds
// maxWords it is cut at the limit, trailing , : ; are stripped and an
// ellipsis is appended. An unterminated sentence gets a period.
func OneSentence(s string, maxWords int) string {
	first := FirstSentence(s)
	if first == "" {
		return ""
	}
	words := strings.Fields(first)
	if maxWords <= 0 || len(words) <= maxWords {
		return terminate(first)
	}
	cut := strings.Join(words[:maxWords], " ")
	cut = strings.TrimRightFunc(cut, isTerminal)
	cut = trailingPunct.ReplaceAllString(cut, "")
	return cut + Ellipsis
}

func terminate(s string) string {
	if strings.HasSuffix(s, Ellipsis) || strings.ContainsAny(s[len(s)-1:], ".!?") {
		return s
	}
	return trailingPunct.ReplaceAllString(s, "") + "."
}
