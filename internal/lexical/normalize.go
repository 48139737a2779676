// ABOUTME: Text normalization, edit distance and similarity scoring
// ABOUTME: Used by resolvers for fuzzy alias and airport matching
package lexical

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnumSpace = regexp.MustCompile(`[^a-z0-9 ]`)
	multiSpace    = regexp.MustCompile(`\s+`)
)

// Normalize lowercases, folds diacritics, replaces anything outside [a-z0-9 ]
// with a space and collapses whitespace.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	out := nonAlnumSpace.ReplaceAllString(strings.ToLower(folded), " ")
	return strings.TrimSpace(multiSpace.ReplaceAllString(out, " "))
}

// Levenshtein returns the edit distance between a and b, measured in runes
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Similarity returns 1 - distance/maxLen over normalized inputs, in [0,1]
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	maxLen := max(len([]rune(na)), len([]rune(nb)))
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(Levenshtein(na, nb))/float64(maxLen)
}
