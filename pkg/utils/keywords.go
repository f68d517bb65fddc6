package utils

import (
	"strings"
	"unicode"
)

// stopWords are excluded from keyword extraction. Kept small on purpose;
// the index tolerates a few noisy keywords better than it tolerates
// dropping a meaningful one.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "that": true, "this": true,
	"with": true, "from": true, "have": true, "was": true, "are": true,
	"but": true, "not": true, "you": true, "your": true, "about": true,
	"what": true, "when": true, "where": true, "how": true, "why": true,
	"can": true, "could": true, "should": true, "would": true, "will": true,
	"just": true, "like": true, "they": true, "them": true, "then": true,
	"there": true, "here": true, "some": true, "into": true, "over": true,
	"been": true, "being": true, "were": true, "its": true, "also": true,
}

// SignificantWords lowercases, strips punctuation and returns the words of
// text longer than minLen that are not stop words. Order preserved, duplicates
// removed.
func SignificantWords(text string, minLen int) []string {
	seen := make(map[string]bool)
	var words []string
	for _, raw := range strings.Fields(strings.ToLower(text)) {
		word := strings.TrimFunc(raw, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if len(word) <= minLen || stopWords[word] || seen[word] {
			continue
		}
		seen[word] = true
		words = append(words, word)
	}
	return words
}

// ExtractKeywords returns up to max significant keywords from text.
func ExtractKeywords(text string, max int) []string {
	words := SignificantWords(text, 2)
	if len(words) > max {
		words = words[:max]
	}
	return words
}

// SanitizeQuery keeps only alphanumerics and spaces, collapsing whitespace.
func SanitizeQuery(query string) string {
	var b strings.Builder
	for _, r := range query {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Truncate cuts text to max runes, appending an ellipsis when cut.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

// UnionDedup merges ordered string lists, keeping first occurrence.
// Ground truth lists should be passed first so they win ordering conflicts.
func UnionDedup(lists ...[]string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0)
	for _, list := range lists {
		for _, item := range list {
			trimmed := strings.TrimSpace(item)
			if trimmed == "" || seen[trimmed] {
				continue
			}
			seen[trimmed] = true
			result = append(result, trimmed)
		}
	}
	return result
}
