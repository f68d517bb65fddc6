package signal

import (
	"strings"
)

// MatchIntent resolves a free-text label against candidate intents.
// Preference order is a contract: exact label match, then substring either
// direction, then word overlap. Returns nil when nothing qualifies; callers
// decide whether that means "create new" or "no-op".
func MatchIntent(label string, candidates []IntentBrief) *IntentBrief {
	query := strings.ToLower(strings.TrimSpace(label))
	if query == "" {
		return nil
	}

	// 1. Exact match
	for i := range candidates {
		if strings.ToLower(candidates[i].Label) == query {
			return &candidates[i]
		}
	}

	// 2. Substring match, either direction
	for i := range candidates {
		candidate := strings.ToLower(candidates[i].Label)
		if strings.Contains(candidate, query) || strings.Contains(query, candidate) {
			return &candidates[i]
		}
	}

	// 3. Word overlap. Only words longer than 3 chars carry signal.
	queryWords := tokenize(query)
	if len(queryWords) == 0 {
		return nil
	}

	var best *IntentBrief
	bestScore := 0.0
	for i := range candidates {
		candidateWords := tokenize(strings.ToLower(candidates[i].Label))
		if len(candidateWords) == 0 {
			continue
		}
		overlap := wordOverlap(queryWords, candidateWords)
		// Strictly greater: first-seen wins ties.
		if overlap > 0.3 && overlap > bestScore {
			bestScore = overlap
			best = &candidates[i]
		}
	}
	return best
}

func tokenize(text string) []string {
	var words []string
	for _, w := range strings.Fields(text) {
		if len(w) > 3 {
			words = append(words, w)
		}
	}
	return words
}

// wordOverlap = |intersection| / max(|a|, |b|)
func wordOverlap(a, b []string) float64 {
	set := make(map[string]bool, len(a))
	for _, w := range a {
		set[w] = true
	}
	intersection := 0
	seen := make(map[string]bool, len(b))
	for _, w := range b {
		if set[w] && !seen[w] {
			intersection++
			seen[w] = true
		}
	}
	denom := len(a)
	if len(b) > denom {
		denom = len(b)
	}
	if denom == 0 {
		return 0
	}
	return float64(intersection) / float64(denom)
}
