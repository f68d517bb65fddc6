package trigger

import (
	"regexp"
	"strings"

	"ai-context-be/pkg/signal"
	"ai-context-be/pkg/utils"
)

// Confidence levels
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Trigger types (which high-confidence family matched)
const (
	TriggerContinuation = "continuation"
	TriggerReference    = "reference"
	TriggerDecision     = "decision"
	TriggerIntent       = "intent"
	TriggerWeak         = "weak"
	TriggerTemporal     = "temporal"
)

// Result is the outcome of trigger detection for one message.
type Result struct {
	ShouldLoad  bool
	Confidence  string // high | medium | low
	TriggerType string
	Query       string // sanitized candidate search query, may be empty
}

const minMessageLen = 10

type highPattern struct {
	re          *regexp.Regexp
	triggerType string
}

// High-confidence trigger families, tried in order; first match wins.
var highPatterns = []highPattern{
	{regexp.MustCompile(`(?i)\bpick up where we left off`), TriggerContinuation},
	{regexp.MustCompile(`(?i)\b(?:continue|resume) (?:from |with )?(?:our |the )?last session`), TriggerContinuation},
	{regexp.MustCompile(`(?i)\bwhere (?:were we|did we leave off)`), TriggerContinuation},
	{regexp.MustCompile(`(?i)\bthat (\w+(?: \w+)?) we (?:discussed|talked about|were working on)`), TriggerReference},
	{regexp.MustCompile(`(?i)\bremember (?:that|the) (.+?)(?:\?|$)`), TriggerReference},
	{regexp.MustCompile(`(?i)\bwhat did we decide (?:about|on) (.+?)(?:\?|$)`), TriggerDecision},
	{regexp.MustCompile(`(?i)\bdid we (?:decide|agree) (?:about|on) (.+?)(?:\?|$)`), TriggerDecision},
	{regexp.MustCompile(`(?i)\b(?:what'?s the )?status (?:on|of) (.+?)(?:\?|$)`), TriggerIntent},
	{regexp.MustCompile(`(?i)\bhow(?:'s| is) (.+?) (?:going|coming along)`), TriggerIntent},
}

// Weak patterns only reach medium confidence.
var weakPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bwe were\b`),
	regexp.MustCompile(`(?i)\bpreviously\b`),
	regexp.MustCompile(`(?i)\bour last session\b`),
	regexp.MustCompile(`(?i)\blast time\b`),
	regexp.MustCompile(`(?i)\bas we said\b`),
}

var temporalKeywords = []string{
	"yesterday", "last week", "last month", "ago", "earlier", "the other day",
}

// Detect decides whether a message should trigger proactive context retrieval.
// Pure function; independent of the signal pipeline.
func Detect(message string) Result {
	trimmed := strings.TrimSpace(message)
	if len(trimmed) < minMessageLen {
		return Result{}
	}

	// High confidence: one of the four trigger families.
	for _, p := range highPatterns {
		m := p.re.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		var query string
		if len(m) > 1 {
			query = utils.SanitizeQuery(m[1])
		}
		return Result{
			ShouldLoad:  true,
			Confidence:  ConfidenceHigh,
			TriggerType: p.triggerType,
			Query:       query,
		}
	}

	// Medium confidence: weak reference phrasing.
	for _, re := range weakPatterns {
		if re.MatchString(trimmed) {
			return Result{
				ShouldLoad:  true,
				Confidence:  ConfidenceMedium,
				TriggerType: TriggerWeak,
			}
		}
	}

	// Low confidence: a question anchored to a past time.
	if strings.Contains(trimmed, "?") {
		lower := strings.ToLower(trimmed)
		for _, kw := range temporalKeywords {
			if strings.Contains(lower, kw) {
				return Result{
					ShouldLoad:  true,
					Confidence:  ConfidenceLow,
					TriggerType: TriggerTemporal,
				}
			}
		}
	}

	return Result{}
}

// DetectIntentMention scans a message for a direct reference to a tracked
// intent, without going through the trigger patterns: label substring, or at
// least two overlapping significant keywords.
func DetectIntentMention(message string, intents []signal.IntentBrief) *signal.IntentBrief {
	trimmed := strings.TrimSpace(message)
	if len(trimmed) < minMessageLen {
		return nil
	}
	lower := strings.ToLower(trimmed)
	messageWords := utils.SignificantWords(lower, 3)

	for i := range intents {
		label := strings.ToLower(intents[i].Label)
		if label != "" && strings.Contains(lower, label) {
			return &intents[i]
		}

		labelWords := utils.SignificantWords(label, 3)
		overlap := 0
		for _, w := range labelWords {
			for _, mw := range messageWords {
				if w == mw {
					overlap++
					break
				}
			}
		}
		if overlap >= 2 {
			return &intents[i]
		}
	}
	return nil
}
