package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-context-be/internal/entity"
	"ai-context-be/internal/pkg/logger"
	"ai-context-be/pkg/llm"
	"ai-context-be/pkg/utils"

	"github.com/google/uuid"
)

// maxRelatedInPrompt caps how many related-session one-liners go into the
// intent prompt; maxRelatedSessions caps what the summary itself carries.
const (
	maxRelatedInPrompt = 5
	maxRelatedSessions = 10
	maxTranscriptChars = 6000
)

// Generator produces session and intent context summaries, LLM-assisted with
// a deterministic fallback. It never fails to produce a summary.
type Generator struct {
	llmProvider llm.LLMProvider // may be nil (fallback-only mode)
	logger      logger.ILogger
}

func NewGenerator(llmProvider llm.LLMProvider, log logger.ILogger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      log,
	}
}

// intentSummaryJSON is the strict shape expected from the model.
type intentSummaryJSON struct {
	ContextSummary  string   `json:"contextSummary"`
	Decisions       []string `json:"decisions"`
	ApproachesTried []string `json:"approachesTried"`
	CurrentApproach string   `json:"currentApproach"`
	Blockers        []string `json:"blockers"`
}

// GenerateIntentSummary builds the retrievable resume point for an intent.
// LLM-derived arrays are merged with the intent's own ground-truth arrays
// (union, de-duplicated, ground truth first) rather than trusted alone.
func (g *Generator) GenerateIntentSummary(ctx context.Context, intent *entity.Intent, related []entity.RelatedSession) *entity.IntentContextSummary {
	base := g.basicIntentSummary(intent, related)

	if g.llmProvider == nil {
		return base
	}

	prompt := buildIntentPrompt(intent, related)
	response, err := g.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.3), llm.WithMaxTokens(600))
	if err != nil {
		g.logger.Warn("SummaryGenerator", "Intent summary LLM call failed, using basic summary", map[string]interface{}{
			"intent_id": intent.Id.String(),
			"error":     err.Error(),
		})
		return base
	}

	var parsed intentSummaryJSON
	if err := decodeStrict(response, &parsed); err != nil {
		g.logger.Debug("SummaryGenerator", "Unparsable intent summary response, using basic summary", map[string]interface{}{
			"intent_id": intent.Id.String(),
			"error":     err.Error(),
		})
		return base
	}

	if parsed.ContextSummary != "" {
		base.ContextSummary = parsed.ContextSummary
	}
	base.Decisions = utils.UnionDedup(base.Decisions, parsed.Decisions)
	// Ground truth first: the intent's own approaches/blockers win ordering.
	base.ApproachesTried = utils.UnionDedup(intent.TriedApproaches, parsed.ApproachesTried)
	base.Blockers = utils.UnionDedup(intent.Blockers, parsed.Blockers)
	if base.CurrentApproach == "" && parsed.CurrentApproach != "" {
		base.CurrentApproach = parsed.CurrentApproach
	}
	return base
}

// sessionSummaryJSON is the strict shape expected from the model.
type sessionSummaryJSON struct {
	Title         string   `json:"title"`
	OneLine       string   `json:"oneLine"`
	Topics        []string `json:"topics"`
	Keywords      []string `json:"keywords"`
	FullSummary   string   `json:"fullSummary"`
	Decisions     []string `json:"decisions"`
	OpenQuestions []string `json:"openQuestions"`
	ActionItems   []string `json:"actionItems"`
	MoodArc       string   `json:"moodArc"`
	EndEnergy     string   `json:"endEnergy"`
	Artifacts     []string `json:"artifacts"`
}

// GenerateSessionSummary builds the digest of a finished session.
func (g *Generator) GenerateSessionSummary(ctx context.Context, session *entity.SessionLog, messages []*entity.SessionMessage, touched, resolved []uuid.UUID) *entity.SessionSummary {
	base := g.basicSessionSummary(session, messages, touched, resolved)

	if g.llmProvider == nil {
		return base
	}

	prompt := buildSessionPrompt(session, messages)
	response, err := g.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.3), llm.WithMaxTokens(900))
	if err != nil {
		g.logger.Warn("SummaryGenerator", "Session summary LLM call failed, using basic summary", map[string]interface{}{
			"session_id": session.Id.String(),
			"error":      err.Error(),
		})
		return base
	}

	var parsed sessionSummaryJSON
	if err := decodeStrict(response, &parsed); err != nil {
		g.logger.Debug("SummaryGenerator", "Unparsable session summary response, using basic summary", map[string]interface{}{
			"session_id": session.Id.String(),
			"error":      err.Error(),
		})
		return base
	}

	if parsed.Title != "" {
		base.Title = parsed.Title
	}
	if parsed.OneLine != "" {
		base.OneLine = capWords(parsed.OneLine, 15)
	}
	if parsed.FullSummary != "" {
		base.FullSummary = parsed.FullSummary
	}
	base.Topics = utils.UnionDedup(parsed.Topics, base.Topics)
	base.Keywords = utils.UnionDedup(base.Keywords, parsed.Keywords)
	base.Decisions = utils.UnionDedup(parsed.Decisions)
	base.OpenQuestions = utils.UnionDedup(parsed.OpenQuestions)
	base.ActionItems = utils.UnionDedup(parsed.ActionItems)
	base.Artifacts = utils.UnionDedup(parsed.Artifacts)
	if parsed.MoodArc != "" {
		base.MoodArc = parsed.MoodArc
	}
	if parsed.EndEnergy != "" {
		base.EndEnergy = parsed.EndEnergy
	}
	return base
}

// MergeRelatedSession inserts a session reference into an intent summary's
// related list: keyed by session id (most recent replaces), most-recent-first,
// capped at maxRelatedSessions.
func MergeRelatedSession(related []entity.RelatedSession, ref entity.RelatedSession) []entity.RelatedSession {
	merged := make([]entity.RelatedSession, 0, len(related)+1)
	merged = append(merged, ref)
	for _, r := range related {
		if r.SessionId == ref.SessionId {
			continue
		}
		merged = append(merged, r)
	}
	if len(merged) > maxRelatedSessions {
		merged = merged[:maxRelatedSessions]
	}
	return merged
}

func buildIntentPrompt(intent *entity.Intent, related []entity.RelatedSession) string {
	var b strings.Builder

	b.WriteString("<system>\n")
	b.WriteString("You write a compact resume point for a tracked user intent.\n")
	b.WriteString("Base your summary ONLY on the facts given below.\n")
	b.WriteString("</system>\n\n")

	b.WriteString("<intent>\n")
	b.WriteString(fmt.Sprintf("label: %s\n", intent.Label))
	b.WriteString(fmt.Sprintf("type: %s\n", intent.Type))
	b.WriteString(fmt.Sprintf("goal: %s\n", intent.Goal))
	b.WriteString(fmt.Sprintf("status: %s\n", intent.Status))
	b.WriteString(fmt.Sprintf("priority: %s\n", intent.Priority))
	if intent.CurrentApproach != nil {
		b.WriteString(fmt.Sprintf("current_approach: %s\n", *intent.CurrentApproach))
	}
	if len(intent.TriedApproaches) > 0 {
		b.WriteString(fmt.Sprintf("tried_approaches: %s\n", strings.Join(intent.TriedApproaches, "; ")))
	}
	if len(intent.Blockers) > 0 {
		b.WriteString(fmt.Sprintf("blockers: %s\n", strings.Join(intent.Blockers, "; ")))
	}
	if len(intent.Constraints) > 0 {
		b.WriteString(fmt.Sprintf("constraints: %s\n", strings.Join(intent.Constraints, "; ")))
	}
	if intent.EmotionalContext != nil {
		b.WriteString(fmt.Sprintf("emotional_context: %s\n", *intent.EmotionalContext))
	}
	b.WriteString("</intent>\n\n")

	b.WriteString("<related_sessions>\n")
	count := len(related)
	if count > maxRelatedInPrompt {
		count = maxRelatedInPrompt
	}
	if count == 0 {
		b.WriteString("(none)\n")
	}
	for _, r := range related[:count] {
		b.WriteString(fmt.Sprintf("- %s: %s\n", r.Title, r.Snippet))
	}
	b.WriteString("</related_sessions>\n\n")

	b.WriteString("<output_format>\n")
	b.WriteString("Respond with ONLY valid JSON:\n")
	b.WriteString("{\n")
	b.WriteString("  \"contextSummary\": \"2-4 sentences a future session can resume from\",\n")
	b.WriteString("  \"decisions\": [\"...\"],\n")
	b.WriteString("  \"approachesTried\": [\"...\"],\n")
	b.WriteString("  \"currentApproach\": \"...\",\n")
	b.WriteString("  \"blockers\": [\"...\"]\n")
	b.WriteString("}\n")
	b.WriteString("</output_format>")

	return b.String()
}

func buildSessionPrompt(session *entity.SessionLog, messages []*entity.SessionMessage) string {
	var b strings.Builder

	b.WriteString("<system>\n")
	b.WriteString("You summarize a finished chat session into a compact, retrievable digest.\n")
	b.WriteString("</system>\n\n")

	b.WriteString("<transcript>\n")
	b.WriteString(buildTranscript(messages))
	b.WriteString("</transcript>\n\n")

	b.WriteString("<output_format>\n")
	b.WriteString("Respond with ONLY valid JSON:\n")
	b.WriteString("{\n")
	b.WriteString("  \"title\": \"short session title\",\n")
	b.WriteString("  \"oneLine\": \"one line, at most 15 words\",\n")
	b.WriteString("  \"topics\": [\"...\"],\n")
	b.WriteString("  \"keywords\": [\"...\"],\n")
	b.WriteString("  \"fullSummary\": \"a few sentences\",\n")
	b.WriteString("  \"decisions\": [\"...\"],\n")
	b.WriteString("  \"openQuestions\": [\"...\"],\n")
	b.WriteString("  \"actionItems\": [\"...\"],\n")
	b.WriteString("  \"moodArc\": \"how the user's mood moved\",\n")
	b.WriteString("  \"endEnergy\": \"high|medium|low\",\n")
	b.WriteString("  \"artifacts\": [\"things produced, if any\"]\n")
	b.WriteString("}\n")
	b.WriteString("</output_format>")

	return b.String()
}

func buildTranscript(messages []*entity.SessionMessage) string {
	var b strings.Builder
	for _, msg := range messages {
		line := fmt.Sprintf("%s: %s\n", msg.Role, msg.Content)
		if b.Len()+len(line) > maxTranscriptChars {
			b.WriteString("(transcript truncated)\n")
			break
		}
		b.WriteString(line)
	}
	return b.String()
}

// decodeStrict isolates the decode-or-fallback boundary: the first JSON object
// embedded in the response is decoded, anything else is an error for the
// caller to fall back on. Parse failures never escape this package.
func decodeStrict(response string, target interface{}) error {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")
	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return fmt.Errorf("no JSON found in response")
	}
	if err := json.Unmarshal([]byte(response[startIdx:endIdx+1]), target); err != nil {
		return fmt.Errorf("JSON unmarshal failed: %w", err)
	}
	return nil
}

func capWords(text string, max int) string {
	words := strings.Fields(text)
	if len(words) <= max {
		return text
	}
	return strings.Join(words[:max], " ")
}

var nowFunc = time.Now
