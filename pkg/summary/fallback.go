package summary

import (
	"fmt"
	"strings"

	"ai-context-be/internal/entity"
	"ai-context-be/pkg/utils"

	"github.com/google/uuid"
)

// basicIntentSummary is the deterministic fallback: built solely from the
// intent's own fields, no LLM involved.
func (g *Generator) basicIntentSummary(intent *entity.Intent, related []entity.RelatedSession) *entity.IntentContextSummary {
	var parts []string
	parts = append(parts, fmt.Sprintf("%s (%s, %s priority, %s).", intent.Label, intent.Type, intent.Priority, intent.Status))
	if intent.Goal != "" && intent.Goal != intent.Label {
		parts = append(parts, fmt.Sprintf("Goal: %s.", intent.Goal))
	}
	if intent.CurrentApproach != nil && *intent.CurrentApproach != "" {
		parts = append(parts, fmt.Sprintf("Current approach: %s.", *intent.CurrentApproach))
	}
	if len(intent.Blockers) > 0 {
		parts = append(parts, fmt.Sprintf("Blocked on: %s.", strings.Join(intent.Blockers, "; ")))
	}
	if len(intent.TriedApproaches) > 0 {
		parts = append(parts, fmt.Sprintf("Tried so far: %s.", strings.Join(intent.TriedApproaches, "; ")))
	}

	currentApproach := ""
	if intent.CurrentApproach != nil {
		currentApproach = *intent.CurrentApproach
	}

	capped := related
	if len(capped) > maxRelatedSessions {
		capped = capped[:maxRelatedSessions]
	}

	return &entity.IntentContextSummary{
		IntentId:        intent.Id,
		UserId:          intent.UserId,
		Label:           intent.Label,
		Type:            intent.Type,
		Status:          intent.Status,
		Priority:        intent.Priority,
		ContextSummary:  strings.Join(parts, " "),
		Decisions:       []string{},
		ApproachesTried: utils.UnionDedup(intent.TriedApproaches),
		CurrentApproach: currentApproach,
		Blockers:        utils.UnionDedup(intent.Blockers),
		RelatedSessions: capped,
		TouchCount:      intent.TouchCount,
		GeneratedAt:     nowFunc(),
	}
}

// basicSessionSummary derives a degraded but always-available digest from the
// session log and its messages alone.
func (g *Generator) basicSessionSummary(session *entity.SessionLog, messages []*entity.SessionMessage, touched, resolved []uuid.UUID) *entity.SessionSummary {
	title := session.Title
	var firstUser string
	for _, msg := range messages {
		if msg.Role == "user" {
			firstUser = msg.Content
			break
		}
	}
	if title == "" {
		title = utils.Truncate(firstUser, 60)
	}
	if title == "" {
		title = "Chat session"
	}

	var allText strings.Builder
	for _, msg := range messages {
		if msg.Role == "user" {
			allText.WriteString(msg.Content)
			allText.WriteString(" ")
		}
	}
	keywords := utils.ExtractKeywords(allText.String(), 12)

	oneLine := capWords(utils.Truncate(firstUser, 120), 15)
	if oneLine == "" {
		oneLine = title
	}

	endedAt := nowFunc()
	if session.EndedAt != nil {
		endedAt = *session.EndedAt
	}

	messageCount := session.MessageCount
	if messageCount == 0 {
		messageCount = len(messages)
	}

	return &entity.SessionSummary{
		SessionId:       session.Id,
		UserId:          session.UserId,
		Title:           title,
		OneLine:         oneLine,
		Topics:          utils.ExtractKeywords(title, 5),
		Keywords:        keywords,
		FullSummary:     fmt.Sprintf("Session with %d messages. Started around: %s", messageCount, utils.Truncate(firstUser, 200)),
		Decisions:       []string{},
		OpenQuestions:   []string{},
		ActionItems:     []string{},
		MoodArc:         "",
		EndEnergy:       "",
		Artifacts:       []string{},
		IntentsTouched:  touched,
		IntentsResolved: resolved,
		MessageCount:    messageCount,
		ToolsUsed:       []string{},
		StartedAt:       session.StartedAt,
		EndedAt:         endedAt,
		GeneratedAt:     nowFunc(),
	}
}
