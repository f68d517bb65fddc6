package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-context-be/internal/dto"
	"ai-context-be/internal/entity"
	"ai-context-be/internal/pkg/logger"
	"ai-context-be/internal/repository/unitofwork"
	"ai-context-be/internal/store"

	"github.com/google/uuid"
)

const (
	breadcrumbIntents  = 3
	breadcrumbSessions = 3
	fallbackSessions   = 5
	fallbackIntents    = 5
)

type IContextService interface {
	LoadContext(ctx context.Context, userId uuid.UUID, req *dto.LoadContextRequest) *dto.LoadContextResponse
	CorrectSummary(ctx context.Context, userId uuid.UUID, req *dto.CorrectSummaryRequest) *dto.CorrectSummaryResponse
	// Breadcrumbs renders the session-start context block. Empty string when
	// the user has no intents and no recent sessions.
	Breadcrumbs(ctx context.Context, userId uuid.UUID) string
}

type contextService struct {
	contextStore *store.ContextStore
	uowFactory   unitofwork.RepositoryFactory
	logger       logger.ILogger
}

func NewContextService(contextStore *store.ContextStore, uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IContextService {
	return &contextService{
		contextStore: contextStore,
		uowFactory:   uowFactory,
		logger:       log,
	}
}

// LoadContext resolves in priority order: explicit intent id, explicit
// session id, free-text query, else recent sessions + active intents.
func (s *contextService) LoadContext(ctx context.Context, userId uuid.UUID, req *dto.LoadContextRequest) *dto.LoadContextResponse {
	depth := req.Depth
	if depth == "" {
		depth = dto.DepthSummary
	}

	if req.IntentId != "" {
		return s.loadByIntentId(ctx, userId, req.IntentId, depth)
	}
	if req.SessionId != "" {
		return s.loadBySessionId(ctx, userId, req.SessionId, depth)
	}
	if strings.TrimSpace(req.Query) != "" {
		return s.loadByQuery(ctx, userId, req.Query, depth)
	}
	return s.loadFallback(ctx, userId, depth)
}

func (s *contextService) loadByIntentId(ctx context.Context, userId uuid.UUID, rawId, depth string) *dto.LoadContextResponse {
	intentId, err := uuid.Parse(rawId)
	if err != nil {
		return &dto.LoadContextResponse{Success: false, Error: "Invalid intent id"}
	}
	sum, err := s.contextStore.LoadIntentSummary(ctx, userId, intentId)
	if err != nil {
		s.logger.Error("ContextService", "Intent summary load failed", map[string]interface{}{
			"intent_id": intentId.String(),
			"error":     err.Error(),
		})
		return &dto.LoadContextResponse{Success: false, Error: "Failed to load intent context"}
	}
	if sum == nil {
		return &dto.LoadContextResponse{Success: false, Error: fmt.Sprintf("Could not find intent %s", intentId)}
	}
	return &dto.LoadContextResponse{
		Success:  true,
		Sessions: []dto.SessionView{},
		Intents:  []dto.IntentView{projectIntent(sum, depth)},
	}
}

func (s *contextService) loadBySessionId(ctx context.Context, userId uuid.UUID, rawId, depth string) *dto.LoadContextResponse {
	sessionId, err := uuid.Parse(rawId)
	if err != nil {
		return &dto.LoadContextResponse{Success: false, Error: "Invalid session id"}
	}
	sum, err := s.contextStore.LoadSessionSummary(ctx, userId, sessionId)
	if err != nil {
		s.logger.Error("ContextService", "Session summary load failed", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
		return &dto.LoadContextResponse{Success: false, Error: "Failed to load session context"}
	}
	if sum == nil {
		return &dto.LoadContextResponse{Success: false, Error: fmt.Sprintf("Could not find session %s", sessionId)}
	}
	return &dto.LoadContextResponse{
		Success:  true,
		Sessions: []dto.SessionView{projectSession(sum, depth)},
		Intents:  []dto.IntentView{},
	}
}

func (s *contextService) loadByQuery(ctx context.Context, userId uuid.UUID, query, depth string) *dto.LoadContextResponse {
	results, err := s.contextStore.Index().Query(ctx, userId, query)
	if err != nil {
		s.logger.Error("ContextService", "Index query failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return &dto.LoadContextResponse{Success: false, Error: "Search failed"}
	}

	res := &dto.LoadContextResponse{
		Success:       true,
		Sessions:      []dto.SessionView{},
		Intents:       []dto.IntentView{},
		SearchResults: make([]dto.SearchResultView, 0, len(results)),
	}
	for _, hit := range results {
		res.SearchResults = append(res.SearchResults, dto.SearchResultView{
			Type:            hit.Ref.Type,
			Id:              hit.Ref.Id,
			Title:           hit.Ref.Title,
			Snippet:         hit.Ref.Snippet,
			Relevance:       hit.Relevance,
			MatchedKeywords: hit.MatchedKeywords,
			Timestamp:       hit.Ref.Timestamp,
		})
		if depth != dto.DepthDetailed {
			continue
		}
		// Detailed queries hydrate full summaries for each hit.
		switch hit.Ref.Type {
		case entity.SummaryTypeSession:
			if sum, err := s.contextStore.LoadSessionSummary(ctx, userId, hit.Ref.Id); err == nil && sum != nil {
				res.Sessions = append(res.Sessions, projectSession(sum, depth))
			}
		case entity.SummaryTypeIntent:
			if sum, err := s.contextStore.LoadIntentSummary(ctx, userId, hit.Ref.Id); err == nil && sum != nil {
				res.Intents = append(res.Intents, projectIntent(sum, depth))
			}
		}
	}
	return res
}

func (s *contextService) loadFallback(ctx context.Context, userId uuid.UUID, depth string) *dto.LoadContextResponse {
	res := &dto.LoadContextResponse{
		Success:  true,
		Sessions: []dto.SessionView{},
		Intents:  []dto.IntentView{},
	}

	briefs, err := s.contextStore.GetRecentSessions(ctx, userId, fallbackSessions)
	if err != nil {
		s.logger.Warn("ContextService", "Recent sessions lookup failed", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
	}
	for _, brief := range briefs {
		if depth == dto.DepthBrief {
			res.Sessions = append(res.Sessions, dto.SessionView{
				SessionId: brief.SessionId,
				Title:     brief.Title,
				OneLine:   brief.OneLine,
				StartedAt: brief.StartedAt,
			})
			continue
		}
		if sum, err := s.contextStore.LoadSessionSummary(ctx, userId, brief.SessionId); err == nil && sum != nil {
			res.Sessions = append(res.Sessions, projectSession(sum, depth))
		}
	}

	intents, err := s.contextStore.GetActiveIntents(ctx, userId, fallbackIntents)
	if err != nil {
		s.logger.Warn("ContextService", "Active intents lookup failed", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
	}
	for _, intent := range intents {
		if depth == dto.DepthBrief {
			res.Intents = append(res.Intents, dto.IntentView{
				IntentId: intent.Id,
				Label:    intent.Label,
				Type:     intent.Type,
				Status:   intent.Status,
				Priority: intent.Priority,
			})
			continue
		}
		if sum, err := s.contextStore.LoadIntentSummary(ctx, userId, intent.Id); err == nil && sum != nil {
			res.Intents = append(res.Intents, projectIntent(sum, depth))
		}
	}

	return res
}

// CorrectSummary applies a user correction to a stored summary: append for
// decision/approach/blocker, replace for summary. Unknown targets produce a
// structured failure, never an error.
func (s *contextService) CorrectSummary(ctx context.Context, userId uuid.UUID, req *dto.CorrectSummaryRequest) *dto.CorrectSummaryResponse {
	refId, err := uuid.Parse(req.Id)
	if err != nil {
		return &dto.CorrectSummaryResponse{Success: false, Message: "Invalid summary id"}
	}

	var previous string
	switch req.Type {
	case entity.SummaryTypeSession:
		previous, err = s.correctSessionSummary(ctx, userId, refId, req.Field, req.Correction)
	case entity.SummaryTypeIntent:
		previous, err = s.correctIntentSummary(ctx, userId, refId, req.Field, req.Correction)
	default:
		return &dto.CorrectSummaryResponse{Success: false, Message: "Unknown summary type"}
	}
	if err != nil {
		return &dto.CorrectSummaryResponse{Success: false, Message: err.Error()}
	}

	s.recordCorrection(ctx, userId, req.Type, refId, req.Field, previous, req.Correction)

	return &dto.CorrectSummaryResponse{
		Success:       true,
		Message:       fmt.Sprintf("Correction applied to %s %s", req.Type, req.Field),
		PreviousValue: previous,
		NewValue:      req.Correction,
	}
}

func (s *contextService) correctSessionSummary(ctx context.Context, userId, sessionId uuid.UUID, field, correction string) (string, error) {
	sum, err := s.contextStore.LoadSessionSummary(ctx, userId, sessionId)
	if err != nil || sum == nil {
		return "", fmt.Errorf("Could not find session summary %s", sessionId)
	}

	var previous string
	switch field {
	case "decision":
		sum.Decisions = append(sum.Decisions, correction)
	case "approach":
		sum.ActionItems = append(sum.ActionItems, correction)
	case "blocker":
		sum.OpenQuestions = append(sum.OpenQuestions, correction)
	case "summary":
		previous = sum.FullSummary
		sum.FullSummary = correction
	default:
		return "", fmt.Errorf("unsupported field %q", field)
	}

	if err := s.contextStore.StoreSessionSummary(ctx, sum); err != nil {
		return "", fmt.Errorf("failed to store corrected summary")
	}
	return previous, nil
}

func (s *contextService) correctIntentSummary(ctx context.Context, userId, intentId uuid.UUID, field, correction string) (string, error) {
	sum, err := s.contextStore.LoadIntentSummary(ctx, userId, intentId)
	if err != nil || sum == nil {
		return "", fmt.Errorf("Could not find intent summary %s", intentId)
	}

	var previous string
	switch field {
	case "decision":
		sum.Decisions = append(sum.Decisions, correction)
	case "approach":
		previous = sum.CurrentApproach
		sum.ApproachesTried = append(sum.ApproachesTried, correction)
		sum.CurrentApproach = correction
	case "blocker":
		sum.Blockers = append(sum.Blockers, correction)
	case "summary":
		previous = sum.ContextSummary
		sum.ContextSummary = correction
	default:
		return "", fmt.Errorf("unsupported field %q", field)
	}

	if err := s.contextStore.StoreIntentSummary(ctx, sum); err != nil {
		return "", fmt.Errorf("failed to store corrected summary")
	}
	return previous, nil
}

// recordCorrection appends the audit row. Best-effort.
func (s *contextService) recordCorrection(ctx context.Context, userId uuid.UUID, summaryType string, refId uuid.UUID, field, previous, corrected string) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	err := uow.CorrectionRepository().Create(ctx, &entity.Correction{
		Id:            uuid.New(),
		UserId:        userId,
		SummaryType:   summaryType,
		RefId:         refId,
		Field:         field,
		PreviousValue: previous,
		NewValue:      corrected,
		CreatedAt:     time.Now(),
	})
	if err != nil {
		s.logger.Warn("ContextService", "Failed to record correction audit row", map[string]interface{}{
			"ref_id": refId.String(),
			"error":  err.Error(),
		})
	}
}

func (s *contextService) Breadcrumbs(ctx context.Context, userId uuid.UUID) string {
	intents, err := s.contextStore.GetActiveIntents(ctx, userId, breadcrumbIntents)
	if err != nil {
		s.logger.Warn("ContextService", "Breadcrumb intent lookup failed", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
	}
	sessions, err := s.contextStore.GetRecentSessions(ctx, userId, breadcrumbSessions)
	if err != nil {
		s.logger.Warn("ContextService", "Breadcrumb session lookup failed", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
	}
	if len(intents) == 0 && len(sessions) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("[Context Breadcrumbs]\n")
	if len(intents) > 0 {
		b.WriteString("Active intents:\n")
		for _, intent := range intents {
			b.WriteString(fmt.Sprintf("- %s (%s, %s priority)", intent.Label, intent.Type, intent.Priority))
			if len(intent.Blockers) > 0 {
				b.WriteString(fmt.Sprintf(" — blocked: %s", intent.Blockers[len(intent.Blockers)-1]))
			}
			b.WriteString("\n")
		}
	}
	if len(sessions) > 0 {
		b.WriteString("Recent sessions:\n")
		for _, session := range sessions {
			b.WriteString(fmt.Sprintf("- %s: %s\n", session.Title, session.OneLine))
		}
	}
	b.WriteString("[End Breadcrumbs]")
	return b.String()
}

// projectSession maps a summary to the requested depth. Brief carries
// identity fields only; summary adds the narrative; detailed adds everything.
func projectSession(sum *entity.SessionSummary, depth string) dto.SessionView {
	view := dto.SessionView{
		SessionId: sum.SessionId,
		Title:     sum.Title,
		OneLine:   sum.OneLine,
		StartedAt: sum.StartedAt,
		EndedAt:   sum.EndedAt,
	}
	if depth == dto.DepthBrief {
		return view
	}

	view.FullSummary = sum.FullSummary
	view.Topics = sum.Topics
	view.Decisions = sum.Decisions
	if depth == dto.DepthSummary {
		return view
	}

	view.OpenQuestions = sum.OpenQuestions
	view.ActionItems = sum.ActionItems
	view.MoodArc = sum.MoodArc
	view.EndEnergy = sum.EndEnergy
	view.Artifacts = sum.Artifacts
	view.ToolsUsed = sum.ToolsUsed
	view.MessageCount = sum.MessageCount
	return view
}

func projectIntent(sum *entity.IntentContextSummary, depth string) dto.IntentView {
	view := dto.IntentView{
		IntentId: sum.IntentId,
		Label:    sum.Label,
		Type:     sum.Type,
		Status:   sum.Status,
		Priority: sum.Priority,
	}
	if depth == dto.DepthBrief {
		return view
	}

	view.ContextSummary = sum.ContextSummary
	view.Decisions = sum.Decisions
	view.Blockers = sum.Blockers
	if depth == dto.DepthSummary {
		return view
	}

	view.ApproachesTried = sum.ApproachesTried
	view.CurrentApproach = sum.CurrentApproach
	view.TouchCount = sum.TouchCount
	view.RelatedSessions = make([]dto.RelatedSessionView, 0, len(sum.RelatedSessions))
	for _, rel := range sum.RelatedSessions {
		view.RelatedSessions = append(view.RelatedSessions, dto.RelatedSessionView{
			SessionId: rel.SessionId,
			Title:     rel.Title,
			Snippet:   rel.Snippet,
			Timestamp: rel.Timestamp,
		})
	}
	return view
}
