package service

import (
	"context"
	"fmt"
	"time"

	"ai-context-be/internal/entity"
	"ai-context-be/internal/pkg/logger"
	"ai-context-be/internal/repository/specification"
	"ai-context-be/internal/repository/unitofwork"
	"ai-context-be/internal/store"
	"ai-context-be/pkg/events"
	pktNats "ai-context-be/pkg/nats"
	"ai-context-be/pkg/signal"
	"ai-context-be/pkg/summary"
	"ai-context-be/pkg/utils"

	"github.com/google/uuid"
)

// TouchInput carries the optional payload of an intent touch. Blocker and
// Approach are appended (deduplicated) when non-empty.
type TouchInput struct {
	SessionId   uuid.UUID
	Excerpt     string
	TriggerType string
	Blocker     string
	Approach    string
}

type IIntentService interface {
	Create(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, sig *signal.IntentSignal) (*entity.Intent, error)
	// Touch returns (nil, nil) when the intent does not exist; touching an
	// unknown intent is not an error. Resolved and decayed intents are
	// returned unchanged.
	Touch(ctx context.Context, userId, intentId uuid.UUID, input TouchInput) (*entity.Intent, error)
	// Resolve is idempotent: resolving an already-resolved intent returns it
	// unchanged.
	Resolve(ctx context.Context, userId, intentId, sessionId uuid.UUID, resolutionType string) (*entity.Intent, error)
	Suspend(ctx context.Context, userId, intentId, sessionId uuid.UUID) (*entity.Intent, error)
	// Reactivate moves a suspended intent back to active; any other status is
	// returned unchanged.
	Reactivate(ctx context.Context, userId, intentId, sessionId uuid.UUID) (*entity.Intent, error)
	// TrackedBriefs is the matching candidate set: active and suspended intents.
	TrackedBriefs(ctx context.Context, userId uuid.UUID) ([]signal.IntentBrief, error)
}

type intentService struct {
	uowFactory     unitofwork.RepositoryFactory
	contextStore   *store.ContextStore
	generator      *summary.Generator
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewIntentService(
	uowFactory unitofwork.RepositoryFactory,
	contextStore *store.ContextStore,
	generator *summary.Generator,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IIntentService {
	return &intentService{
		uowFactory:     uowFactory,
		contextStore:   contextStore,
		generator:      generator,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *intentService) Create(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, sig *signal.IntentSignal) (*entity.Intent, error) {
	now := time.Now()
	intentType := sig.Type
	if intentType == "" {
		intentType = entity.IntentTypeTask
	}
	goal := sig.Goal
	if goal == "" {
		goal = sig.Label
	}

	intent := &entity.Intent{
		Id:              uuid.New(),
		UserId:          userId,
		Type:            intentType,
		Label:           sig.Label,
		Goal:            goal,
		Status:          entity.IntentStatusActive,
		Priority:        defaultPriority(intentType),
		TriedApproaches: []string{},
		Blockers:        []string{},
		Constraints:     []string{},
		SourceSessionId: &sessionId,
		TouchCount:      1,
		LastTouchedAt:   now,
		CreatedAt:       now,
	}
	if sig.Blocker != "" {
		intent.Blockers = append(intent.Blockers, sig.Blocker)
	}
	if sig.Approach != "" {
		approach := sig.Approach
		intent.CurrentApproach = &approach
		intent.TriedApproaches = append(intent.TriedApproaches, approach)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.IntentRepository().Create(ctx, intent); err != nil {
		return nil, fmt.Errorf("create intent: %w", err)
	}
	s.recordTouch(ctx, uow, intent, sessionId, sig.Label, sig.TriggerType)

	s.contextStore.InvalidateActiveIntents(userId)
	s.refreshSummary(ctx, intent)
	s.publishLifecycle(ctx, events.EventIntentCreated, intent)

	s.logger.Info("IntentService", "Intent created", map[string]interface{}{
		"intent_id": intent.Id.String(),
		"label":     intent.Label,
		"type":      intent.Type,
	})
	return intent, nil
}

func (s *intentService) Touch(ctx context.Context, userId, intentId uuid.UUID, input TouchInput) (*entity.Intent, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	intent, err := s.findOwned(ctx, uow, userId, intentId)
	if err != nil || intent == nil {
		return nil, err
	}
	// Resolved and decayed intents are terminal; touching them is a no-op.
	if intent.Status == entity.IntentStatusResolved || intent.Status == entity.IntentStatusDecayed {
		return intent, nil
	}

	intent.TouchCount++
	intent.LastTouchedAt = time.Now()
	if input.Blocker != "" {
		intent.Blockers = utils.UnionDedup(intent.Blockers, []string{input.Blocker})
	}
	if input.Approach != "" {
		approach := input.Approach
		intent.CurrentApproach = &approach
		intent.TriedApproaches = utils.UnionDedup(intent.TriedApproaches, []string{approach})
	}

	reactivated := false
	if intent.Status == entity.IntentStatusSuspended {
		intent.Status = entity.IntentStatusActive
		reactivated = true
	}

	if err := uow.IntentRepository().Update(ctx, intent); err != nil {
		return nil, fmt.Errorf("touch intent: %w", err)
	}
	s.recordTouch(ctx, uow, intent, input.SessionId, input.Excerpt, input.TriggerType)

	s.contextStore.InvalidateActiveIntents(userId)
	if reactivated {
		s.refreshSummary(ctx, intent)
		s.publishLifecycle(ctx, events.EventIntentReactivated, intent)
	}
	return intent, nil
}

func (s *intentService) Resolve(ctx context.Context, userId, intentId, sessionId uuid.UUID, resolutionType string) (*entity.Intent, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	intent, err := s.findOwned(ctx, uow, userId, intentId)
	if err != nil || intent == nil {
		return nil, err
	}
	if intent.Status == entity.IntentStatusResolved {
		return intent, nil
	}

	now := time.Now()
	intent.Status = entity.IntentStatusResolved
	intent.ResolvedAt = &now
	intent.LastTouchedAt = now
	intent.TouchCount++
	if resolutionType != "" {
		intent.ResolutionType = &resolutionType
	}

	if err := uow.IntentRepository().Update(ctx, intent); err != nil {
		return nil, fmt.Errorf("resolve intent: %w", err)
	}
	s.recordTouch(ctx, uow, intent, sessionId, "resolved", signal.TriggerImplicit)

	s.contextStore.InvalidateActiveIntents(userId)
	s.refreshSummary(ctx, intent)
	s.publishLifecycle(ctx, events.EventIntentResolved, intent)

	s.logger.Info("IntentService", "Intent resolved", map[string]interface{}{
		"intent_id": intent.Id.String(),
		"label":     intent.Label,
	})
	return intent, nil
}

func (s *intentService) Suspend(ctx context.Context, userId, intentId, sessionId uuid.UUID) (*entity.Intent, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	intent, err := s.findOwned(ctx, uow, userId, intentId)
	if err != nil || intent == nil {
		return nil, err
	}
	if intent.Status != entity.IntentStatusActive {
		return intent, nil
	}

	intent.Status = entity.IntentStatusSuspended
	intent.LastTouchedAt = time.Now()

	if err := uow.IntentRepository().Update(ctx, intent); err != nil {
		return nil, fmt.Errorf("suspend intent: %w", err)
	}
	s.recordTouch(ctx, uow, intent, sessionId, "suspended", signal.TriggerImplicit)

	s.contextStore.InvalidateActiveIntents(userId)
	s.refreshSummary(ctx, intent)
	s.publishLifecycle(ctx, events.EventIntentSuspended, intent)
	return intent, nil
}

func (s *intentService) Reactivate(ctx context.Context, userId, intentId, sessionId uuid.UUID) (*entity.Intent, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	intent, err := s.findOwned(ctx, uow, userId, intentId)
	if err != nil || intent == nil {
		return nil, err
	}
	// Only suspended intents come back; resolved and decayed stay terminal.
	if intent.Status != entity.IntentStatusSuspended {
		return intent, nil
	}

	intent.Status = entity.IntentStatusActive
	intent.LastTouchedAt = time.Now()
	intent.TouchCount++

	if err := uow.IntentRepository().Update(ctx, intent); err != nil {
		return nil, fmt.Errorf("reactivate intent: %w", err)
	}
	s.recordTouch(ctx, uow, intent, sessionId, "reactivated", signal.TriggerImplicit)

	s.contextStore.InvalidateActiveIntents(userId)
	s.refreshSummary(ctx, intent)
	s.publishLifecycle(ctx, events.EventIntentReactivated, intent)
	return intent, nil
}

func (s *intentService) TrackedBriefs(ctx context.Context, userId uuid.UUID) ([]signal.IntentBrief, error) {
	intents, err := s.contextStore.GetTrackedIntents(ctx, userId, 20)
	if err != nil {
		return nil, err
	}
	briefs := make([]signal.IntentBrief, 0, len(intents))
	for _, intent := range intents {
		briefs = append(briefs, signal.IntentBrief{
			Id:       intent.Id,
			Label:    intent.Label,
			Type:     intent.Type,
			Status:   intent.Status,
			Priority: intent.Priority,
		})
	}
	return briefs, nil
}

func (s *intentService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, intentId uuid.UUID) (*entity.Intent, error) {
	return uow.IntentRepository().FindOne(ctx,
		specification.ByID{ID: intentId},
		specification.UserOwnedBy{UserID: userId},
	)
}

// recordTouch appends the per-session touch history row. Best-effort.
func (s *intentService) recordTouch(ctx context.Context, uow unitofwork.UnitOfWork, intent *entity.Intent, sessionId uuid.UUID, excerpt, triggerType string) {
	if triggerType == "" {
		triggerType = signal.TriggerImplicit
	}
	err := uow.IntentTouchRepository().Create(ctx, &entity.IntentTouch{
		Id:          uuid.New(),
		IntentId:    intent.Id,
		UserId:      intent.UserId,
		SessionId:   sessionId,
		Excerpt:     utils.Truncate(excerpt, 200),
		TriggerType: triggerType,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		s.logger.Warn("IntentService", "Failed to record intent touch", map[string]interface{}{
			"intent_id": intent.Id.String(),
			"error":     err.Error(),
		})
	}
}

// refreshSummary regenerates and re-stores the intent's context summary after
// a status change. The generator never fails; a store failure is logged.
func (s *intentService) refreshSummary(ctx context.Context, intent *entity.Intent) {
	existing, err := s.contextStore.LoadIntentSummary(ctx, intent.UserId, intent.Id)
	var related []entity.RelatedSession
	if err == nil && existing != nil {
		related = existing.RelatedSessions
	}

	sum := s.generator.GenerateIntentSummary(ctx, intent, related)
	if err := s.contextStore.StoreIntentSummary(ctx, sum); err != nil {
		s.logger.Warn("IntentService", "Failed to store refreshed intent summary", map[string]interface{}{
			"intent_id": intent.Id.String(),
			"error":     err.Error(),
		})
	}
}

func (s *intentService) publishLifecycle(ctx context.Context, eventType string, intent *entity.Intent) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.NewIntentLifecycleEvent(eventType, intent.UserId, intent.Id, intent.Label, intent.Status)
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("IntentService", "Failed to publish lifecycle event", map[string]interface{}{
			"event":     eventType,
			"intent_id": intent.Id.String(),
			"error":     err.Error(),
		})
	}
}

func defaultPriority(intentType string) string {
	switch intentType {
	case entity.IntentTypeTask, entity.IntentTypeGoal:
		return entity.PriorityMedium
	default:
		return entity.PriorityLow
	}
}
