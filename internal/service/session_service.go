package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-context-be/internal/dto"
	"ai-context-be/internal/entity"
	"ai-context-be/internal/pkg/logger"
	"ai-context-be/internal/repository/specification"
	"ai-context-be/internal/repository/unitofwork"
	"ai-context-be/internal/store"
	"ai-context-be/pkg/events"
	pktNats "ai-context-be/pkg/nats"
	"ai-context-be/pkg/summary"
	"ai-context-be/pkg/utils"

	"github.com/google/uuid"
)

type ISessionService interface {
	RecordMessage(ctx context.Context, userId, sessionId uuid.UUID, role, content string) error
	// FinalizeSession generates and stores the session summary, marks the log
	// finalized and enqueues intent summary refreshes. Idempotent: finalizing
	// an already-finalized session returns the stored summary. Returns
	// (nil, nil) for an unknown session.
	FinalizeSession(ctx context.Context, userId, sessionId uuid.UUID) (*entity.SessionSummary, error)
}

type sessionService struct {
	uowFactory       unitofwork.RepositoryFactory
	contextStore     *store.ContextStore
	generator        *summary.Generator
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	contextStore *store.ContextStore,
	generator *summary.Generator,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		uowFactory:       uowFactory,
		contextStore:     contextStore,
		generator:        generator,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func (s *sessionService) RecordMessage(ctx context.Context, userId, sessionId uuid.UUID, role, content string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	log, err := uow.SessionLogRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return fmt.Errorf("find session log: %w", err)
	}

	now := time.Now()
	if log == nil {
		log = &entity.SessionLog{
			Id:           sessionId,
			UserId:       userId,
			MessageCount: 1,
			StartedAt:    now,
			CreatedAt:    now,
		}
		if role == "user" {
			log.Title = utils.Truncate(content, 60)
		}
		if err := uow.SessionLogRepository().Create(ctx, log); err != nil {
			return fmt.Errorf("create session log: %w", err)
		}
	} else {
		log.MessageCount++
		if log.Title == "" && role == "user" {
			log.Title = utils.Truncate(content, 60)
		}
		if err := uow.SessionLogRepository().Update(ctx, log); err != nil {
			return fmt.Errorf("update session log: %w", err)
		}
	}

	return uow.SessionMessageRepository().Create(ctx, &entity.SessionMessage{
		Id:           uuid.New(),
		SessionLogId: sessionId,
		Role:         role,
		Content:      content,
		CreatedAt:    now,
	})
}

func (s *sessionService) FinalizeSession(ctx context.Context, userId, sessionId uuid.UUID) (*entity.SessionSummary, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	log, err := uow.SessionLogRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, fmt.Errorf("find session log: %w", err)
	}
	if log == nil {
		return nil, nil
	}
	if log.Finalized {
		return s.contextStore.LoadSessionSummary(ctx, userId, sessionId)
	}

	messages, err := uow.SessionMessageRepository().FindAll(ctx,
		specification.BySessionLogID{SessionLogID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, fmt.Errorf("load session messages: %w", err)
	}

	touched, resolved, err := s.collectTouchedIntents(ctx, uow, userId, sessionId, log.StartedAt)
	if err != nil {
		s.logger.Warn("SessionService", "Failed to collect touched intents", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
	}

	sum := s.generator.GenerateSessionSummary(ctx, log, messages, touched, resolved)
	if err := s.contextStore.StoreSessionSummary(ctx, sum); err != nil {
		return nil, fmt.Errorf("store session summary: %w", err)
	}

	now := time.Now()
	log.Finalized = true
	log.EndedAt = &now
	if err := uow.SessionLogRepository().Update(ctx, log); err != nil {
		return nil, fmt.Errorf("mark session finalized: %w", err)
	}

	s.enqueueIntentRefresh(ctx, userId, sessionId, len(touched))

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewSessionFinalizedEvent(userId, sessionId)); err != nil {
			s.logger.Warn("SessionService", "Failed to publish session finalized event", map[string]interface{}{
				"session_id": sessionId.String(),
				"error":      err.Error(),
			})
		}
	}

	s.logger.Info("SessionService", "Session finalized", map[string]interface{}{
		"session_id":      sessionId.String(),
		"message_count":   log.MessageCount,
		"intents_touched": len(touched),
	})
	return sum, nil
}

// collectTouchedIntents resolves this session's touch history into the set of
// touched intent ids and the subset resolved during the session.
func (s *sessionService) collectTouchedIntents(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID, startedAt time.Time) ([]uuid.UUID, []uuid.UUID, error) {
	touches, err := uow.IntentTouchRepository().FindAll(ctx,
		specification.FilterBy{Field: "session_id", Value: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, nil, err
	}
	if len(touches) == 0 {
		return nil, nil, nil
	}

	seen := make(map[uuid.UUID]bool)
	touched := make([]uuid.UUID, 0, len(touches))
	for _, touch := range touches {
		if !seen[touch.IntentId] {
			seen[touch.IntentId] = true
			touched = append(touched, touch.IntentId)
		}
	}

	intents, err := uow.IntentRepository().FindAll(ctx,
		specification.ByIDs{IDs: touched},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return touched, nil, err
	}

	var resolved []uuid.UUID
	for _, intent := range intents {
		if intent.Status == entity.IntentStatusResolved && intent.ResolvedAt != nil && !intent.ResolvedAt.Before(startedAt) {
			resolved = append(resolved, intent.Id)
		}
	}
	return touched, resolved, nil
}

func (s *sessionService) enqueueIntentRefresh(ctx context.Context, userId, sessionId uuid.UUID, touchedCount int) {
	if touchedCount == 0 {
		return
	}
	payload, err := json.Marshal(dto.RefreshIntentSummariesMessage{
		UserId:    userId,
		SessionId: sessionId,
	})
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("SessionService", "Failed to enqueue intent summary refresh", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
	}
}
