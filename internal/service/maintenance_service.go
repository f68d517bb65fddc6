package service

import (
	"context"
	"time"

	"ai-context-be/internal/config"
	"ai-context-be/internal/entity"
	"ai-context-be/internal/pkg/logger"
	"ai-context-be/internal/repository/specification"
	"ai-context-be/internal/repository/unitofwork"
	"ai-context-be/internal/store"
	"ai-context-be/pkg/summary"

	"github.com/google/uuid"
)

// refreshBatchSize caps how many intents one user's batch refresh touches.
const refreshBatchSize = 20

type IMaintenanceService interface {
	// Run executes one full maintenance sweep across all users.
	Run(ctx context.Context) error
	RefreshUserSummaries(ctx context.Context, userId uuid.UUID) error
	RebuildIndex(ctx context.Context, userId uuid.UUID) error
	DecayResolvedIntents(ctx context.Context) (int, error)
	CleanupExpiredMetadata(ctx context.Context) (int64, error)
}

type maintenanceService struct {
	uowFactory   unitofwork.RepositoryFactory
	contextStore *store.ContextStore
	generator    *summary.Generator
	trackerCfg   config.TrackerConfig
	logger       logger.ILogger
}

func NewMaintenanceService(
	uowFactory unitofwork.RepositoryFactory,
	contextStore *store.ContextStore,
	generator *summary.Generator,
	trackerCfg config.TrackerConfig,
	log logger.ILogger,
) IMaintenanceService {
	return &maintenanceService{
		uowFactory:   uowFactory,
		contextStore: contextStore,
		generator:    generator,
		trackerCfg:   trackerCfg,
		logger:       log,
	}
}

func (s *maintenanceService) Run(ctx context.Context) error {
	decayed, err := s.DecayResolvedIntents(ctx)
	if err != nil {
		s.logger.Error("MaintenanceService", "Decay pass failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	userIds, err := uow.IntentRepository().ListUserIds(ctx)
	if err != nil {
		return err
	}
	for _, userId := range userIds {
		if err := s.RefreshUserSummaries(ctx, userId); err != nil {
			s.logger.Error("MaintenanceService", "Summary refresh failed", map[string]interface{}{
				"user_id": userId.String(),
				"error":   err.Error(),
			})
		}
	}

	cleaned, err := s.CleanupExpiredMetadata(ctx)
	if err != nil {
		s.logger.Error("MaintenanceService", "Metadata cleanup failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	s.logger.Info("MaintenanceService", "Maintenance sweep complete", map[string]interface{}{
		"users":            len(userIds),
		"intents_decayed":  decayed,
		"metadata_cleaned": cleaned,
	})
	return nil
}

// RefreshUserSummaries regenerates the context summaries of the user's most
// recently touched active and suspended intents.
func (s *maintenanceService) RefreshUserSummaries(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	intents, err := uow.IntentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByStatuses{Statuses: []string{entity.IntentStatusActive, entity.IntentStatusSuspended}},
		specification.OrderBy{Field: "last_touched_at", Desc: true},
		specification.Pagination{Limit: refreshBatchSize},
	)
	if err != nil {
		return err
	}

	for _, intent := range intents {
		var related []entity.RelatedSession
		if existing, err := s.contextStore.LoadIntentSummary(ctx, userId, intent.Id); err == nil && existing != nil {
			related = existing.RelatedSessions
		}
		sum := s.generator.GenerateIntentSummary(ctx, intent, related)
		if err := s.contextStore.StoreIntentSummary(ctx, sum); err != nil {
			s.logger.Warn("MaintenanceService", "Failed to store refreshed summary", map[string]interface{}{
				"intent_id": intent.Id.String(),
				"error":     err.Error(),
			})
		}
	}
	return nil
}

// RebuildIndex wipes and regenerates the user's search index from the
// recent-sessions list and the active/suspended intents. Recovery path for
// index corruption.
func (s *maintenanceService) RebuildIndex(ctx context.Context, userId uuid.UUID) error {
	if err := s.contextStore.Index().Wipe(ctx, userId); err != nil {
		return err
	}

	briefs, err := s.contextStore.GetRecentSessions(ctx, userId, 0)
	if err != nil {
		s.logger.Warn("MaintenanceService", "Recent sessions lookup failed during rebuild", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
	}
	for _, brief := range briefs {
		sum, err := s.contextStore.LoadSessionSummary(ctx, userId, brief.SessionId)
		if err != nil || sum == nil {
			continue
		}
		s.contextStore.IndexSessionSummary(ctx, sum)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	intents, err := uow.IntentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByStatuses{Statuses: []string{entity.IntentStatusActive, entity.IntentStatusSuspended}},
	)
	if err != nil {
		return err
	}
	for _, intent := range intents {
		sum, err := s.contextStore.LoadIntentSummary(ctx, userId, intent.Id)
		if err != nil || sum == nil {
			continue
		}
		s.contextStore.IndexIntentSummary(ctx, sum)
	}

	s.logger.Info("MaintenanceService", "Search index rebuilt", map[string]interface{}{
		"user_id":  userId.String(),
		"sessions": len(briefs),
		"intents":  len(intents),
	})
	return nil
}

// DecayResolvedIntents reclassifies resolved intents past the decay window
// into the decayed retention tier.
func (s *maintenanceService) DecayResolvedIntents(ctx context.Context) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -s.trackerCfg.DecayAfterDays)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	intents, err := uow.IntentRepository().FindAll(ctx,
		specification.ResolvedBefore{Cutoff: cutoff},
	)
	if err != nil {
		return 0, err
	}

	decayed := 0
	for _, intent := range intents {
		intent.Status = entity.IntentStatusDecayed
		if err := uow.IntentRepository().Update(ctx, intent); err != nil {
			s.logger.Warn("MaintenanceService", "Failed to decay intent", map[string]interface{}{
				"intent_id": intent.Id.String(),
				"error":     err.Error(),
			})
			continue
		}
		decayed++

		// Re-store the summary so it picks up the shorter decayed TTL.
		if sum, err := s.contextStore.LoadIntentSummary(ctx, intent.UserId, intent.Id); err == nil && sum != nil {
			sum.Status = entity.IntentStatusDecayed
			if err := s.contextStore.StoreIntentSummary(ctx, sum); err != nil {
				s.logger.Warn("MaintenanceService", "Failed to re-store decayed summary", map[string]interface{}{
					"intent_id": intent.Id.String(),
					"error":     err.Error(),
				})
			}
		}
		s.contextStore.InvalidateActiveIntents(intent.UserId)
	}
	return decayed, nil
}

func (s *maintenanceService) CleanupExpiredMetadata(ctx context.Context) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.SummaryMetadataRepository().DeleteExpired(ctx, time.Now())
}
