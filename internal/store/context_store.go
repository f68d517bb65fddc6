package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-context-be/internal/entity"
	"ai-context-be/internal/pkg/logger"
	"ai-context-be/internal/repository/specification"
	"ai-context-be/internal/repository/unitofwork"
	"ai-context-be/pkg/utils"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// activeIntentsTTL bounds how stale the in-process active-intent cache may
// get. Mutations call InvalidateActiveIntents, so the TTL only covers writes
// from other instances. This cache fronts the durable store, never the
// fast tier: active listings must reflect true current state.
const activeIntentsTTL = 30 * time.Second

// ContextStore is the tiered persistence layer for summaries: fast keyed
// store with per-status TTLs, durable relational fallback, search index and
// best-effort metadata mirroring.
type ContextStore struct {
	fast       FastStore
	uowFactory unitofwork.RepositoryFactory
	index      *SearchIndex
	active     *cache.Cache
	logger     logger.ILogger
}

func NewContextStore(fast FastStore, uowFactory unitofwork.RepositoryFactory, index *SearchIndex, log logger.ILogger) *ContextStore {
	return &ContextStore{
		fast:       fast,
		uowFactory: uowFactory,
		index:      index,
		active:     cache.New(activeIntentsTTL, 5*time.Minute),
		logger:     log,
	}
}

// Index exposes the search index for query and rebuild callers.
func (s *ContextStore) Index() *SearchIndex {
	return s.index
}

// --- Writes ---

// StoreSessionSummary persists a session summary: fast tier (90d TTL), the
// recent-sessions list, the search index and the durable metadata row. Only
// the fast-tier write is fatal; the side channels are best-effort.
func (s *ContextStore) StoreSessionSummary(ctx context.Context, sum *entity.SessionSummary) error {
	data, err := json.Marshal(sum)
	if err != nil {
		return fmt.Errorf("marshal session summary: %w", err)
	}

	key := sessionSummaryKey(sum.UserId, sum.SessionId)
	if err := s.fast.Set(ctx, key, string(data), RetentionSession); err != nil {
		return fmt.Errorf("store session summary: %w", err)
	}

	if err := s.fast.PushCapped(ctx, recentSessionsKey(sum.UserId), sum.SessionId.String(), recentSessionsCap, RetentionSession); err != nil {
		s.logger.Warn("ContextStore", "Failed to push recent session", map[string]interface{}{
			"session_id": sum.SessionId.String(),
			"error":      err.Error(),
		})
	}

	keywords := s.IndexSessionSummary(ctx, sum)
	s.trackMetadata(ctx, sum.UserId, entity.SummaryTypeSession, sum.SessionId, key, keywords, RetentionSession)
	return nil
}

// IndexSessionSummary (re-)indexes a session summary and returns the keyword
// set used. Failures are logged and swallowed; indexing is a side channel.
func (s *ContextStore) IndexSessionSummary(ctx context.Context, sum *entity.SessionSummary) []string {
	keywords := utils.UnionDedup(sum.Keywords, sum.Topics)
	ref := entity.SearchRef{
		Type:      entity.SummaryTypeSession,
		Id:        sum.SessionId,
		Title:     sum.Title,
		Snippet:   sum.OneLine,
		Timestamp: sum.EndedAt,
	}
	if err := s.index.Update(ctx, sum.UserId, keywords, ref); err != nil {
		s.logger.Warn("ContextStore", "Search index update failed", map[string]interface{}{
			"session_id": sum.SessionId.String(),
			"error":      err.Error(),
		})
	}
	return keywords
}

// StoreIntentSummary persists an intent context summary with the retention
// tier derived from the intent's status.
func (s *ContextStore) StoreIntentSummary(ctx context.Context, sum *entity.IntentContextSummary) error {
	data, err := json.Marshal(sum)
	if err != nil {
		return fmt.Errorf("marshal intent summary: %w", err)
	}

	ttl := RetentionForStatus(sum.Status)
	key := intentSummaryKey(sum.UserId, sum.IntentId)
	if err := s.fast.Set(ctx, key, string(data), ttl); err != nil {
		return fmt.Errorf("store intent summary: %w", err)
	}

	keywords := s.IndexIntentSummary(ctx, sum)
	s.trackMetadata(ctx, sum.UserId, entity.SummaryTypeIntent, sum.IntentId, key, keywords, ttl)
	return nil
}

// IndexIntentSummary (re-)indexes an intent summary and returns the keyword
// set used.
func (s *ContextStore) IndexIntentSummary(ctx context.Context, sum *entity.IntentContextSummary) []string {
	keywords := utils.UnionDedup(
		utils.ExtractKeywords(sum.Label, 6),
		utils.ExtractKeywords(sum.ContextSummary, 8),
	)
	ref := entity.SearchRef{
		Type:      entity.SummaryTypeIntent,
		Id:        sum.IntentId,
		Title:     sum.Label,
		Snippet:   utils.Truncate(sum.ContextSummary, 150),
		Timestamp: sum.GeneratedAt,
	}
	if err := s.index.Update(ctx, sum.UserId, keywords, ref); err != nil {
		s.logger.Warn("ContextStore", "Search index update failed", map[string]interface{}{
			"intent_id": sum.IntentId.String(),
			"error":     err.Error(),
		})
	}
	return keywords
}

// trackMetadata mirrors the write into the durable metadata table.
// Best-effort: a failure is logged, never propagated.
func (s *ContextStore) trackMetadata(ctx context.Context, userId uuid.UUID, summaryType string, refId uuid.UUID, key string, keywords []string, ttl time.Duration) {
	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expiresAt = &t
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	err := uow.SummaryMetadataRepository().Upsert(ctx, &entity.SummaryMetadata{
		Id:          uuid.New(),
		UserId:      userId,
		SummaryType: summaryType,
		RefId:       refId,
		StorageKey:  key,
		Keywords:    keywords,
		ExpiresAt:   expiresAt,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		s.logger.Warn("ContextStore", "Metadata tracking failed", map[string]interface{}{
			"ref_id": refId.String(),
			"type":   summaryType,
			"error":  err.Error(),
		})
	}
}

// --- Reads (fast tier, then durable reconstruction) ---

// LoadSessionSummary reads a session summary: fast tier first, degraded
// reconstruction from the durable session log on miss. Returns (nil, nil)
// only when the session does not exist durably either.
func (s *ContextStore) LoadSessionSummary(ctx context.Context, userId, sessionId uuid.UUID) (*entity.SessionSummary, error) {
	if sum, ok, err := s.tryFastSession(ctx, userId, sessionId); err != nil {
		s.logger.Warn("ContextStore", "Fast tier read failed, falling back to durable", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
	} else if ok {
		return sum, nil
	}
	return s.reconstructSessionFromDurable(ctx, userId, sessionId)
}

func (s *ContextStore) tryFastSession(ctx context.Context, userId, sessionId uuid.UUID) (*entity.SessionSummary, bool, error) {
	raw, found, err := s.fast.Get(ctx, sessionSummaryKey(userId, sessionId))
	if err != nil || !found {
		return nil, false, err
	}
	var sum entity.SessionSummary
	if err := json.Unmarshal([]byte(raw), &sum); err != nil {
		return nil, false, err
	}
	return &sum, true, nil
}

func (s *ContextStore) reconstructSessionFromDurable(ctx context.Context, userId, sessionId uuid.UUID) (*entity.SessionSummary, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	log, err := uow.SessionLogRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if log == nil {
		return nil, nil
	}

	// Degraded fidelity: only what the log row itself can tell us.
	endedAt := log.StartedAt
	if log.EndedAt != nil {
		endedAt = *log.EndedAt
	}
	title := log.Title
	if title == "" {
		title = "Chat session"
	}
	return &entity.SessionSummary{
		SessionId:    log.Id,
		UserId:       log.UserId,
		Title:        title,
		OneLine:      utils.Truncate(title, 80),
		Keywords:     utils.ExtractKeywords(title, 6),
		FullSummary:  fmt.Sprintf("Session %q with %d messages.", title, log.MessageCount),
		MessageCount: log.MessageCount,
		StartedAt:    log.StartedAt,
		EndedAt:      endedAt,
		GeneratedAt:  time.Now(),
	}, nil
}

// LoadIntentSummary reads an intent summary with the same two-tier strategy.
func (s *ContextStore) LoadIntentSummary(ctx context.Context, userId, intentId uuid.UUID) (*entity.IntentContextSummary, error) {
	if sum, ok, err := s.tryFastIntent(ctx, userId, intentId); err != nil {
		s.logger.Warn("ContextStore", "Fast tier read failed, falling back to durable", map[string]interface{}{
			"intent_id": intentId.String(),
			"error":     err.Error(),
		})
	} else if ok {
		return sum, nil
	}
	return s.reconstructIntentFromDurable(ctx, userId, intentId)
}

func (s *ContextStore) tryFastIntent(ctx context.Context, userId, intentId uuid.UUID) (*entity.IntentContextSummary, bool, error) {
	raw, found, err := s.fast.Get(ctx, intentSummaryKey(userId, intentId))
	if err != nil || !found {
		return nil, false, err
	}
	var sum entity.IntentContextSummary
	if err := json.Unmarshal([]byte(raw), &sum); err != nil {
		return nil, false, err
	}
	return &sum, true, nil
}

func (s *ContextStore) reconstructIntentFromDurable(ctx context.Context, userId, intentId uuid.UUID) (*entity.IntentContextSummary, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	intent, err := uow.IntentRepository().FindOne(ctx,
		specification.ByID{ID: intentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if intent == nil {
		return nil, nil
	}

	currentApproach := ""
	if intent.CurrentApproach != nil {
		currentApproach = *intent.CurrentApproach
	}
	return &entity.IntentContextSummary{
		IntentId:        intent.Id,
		UserId:          intent.UserId,
		Label:           intent.Label,
		Type:            intent.Type,
		Status:          intent.Status,
		Priority:        intent.Priority,
		ContextSummary:  fmt.Sprintf("%s (%s, %s). Goal: %s", intent.Label, intent.Type, intent.Status, intent.Goal),
		Decisions:       []string{},
		ApproachesTried: intent.TriedApproaches,
		CurrentApproach: currentApproach,
		Blockers:        intent.Blockers,
		RelatedSessions: []entity.RelatedSession{},
		TouchCount:      intent.TouchCount,
		GeneratedAt:     time.Now(),
	}, nil
}

// --- Listings ---

// GetRecentSessions resolves the recent-session id list and hydrates each id
// into a brief shape. Ids that no longer resolve anywhere are skipped.
func (s *ContextStore) GetRecentSessions(ctx context.Context, userId uuid.UUID, limit int) ([]entity.SessionBrief, error) {
	if limit <= 0 || limit > recentSessionsCap {
		limit = recentSessionsCap
	}
	ids, err := s.fast.Range(ctx, recentSessionsKey(userId), 0, int64(limit)-1)
	if err != nil {
		return nil, err
	}

	briefs := make([]entity.SessionBrief, 0, len(ids))
	for _, raw := range ids {
		sessionId, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		sum, err := s.LoadSessionSummary(ctx, userId, sessionId)
		if err != nil || sum == nil {
			continue
		}
		briefs = append(briefs, entity.SessionBrief{
			SessionId: sum.SessionId,
			Title:     sum.Title,
			OneLine:   sum.OneLine,
			Topics:    sum.Topics,
			StartedAt: sum.StartedAt,
		})
	}
	return briefs, nil
}

// GetActiveIntents lists a user's active intents ordered by priority desc,
// then recency desc. Reads the durable store (through a short-lived
// in-process cache), never the fast tier.
func (s *ContextStore) GetActiveIntents(ctx context.Context, userId uuid.UUID, limit int) ([]*entity.Intent, error) {
	if limit <= 0 {
		limit = 10
	}
	cacheKey := fmt.Sprintf("%s:%d", userId, limit)
	if cached, found := s.active.Get(cacheKey); found {
		return cached.([]*entity.Intent), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	intents, err := uow.IntentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByStatus{Status: entity.IntentStatusActive},
		specification.OrderByPriorityThenRecency{},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	s.active.Set(cacheKey, intents, cache.DefaultExpiration)
	return intents, nil
}

// GetTrackedIntents lists a user's active and suspended intents, ordered like
// GetActiveIntents. This is the candidate set for signal matching: a suspended
// topic must stay matchable so returning to it reactivates the intent instead
// of minting a duplicate.
func (s *ContextStore) GetTrackedIntents(ctx context.Context, userId uuid.UUID, limit int) ([]*entity.Intent, error) {
	if limit <= 0 {
		limit = 10
	}
	cacheKey := fmt.Sprintf("%s:tracked:%d", userId, limit)
	if cached, found := s.active.Get(cacheKey); found {
		return cached.([]*entity.Intent), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	intents, err := uow.IntentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByStatuses{Statuses: []string{entity.IntentStatusActive, entity.IntentStatusSuspended}},
		specification.OrderByPriorityThenRecency{},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	s.active.Set(cacheKey, intents, cache.DefaultExpiration)
	return intents, nil
}

// InvalidateActiveIntents drops the in-process listing cache for a user.
// Called by every intent mutation.
func (s *ContextStore) InvalidateActiveIntents(userId uuid.UUID) {
	prefix := userId.String() + ":"
	for key := range s.active.Items() {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			s.active.Delete(key)
		}
	}
}
