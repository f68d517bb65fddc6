package mapper

import (
	"time"

	"ai-context-be/internal/entity"
	"ai-context-be/internal/model"
)

type IntentMapper struct{}

func NewIntentMapper() *IntentMapper {
	return &IntentMapper{}
}

func (m *IntentMapper) IntentToEntity(i *model.Intent) *entity.Intent {
	if i == nil {
		return nil
	}

	var updatedAt *time.Time
	if !i.UpdatedAt.IsZero() {
		t := i.UpdatedAt
		updatedAt = &t
	}

	return &entity.Intent{
		Id:               i.Id,
		UserId:           i.UserId,
		Type:             i.Type,
		Label:            i.Label,
		Goal:             i.Goal,
		Status:           i.Status,
		Priority:         i.Priority,
		TriedApproaches:  []string(i.TriedApproaches),
		Blockers:         []string(i.Blockers),
		Constraints:      []string(i.Constraints),
		CurrentApproach:  i.CurrentApproach,
		EmotionalContext: i.EmotionalContext,
		ParentIntentId:   i.ParentIntentId,
		SourceSessionId:  i.SourceSessionId,
		TouchCount:       i.TouchCount,
		LastTouchedAt:    i.LastTouchedAt,
		ResolvedAt:       i.ResolvedAt,
		ResolutionType:   i.ResolutionType,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *IntentMapper) IntentToModel(i *entity.Intent) *model.Intent {
	if i == nil {
		return nil
	}

	var updatedAt time.Time
	if i.UpdatedAt != nil {
		updatedAt = *i.UpdatedAt
	}

	return &model.Intent{
		Id:               i.Id,
		UserId:           i.UserId,
		Type:             i.Type,
		Label:            i.Label,
		Goal:             i.Goal,
		Status:           i.Status,
		Priority:         i.Priority,
		TriedApproaches:  i.TriedApproaches,
		Blockers:         i.Blockers,
		Constraints:      i.Constraints,
		CurrentApproach:  i.CurrentApproach,
		EmotionalContext: i.EmotionalContext,
		ParentIntentId:   i.ParentIntentId,
		SourceSessionId:  i.SourceSessionId,
		TouchCount:       i.TouchCount,
		LastTouchedAt:    i.LastTouchedAt,
		ResolvedAt:       i.ResolvedAt,
		ResolutionType:   i.ResolutionType,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *IntentMapper) TouchToEntity(t *model.IntentTouch) *entity.IntentTouch {
	if t == nil {
		return nil
	}
	return &entity.IntentTouch{
		Id:          t.Id,
		IntentId:    t.IntentId,
		UserId:      t.UserId,
		SessionId:   t.SessionId,
		Excerpt:     t.Excerpt,
		TriggerType: t.TriggerType,
		CreatedAt:   t.CreatedAt,
	}
}

func (m *IntentMapper) TouchToModel(t *entity.IntentTouch) *model.IntentTouch {
	if t == nil {
		return nil
	}
	return &model.IntentTouch{
		Id:          t.Id,
		IntentId:    t.IntentId,
		UserId:      t.UserId,
		SessionId:   t.SessionId,
		Excerpt:     t.Excerpt,
		TriggerType: t.TriggerType,
		CreatedAt:   t.CreatedAt,
	}
}
