package mapper

import (
	"time"

	"ai-context-be/internal/entity"
	"ai-context-be/internal/model"
)

type SummaryMapper struct{}

func NewSummaryMapper() *SummaryMapper {
	return &SummaryMapper{}
}

func (m *SummaryMapper) MetadataToEntity(s *model.SummaryMetadata) *entity.SummaryMetadata {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.SummaryMetadata{
		Id:          s.Id,
		UserId:      s.UserId,
		SummaryType: s.SummaryType,
		RefId:       s.RefId,
		StorageKey:  s.StorageKey,
		Keywords:    []string(s.Keywords),
		ExpiresAt:   s.ExpiresAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *SummaryMapper) MetadataToModel(s *entity.SummaryMetadata) *model.SummaryMetadata {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.SummaryMetadata{
		Id:          s.Id,
		UserId:      s.UserId,
		SummaryType: s.SummaryType,
		RefId:       s.RefId,
		StorageKey:  s.StorageKey,
		Keywords:    s.Keywords,
		ExpiresAt:   s.ExpiresAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *SummaryMapper) CorrectionToEntity(c *model.Correction) *entity.Correction {
	if c == nil {
		return nil
	}
	return &entity.Correction{
		Id:            c.Id,
		UserId:        c.UserId,
		SummaryType:   c.SummaryType,
		RefId:         c.RefId,
		Field:         c.Field,
		PreviousValue: c.PreviousValue,
		NewValue:      c.NewValue,
		CreatedAt:     c.CreatedAt,
	}
}

func (m *SummaryMapper) CorrectionToModel(c *entity.Correction) *model.Correction {
	if c == nil {
		return nil
	}
	return &model.Correction{
		Id:            c.Id,
		UserId:        c.UserId,
		SummaryType:   c.SummaryType,
		RefId:         c.RefId,
		Field:         c.Field,
		PreviousValue: c.PreviousValue,
		NewValue:      c.NewValue,
		CreatedAt:     c.CreatedAt,
	}
}
