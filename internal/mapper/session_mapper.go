package mapper

import (
	"time"

	"ai-context-be/internal/entity"
	"ai-context-be/internal/model"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) SessionLogToEntity(s *model.SessionLog) *entity.SessionLog {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.SessionLog{
		Id:           s.Id,
		UserId:       s.UserId,
		Title:        s.Title,
		MessageCount: s.MessageCount,
		Finalized:    s.Finalized,
		StartedAt:    s.StartedAt,
		EndedAt:      s.EndedAt,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *SessionMapper) SessionLogToModel(s *entity.SessionLog) *model.SessionLog {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.SessionLog{
		Id:           s.Id,
		UserId:       s.UserId,
		Title:        s.Title,
		MessageCount: s.MessageCount,
		Finalized:    s.Finalized,
		StartedAt:    s.StartedAt,
		EndedAt:      s.EndedAt,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *SessionMapper) MessageToEntity(msg *model.SessionMessage) *entity.SessionMessage {
	if msg == nil {
		return nil
	}
	return &entity.SessionMessage{
		Id:           msg.Id,
		SessionLogId: msg.SessionLogId,
		Role:         msg.Role,
		Content:      msg.Content,
		CreatedAt:    msg.CreatedAt,
	}
}

func (m *SessionMapper) MessageToModel(msg *entity.SessionMessage) *model.SessionMessage {
	if msg == nil {
		return nil
	}
	return &model.SessionMessage{
		Id:           msg.Id,
		SessionLogId: msg.SessionLogId,
		Role:         msg.Role,
		Content:      msg.Content,
		CreatedAt:    msg.CreatedAt,
	}
}
