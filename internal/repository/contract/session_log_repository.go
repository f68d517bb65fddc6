package contract

import (
	"context"

	"ai-context-be/internal/entity"
	"ai-context-be/internal/repository/specification"
)

type SessionLogRepository interface {
	Create(ctx context.Context, session *entity.SessionLog) error
	Update(ctx context.Context, session *entity.SessionLog) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SessionLog, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionLog, error)
}

type SessionMessageRepository interface {
	Create(ctx context.Context, message *entity.SessionMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
