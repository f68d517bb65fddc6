package contract

import (
	"context"

	"ai-context-be/internal/entity"
	"ai-context-be/internal/repository/specification"

	"github.com/google/uuid"
)

type IntentRepository interface {
	Create(ctx context.Context, intent *entity.Intent) error
	Update(ctx context.Context, intent *entity.Intent) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Intent, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Intent, error)
	// ListUserIds returns every distinct user owning at least one intent.
	ListUserIds(ctx context.Context) ([]uuid.UUID, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type IntentTouchRepository interface {
	Create(ctx context.Context, touch *entity.IntentTouch) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.IntentTouch, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
