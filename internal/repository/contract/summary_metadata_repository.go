package contract

import (
	"context"
	"time"

	"ai-context-be/internal/entity"
	"ai-context-be/internal/repository/specification"
)

type SummaryMetadataRepository interface {
	// Upsert creates or replaces the metadata row for (summary_type, ref_id).
	Upsert(ctx context.Context, meta *entity.SummaryMetadata) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SummaryMetadata, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SummaryMetadata, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type CorrectionRepository interface {
	Create(ctx context.Context, correction *entity.Correction) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Correction, error)
}
