package implementation

import (
	"context"

	"ai-context-be/internal/entity"
	"ai-context-be/internal/mapper"
	"ai-context-be/internal/model"
	"ai-context-be/internal/repository/contract"
	"ai-context-be/internal/repository/specification"

	"gorm.io/gorm"
)

type IntentTouchRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.IntentMapper
}

func NewIntentTouchRepository(db *gorm.DB) contract.IntentTouchRepository {
	return &IntentTouchRepositoryImpl{
		db:     db,
		mapper: mapper.NewIntentMapper(),
	}
}

func (r *IntentTouchRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *IntentTouchRepositoryImpl) Create(ctx context.Context, touch *entity.IntentTouch) error {
	m := r.mapper.TouchToModel(touch)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*touch = *r.mapper.TouchToEntity(m)
	return nil
}

func (r *IntentTouchRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.IntentTouch, error) {
	var models []*model.IntentTouch
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.IntentTouch, len(models))
	for i, m := range models {
		entities[i] = r.mapper.TouchToEntity(m)
	}
	return entities, nil
}

func (r *IntentTouchRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.IntentTouch{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
