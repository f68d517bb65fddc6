package implementation

import (
	"context"
	"errors"

	"ai-context-be/internal/entity"
	"ai-context-be/internal/mapper"
	"ai-context-be/internal/model"
	"ai-context-be/internal/repository/contract"
	"ai-context-be/internal/repository/specification"

	"gorm.io/gorm"
)

type SessionLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewSessionLogRepository(db *gorm.DB) contract.SessionLogRepository {
	return &SessionLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *SessionLogRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SessionLogRepositoryImpl) Create(ctx context.Context, session *entity.SessionLog) error {
	m := r.mapper.SessionLogToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.SessionLogToEntity(m)
	return nil
}

func (r *SessionLogRepositoryImpl) Update(ctx context.Context, session *entity.SessionLog) error {
	m := r.mapper.SessionLogToModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.SessionLogToEntity(m)
	return nil
}

func (r *SessionLogRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SessionLog, error) {
	var m model.SessionLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SessionLogToEntity(&m), nil
}

func (r *SessionLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionLog, error) {
	var models []*model.SessionLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.SessionLog, len(models))
	for i, m := range models {
		entities[i] = r.mapper.SessionLogToEntity(m)
	}
	return entities, nil
}

type SessionMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewSessionMessageRepository(db *gorm.DB) contract.SessionMessageRepository {
	return &SessionMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *SessionMessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SessionMessageRepositoryImpl) Create(ctx context.Context, message *entity.SessionMessage) error {
	m := r.mapper.MessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.MessageToEntity(m)
	return nil
}

func (r *SessionMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionMessage, error) {
	var models []*model.SessionMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.SessionMessage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.MessageToEntity(m)
	}
	return entities, nil
}

func (r *SessionMessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.SessionMessage{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
