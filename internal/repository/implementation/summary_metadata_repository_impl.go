package implementation

import (
	"context"
	"errors"
	"time"

	"ai-context-be/internal/entity"
	"ai-context-be/internal/mapper"
	"ai-context-be/internal/model"
	"ai-context-be/internal/repository/contract"
	"ai-context-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SummaryMetadataRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SummaryMapper
}

func NewSummaryMetadataRepository(db *gorm.DB) contract.SummaryMetadataRepository {
	return &SummaryMetadataRepositoryImpl{
		db:     db,
		mapper: mapper.NewSummaryMapper(),
	}
}

func (r *SummaryMetadataRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SummaryMetadataRepositoryImpl) Upsert(ctx context.Context, meta *entity.SummaryMetadata) error {
	m := r.mapper.MetadataToModel(meta)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ref_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"storage_key", "keywords", "expires_at", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*meta = *r.mapper.MetadataToEntity(m)
	return nil
}

func (r *SummaryMetadataRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SummaryMetadata, error) {
	var m model.SummaryMetadata
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.MetadataToEntity(&m), nil
}

func (r *SummaryMetadataRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SummaryMetadata, error) {
	var models []*model.SummaryMetadata
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.SummaryMetadata, len(models))
	for i, m := range models {
		entities[i] = r.mapper.MetadataToEntity(m)
	}
	return entities, nil
}

func (r *SummaryMetadataRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Delete(&model.SummaryMetadata{})
	return res.RowsAffected, res.Error
}

type CorrectionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SummaryMapper
}

func NewCorrectionRepository(db *gorm.DB) contract.CorrectionRepository {
	return &CorrectionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSummaryMapper(),
	}
}

func (r *CorrectionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CorrectionRepositoryImpl) Create(ctx context.Context, correction *entity.Correction) error {
	m := r.mapper.CorrectionToModel(correction)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*correction = *r.mapper.CorrectionToEntity(m)
	return nil
}

func (r *CorrectionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Correction, error) {
	var models []*model.Correction
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Correction, len(models))
	for i, m := range models {
		entities[i] = r.mapper.CorrectionToEntity(m)
	}
	return entities, nil
}
