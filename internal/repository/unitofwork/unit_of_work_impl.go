package unitofwork

import (
	"context"
	"fmt"

	"ai-context-be/internal/repository/contract"
	"ai-context-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // The active transaction (nil if not in a tx)
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) IntentRepository() contract.IntentRepository {
	return implementation.NewIntentRepository(u.getDB())
}

func (u *UnitOfWorkImpl) IntentTouchRepository() contract.IntentTouchRepository {
	return implementation.NewIntentTouchRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SessionLogRepository() contract.SessionLogRepository {
	return implementation.NewSessionLogRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SessionMessageRepository() contract.SessionMessageRepository {
	return implementation.NewSessionMessageRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SummaryMetadataRepository() contract.SummaryMetadataRepository {
	return implementation.NewSummaryMetadataRepository(u.getDB())
}

func (u *UnitOfWorkImpl) CorrectionRepository() contract.CorrectionRepository {
	return implementation.NewCorrectionRepository(u.getDB())
}
