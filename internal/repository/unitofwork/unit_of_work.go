package unitofwork

import (
	"context"

	"ai-context-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	IntentRepository() contract.IntentRepository
	IntentTouchRepository() contract.IntentTouchRepository
	SessionLogRepository() contract.SessionLogRepository
	SessionMessageRepository() contract.SessionMessageRepository
	SummaryMetadataRepository() contract.SummaryMetadataRepository
	CorrectionRepository() contract.CorrectionRepository
}
