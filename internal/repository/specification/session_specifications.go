package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BySessionLogID filters session messages by their session log
type BySessionLogID struct {
	SessionLogID uuid.UUID
}

func (s BySessionLogID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_log_id = ?", s.SessionLogID)
}

// ByRefID filters summary metadata / correction rows by the referenced summary
type ByRefID struct {
	RefID uuid.UUID
}

func (s ByRefID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("ref_id = ?", s.RefID)
}

// BySummaryType filters metadata rows by summary type ("session" | "intent")
type BySummaryType struct {
	SummaryType string
}

func (s BySummaryType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("summary_type = ?", s.SummaryType)
}

// ExpiredBefore filters metadata rows whose expiry has passed
type ExpiredBefore struct {
	Now time.Time
}

func (s ExpiredBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("expires_at IS NOT NULL AND expires_at < ?", s.Now)
}
