package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SummaryMetadata struct {
	Id          uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID                   `gorm:"type:uuid;not null;index"`
	SummaryType string                      `gorm:"type:varchar(10);not null"`
	RefId       uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_summary_ref"`
	StorageKey  string                      `gorm:"type:text;not null"`
	Keywords    datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	ExpiresAt   *time.Time                  `gorm:"index"`
	CreatedAt   time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                   `gorm:"autoUpdateTime"`
}

func (SummaryMetadata) TableName() string {
	return "summary_metadata"
}
