package model

import (
	"time"

	"github.com/google/uuid"
)

// Correction rows are append-only; there is no update or delete path.
type Correction struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        uuid.UUID `gorm:"type:uuid;not null;index"`
	SummaryType   string    `gorm:"type:varchar(10);not null"`
	RefId         uuid.UUID `gorm:"type:uuid;not null;index"`
	Field         string    `gorm:"type:varchar(20);not null"`
	PreviousValue string    `gorm:"type:text"`
	NewValue      string    `gorm:"type:text;not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (Correction) TableName() string {
	return "summary_corrections"
}
