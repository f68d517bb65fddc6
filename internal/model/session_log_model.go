package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionLog struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title        string         `gorm:"type:text"`
	MessageCount int            `gorm:"not null;default:0"`
	Finalized    bool           `gorm:"not null;default:false"`
	StartedAt    time.Time      `gorm:"not null"`
	EndedAt      *time.Time
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (SessionLog) TableName() string {
	return "session_logs"
}

type SessionMessage struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionLogId uuid.UUID `gorm:"type:uuid;not null;index"`
	Role         string    `gorm:"type:varchar(20);not null"`
	Content      string    `gorm:"type:text;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (SessionMessage) TableName() string {
	return "session_messages"
}
