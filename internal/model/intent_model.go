package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Intent struct {
	Id               uuid.UUID                      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID                      `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	Type             string                         `gorm:"type:varchar(20);not null"`
	Label            string                         `gorm:"type:text;not null"`
	Goal             string                         `gorm:"type:text"`
	Status           string                         `gorm:"type:varchar(20);not null;index"`
	Priority         string                         `gorm:"type:varchar(10);not null"`
	TriedApproaches  datatypes.JSONSlice[string]    `gorm:"type:jsonb"`
	Blockers         datatypes.JSONSlice[string]    `gorm:"type:jsonb"`
	Constraints      datatypes.JSONSlice[string]    `gorm:"type:jsonb"`
	CurrentApproach  *string                        `gorm:"type:text"`
	EmotionalContext *string                        `gorm:"type:text"`
	ParentIntentId   *uuid.UUID                     `gorm:"type:uuid"`
	SourceSessionId  *uuid.UUID                     `gorm:"type:uuid"`
	TouchCount       int                            `gorm:"not null;default:1"`
	LastTouchedAt    time.Time                      `gorm:"not null;index"`
	ResolvedAt       *time.Time
	ResolutionType   *string                        `gorm:"type:varchar(30)"`
	CreatedAt        time.Time                      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time                      `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt                 `gorm:"index"`
}

func (Intent) TableName() string {
	return "intents"
}

type IntentTouch struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IntentId    uuid.UUID `gorm:"type:uuid;not null;index"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;index"`
	SessionId   uuid.UUID `gorm:"type:uuid;not null"`
	Excerpt     string    `gorm:"type:text"`
	TriggerType string    `gorm:"type:varchar(10);not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (IntentTouch) TableName() string {
	return "intent_touches"
}
