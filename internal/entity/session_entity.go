package entity

import (
	"time"

	"github.com/google/uuid"
)

// SessionLog is the durable record of a chat session. It exists from the first
// recorded message and is marked finalized once a summary has been generated.
type SessionLog struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Title        string
	MessageCount int
	Finalized    bool
	StartedAt    time.Time
	EndedAt      *time.Time
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// SessionMessage is one message inside a session log.
type SessionMessage struct {
	Id           uuid.UUID
	SessionLogId uuid.UUID
	Role         string // "user" | "assistant"
	Content      string
	CreatedAt    time.Time
}
