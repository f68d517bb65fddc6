package entity

import (
	"time"

	"github.com/google/uuid"
)

// Intent type constants
const (
	IntentTypeTask        = "task"
	IntentTypeGoal        = "goal"
	IntentTypeExploration = "exploration"
	IntentTypeCompanion   = "companion"
)

// Intent status constants. Resolved is terminal; decayed is a retention-tier
// classification applied by the maintenance job, never a signal outcome.
const (
	IntentStatusActive    = "active"
	IntentStatusSuspended = "suspended"
	IntentStatusResolved  = "resolved"
	IntentStatusDecayed   = "decayed"
)

// Priority constants
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Intent is a durable goal/task the user is pursuing across sessions.
type Intent struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	Type             string
	Label            string
	Goal             string
	Status           string
	Priority         string
	TriedApproaches  []string
	Blockers         []string
	Constraints      []string
	CurrentApproach  *string
	EmotionalContext *string
	ParentIntentId   *uuid.UUID
	SourceSessionId  *uuid.UUID
	TouchCount       int
	LastTouchedAt    time.Time
	ResolvedAt       *time.Time
	ResolutionType   *string
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

// IntentTouch is one recorded interaction with an intent.
type IntentTouch struct {
	Id          uuid.UUID
	IntentId    uuid.UUID
	UserId      uuid.UUID
	SessionId   uuid.UUID
	Excerpt     string
	TriggerType string // "explicit" | "implicit"
	CreatedAt   time.Time
}

// PriorityRank maps a priority to a sortable weight (higher = more important).
func PriorityRank(priority string) int {
	switch priority {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}
