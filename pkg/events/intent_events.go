package events

import (
	"time"

	"github.com/google/uuid"
)

// Intent lifecycle event codes, published best-effort on every state transition.
const (
	EventIntentCreated     = "INTENT_CREATED"
	EventIntentResolved    = "INTENT_RESOLVED"
	EventIntentSuspended   = "INTENT_SUSPENDED"
	EventIntentReactivated = "INTENT_REACTIVATED"
	EventSessionFinalized  = "SESSION_FINALIZED"
)

func NewIntentLifecycleEvent(eventType string, userId, intentId uuid.UUID, label, status string) Event {
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"user_id":   userId.String(),
			"intent_id": intentId.String(),
			"label":     label,
			"status":    status,
		},
		OccurredAt: time.Now(),
	}
}

func NewSessionFinalizedEvent(userId, sessionId uuid.UUID) Event {
	return BaseEvent{
		Type: EventSessionFinalized,
		Data: map[string]interface{}{
			"user_id":    userId.String(),
			"session_id": sessionId.String(),
		},
		OccurredAt: time.Now(),
	}
}
