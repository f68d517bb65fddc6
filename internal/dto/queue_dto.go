package dto

import "github.com/google/uuid"

// RefreshIntentSummariesMessage is the queue payload enqueued on session
// finalization. The consumer folds the finished session into every touched
// intent's context summary.
type RefreshIntentSummariesMessage struct {
	UserId    uuid.UUID `json:"user_id"`
	SessionId uuid.UUID `json:"session_id"`
}
