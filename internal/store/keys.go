package store

import (
	"fmt"
	"time"

	"ai-context-be/internal/entity"

	"github.com/google/uuid"
)

// Key layout, per-user-namespaced:
//   ctx:summary:session:{user}:{session}  -> SessionSummary JSON
//   ctx:summary:intent:{user}:{intent}    -> IntentContextSummary JSON
//   ctx:recent:{user}                     -> list of recent session ids
//   ctx:index:{user}                      -> hash keyword -> []SearchRef JSON

func sessionSummaryKey(userId, sessionId uuid.UUID) string {
	return fmt.Sprintf("ctx:summary:session:%s:%s", userId, sessionId)
}

func intentSummaryKey(userId, intentId uuid.UUID) string {
	return fmt.Sprintf("ctx:summary:intent:%s:%s", userId, intentId)
}

func recentSessionsKey(userId uuid.UUID) string {
	return fmt.Sprintf("ctx:recent:%s", userId)
}

func searchIndexKey(userId uuid.UUID) string {
	return fmt.Sprintf("ctx:index:%s", userId)
}

// Retention tiers by intent status (fast-store TTLs). Zero = no expiration.
const (
	RetentionSession  = 90 * 24 * time.Hour
	RetentionResolved = 180 * 24 * time.Hour
	RetentionDecayed  = 30 * 24 * time.Hour
	RetentionIndex    = 90 * 24 * time.Hour
)

// RetentionForStatus maps an intent status to its fast-store TTL.
func RetentionForStatus(status string) time.Duration {
	switch status {
	case entity.IntentStatusResolved:
		return RetentionResolved
	case entity.IntentStatusDecayed:
		return RetentionDecayed
	default:
		// active / suspended summaries do not expire
		return 0
	}
}

// recentSessionsCap bounds the per-user most-recent-first session list.
const recentSessionsCap = 20
