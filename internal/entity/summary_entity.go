package entity

import (
	"time"

	"github.com/google/uuid"
)

// SessionSummary is the compact, retrievable digest of one finished chat session.
// Immutable once generated except via the correction surface; a re-generation
// supersedes it wholesale.
type SessionSummary struct {
	SessionId       uuid.UUID   `json:"session_id"`
	UserId          uuid.UUID   `json:"user_id"`
	Title           string      `json:"title"`
	OneLine         string      `json:"one_line"` // <=15 words
	Topics          []string    `json:"topics"`
	Keywords        []string    `json:"keywords"`
	FullSummary     string      `json:"full_summary"`
	Decisions       []string    `json:"decisions"`
	OpenQuestions   []string    `json:"open_questions"`
	ActionItems     []string    `json:"action_items"`
	MoodArc         string      `json:"mood_arc"`
	EndEnergy       string      `json:"end_energy"`
	Artifacts       []string    `json:"artifacts"`
	IntentsTouched  []uuid.UUID `json:"intents_touched"`
	IntentsResolved []uuid.UUID `json:"intents_resolved"`
	MessageCount    int         `json:"message_count"`
	ToolsUsed       []string    `json:"tools_used"`
	StartedAt       time.Time   `json:"started_at"`
	EndedAt         time.Time   `json:"ended_at"`
	GeneratedAt     time.Time   `json:"generated_at"`
}

// IntentContextSummary is the retrievable "resume point" for an intent.
// Regenerated whenever the owning intent changes status or a related session ends.
type IntentContextSummary struct {
	IntentId        uuid.UUID        `json:"intent_id"`
	UserId          uuid.UUID        `json:"user_id"`
	Label           string           `json:"label"`
	Type            string           `json:"type"`
	Status          string           `json:"status"`
	Priority        string           `json:"priority"`
	ContextSummary  string           `json:"context_summary"`
	Decisions       []string         `json:"decisions"`
	ApproachesTried []string         `json:"approaches_tried"` // superset of Intent.TriedApproaches
	CurrentApproach string           `json:"current_approach"`
	Blockers        []string         `json:"blockers"`
	RelatedSessions []RelatedSession `json:"related_sessions"` // <=10, most recent first
	TouchCount      int              `json:"touch_count"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

// RelatedSession is a brief reference from an intent summary to a session.
type RelatedSession struct {
	SessionId uuid.UUID `json:"session_id"`
	Title     string    `json:"title"`
	Snippet   string    `json:"snippet"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionBrief is the hydrated shape returned by recent-session listings.
type SessionBrief struct {
	SessionId uuid.UUID `json:"session_id"`
	Title     string    `json:"title"`
	OneLine   string    `json:"one_line"`
	Topics    []string  `json:"topics"`
	StartedAt time.Time `json:"started_at"`
}

// SearchRef is one entry in the per-keyword search index.
type SearchRef struct {
	Type      string    `json:"type"` // "session" | "intent"
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Snippet   string    `json:"snippet"`
	Timestamp time.Time `json:"timestamp"`
}

// Summary type constants shared by the store, the metadata rows and the
// correction surface.
const (
	SummaryTypeSession = "session"
	SummaryTypeIntent  = "intent"
)

// SummaryMetadata is the durable tracking row mirrored alongside every
// fast-store write. Best-effort: failures to write it never abort the summary.
type SummaryMetadata struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	SummaryType string // "session" | "intent"
	RefId       uuid.UUID
	StorageKey  string
	Keywords    []string
	ExpiresAt   *time.Time // nil = no expiration
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// Correction is one append-only audit row recording a user correction
// applied to a stored summary.
type Correction struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	SummaryType   string
	RefId         uuid.UUID
	Field         string // "decision" | "approach" | "blocker" | "summary"
	PreviousValue string
	NewValue      string
	CreatedAt     time.Time
}
