package dto

import (
	"time"

	"github.com/google/uuid"
)

// Depth levels for context loading. Each level reveals strictly more fields
// than the previous one.
const (
	DepthBrief    = "brief"
	DepthSummary  = "summary"
	DepthDetailed = "detailed"
)

type LoadContextRequest struct {
	UserId    string `json:"user_id" validate:"required,uuid"`
	IntentId  string `json:"intent_id,omitempty" validate:"omitempty,uuid"`
	SessionId string `json:"session_id,omitempty" validate:"omitempty,uuid"`
	Query     string `json:"query,omitempty"`
	Depth     string `json:"depth,omitempty" validate:"omitempty,oneof=brief summary detailed"`
}

type LoadContextResponse struct {
	Success       bool               `json:"success"`
	Sessions      []SessionView      `json:"sessions"`
	Intents       []IntentView       `json:"intents"`
	SearchResults []SearchResultView `json:"search_results,omitempty"`
	Error         string             `json:"error,omitempty"`
}

// SessionView is a depth-projected session summary. Brief carries identity
// fields only; summary adds the narrative; detailed adds everything.
type SessionView struct {
	SessionId uuid.UUID `json:"session_id"`
	Title     string    `json:"title"`
	OneLine   string    `json:"one_line"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`

	// depth >= summary
	FullSummary string   `json:"full_summary,omitempty"`
	Topics      []string `json:"topics,omitempty"`
	Decisions   []string `json:"decisions,omitempty"`

	// depth = detailed
	OpenQuestions []string `json:"open_questions,omitempty"`
	ActionItems   []string `json:"action_items,omitempty"`
	MoodArc       string   `json:"mood_arc,omitempty"`
	EndEnergy     string   `json:"end_energy,omitempty"`
	Artifacts     []string `json:"artifacts,omitempty"`
	ToolsUsed     []string `json:"tools_used,omitempty"`
	MessageCount  int      `json:"message_count,omitempty"`
}

// IntentView is a depth-projected intent context summary.
type IntentView struct {
	IntentId uuid.UUID `json:"intent_id"`
	Label    string    `json:"label"`
	Type     string    `json:"type"`
	Status   string    `json:"status"`
	Priority string    `json:"priority"`

	// depth >= summary
	ContextSummary string   `json:"context_summary,omitempty"`
	Decisions      []string `json:"decisions,omitempty"`
	Blockers       []string `json:"blockers,omitempty"`

	// depth = detailed
	ApproachesTried []string             `json:"approaches_tried,omitempty"`
	CurrentApproach string               `json:"current_approach,omitempty"`
	RelatedSessions []RelatedSessionView `json:"related_sessions,omitempty"`
	TouchCount      int                  `json:"touch_count,omitempty"`
}

type RelatedSessionView struct {
	SessionId uuid.UUID `json:"session_id"`
	Title     string    `json:"title"`
	Snippet   string    `json:"snippet"`
	Timestamp time.Time `json:"timestamp"`
}

type SearchResultView struct {
	Type            string    `json:"type"`
	Id              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Snippet         string    `json:"snippet"`
	Relevance       float64   `json:"relevance"`
	MatchedKeywords []string  `json:"matched_keywords"`
	Timestamp       time.Time `json:"timestamp"`
}

type CorrectSummaryRequest struct {
	UserId     string `json:"user_id" validate:"required,uuid"`
	Type       string `json:"type" validate:"required,oneof=session intent"`
	Id         string `json:"id" validate:"required,uuid"`
	Field      string `json:"field" validate:"required,oneof=decision approach blocker summary"`
	Correction string `json:"correction" validate:"required"`
}

type CorrectSummaryResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	PreviousValue string `json:"previous_value,omitempty"`
	NewValue      string `json:"new_value,omitempty"`
}

type ProcessMessageRequest struct {
	UserId    string `json:"user_id" validate:"required,uuid"`
	SessionId string `json:"session_id" validate:"required,uuid"`
	Role      string `json:"role,omitempty" validate:"omitempty,oneof=user assistant"`
	Content   string `json:"content" validate:"required"`
}

type ProcessMessageResponse struct {
	SignalDetected bool       `json:"signal_detected"`
	Action         string     `json:"action,omitempty"`
	IntentId       *uuid.UUID `json:"intent_id,omitempty"`
	IntentLabel    string     `json:"intent_label,omitempty"`
	ShouldLoad     bool       `json:"should_load"`
	Confidence     string     `json:"confidence,omitempty"`
	Query          string     `json:"query,omitempty"`
}

type FinalizeSessionRequest struct {
	UserId string `json:"user_id" validate:"required,uuid"`
}

type BreadcrumbsResponse struct {
	Breadcrumbs string `json:"breadcrumbs"`
}
