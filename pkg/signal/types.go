package signal

import (
	"github.com/google/uuid"
)

// Signal actions
const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionResolve = "resolve"
	ActionSuspend = "suspend"
	ActionSwitch  = "switch"
	ActionIgnore  = "ignore"
)

// Trigger types
const (
	TriggerExplicit = "explicit"
	TriggerImplicit = "implicit"
)

// IntentSignal is the output of message classification. Never persisted
// standalone; consumed by the lifecycle orchestration and discarded.
type IntentSignal struct {
	Action          string
	Confidence      float64
	MatchedIntentId *uuid.UUID
	Type            string // for create
	Label           string // for create / switch
	Goal            string // for create
	Blocker         string // appended to the target intent when set
	Approach        string // appended to the target intent when set
	TriggerType     string // "explicit" | "implicit"
	Source          string // the pattern that matched, or "llm" (observability)
}

// ApproachChange is a detected mid-task strategy change. It bypasses the
// generic signal pipeline: the caller appends it to the active intent directly.
type ApproachChange struct {
	Approach string
	Source   string
}

// IntentBrief is the compact intent shape the detector and matcher operate on.
type IntentBrief struct {
	Id       uuid.UUID
	Label    string
	Type     string
	Status   string
	Priority string
}
