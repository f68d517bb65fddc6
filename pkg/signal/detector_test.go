package signal

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

// nopLogger keeps the detector quiet in tests.
type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newTestDetector() *Detector {
	// No LLM provider: regex-only mode.
	return NewDetector(nil, nopLogger{}, DefaultThresholds())
}

func TestDetectShortMessages(t *testing.T) {
	d := newTestDetector()
	for _, msg := range []string{"", "ok", "thanks", "yes pls", "  hi   "} {
		if sig := d.Detect(context.Background(), msg, nil); sig != nil {
			t.Errorf("Detect(%q) = %+v, want nil", msg, sig)
		}
	}
}

func TestDetectExplicitCreate(t *testing.T) {
	d := newTestDetector()

	sig := d.Detect(context.Background(), "I'm trying to fix the login bug", nil)
	if sig == nil {
		t.Fatal("expected a signal")
	}
	if sig.Action != ActionCreate {
		t.Errorf("Action = %q, want %q", sig.Action, ActionCreate)
	}
	if sig.Type != "task" {
		t.Errorf("Type = %q, want task", sig.Type)
	}
	if sig.Label != "fix the login bug" {
		t.Errorf("Label = %q, want %q", sig.Label, "fix the login bug")
	}
	if sig.Confidence != 0.85 {
		t.Errorf("Confidence = %v, want 0.85", sig.Confidence)
	}
	if sig.TriggerType != TriggerExplicit {
		t.Errorf("TriggerType = %q, want explicit", sig.TriggerType)
	}
}

func TestDetectExplicitTypes(t *testing.T) {
	d := newTestDetector()

	tests := []struct {
		message  string
		wantType string
	}{
		{"help me with my tax return", "task"},
		{"my goal is to run a marathon in spring", "goal"},
		{"I'm curious about distributed consensus", "exploration"},
		{"I'm feeling overwhelmed by all of this", "companion"},
	}
	for _, tt := range tests {
		sig := d.Detect(context.Background(), tt.message, nil)
		if sig == nil {
			t.Errorf("Detect(%q) = nil, want create signal", tt.message)
			continue
		}
		if sig.Action != ActionCreate {
			t.Errorf("Detect(%q).Action = %q, want create", tt.message, sig.Action)
		}
		if sig.Type != tt.wantType {
			t.Errorf("Detect(%q).Type = %q, want %q", tt.message, sig.Type, tt.wantType)
		}
		if sig.Confidence != 0.85 {
			t.Errorf("Detect(%q).Confidence = %v, want 0.85", tt.message, sig.Confidence)
		}
	}
}

func TestDetectImplicitContinuationMatched(t *testing.T) {
	d := newTestDetector()
	intentId := uuid.New()
	intents := []IntentBrief{
		{Id: intentId, Label: "fix the login bug", Type: "task", Status: "active"},
	}

	sig := d.Detect(context.Background(), "back to the login bug", intents)
	if sig == nil {
		t.Fatal("expected a signal")
	}
	if sig.Action != ActionUpdate {
		t.Errorf("Action = %q, want update", sig.Action)
	}
	if sig.MatchedIntentId == nil || *sig.MatchedIntentId != intentId {
		t.Errorf("MatchedIntentId = %v, want %s", sig.MatchedIntentId, intentId)
	}
	if sig.Confidence != 0.8 {
		t.Errorf("Confidence = %v, want 0.8 (matched boost)", sig.Confidence)
	}
	if sig.TriggerType != TriggerImplicit {
		t.Errorf("TriggerType = %q, want implicit", sig.TriggerType)
	}
}

func TestDetectImplicitContinuationUnmatched(t *testing.T) {
	d := newTestDetector()

	// No tracked intents: a continuation of an unknown topic is a switch.
	sig := d.Detect(context.Background(), "back to the billing dashboard", nil)
	if sig == nil {
		t.Fatal("expected a signal")
	}
	if sig.Action != ActionSwitch {
		t.Errorf("Action = %q, want switch", sig.Action)
	}
	if sig.Confidence != 0.7 {
		t.Errorf("Confidence = %v, want 0.7 (implicit base)", sig.Confidence)
	}
}

func TestDetectImplicitBlocker(t *testing.T) {
	d := newTestDetector()
	intentId := uuid.New()
	intents := []IntentBrief{
		{Id: intentId, Label: "migrate the auth database", Type: "task", Status: "active"},
	}

	sig := d.Detect(context.Background(), "I'm blocked on the auth database migration permissions", intents)
	if sig == nil {
		t.Fatal("expected a signal")
	}
	if sig.Action != ActionUpdate {
		t.Errorf("Action = %q, want update", sig.Action)
	}
	if sig.Blocker == "" {
		t.Error("expected a blocker extraction")
	}
}

func TestDetectImplicitResolve(t *testing.T) {
	d := newTestDetector()
	intentId := uuid.New()
	intents := []IntentBrief{
		{Id: intentId, Label: "fix the login bug", Type: "task", Status: "active"},
	}

	sig := d.Detect(context.Background(), "we finally fixed the login bug", intents)
	if sig == nil {
		t.Fatal("expected a signal")
	}
	if sig.Action != ActionResolve {
		t.Errorf("Action = %q, want resolve", sig.Action)
	}
	if sig.MatchedIntentId == nil || *sig.MatchedIntentId != intentId {
		t.Errorf("MatchedIntentId = %v, want %s", sig.MatchedIntentId, intentId)
	}
}

func TestDetectImplicitSwitch(t *testing.T) {
	d := newTestDetector()

	sig := d.Detect(context.Background(), "let's switch to something else", nil)
	if sig == nil {
		t.Fatal("expected a signal")
	}
	if sig.Action != ActionSuspend {
		t.Errorf("Action = %q, want suspend", sig.Action)
	}
	if sig.Confidence != 0.65 {
		t.Errorf("Confidence = %v, want 0.65", sig.Confidence)
	}
	if sig.MatchedIntentId != nil {
		t.Errorf("MatchedIntentId = %v, want nil (orchestrator picks the target)", sig.MatchedIntentId)
	}
}

func TestDetectExplicitWinsOverImplicit(t *testing.T) {
	d := newTestDetector()

	// Contains both an explicit marker and a continuation marker; the
	// explicit pass runs first.
	sig := d.Detect(context.Background(), "I need to get back to the login bug", nil)
	if sig == nil {
		t.Fatal("expected a signal")
	}
	if sig.Action != ActionCreate {
		t.Errorf("Action = %q, want create (explicit pass first)", sig.Action)
	}
	if sig.Confidence != 0.85 {
		t.Errorf("Confidence = %v, want 0.85", sig.Confidence)
	}
}

func TestDetectNoSignalWithoutLLM(t *testing.T) {
	d := newTestDetector()

	// Long message, no pattern, no LLM provider: no signal.
	if sig := d.Detect(context.Background(), "the weather is quite nice around this time of year", nil); sig != nil {
		t.Errorf("expected nil signal, got %+v", sig)
	}
}

func TestDetectApproachChange(t *testing.T) {
	d := newTestDetector()

	tests := []struct {
		message      string
		wantApproach string
	}{
		{"let's try using a mutex here", "using a mutex here"},
		{"what if we cache the token instead", "cache the token instead"},
		{"maybe we should batch the writes", "batch the writes"},
	}
	for _, tt := range tests {
		change := d.DetectApproachChange(tt.message)
		if change == nil {
			t.Errorf("DetectApproachChange(%q) = nil", tt.message)
			continue
		}
		if change.Approach != tt.wantApproach {
			t.Errorf("DetectApproachChange(%q).Approach = %q, want %q", tt.message, change.Approach, tt.wantApproach)
		}
	}

	if change := d.DetectApproachChange("ok"); change != nil {
		t.Errorf("short message should not yield an approach change, got %+v", change)
	}
}
