package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-context-be/internal/pkg/logger"
	"ai-context-be/pkg/llm"
	"ai-context-be/pkg/utils"

	"github.com/google/uuid"
)

// minMessageLen: shorter messages carry too little signal to classify.
const minMessageLen = 10

// llmFallbackMinLen: messages at or below this are not worth an LLM call.
const llmFallbackMinLen = 15

// Thresholds are the tunable confidence constants of the detector.
// Empirically chosen; keep them configuration, not invariants.
type Thresholds struct {
	Explicit     float64 // fixed confidence of explicit pattern matches
	ImplicitBase float64 // base confidence of implicit pattern matches
	MatchedBoost float64 // implicit confidence when the label matches a known intent
	Switch       float64 // fixed confidence of topic-switch signals
	LLMMin       float64 // LLM classifications below this are discarded
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Explicit:     0.85,
		ImplicitBase: 0.7,
		MatchedBoost: 0.8,
		Switch:       0.65,
		LLMMin:       0.7,
	}
}

// Detector classifies messages into intent signals: ordered regex families
// first, LLM fallback second. It never returns an error to the caller;
// classification failures degrade to "no signal".
type Detector struct {
	llmProvider llm.LLMProvider // may be nil (regex-only mode)
	logger      logger.ILogger
	thresholds  Thresholds
}

func NewDetector(llmProvider llm.LLMProvider, log logger.ILogger, thresholds Thresholds) *Detector {
	return &Detector{
		llmProvider: llmProvider,
		logger:      log,
		thresholds:  thresholds,
	}
}

// Detect classifies a message against the user's active/suspended intents.
// Returns at most one signal, or nil.
func (d *Detector) Detect(ctx context.Context, message string, intents []IntentBrief) *IntentSignal {
	trimmed := strings.TrimSpace(message)
	if len(trimmed) < minMessageLen {
		return nil
	}

	// 1. Explicit pass: direct statements of a new intent. First match wins.
	if sig := d.detectExplicit(trimmed); sig != nil {
		return sig
	}

	// 2. Implicit pass: inferential patterns tagged with a signal kind.
	if sig := d.detectImplicit(trimmed, intents); sig != nil {
		return sig
	}

	// 3. LLM fallback for longer messages the patterns could not place.
	if d.llmProvider != nil && len(trimmed) > llmFallbackMinLen {
		return d.detectWithLLM(ctx, trimmed, intents)
	}

	return nil
}

// DetectApproachChange runs the independent approach-change pattern family.
// A match does not go through the generic signal pipeline; the caller appends
// the captured text to the active intent's tried approaches directly.
func (d *Detector) DetectApproachChange(message string) *ApproachChange {
	trimmed := strings.TrimSpace(message)
	if len(trimmed) < minMessageLen {
		return nil
	}
	for _, re := range approachPatterns {
		if m := re.FindStringSubmatch(trimmed); m != nil {
			approach := cleanCapture(m[1])
			if approach == "" {
				continue
			}
			return &ApproachChange{
				Approach: approach,
				Source:   re.String(),
			}
		}
	}
	return nil
}

func (d *Detector) detectExplicit(message string) *IntentSignal {
	for _, p := range explicitPatterns {
		m := p.re.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		label := cleanCapture(m[1])
		if label == "" {
			continue
		}
		return &IntentSignal{
			Action:      ActionCreate,
			Confidence:  d.thresholds.Explicit,
			Type:        p.intentType,
			Label:       label,
			Goal:        label,
			TriggerType: TriggerExplicit,
			Source:      p.re.String(),
		}
	}
	return nil
}

func (d *Detector) detectImplicit(message string, intents []IntentBrief) *IntentSignal {
	for _, p := range implicitPatterns {
		m := p.re.FindStringSubmatch(message)
		if m == nil {
			continue
		}

		var label string
		if len(m) > 1 {
			label = cleanCapture(m[1])
		}

		var matched *IntentBrief
		if label != "" {
			matched = MatchIntent(label, intents)
		}

		confidence := d.thresholds.ImplicitBase
		if matched != nil {
			confidence = d.thresholds.MatchedBoost
		}

		sig := &IntentSignal{
			Confidence:  confidence,
			Label:       label,
			TriggerType: TriggerImplicit,
			Source:      p.re.String(),
		}
		if matched != nil {
			id := matched.Id
			sig.MatchedIntentId = &id
		}

		switch p.kind {
		case kindContinuation:
			if matched != nil {
				sig.Action = ActionUpdate
			} else {
				// Continuation of something we do not track: a topic switch.
				sig.Action = ActionSwitch
			}
		case kindFrustration:
			sig.Action = ActionUpdate
			sig.Blocker = firstNonEmpty(label, utils.Truncate(message, 120))
		case kindProgress:
			sig.Action = ActionUpdate
		case kindBlocker:
			sig.Action = ActionUpdate
			sig.Blocker = firstNonEmpty(label, utils.Truncate(message, 120))
		case kindSwitch:
			// Targets the top-priority active intent; the orchestrator resolves it.
			sig.Action = ActionSuspend
			sig.Confidence = d.thresholds.Switch
			sig.MatchedIntentId = nil
		case kindResolve:
			sig.Action = ActionResolve
		default:
			continue
		}
		return sig
	}
	return nil
}

// llmClassification is the strict JSON shape expected from the fallback model.
type llmClassification struct {
	Action     string  `json:"action"`
	IntentId   string  `json:"intent_id"`
	Label      string  `json:"label"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

func (d *Detector) detectWithLLM(ctx context.Context, message string, intents []IntentBrief) *IntentSignal {
	prompt := buildClassifyPrompt(message, intents)

	response, err := d.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0), llm.WithMaxTokens(200))
	if err != nil {
		d.logger.Warn("SignalDetector", "LLM classification failed", map[string]interface{}{"error": err.Error()})
		return nil
	}

	jsonContent := extractJSON(response)
	if jsonContent == "" {
		d.logger.Debug("SignalDetector", "No JSON in LLM classification response", nil)
		return nil
	}

	var c llmClassification
	if err := json.Unmarshal([]byte(jsonContent), &c); err != nil {
		d.logger.Debug("SignalDetector", "Unparsable LLM classification", map[string]interface{}{"error": err.Error()})
		return nil
	}

	c.Action = strings.ToLower(strings.TrimSpace(c.Action))
	if c.Action == ActionIgnore || c.Confidence < d.thresholds.LLMMin {
		return nil
	}
	switch c.Action {
	case ActionCreate, ActionUpdate, ActionResolve, ActionSuspend, ActionSwitch:
	default:
		d.logger.Debug("SignalDetector", "Unknown LLM action", map[string]interface{}{"action": c.Action})
		return nil
	}

	sig := &IntentSignal{
		Action:      c.Action,
		Confidence:  c.Confidence,
		Label:       cleanCapture(c.Label),
		Type:        strings.ToLower(c.Type),
		TriggerType: TriggerImplicit,
		Source:      "llm",
	}
	if c.Action == ActionCreate {
		sig.Goal = sig.Label
	}
	if id, err := uuid.Parse(c.IntentId); err == nil {
		sig.MatchedIntentId = &id
	}
	return sig
}

func buildClassifyPrompt(message string, intents []IntentBrief) string {
	var b strings.Builder

	b.WriteString("<system>\n")
	b.WriteString("You classify a chat message against the user's tracked intents.\n")
	b.WriteString("You do NOT answer the message. You only classify it.\n")
	b.WriteString("</system>\n\n")

	b.WriteString("<tracked_intents>\n")
	if len(intents) == 0 {
		b.WriteString("(none)\n")
	}
	for _, intent := range intents {
		b.WriteString(fmt.Sprintf("- id=%s label=%q type=%s status=%s\n",
			intent.Id, intent.Label, intent.Type, intent.Status))
	}
	b.WriteString("</tracked_intents>\n\n")

	b.WriteString("<message>\n")
	b.WriteString(message)
	b.WriteString("\n</message>\n\n")

	b.WriteString("<output_format>\n")
	b.WriteString("Respond with ONLY valid JSON:\n")
	b.WriteString("{\n")
	b.WriteString("  \"action\": \"create|update|resolve|suspend|switch|ignore\",\n")
	b.WriteString("  \"intent_id\": \"id of the matched tracked intent, or empty\",\n")
	b.WriteString("  \"label\": \"short label if action is create\",\n")
	b.WriteString("  \"type\": \"task|goal|exploration|companion\",\n")
	b.WriteString("  \"confidence\": 0.0\n")
	b.WriteString("}\n")
	b.WriteString("Use \"ignore\" when the message says nothing about the user's goals.\n")
	b.WriteString("</output_format>")

	return b.String()
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}

func cleanCapture(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimRight(cleaned, ".,!?;: ")
	return utils.Truncate(cleaned, 100)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
