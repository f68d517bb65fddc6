package service

import (
	"context"

	"ai-context-be/internal/config"
	"ai-context-be/internal/dto"
	"ai-context-be/internal/pkg/logger"
	"ai-context-be/pkg/signal"
	"ai-context-be/pkg/trigger"

	"github.com/google/uuid"
)

type ITrackerService interface {
	// ProcessMessage runs the full per-message pipeline: record, detect,
	// match, lifecycle, trigger. It never returns an error; context tracking
	// must not block the chat reply.
	ProcessMessage(ctx context.Context, userId, sessionId uuid.UUID, role, content string) *dto.ProcessMessageResponse
}

type trackerService struct {
	detector       *signal.Detector
	intentService  IIntentService
	sessionService ISessionService
	trackerCfg     config.TrackerConfig
	logger         logger.ILogger
}

func NewTrackerService(
	detector *signal.Detector,
	intentService IIntentService,
	sessionService ISessionService,
	trackerCfg config.TrackerConfig,
	log logger.ILogger,
) ITrackerService {
	return &trackerService{
		detector:       detector,
		intentService:  intentService,
		sessionService: sessionService,
		trackerCfg:     trackerCfg,
		logger:         log,
	}
}

func (s *trackerService) ProcessMessage(ctx context.Context, userId, sessionId uuid.UUID, role, content string) (res *dto.ProcessMessageResponse) {
	res = &dto.ProcessMessageResponse{}

	// Catch-all: a panic anywhere in the pipeline is logged and swallowed.
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("TrackerService", "Panic in message pipeline", map[string]interface{}{
				"session_id": sessionId.String(),
				"panic":      r,
			})
		}
	}()

	if err := s.sessionService.RecordMessage(ctx, userId, sessionId, role, content); err != nil {
		s.logger.Warn("TrackerService", "Failed to record message", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
	}

	// Only user messages drive detection.
	if role != "user" {
		return res
	}

	briefs, err := s.intentService.TrackedBriefs(ctx, userId)
	if err != nil {
		s.logger.Warn("TrackerService", "Failed to load tracked intents", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
		briefs = nil
	}

	sig := s.detector.Detect(ctx, content, briefs)
	if sig != nil && sig.Confidence >= s.trackerCfg.ProcessMinConfidence {
		s.applySignal(ctx, userId, sessionId, content, sig, briefs, res)
	} else if len(briefs) > 0 {
		if change := s.detector.DetectApproachChange(content); change != nil {
			s.touch(ctx, userId, briefs[0].Id, TouchInput{
				SessionId:   sessionId,
				Excerpt:     content,
				TriggerType: signal.TriggerImplicit,
				Approach:    change.Approach,
			}, res)
		} else if mention := trigger.DetectIntentMention(content, briefs); mention != nil {
			// A plain mention of a tracked topic keeps the intent warm without
			// counting as a lifecycle signal.
			s.touch(ctx, userId, mention.Id, TouchInput{
				SessionId:   sessionId,
				Excerpt:     content,
				TriggerType: signal.TriggerImplicit,
			}, res)
		}
	}

	trig := trigger.Detect(content)
	res.ShouldLoad = trig.ShouldLoad
	res.Confidence = trig.Confidence
	res.Query = trig.Query

	return res
}

// applySignal dispatches a detected signal to the lifecycle manager. Lifecycle
// errors are logged and swallowed.
func (s *trackerService) applySignal(ctx context.Context, userId, sessionId uuid.UUID, content string, sig *signal.IntentSignal, briefs []signal.IntentBrief, res *dto.ProcessMessageResponse) {
	res.SignalDetected = true
	res.Action = sig.Action

	switch sig.Action {
	case signal.ActionCreate:
		// A create signal whose label matches an existing intent is a
		// continuation, not a duplicate.
		if matched := signal.MatchIntent(sig.Label, briefs); matched != nil {
			s.touch(ctx, userId, matched.Id, TouchInput{
				SessionId:   sessionId,
				Excerpt:     content,
				TriggerType: sig.TriggerType,
				Blocker:     sig.Blocker,
				Approach:    sig.Approach,
			}, res)
			return
		}
		s.create(ctx, userId, sessionId, sig, res)

	case signal.ActionUpdate:
		if sig.MatchedIntentId == nil {
			return
		}
		s.touch(ctx, userId, *sig.MatchedIntentId, TouchInput{
			SessionId:   sessionId,
			Excerpt:     content,
			TriggerType: sig.TriggerType,
			Blocker:     sig.Blocker,
			Approach:    sig.Approach,
		}, res)

	case signal.ActionResolve:
		target := s.resolveTarget(sig, briefs)
		if target == nil {
			return
		}
		intent, err := s.intentService.Resolve(ctx, userId, *target, sessionId, "completed")
		if err != nil {
			s.logger.Warn("TrackerService", "Resolve failed", map[string]interface{}{
				"intent_id": target.String(),
				"error":     err.Error(),
			})
			return
		}
		if intent != nil {
			res.IntentId = &intent.Id
			res.IntentLabel = intent.Label
		}

	case signal.ActionSuspend:
		target := s.resolveTarget(sig, briefs)
		if target == nil {
			return
		}
		intent, err := s.intentService.Suspend(ctx, userId, *target, sessionId)
		if err != nil {
			s.logger.Warn("TrackerService", "Suspend failed", map[string]interface{}{
				"intent_id": target.String(),
				"error":     err.Error(),
			})
			return
		}
		if intent != nil {
			res.IntentId = &intent.Id
			res.IntentLabel = intent.Label
		}

	case signal.ActionSwitch:
		// Switching back to a known intent reactivates it via touch; a switch
		// to an unrecognized topic starts a fresh intent.
		if sig.MatchedIntentId != nil {
			s.touch(ctx, userId, *sig.MatchedIntentId, TouchInput{
				SessionId:   sessionId,
				Excerpt:     content,
				TriggerType: sig.TriggerType,
			}, res)
			return
		}
		if sig.Label != "" {
			s.create(ctx, userId, sessionId, sig, res)
		}
	}
}

func (s *trackerService) create(ctx context.Context, userId, sessionId uuid.UUID, sig *signal.IntentSignal, res *dto.ProcessMessageResponse) {
	intent, err := s.intentService.Create(ctx, userId, sessionId, sig)
	if err != nil {
		s.logger.Warn("TrackerService", "Intent creation failed", map[string]interface{}{
			"label": sig.Label,
			"error": err.Error(),
		})
		return
	}
	res.IntentId = &intent.Id
	res.IntentLabel = intent.Label
}

func (s *trackerService) touch(ctx context.Context, userId, intentId uuid.UUID, input TouchInput, res *dto.ProcessMessageResponse) {
	intent, err := s.intentService.Touch(ctx, userId, intentId, input)
	if err != nil {
		s.logger.Warn("TrackerService", "Intent touch failed", map[string]interface{}{
			"intent_id": intentId.String(),
			"error":     err.Error(),
		})
		return
	}
	if intent != nil {
		res.IntentId = &intent.Id
		res.IntentLabel = intent.Label
	}
}

// resolveTarget picks the intent a resolve/suspend signal applies to: the
// matched intent when the detector found one, else the top tracked intent.
func (s *trackerService) resolveTarget(sig *signal.IntentSignal, briefs []signal.IntentBrief) *uuid.UUID {
	if sig.MatchedIntentId != nil {
		return sig.MatchedIntentId
	}
	if len(briefs) > 0 {
		return &briefs[0].Id
	}
	return nil
}
