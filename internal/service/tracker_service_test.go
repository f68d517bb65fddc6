package service

import (
	"context"
	"testing"
	"time"

	"ai-context-be/internal/config"
	"ai-context-be/internal/entity"
	"ai-context-be/pkg/signal"

	"github.com/google/uuid"
)

type fakePublisher struct {
	published [][]byte
}

func (p *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	p.published = append(p.published, payload)
	return nil
}

func newTracker(env *testEnv) (ITrackerService, IIntentService) {
	detector := signal.NewDetector(nil, nopLogger{}, signal.DefaultThresholds())
	intentSvc := newIntentService(env)
	sessionSvc := NewSessionService(&fakeFactory{uow: env.uow}, env.contextStore, env.generator, &fakePublisher{}, nil, nopLogger{})
	cfg := config.TrackerConfig{ProcessMinConfidence: 0.6}
	return NewTrackerService(detector, intentSvc, sessionSvc, cfg, nopLogger{}), intentSvc
}

func seedActiveIntent(env *testEnv, userId uuid.UUID, label string) *entity.Intent {
	intent := &entity.Intent{
		Id:            uuid.New(),
		UserId:        userId,
		Type:          entity.IntentTypeTask,
		Label:         label,
		Goal:          label,
		Status:        entity.IntentStatusActive,
		Priority:      entity.PriorityMedium,
		Blockers:      []string{},
		LastTouchedAt: time.Now(),
	}
	env.uow.intents.intents = append(env.uow.intents.intents, intent)
	env.contextStore.InvalidateActiveIntents(userId)
	return intent
}

func seedSuspendedIntent(env *testEnv, userId uuid.UUID, label string) *entity.Intent {
	intent := seedActiveIntent(env, userId, label)
	intent.Status = entity.IntentStatusSuspended
	env.contextStore.InvalidateActiveIntents(userId)
	return intent
}

func TestProcessMessageCreatesIntent(t *testing.T) {
	env := newTestEnv()
	tracker, _ := newTracker(env)
	userId := uuid.New()
	sessionId := uuid.New()

	res := tracker.ProcessMessage(context.Background(), userId, sessionId, "user", "I need to fix the login bug")
	if !res.SignalDetected || res.Action != signal.ActionCreate {
		t.Fatalf("res = %+v", res)
	}
	if res.IntentId == nil || res.IntentLabel != "fix the login bug" {
		t.Errorf("intent not surfaced: %+v", res)
	}

	if len(env.uow.intents.intents) != 1 {
		t.Fatalf("intent not persisted: %+v", env.uow.intents.intents)
	}
	stored := env.uow.intents.intents[0]
	if stored.Status != entity.IntentStatusActive || stored.Type != entity.IntentTypeTask {
		t.Errorf("stored intent = %+v", stored)
	}

	// The message itself is recorded against the session log.
	if len(env.uow.sessions.logs) != 1 || env.uow.sessions.logs[0].Title != "I need to fix the login bug" {
		t.Errorf("session log = %+v", env.uow.sessions.logs)
	}
}

func TestProcessMessageIgnoresSmallTalk(t *testing.T) {
	env := newTestEnv()
	tracker, _ := newTracker(env)

	res := tracker.ProcessMessage(context.Background(), uuid.New(), uuid.New(), "user", "ok")
	if res.SignalDetected || res.ShouldLoad {
		t.Errorf("res = %+v", res)
	}
	if len(env.uow.intents.intents) != 0 {
		t.Errorf("small talk created an intent: %+v", env.uow.intents.intents)
	}
}

func TestProcessMessageSkipsAssistantMessages(t *testing.T) {
	env := newTestEnv()
	tracker, _ := newTracker(env)

	res := tracker.ProcessMessage(context.Background(), uuid.New(), uuid.New(), "assistant", "I need to restart the server first")
	if res.SignalDetected {
		t.Errorf("assistant message classified: %+v", res)
	}
	// Still recorded in the transcript.
	if len(env.uow.messages.messages) != 1 {
		t.Errorf("message not recorded: %+v", env.uow.messages.messages)
	}
}

func TestProcessMessageContinuationTouchesExisting(t *testing.T) {
	env := newTestEnv()
	tracker, _ := newTracker(env)
	userId := uuid.New()
	seeded := seedActiveIntent(env, userId, "fix the login bug")

	res := tracker.ProcessMessage(context.Background(), userId, uuid.New(), "user", "back to the login bug")
	if !res.SignalDetected || res.Action != signal.ActionUpdate {
		t.Fatalf("res = %+v", res)
	}
	if res.IntentId == nil || *res.IntentId != seeded.Id {
		t.Errorf("continuation matched %v, want %s", res.IntentId, seeded.Id)
	}
	if len(env.uow.intents.intents) != 1 {
		t.Errorf("continuation must not create a new intent: %+v", env.uow.intents.intents)
	}
	if env.uow.intents.intents[0].TouchCount != 1 {
		t.Errorf("TouchCount = %d, want 1", env.uow.intents.intents[0].TouchCount)
	}
}

func TestProcessMessageContinuationReactivatesSuspended(t *testing.T) {
	env := newTestEnv()
	tracker, _ := newTracker(env)
	userId := uuid.New()
	seeded := seedSuspendedIntent(env, userId, "fix the login bug")

	res := tracker.ProcessMessage(context.Background(), userId, uuid.New(), "user", "back to the login bug")
	if !res.SignalDetected || res.Action != signal.ActionUpdate {
		t.Fatalf("res = %+v", res)
	}
	if res.IntentId == nil || *res.IntentId != seeded.Id {
		t.Errorf("continuation matched %v, want %s", res.IntentId, seeded.Id)
	}
	if len(env.uow.intents.intents) != 1 {
		t.Fatalf("suspended topic duplicated: %+v", env.uow.intents.intents)
	}
	if env.uow.intents.intents[0].Status != entity.IntentStatusActive {
		t.Errorf("status = %q, want active", env.uow.intents.intents[0].Status)
	}
}

func TestProcessMessagePlainMentionTouchesIntent(t *testing.T) {
	env := newTestEnv()
	tracker, _ := newTracker(env)
	userId := uuid.New()
	seeded := seedActiveIntent(env, userId, "migrate the billing database")

	res := tracker.ProcessMessage(context.Background(), userId, uuid.New(), "user", "the billing database migration is riskier than expected")
	if res.SignalDetected {
		t.Errorf("plain mention misread as a lifecycle signal: %+v", res)
	}
	if res.IntentId == nil || *res.IntentId != seeded.Id {
		t.Errorf("mention did not touch the intent: %+v", res)
	}
	if env.uow.intents.intents[0].TouchCount != 1 {
		t.Errorf("TouchCount = %d, want 1", env.uow.intents.intents[0].TouchCount)
	}
}

func TestProcessMessageDuplicateCreateBecomesTouch(t *testing.T) {
	env := newTestEnv()
	tracker, _ := newTracker(env)
	userId := uuid.New()
	seeded := seedActiveIntent(env, userId, "fix the login bug")

	res := tracker.ProcessMessage(context.Background(), userId, uuid.New(), "user", "I need to fix the login bug")
	if res.IntentId == nil || *res.IntentId != seeded.Id {
		t.Errorf("duplicate create matched %v, want %s", res.IntentId, seeded.Id)
	}
	if len(env.uow.intents.intents) != 1 {
		t.Errorf("duplicate intent created: %+v", env.uow.intents.intents)
	}
}

func TestProcessMessageResolvesMatchedIntent(t *testing.T) {
	env := newTestEnv()
	tracker, _ := newTracker(env)
	userId := uuid.New()
	seeded := seedActiveIntent(env, userId, "fix the login bug")

	res := tracker.ProcessMessage(context.Background(), userId, uuid.New(), "user", "we finally fixed the login bug")
	if !res.SignalDetected || res.Action != signal.ActionResolve {
		t.Fatalf("res = %+v", res)
	}
	stored := env.uow.intents.intents[0]
	if stored.Id != seeded.Id || stored.Status != entity.IntentStatusResolved {
		t.Errorf("intent status = %q, want resolved", stored.Status)
	}
}

func TestProcessMessageSuspendTargetsTopIntent(t *testing.T) {
	env := newTestEnv()
	tracker, _ := newTracker(env)
	userId := uuid.New()
	seedActiveIntent(env, userId, "fix the login bug")

	res := tracker.ProcessMessage(context.Background(), userId, uuid.New(), "user", "let's switch to something else")
	if !res.SignalDetected || res.Action != signal.ActionSuspend {
		t.Fatalf("res = %+v", res)
	}
	if env.uow.intents.intents[0].Status != entity.IntentStatusSuspended {
		t.Errorf("intent status = %q, want suspended", env.uow.intents.intents[0].Status)
	}
}

func TestProcessMessageApproachChange(t *testing.T) {
	env := newTestEnv()
	tracker, _ := newTracker(env)
	userId := uuid.New()
	seedActiveIntent(env, userId, "speed up the dashboard")

	res := tracker.ProcessMessage(context.Background(), userId, uuid.New(), "user", "let's try adding a covering index")
	if res.SignalDetected {
		t.Errorf("approach change is not a generic signal: %+v", res)
	}
	stored := env.uow.intents.intents[0]
	if stored.CurrentApproach == nil || *stored.CurrentApproach != "adding a covering index" {
		t.Errorf("CurrentApproach = %v", stored.CurrentApproach)
	}
}

func TestProcessMessageLoadTrigger(t *testing.T) {
	env := newTestEnv()
	tracker, _ := newTracker(env)

	res := tracker.ProcessMessage(context.Background(), uuid.New(), uuid.New(), "user", "what did we decide about the database schema?")
	if !res.ShouldLoad {
		t.Fatalf("res = %+v", res)
	}
	if res.Query == "" || res.Confidence == "" {
		t.Errorf("trigger fields empty: %+v", res)
	}
	if res.SignalDetected {
		t.Errorf("retrieval question misread as a lifecycle signal: %+v", res)
	}
}
