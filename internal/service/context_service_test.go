package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"ai-context-be/internal/dto"
	"ai-context-be/internal/entity"

	"github.com/google/uuid"
)

func newContextService(env *testEnv) IContextService {
	return NewContextService(env.contextStore, &fakeFactory{uow: env.uow}, nopLogger{})
}

func storedSessionSummary(t *testing.T, env *testEnv, userId uuid.UUID) *entity.SessionSummary {
	t.Helper()
	now := time.Now()
	sum := &entity.SessionSummary{
		SessionId:     uuid.New(),
		UserId:        userId,
		Title:         "Fixing the login bug",
		OneLine:       "Chased a login regression down to token refresh",
		Topics:        []string{"login", "authentication"},
		Keywords:      []string{"login", "token"},
		FullSummary:   "The user traced a login failure to broken token refresh.",
		Decisions:     []string{"roll back friday's deploy"},
		OpenQuestions: []string{"why did staging not catch it"},
		ActionItems:   []string{},
		Artifacts:     []string{},
		MessageCount:  9,
		StartedAt:     now.Add(-time.Hour),
		EndedAt:       now,
		GeneratedAt:   now,
	}
	if err := env.contextStore.StoreSessionSummary(context.Background(), sum); err != nil {
		t.Fatal(err)
	}
	return sum
}

func storedIntentSummary(t *testing.T, env *testEnv, userId uuid.UUID) *entity.IntentContextSummary {
	t.Helper()
	sum := &entity.IntentContextSummary{
		IntentId:        uuid.New(),
		UserId:          userId,
		Label:           "migrate the billing database",
		Type:            entity.IntentTypeTask,
		Status:          entity.IntentStatusActive,
		Priority:        entity.PriorityHigh,
		ContextSummary:  "Migration is mid-flight, replication configured.",
		Decisions:       []string{},
		ApproachesTried: []string{"pg_dump and restore"},
		CurrentApproach: "logical replication",
		Blockers:        []string{"replication lag"},
		RelatedSessions: []entity.RelatedSession{},
		TouchCount:      5,
		GeneratedAt:     time.Now(),
	}
	if err := env.contextStore.StoreIntentSummary(context.Background(), sum); err != nil {
		t.Fatal(err)
	}
	return sum
}

func TestLoadContextFallbackEmptyUser(t *testing.T) {
	env := newTestEnv()
	svc := newContextService(env)

	res := svc.LoadContext(context.Background(), uuid.New(), &dto.LoadContextRequest{})
	if !res.Success {
		t.Errorf("empty fallback must still succeed: %+v", res)
	}
	if res.Sessions == nil || res.Intents == nil {
		t.Error("sessions/intents must be empty slices, not nil")
	}
	if len(res.Sessions) != 0 || len(res.Intents) != 0 {
		t.Errorf("unexpected data for empty user: %+v", res)
	}
}

func TestLoadContextByIntentId(t *testing.T) {
	env := newTestEnv()
	svc := newContextService(env)
	userId := uuid.New()
	sum := storedIntentSummary(t, env, userId)

	res := svc.LoadContext(context.Background(), userId, &dto.LoadContextRequest{
		IntentId: sum.IntentId.String(),
		Depth:    dto.DepthDetailed,
	})
	if !res.Success || len(res.Intents) != 1 {
		t.Fatalf("res = %+v", res)
	}
	view := res.Intents[0]
	if view.Label != sum.Label || view.CurrentApproach != "logical replication" || view.TouchCount != 5 {
		t.Errorf("detailed view = %+v", view)
	}
}

func TestLoadContextByIntentIdNotFound(t *testing.T) {
	env := newTestEnv()
	svc := newContextService(env)

	res := svc.LoadContext(context.Background(), uuid.New(), &dto.LoadContextRequest{
		IntentId: uuid.New().String(),
	})
	if res.Success {
		t.Fatalf("unknown intent must fail structurally: %+v", res)
	}
	if !strings.Contains(res.Error, "Could not find") {
		t.Errorf("Error = %q", res.Error)
	}
}

func TestLoadContextInvalidIntentId(t *testing.T) {
	env := newTestEnv()
	svc := newContextService(env)

	res := svc.LoadContext(context.Background(), uuid.New(), &dto.LoadContextRequest{
		IntentId: "not-a-uuid",
	})
	if res.Success || res.Error == "" {
		t.Errorf("res = %+v", res)
	}
}

func TestLoadContextBySessionIdDepthProjection(t *testing.T) {
	env := newTestEnv()
	svc := newContextService(env)
	userId := uuid.New()
	sum := storedSessionSummary(t, env, userId)

	brief := svc.LoadContext(context.Background(), userId, &dto.LoadContextRequest{
		SessionId: sum.SessionId.String(),
		Depth:     dto.DepthBrief,
	})
	if !brief.Success || len(brief.Sessions) != 1 {
		t.Fatalf("brief res = %+v", brief)
	}
	if brief.Sessions[0].FullSummary != "" || brief.Sessions[0].OpenQuestions != nil {
		t.Errorf("brief depth leaked narrative fields: %+v", brief.Sessions[0])
	}

	mid := svc.LoadContext(context.Background(), userId, &dto.LoadContextRequest{
		SessionId: sum.SessionId.String(),
	})
	if mid.Sessions[0].FullSummary == "" || len(mid.Sessions[0].Decisions) != 1 {
		t.Errorf("default (summary) depth missing narrative: %+v", mid.Sessions[0])
	}
	if mid.Sessions[0].OpenQuestions != nil {
		t.Errorf("summary depth leaked detailed fields: %+v", mid.Sessions[0])
	}

	detailed := svc.LoadContext(context.Background(), userId, &dto.LoadContextRequest{
		SessionId: sum.SessionId.String(),
		Depth:     dto.DepthDetailed,
	})
	view := detailed.Sessions[0]
	if len(view.OpenQuestions) != 1 || view.MessageCount != 9 {
		t.Errorf("detailed depth incomplete: %+v", view)
	}
}

func TestLoadContextByQuery(t *testing.T) {
	env := newTestEnv()
	svc := newContextService(env)
	userId := uuid.New()
	sum := storedSessionSummary(t, env, userId)

	res := svc.LoadContext(context.Background(), userId, &dto.LoadContextRequest{
		Query: "login token",
	})
	if !res.Success || len(res.SearchResults) == 0 {
		t.Fatalf("res = %+v", res)
	}
	if res.SearchResults[0].Id != sum.SessionId {
		t.Errorf("first hit = %+v", res.SearchResults[0])
	}
	// Non-detailed query results stay references only.
	if len(res.Sessions) != 0 {
		t.Errorf("summary depth must not hydrate, got %d sessions", len(res.Sessions))
	}

	detailed := svc.LoadContext(context.Background(), userId, &dto.LoadContextRequest{
		Query: "login token",
		Depth: dto.DepthDetailed,
	})
	if len(detailed.Sessions) != 1 {
		t.Errorf("detailed query must hydrate summaries, got %+v", detailed)
	}
}

func TestCorrectSummaryUnknownTarget(t *testing.T) {
	env := newTestEnv()
	svc := newContextService(env)

	res := svc.CorrectSummary(context.Background(), uuid.New(), &dto.CorrectSummaryRequest{
		Type:       entity.SummaryTypeSession,
		Id:         uuid.New().String(),
		Field:      "decision",
		Correction: "we chose postgres",
	})
	if res.Success {
		t.Fatalf("unknown summary must fail structurally: %+v", res)
	}
	if !strings.Contains(res.Message, "Could not find") {
		t.Errorf("Message = %q", res.Message)
	}
}

func TestCorrectIntentApproach(t *testing.T) {
	env := newTestEnv()
	svc := newContextService(env)
	userId := uuid.New()
	sum := storedIntentSummary(t, env, userId)

	res := svc.CorrectSummary(context.Background(), userId, &dto.CorrectSummaryRequest{
		Type:       entity.SummaryTypeIntent,
		Id:         sum.IntentId.String(),
		Field:      "approach",
		Correction: "blue-green cutover",
	})
	if !res.Success {
		t.Fatalf("res = %+v", res)
	}
	if res.PreviousValue != "logical replication" || res.NewValue != "blue-green cutover" {
		t.Errorf("previous/new = %q / %q", res.PreviousValue, res.NewValue)
	}

	reloaded, err := env.contextStore.LoadIntentSummary(context.Background(), userId, sum.IntentId)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.CurrentApproach != "blue-green cutover" {
		t.Errorf("CurrentApproach = %q", reloaded.CurrentApproach)
	}
	if len(reloaded.ApproachesTried) != 2 {
		t.Errorf("ApproachesTried = %v", reloaded.ApproachesTried)
	}
	if len(env.uow.corrections.corrections) != 1 {
		t.Fatalf("audit rows = %d, want 1", len(env.uow.corrections.corrections))
	}
	audit := env.uow.corrections.corrections[0]
	if audit.Field != "approach" || audit.NewValue != "blue-green cutover" {
		t.Errorf("audit = %+v", audit)
	}
}

func TestCorrectSessionSummaryReplace(t *testing.T) {
	env := newTestEnv()
	svc := newContextService(env)
	userId := uuid.New()
	sum := storedSessionSummary(t, env, userId)

	res := svc.CorrectSummary(context.Background(), userId, &dto.CorrectSummaryRequest{
		Type:       entity.SummaryTypeSession,
		Id:         sum.SessionId.String(),
		Field:      "summary",
		Correction: "We actually fixed the token refresh, not the login form.",
	})
	if !res.Success {
		t.Fatalf("res = %+v", res)
	}
	if res.PreviousValue != sum.FullSummary {
		t.Errorf("PreviousValue = %q", res.PreviousValue)
	}

	reloaded, err := env.contextStore.LoadSessionSummary(context.Background(), userId, sum.SessionId)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.FullSummary != "We actually fixed the token refresh, not the login form." {
		t.Errorf("FullSummary = %q", reloaded.FullSummary)
	}
}

func TestBreadcrumbs(t *testing.T) {
	env := newTestEnv()
	svc := newContextService(env)
	userId := uuid.New()

	if got := svc.Breadcrumbs(context.Background(), userId); got != "" {
		t.Errorf("empty user breadcrumbs = %q, want empty", got)
	}

	env.uow.intents.intents = append(env.uow.intents.intents, &entity.Intent{
		Id:            uuid.New(),
		UserId:        userId,
		Type:          entity.IntentTypeTask,
		Label:         "migrate the billing database",
		Status:        entity.IntentStatusActive,
		Priority:      entity.PriorityHigh,
		Blockers:      []string{"replication lag"},
		LastTouchedAt: time.Now(),
	})
	env.contextStore.InvalidateActiveIntents(userId)
	storedSessionSummary(t, env, userId)

	crumbs := svc.Breadcrumbs(context.Background(), userId)
	if !strings.HasPrefix(crumbs, "[Context Breadcrumbs]") || !strings.HasSuffix(crumbs, "[End Breadcrumbs]") {
		t.Errorf("breadcrumbs not framed: %q", crumbs)
	}
	for _, want := range []string{"migrate the billing database", "replication lag", "Fixing the login bug"} {
		if !strings.Contains(crumbs, want) {
			t.Errorf("breadcrumbs missing %q:\n%s", want, crumbs)
		}
	}
}
