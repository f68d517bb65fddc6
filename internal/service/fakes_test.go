package service

import (
	"context"
	"sort"
	"time"

	"ai-context-be/internal/entity"
	"ai-context-be/internal/repository/contract"
	"ai-context-be/internal/repository/specification"
	"ai-context-be/internal/repository/unitofwork"
	"ai-context-be/internal/store"
	"ai-context-be/pkg/summary"

	"github.com/google/uuid"
)

// In-memory fakes shared by the service tests: a FastStore over maps and a
// unit of work whose repositories interpret the specifications the services
// actually use.

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeFastStore struct {
	values map[string]string
	lists  map[string][]string
	hashes map[string]map[string]string
}

func newFakeFastStore() *fakeFastStore {
	return &fakeFastStore{
		values: make(map[string]string),
		lists:  make(map[string][]string),
		hashes: make(map[string]map[string]string),
	}
}

var _ store.FastStore = &fakeFastStore{}

func (f *fakeFastStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, ok := f.values[key]
	return val, ok, nil
}

func (f *fakeFastStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.values[key] = value
	return nil
}

func (f *fakeFastStore) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
		delete(f.lists, key)
		delete(f.hashes, key)
	}
	return nil
}

func (f *fakeFastStore) PushCapped(ctx context.Context, key, value string, cap int64, ttl time.Duration) error {
	list := append([]string{value}, f.lists[key]...)
	if int64(len(list)) > cap {
		list = list[:cap]
	}
	f.lists[key] = list
	return nil
}

func (f *fakeFastStore) Range(ctx context.Context, key string, start, stop int64) ([]string, error) {
	list := f.lists[key]
	if start >= int64(len(list)) {
		return nil, nil
	}
	if stop < 0 || stop >= int64(len(list)) {
		stop = int64(len(list)) - 1
	}
	return list[start : stop+1], nil
}

func (f *fakeFastStore) HGet(ctx context.Context, key, field string) (string, bool, error) {
	val, ok := f.hashes[key][field]
	return val, ok, nil
}

func (f *fakeFastStore) HSet(ctx context.Context, key, field, value string) error {
	if f.hashes[key] == nil {
		f.hashes[key] = make(map[string]string)
	}
	f.hashes[key][field] = value
	return nil
}

func (f *fakeFastStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return nil
}

// --- repositories ---

type fakeIntentRepo struct {
	intents []*entity.Intent
}

func matchIntent(in *entity.Intent, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if in.Id != sp.ID {
				return false
			}
		case specification.ByIDs:
			found := false
			for _, id := range sp.IDs {
				if in.Id == id {
					found = true
				}
			}
			if !found {
				return false
			}
		case specification.UserOwnedBy:
			if in.UserId != sp.UserID {
				return false
			}
		case specification.ByStatus:
			if in.Status != sp.Status {
				return false
			}
		case specification.ByStatuses:
			found := false
			for _, status := range sp.Statuses {
				if in.Status == status {
					found = true
				}
			}
			if !found {
				return false
			}
		case specification.ResolvedBefore:
			if in.Status != entity.IntentStatusResolved || in.ResolvedAt == nil || !in.ResolvedAt.Before(sp.Cutoff) {
				return false
			}
		}
	}
	return true
}

func (r *fakeIntentRepo) Create(ctx context.Context, intent *entity.Intent) error {
	r.intents = append(r.intents, intent)
	return nil
}

func (r *fakeIntentRepo) Update(ctx context.Context, intent *entity.Intent) error {
	for i, existing := range r.intents {
		if existing.Id == intent.Id {
			r.intents[i] = intent
		}
	}
	return nil
}

func (r *fakeIntentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	kept := r.intents[:0]
	for _, in := range r.intents {
		if in.Id != id {
			kept = append(kept, in)
		}
	}
	r.intents = kept
	return nil
}

func (r *fakeIntentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Intent, error) {
	for _, in := range r.intents {
		if matchIntent(in, specs) {
			return in, nil
		}
	}
	return nil, nil
}

func (r *fakeIntentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Intent, error) {
	var matched []*entity.Intent
	for _, in := range r.intents {
		if matchIntent(in, specs) {
			matched = append(matched, in)
		}
	}
	for _, s := range specs {
		if _, ok := s.(specification.OrderByPriorityThenRecency); ok {
			sort.SliceStable(matched, func(i, j int) bool {
				ri, rj := entity.PriorityRank(matched[i].Priority), entity.PriorityRank(matched[j].Priority)
				if ri != rj {
					return ri > rj
				}
				return matched[i].LastTouchedAt.After(matched[j].LastTouchedAt)
			})
		}
	}
	for _, s := range specs {
		if p, ok := s.(specification.Pagination); ok && p.Limit > 0 && len(matched) > p.Limit {
			matched = matched[:p.Limit]
		}
	}
	return matched, nil
}

func (r *fakeIntentRepo) ListUserIds(ctx context.Context) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, in := range r.intents {
		if !seen[in.UserId] {
			seen[in.UserId] = true
			ids = append(ids, in.UserId)
		}
	}
	return ids, nil
}

func (r *fakeIntentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type fakeTouchRepo struct {
	touches []*entity.IntentTouch
}

func (r *fakeTouchRepo) Create(ctx context.Context, touch *entity.IntentTouch) error {
	r.touches = append(r.touches, touch)
	return nil
}

func (r *fakeTouchRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.IntentTouch, error) {
	var matched []*entity.IntentTouch
	for _, touch := range r.touches {
		ok := true
		for _, s := range specs {
			switch sp := s.(type) {
			case specification.UserOwnedBy:
				if touch.UserId != sp.UserID {
					ok = false
				}
			case specification.ByIntentID:
				if touch.IntentId != sp.IntentID {
					ok = false
				}
			case specification.FilterBy:
				if sp.Field == "session_id" && touch.SessionId != sp.Value {
					ok = false
				}
			}
		}
		if ok {
			matched = append(matched, touch)
		}
	}
	return matched, nil
}

func (r *fakeTouchRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type fakeSessionLogRepo struct {
	logs []*entity.SessionLog
}

func (r *fakeSessionLogRepo) Create(ctx context.Context, session *entity.SessionLog) error {
	r.logs = append(r.logs, session)
	return nil
}

func (r *fakeSessionLogRepo) Update(ctx context.Context, session *entity.SessionLog) error {
	for i, existing := range r.logs {
		if existing.Id == session.Id {
			r.logs[i] = session
		}
	}
	return nil
}

func (r *fakeSessionLogRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SessionLog, error) {
	for _, log := range r.logs {
		ok := true
		for _, s := range specs {
			switch sp := s.(type) {
			case specification.ByID:
				if log.Id != sp.ID {
					ok = false
				}
			case specification.UserOwnedBy:
				if log.UserId != sp.UserID {
					ok = false
				}
			}
		}
		if ok {
			return log, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionLogRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionLog, error) {
	return r.logs, nil
}

type fakeMessageRepo struct {
	messages []*entity.SessionMessage
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.SessionMessage) error {
	r.messages = append(r.messages, message)
	return nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionMessage, error) {
	var matched []*entity.SessionMessage
	for _, msg := range r.messages {
		ok := true
		for _, s := range specs {
			if sp, isSession := s.(specification.BySessionLogID); isSession && msg.SessionLogId != sp.SessionLogID {
				ok = false
			}
		}
		if ok {
			matched = append(matched, msg)
		}
	}
	return matched, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type fakeMetadataRepo struct {
	upserts []*entity.SummaryMetadata
}

func (r *fakeMetadataRepo) Upsert(ctx context.Context, meta *entity.SummaryMetadata) error {
	r.upserts = append(r.upserts, meta)
	return nil
}

func (r *fakeMetadataRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SummaryMetadata, error) {
	return nil, nil
}

func (r *fakeMetadataRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SummaryMetadata, error) {
	return nil, nil
}

func (r *fakeMetadataRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

type fakeCorrectionRepo struct {
	corrections []*entity.Correction
}

func (r *fakeCorrectionRepo) Create(ctx context.Context, correction *entity.Correction) error {
	r.corrections = append(r.corrections, correction)
	return nil
}

func (r *fakeCorrectionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Correction, error) {
	return r.corrections, nil
}

// --- unit of work ---

type fakeUnitOfWork struct {
	intents     *fakeIntentRepo
	touches     *fakeTouchRepo
	sessions    *fakeSessionLogRepo
	messages    *fakeMessageRepo
	metadata    *fakeMetadataRepo
	corrections *fakeCorrectionRepo
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		intents:     &fakeIntentRepo{},
		touches:     &fakeTouchRepo{},
		sessions:    &fakeSessionLogRepo{},
		messages:    &fakeMessageRepo{},
		metadata:    &fakeMetadataRepo{},
		corrections: &fakeCorrectionRepo{},
	}
}

var _ unitofwork.UnitOfWork = &fakeUnitOfWork{}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) IntentRepository() contract.IntentRepository           { return u.intents }
func (u *fakeUnitOfWork) IntentTouchRepository() contract.IntentTouchRepository { return u.touches }
func (u *fakeUnitOfWork) SessionLogRepository() contract.SessionLogRepository   { return u.sessions }
func (u *fakeUnitOfWork) SessionMessageRepository() contract.SessionMessageRepository {
	return u.messages
}
func (u *fakeUnitOfWork) SummaryMetadataRepository() contract.SummaryMetadataRepository {
	return u.metadata
}
func (u *fakeUnitOfWork) CorrectionRepository() contract.CorrectionRepository {
	return u.corrections
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

// testEnv wires the store and generator over the fakes, LLM-free and NATS-free.
type testEnv struct {
	uow          *fakeUnitOfWork
	fast         *fakeFastStore
	contextStore *store.ContextStore
	generator    *summary.Generator
}

func newTestEnv() *testEnv {
	uow := newFakeUnitOfWork()
	fast := newFakeFastStore()
	factory := &fakeFactory{uow: uow}
	index := store.NewSearchIndex(fast, nopLogger{})
	return &testEnv{
		uow:          uow,
		fast:         fast,
		contextStore: store.NewContextStore(fast, factory, index, nopLogger{}),
		generator:    summary.NewGenerator(nil, nopLogger{}),
	}
}
