package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByStatus filters intents by a single lifecycle status
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// ByStatuses filters intents by a set of lifecycle statuses
type ByStatuses struct {
	Statuses []string
}

func (s ByStatuses) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status IN ?", s.Statuses)
}

// OrderByPriorityThenRecency orders active-intent listings: priority desc,
// then last touch desc. The priority CASE keeps the ordering in SQL so the
// durable read path needs no in-memory sort.
type OrderByPriorityThenRecency struct{}

func (s OrderByPriorityThenRecency) Apply(db *gorm.DB) *gorm.DB {
	return db.
		Order("CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 WHEN 'low' THEN 1 ELSE 0 END DESC").
		Order("last_touched_at DESC")
}

// ResolvedBefore filters resolved intents whose resolution is older than a cutoff.
// Used by the maintenance job to apply the decayed retention tier.
type ResolvedBefore struct {
	Cutoff time.Time
}

func (s ResolvedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ? AND resolved_at < ?", "resolved", s.Cutoff)
}

// ByIntentID filters touch rows by intent
type ByIntentID struct {
	IntentID uuid.UUID
}

func (s ByIntentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("intent_id = ?", s.IntentID)
}
