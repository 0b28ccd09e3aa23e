package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByConversationID struct {
	ConversationID uuid.UUID
}

func (s ByConversationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationID)
}

type ByConversationIDs struct {
	ConversationIDs []uuid.UUID
}

func (s ByConversationIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id IN ?", s.ConversationIDs)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// CreatedAtOrAfter matches rows created at or after the pivot.
type CreatedAtOrAfter struct {
	Time time.Time
}

func (s CreatedAtOrAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at >= ?", s.Time)
}

type CreatedAfter struct {
	Time time.Time
}

func (s CreatedAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at > ?", s.Time)
}

// CreatedOrReadAfter matches notifications that are new or were read after the pivot.
type CreatedOrReadAfter struct {
	Time time.Time
}

func (s CreatedOrReadAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("(created_at > ? OR read_at > ?)", s.Time, s.Time)
}

type UpdatedAfter struct {
	Time time.Time
}

func (s UpdatedAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("updated_at > ?", s.Time)
}

// DeletedAfter only works on an Unscoped query.
type DeletedAfter struct {
	Time *time.Time
}

func (s DeletedAfter) Apply(db *gorm.DB) *gorm.DB {
	if s.Time == nil {
		return db.Where("deleted_at IS NOT NULL")
	}
	return db.Where("deleted_at > ?", *s.Time)
}

type Unread struct{}

func (s Unread) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("read = ?", false)
}

type ByCaseID struct {
	CaseID string
}

func (s ByCaseID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("case_id = ?", s.CaseID)
}

type ByLawyerID struct {
	LawyerID int
}

func (s ByLawyerID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("lawyer_id = ?", s.LawyerID)
}

// AwaitingHandoff matches pending connections that never got a case id.
type AwaitingHandoff struct{}

func (s AwaitingHandoff) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ? AND (case_id IS NULL OR case_id = '')", "pending")
}

type ReadBefore struct {
	Time time.Time
}

func (s ReadBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("read = ? AND read_at < ?", true, s.Time)
}
