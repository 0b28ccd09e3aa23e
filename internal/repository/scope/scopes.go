package scope

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func orderBy(column string, desc bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc})
	}
}

var (
	// Chronological orders transcripts and attachments as they happened.
	Chronological = orderBy("created_at", false)
	NewestFirst   = orderBy("created_at", true)
	// RecentlyUpdated is the conversation list order.
	RecentlyUpdated = orderBy("updated_at", true)
)

// OnlyDeleted returns soft-deleted rows and nothing else. Sync uses it to report deletions.
func OnlyDeleted(db *gorm.DB) *gorm.DB {
	return db.Unscoped().Where("deleted_at IS NOT NULL")
}
