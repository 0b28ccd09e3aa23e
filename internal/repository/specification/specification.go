package specification

import "gorm.io/gorm"

// Specification narrows a query. Repositories apply them in order.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

// All applies every spec in order.
type All []Specification

func (a All) Apply(db *gorm.DB) *gorm.DB {
	for _, spec := range a {
		db = spec.Apply(db)
	}
	return db
}
