package database

import (
	"gorm.io/gorm"
)

// Paginate applies 1-indexed page/per_page pagination to a GORM query
func Paginate(page, perPage int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * perPage).Limit(perPage)
	}
}
