package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds composite indexes that AutoMigrate does not create from
// model tags. Queries pg_indexes, so this only runs against Postgres.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// List and stats queries always scope by user first
		{"tasks", "idx_tasks_user_status", "user_id, status"},
		{"tasks", "idx_tasks_user_created_at", "user_id, created_at"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
