package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// AddIndexes adds query-path indexes that AutoMigrate does not create.
// It relies on pg_indexes and is only run against Postgres.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Owner-scoped listings filter on user_id and sort on created_at
		{"todos", "idx_todos_user_id", "user_id"},
		{"todos", "idx_todos_created_at", "created_at"},
		{"categories", "idx_categories_user_id", "user_id"},

		// Category deletion cascades via category_id on the link table
		{"todo_categories", "idx_todo_categories_category_id", "category_id"},
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

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
