package database

import (
	"fmt"

	"gorm.io/gorm"
)

// RunMigrations executes all database migrations
func RunMigrations(db *gorm.DB) error {
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// createIndexes creates database indexes
func createIndexes(db *gorm.DB) error {
	// Import history per collection
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_import_logs_collection
		ON import_logs(collection, import_time)
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_import_logs_time
		ON import_logs(import_time)
	`).Error; err != nil {
		return err
	}

	return nil
}
