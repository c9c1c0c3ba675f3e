package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Backend stores items in the storage_entries table
type Backend struct {
	db *gorm.DB
}

// NewBackend wraps an initialized database
func NewBackend(db *gorm.DB) *Backend {
	return &Backend{db: db}
}

// GetItem returns the value stored under key
func (b *Backend) GetItem(key string) (string, bool, error) {
	var entry StorageEntry
	err := b.db.Where("item_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return entry.Value, true, nil
}

// SetItem replaces the value stored under key
func (b *Backend) SetItem(key, value string) error {
	entry := StorageEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	err := b.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// RecordImport saves an import outcome
func (b *Backend) RecordImport(log *ImportLog) error {
	if log.ImportTime.IsZero() {
		log.ImportTime = time.Now()
	}
	return b.db.Create(log).Error
}

// RecentImports returns the latest import logs, newest first. An empty
// collection returns logs of every collection.
func (b *Backend) RecentImports(collection string, limit int) ([]ImportLog, error) {
	if limit <= 0 {
		limit = 20
	}
	query := b.db.Order("import_time DESC, id DESC").Limit(limit)
	if collection != "" {
		query = query.Where("collection = ?", collection)
	}

	var logs []ImportLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}
	return logs, nil
}
