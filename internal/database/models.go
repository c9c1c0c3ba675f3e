package database

import (
	"time"

	"gorm.io/gorm"
)

// StorageEntry is one key/value item of the local store. Each collection
// is kept as a single JSON document under its own key.
type StorageEntry struct {
	Key       string    `json:"key" gorm:"primaryKey;column:item_key"`
	Value     string    `json:"value" gorm:"type:text"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ImportLog records the outcome of one document import
type ImportLog struct {
	gorm.Model
	Collection   string    `json:"collection"`
	Source       string    `json:"source"`
	Extractor    string    `json:"extractor"`
	Found        int       `json:"found"`
	Imported     int       `json:"imported"`
	Skipped      int       `json:"skipped"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"error_message"`
	ImportTime   time.Time `json:"import_time"`
	IPAddress    string    `json:"ip_address"`
}

func (StorageEntry) TableName() string {
	return "storage_entries"
}

func (ImportLog) TableName() string {
	return "import_logs"
}
