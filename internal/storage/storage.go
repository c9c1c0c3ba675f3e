package storage

import (
	"fmt"
	"sync"

	"github.com/promotoria-nhamunda/controle-prazos/internal/records"
	"github.com/promotoria-nhamunda/controle-prazos/pkg/logger"
)

// Storage keys of the three collections
const (
	DeadlinesKey      = "promotoria-deadlines"
	AudiencesKey      = "promotoria-audiences"
	AdministrativeKey = "promotoria-admin-processes"
)

// corruptSuffix marks the copy of a blob that could not be decoded
const corruptSuffix = ".corrupt"

// Backend is a string key/value store in the manner of browser local storage
type Backend interface {
	GetItem(key string) (value string, found bool, err error)
	SetItem(key, value string) error
}

// Repository reads and writes the three collections through a Backend
type Repository struct {
	backend Backend
	logger  *logger.Logger
	useSeed bool
}

// NewRepository creates a repository. With useSeed, missing or unreadable
// deadline and hearing collections start from the built-in dataset.
func NewRepository(backend Backend, logger *logger.Logger, useSeed bool) *Repository {
	return &Repository{
		backend: backend,
		logger:  logger,
		useSeed: useSeed,
	}
}

// LoadDeadlines returns the stored deadlines, or the seed when nothing
// usable is stored
func (r *Repository) LoadDeadlines() []records.Deadline {
	items, ok := load(r, DeadlinesKey, DecodeDeadlines)
	if ok {
		return items
	}
	return r.seed().Deadlines
}

// LoadAudiences returns the stored hearings, or the seed when nothing
// usable is stored
func (r *Repository) LoadAudiences() []records.Audience {
	items, ok := load(r, AudiencesKey, DecodeAudiences)
	if ok {
		return items
	}
	return r.seed().Audiences
}

// LoadAdministrative returns the stored administrative processes, or an
// empty collection
func (r *Repository) LoadAdministrative() []records.AdministrativeProcess {
	items, ok := load(r, AdministrativeKey, DecodeAdministrative)
	if ok {
		return items
	}
	return []records.AdministrativeProcess{}
}

// SaveDeadlines writes the whole deadline collection
func (r *Repository) SaveDeadlines(items []records.Deadline) error {
	return save(r, DeadlinesKey, items, EncodeDeadlines)
}

// SaveAudiences writes the whole hearing collection
func (r *Repository) SaveAudiences(items []records.Audience) error {
	return save(r, AudiencesKey, items, EncodeAudiences)
}

// SaveAdministrative writes the whole administrative collection
func (r *Repository) SaveAdministrative(items []records.AdministrativeProcess) error {
	return save(r, AdministrativeKey, items, EncodeAdministrative)
}

func (r *Repository) seed() *Seed {
	empty := &Seed{Deadlines: []records.Deadline{}, Audiences: []records.Audience{}}
	if !r.useSeed {
		return empty
	}
	seed, err := LoadSeed()
	if err != nil {
		r.logger.Error("Failed to load seed data", "error", err)
		return empty
	}
	return seed
}

// load reads and decodes one collection. ok is false when the key is
// missing or the stored blob cannot be used; the caller then falls back.
func load[T any](r *Repository, key string, decode func([]byte) ([]T, error)) ([]T, bool) {
	raw, found, err := r.backend.GetItem(key)
	if err != nil {
		r.logger.Error("Failed to read collection", "key", key, "error", err)
		return nil, false
	}
	if !found {
		r.logger.Debug("Collection not stored yet", "key", key)
		return nil, false
	}

	items, err := decode([]byte(raw))
	if err != nil {
		r.logger.Warn("Stored collection is corrupt, falling back", "key", key, "error", err)
		if backupErr := r.backend.SetItem(key+corruptSuffix, raw); backupErr != nil {
			r.logger.Error("Failed to keep corrupt collection", "key", key, "error", backupErr)
		}
		return nil, false
	}
	if items == nil {
		items = []T{}
	}
	return items, true
}

func save[T any](r *Repository, key string, items []T, encode func([]T) ([]byte, error)) error {
	data, err := encode(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := r.backend.SetItem(key, string(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// MemoryBackend keeps items in a map. Used for tests and dry runs.
type MemoryBackend struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{items: make(map[string]string)}
}

func (m *MemoryBackend) GetItem(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.items[key]
	return value, ok, nil
}

func (m *MemoryBackend) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}
