// Package store owns the three collections and persists them after every
// change.
package store

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/promotoria-nhamunda/controle-prazos/internal/records"
	"github.com/promotoria-nhamunda/controle-prazos/internal/storage"
	"github.com/promotoria-nhamunda/controle-prazos/internal/view"
	"github.com/promotoria-nhamunda/controle-prazos/pkg/logger"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrArchiveBlocked = errors.New("promoter decision is pending or returned")
	ErrMissingField   = errors.New("required field missing")
	ErrInvalidValue   = errors.New("invalid value")
)

// ImportResult reports how a batch was reconciled
type ImportResult struct {
	Found    int `json:"found"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Empty reports whether nothing was recognized in the document
func (r ImportResult) Empty() bool {
	return r.Found == 0
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces the wall clock used for defaults and derived status
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store holds the deadlines, hearings and administrative processes in
// memory. A mutation is kept only once it has been written through the
// repository.
type Store struct {
	mu     sync.RWMutex
	repo   *storage.Repository
	logger *logger.Logger
	now    func() time.Time

	deadlines      []records.Deadline
	audiences      []records.Audience
	administrative []records.AdministrativeProcess
}

// New loads the three collections from the repository
func New(repo *storage.Repository, logger *logger.Logger, opts ...Option) *Store {
	s := &Store{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.deadlines = repo.LoadDeadlines()
	s.audiences = repo.LoadAudiences()
	s.administrative = repo.LoadAdministrative()

	logger.Info("Collections loaded",
		"deadlines", len(s.deadlines),
		"audiences", len(s.audiences),
		"administrative", len(s.administrative),
	)

	return s
}

// Summary computes the dashboard figures
func (s *Store) Summary() view.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view.Summarize(s.deadlines, s.audiences)
}

func indexOf[T any](items []T, id string, idOf func(T) string) int {
	for i, item := range items {
		if idOf(item) == id {
			return i
		}
	}
	return -1
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func missing(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

func deadlineID(d records.Deadline) string { return d.ID }

func audienceID(a records.Audience) string { return a.ID }

func processID(p records.AdministrativeProcess) string { return p.ID }

// cloneProcesses copies the processes together with their party lists
func cloneProcesses(items []records.AdministrativeProcess) []records.AdministrativeProcess {
	out := slices.Clone(items)
	for i := range out {
		out[i].InterestedParties = slices.Clone(out[i].InterestedParties)
	}
	return out
}
