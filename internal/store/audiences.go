package store

import (
	"fmt"
	"slices"

	"github.com/promotoria-nhamunda/controle-prazos/internal/reconcile"
	"github.com/promotoria-nhamunda/controle-prazos/internal/records"
)

var audienceStatuses = []records.AudienceStatus{
	records.AudienceScheduled,
	records.AudienceHeld,
	records.AudienceCancelled,
	records.AudienceRescheduled,
}

// Audiences returns a copy of the hearing collection
func (s *Store) Audiences() []records.Audience {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.audiences)
}

// ImportAudiences appends every extracted hearing. Hearings have no
// natural key, so nothing is skipped.
func (s *Store) ImportAudiences(candidates []records.AudienceCandidate) (ImportResult, error) {
	if len(candidates) == 0 {
		return ImportResult{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	batch := make([]records.Audience, len(candidates))
	for i, c := range candidates {
		batch[i] = c.Normalize(now)
	}

	result := reconcile.Append(s.audiences, batch)
	if err := s.commitAudiences(result.Merged); err != nil {
		return ImportResult{}, err
	}

	s.logger.Info("Hearings imported", "imported", len(result.Added))
	return ImportResult{Found: len(batch), Imported: len(result.Added)}, nil
}

// CreateAudience adds a manually scheduled hearing
func (s *Store) CreateAudience(a records.Audience) (records.Audience, error) {
	if blank(a.ProcessNumber) {
		return records.Audience{}, missing("processNumber")
	}
	if a.Date.IsZero() {
		return records.Audience{}, missing("date")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = records.NewID()
	a.ApplyDefaults()

	if err := s.commitAudiences(append(slices.Clone(s.audiences), a)); err != nil {
		return records.Audience{}, err
	}

	s.logger.Info("Hearing created", "id", a.ID, "process", a.ProcessNumber)
	return a, nil
}

// UpdateAudience replaces every field of a hearing except its id
func (s *Store) UpdateAudience(id string, a records.Audience) (records.Audience, error) {
	return s.modifyAudience(id, func(current *records.Audience) error {
		a.ID = id
		a.ApplyDefaults()
		*current = a
		return nil
	})
}

// SetAudienceStatus moves a hearing between scheduled, held, cancelled and
// rescheduled
func (s *Store) SetAudienceStatus(id string, status records.AudienceStatus) (records.Audience, error) {
	if !slices.Contains(audienceStatuses, status) {
		return records.Audience{}, fmt.Errorf("%w: status %q", ErrInvalidValue, status)
	}
	return s.modifyAudience(id, func(a *records.Audience) error {
		a.Status = status
		return nil
	})
}

// DeleteAudience removes a hearing
func (s *Store) DeleteAudience(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.audiences, id, audienceID)
	if i < 0 {
		return notFound("audience", id)
	}
	return s.commitAudiences(slices.Delete(slices.Clone(s.audiences), i, i+1))
}

func (s *Store) modifyAudience(id string, fn func(*records.Audience) error) (records.Audience, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.audiences, id, audienceID)
	if i < 0 {
		return records.Audience{}, notFound("audience", id)
	}

	a := s.audiences[i]
	if err := fn(&a); err != nil {
		return records.Audience{}, err
	}

	next := slices.Clone(s.audiences)
	next[i] = a
	if err := s.commitAudiences(next); err != nil {
		return records.Audience{}, err
	}
	return a, nil
}

func (s *Store) commitAudiences(next []records.Audience) error {
	if err := s.repo.SaveAudiences(next); err != nil {
		s.logger.Error("Failed to persist audiences", "error", err)
		return fmt.Errorf("failed to persist audiences: %w", err)
	}
	s.audiences = next
	return nil
}
