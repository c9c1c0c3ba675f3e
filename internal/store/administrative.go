package store

import (
	"fmt"
	"slices"

	"github.com/promotoria-nhamunda/controle-prazos/internal/reconcile"
	"github.com/promotoria-nhamunda/controle-prazos/internal/records"
)

// Administrative returns a copy of the administrative collection
func (s *Store) Administrative() []records.AdministrativeProcess {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProcesses(s.administrative)
}

// ImportAdministrative normalizes the extracted processes, computes their
// derived deadlines and status, and merges them by procedure number
func (s *Store) ImportAdministrative(candidates []records.AdministrativeCandidate) (ImportResult, error) {
	if len(candidates) == 0 {
		return ImportResult{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	batch := make([]records.AdministrativeProcess, len(candidates))
	for i, c := range candidates {
		batch[i] = c.Normalize(now)
	}
	batch = reconcile.PrepareAdministrative(batch, now)

	result := reconcile.Merge(s.administrative, batch)
	outcome := ImportResult{Found: len(batch), Imported: len(result.Added), Skipped: result.Skipped}
	if outcome.Imported == 0 {
		s.logger.Info("No new administrative processes to import", "found", outcome.Found, "skipped", outcome.Skipped)
		return outcome, nil
	}

	if err := s.commitAdministrative(result.Merged); err != nil {
		return ImportResult{}, err
	}

	s.logger.Info("Administrative processes imported", "found", outcome.Found, "imported", outcome.Imported, "skipped", outcome.Skipped)
	return outcome, nil
}

// CreateAdministrative adds a manually entered process
func (s *Store) CreateAdministrative(p records.AdministrativeProcess) (records.AdministrativeProcess, error) {
	if blank(p.ProcedureNumber) {
		return records.AdministrativeProcess{}, missing("procedureNumber")
	}
	if p.RegistrationDate.IsZero() {
		return records.AdministrativeProcess{}, missing("registrationDate")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = records.NewID()
	p.InterestedParties = slices.Clone(p.InterestedParties)
	p.ApplyDefaults()
	p.Recompute(s.now())

	if err := s.commitAdministrative(append(cloneProcesses(s.administrative), p)); err != nil {
		return records.AdministrativeProcess{}, err
	}

	s.logger.Info("Administrative process created", "id", p.ID, "procedure", p.ProcedureNumber)
	return p, nil
}

// UpdateAdministrative replaces a process and recomputes its CNMP deadline
// and status. A Prorrogado status is kept as set. The registration date
// is required as on create.
func (s *Store) UpdateAdministrative(id string, p records.AdministrativeProcess) (records.AdministrativeProcess, error) {
	return s.modifyAdministrative(id, func(current *records.AdministrativeProcess) error {
		if p.RegistrationDate.IsZero() {
			return missing("registrationDate")
		}
		p.ID = id
		p.InterestedParties = slices.Clone(p.InterestedParties)
		p.ApplyDefaults()
		p.Recompute(s.now())
		*current = p
		return nil
	})
}

// ArchiveAdministrative moves a process to the archived view. There is no
// gate on administrative processes.
func (s *Store) ArchiveAdministrative(id string) (records.AdministrativeProcess, error) {
	return s.modifyAdministrative(id, func(p *records.AdministrativeProcess) error {
		p.IsArchived = true
		return nil
	})
}

// UnarchiveAdministrative moves a process back to the active view
func (s *Store) UnarchiveAdministrative(id string) (records.AdministrativeProcess, error) {
	return s.modifyAdministrative(id, func(p *records.AdministrativeProcess) error {
		p.IsArchived = false
		return nil
	})
}

// DeleteAdministrative removes a process
func (s *Store) DeleteAdministrative(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.administrative, id, processID)
	if i < 0 {
		return notFound("administrative process", id)
	}
	return s.commitAdministrative(slices.Delete(cloneProcesses(s.administrative), i, i+1))
}

func (s *Store) modifyAdministrative(id string, fn func(*records.AdministrativeProcess) error) (records.AdministrativeProcess, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.administrative, id, processID)
	if i < 0 {
		return records.AdministrativeProcess{}, notFound("administrative process", id)
	}

	next := cloneProcesses(s.administrative)
	p := next[i]
	if err := fn(&p); err != nil {
		return records.AdministrativeProcess{}, err
	}
	next[i] = p

	if err := s.commitAdministrative(next); err != nil {
		return records.AdministrativeProcess{}, err
	}
	return p, nil
}

func (s *Store) commitAdministrative(next []records.AdministrativeProcess) error {
	if err := s.repo.SaveAdministrative(next); err != nil {
		s.logger.Error("Failed to persist administrative processes", "error", err)
		return fmt.Errorf("failed to persist administrative processes: %w", err)
	}
	s.administrative = next
	return nil
}
