package store

import (
	"fmt"
	"slices"

	"github.com/promotoria-nhamunda/controle-prazos/internal/reconcile"
	"github.com/promotoria-nhamunda/controle-prazos/internal/records"
)

// WorkflowPatch changes the advisor and promoter workflow of a deadline.
// Nil fields are left untouched.
type WorkflowPatch struct {
	AdvisorStatus    *records.AdvisorStatus    `json:"advisorStatus"`
	AdvisorDraftType *string                   `json:"advisorDraftType"`
	PromoterDecision *records.PromoterDecision `json:"promoterDecision"`
	ReturnReason     *string                   `json:"returnReason"`
	Instruction      *string                   `json:"instruction"`
}

// Deadlines returns a copy of the deadline collection
func (s *Store) Deadlines() []records.Deadline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.deadlines)
}

// Deadline returns one deadline by id
func (s *Store) Deadline(id string) (records.Deadline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexOf(s.deadlines, id, deadlineID)
	if i < 0 {
		return records.Deadline{}, notFound("deadline", id)
	}
	return s.deadlines[i], nil
}

// ImportDeadlines normalizes the extracted candidates and merges them into
// the collection. A batch that adds nothing leaves storage untouched.
func (s *Store) ImportDeadlines(candidates []records.DeadlineCandidate) (ImportResult, error) {
	if len(candidates) == 0 {
		return ImportResult{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	batch := make([]records.Deadline, len(candidates))
	for i, c := range candidates {
		batch[i] = c.Normalize(now)
	}

	result := reconcile.MergeDeadlines(s.deadlines, batch)
	outcome := ImportResult{Found: len(batch), Imported: len(result.Added), Skipped: result.Skipped}
	if outcome.Imported == 0 {
		s.logger.Info("No new deadlines to import", "found", outcome.Found, "skipped", outcome.Skipped)
		return outcome, nil
	}

	if err := s.commitDeadlines(result.Merged); err != nil {
		return ImportResult{}, err
	}

	s.logger.Info("Deadlines imported", "found", outcome.Found, "imported", outcome.Imported, "skipped", outcome.Skipped)
	return outcome, nil
}

// CreateDeadline adds a manually entered deadline. Duplicate process
// numbers are accepted.
func (s *Store) CreateDeadline(d records.Deadline) (records.Deadline, error) {
	if blank(d.ProcessNumber) {
		return records.Deadline{}, missing("processNumber")
	}
	if d.EndDate.IsZero() {
		return records.Deadline{}, missing("endDate")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d.ID = records.NewID()
	if d.StartDate.IsZero() {
		d.StartDate = s.now()
	}
	d.ApplyDefaults()

	next := append(slices.Clone(s.deadlines), d)
	reconcile.SortByEndDate(next)
	if err := s.commitDeadlines(next); err != nil {
		return records.Deadline{}, err
	}

	s.logger.Info("Deadline created", "id", d.ID, "process", d.ProcessNumber)
	return d, nil
}

// UpdateDeadline replaces every field of a deadline except its id
func (s *Store) UpdateDeadline(id string, d records.Deadline) (records.Deadline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.deadlines, id, deadlineID)
	if i < 0 {
		return records.Deadline{}, notFound("deadline", id)
	}

	d.ID = id
	d.ApplyDefaults()

	next := slices.Clone(s.deadlines)
	next[i] = d
	reconcile.SortByEndDate(next)
	if err := s.commitDeadlines(next); err != nil {
		return records.Deadline{}, err
	}
	return d, nil
}

// UpdateWorkflow applies a quick workflow change to one deadline
func (s *Store) UpdateWorkflow(id string, patch WorkflowPatch) (records.Deadline, error) {
	if patch.AdvisorStatus != nil && !slices.Contains(records.AdvisorStatuses(), *patch.AdvisorStatus) {
		return records.Deadline{}, fmt.Errorf("%w: advisorStatus %q", ErrInvalidValue, *patch.AdvisorStatus)
	}
	if patch.PromoterDecision != nil && !slices.Contains(records.PromoterDecisions(), *patch.PromoterDecision) {
		return records.Deadline{}, fmt.Errorf("%w: promoterDecision %q", ErrInvalidValue, *patch.PromoterDecision)
	}

	return s.modifyDeadline(id, func(d *records.Deadline) error {
		if patch.AdvisorStatus != nil {
			d.AdvisorStatus = *patch.AdvisorStatus
		}
		if patch.AdvisorDraftType != nil {
			d.AdvisorDraftType = *patch.AdvisorDraftType
		}
		if patch.PromoterDecision != nil {
			d.PromoterDecision = *patch.PromoterDecision
		}
		if patch.ReturnReason != nil {
			d.ReturnReason = *patch.ReturnReason
		}
		if patch.Instruction != nil {
			d.Instruction = *patch.Instruction
		}
		return nil
	})
}

// ArchiveDeadline moves a deadline to the archived view. It fails with
// ErrArchiveBlocked while the promoter decision is pending or returned.
func (s *Store) ArchiveDeadline(id string) (records.Deadline, error) {
	return s.modifyDeadline(id, func(d *records.Deadline) error {
		if !d.CanArchive() {
			return fmt.Errorf("deadline %s: %w", id, ErrArchiveBlocked)
		}
		d.IsArchived = true
		return nil
	})
}

// UnarchiveDeadline moves a deadline back to the active view
func (s *Store) UnarchiveDeadline(id string) (records.Deadline, error) {
	return s.modifyDeadline(id, func(d *records.Deadline) error {
		d.IsArchived = false
		return nil
	})
}

// DeleteDeadline removes a deadline
func (s *Store) DeleteDeadline(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.deadlines, id, deadlineID)
	if i < 0 {
		return notFound("deadline", id)
	}
	return s.commitDeadlines(slices.Delete(slices.Clone(s.deadlines), i, i+1))
}

// modifyDeadline applies fn to a copy of the deadline and keeps the result
// only when fn succeeds and the collection is persisted
func (s *Store) modifyDeadline(id string, fn func(*records.Deadline) error) (records.Deadline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.deadlines, id, deadlineID)
	if i < 0 {
		return records.Deadline{}, notFound("deadline", id)
	}

	d := s.deadlines[i]
	if err := fn(&d); err != nil {
		return records.Deadline{}, err
	}

	next := slices.Clone(s.deadlines)
	next[i] = d
	if err := s.commitDeadlines(next); err != nil {
		return records.Deadline{}, err
	}
	return d, nil
}

func (s *Store) commitDeadlines(next []records.Deadline) error {
	if err := s.repo.SaveDeadlines(next); err != nil {
		s.logger.Error("Failed to persist deadlines", "error", err)
		return fmt.Errorf("failed to persist deadlines: %w", err)
	}
	s.deadlines = next
	return nil
}
