package view

import (
	"sort"
	"strings"
	"time"

	"github.com/promotoria-nhamunda/controle-prazos/internal/records"
)

// Mode selects the active or archived partition of a collection
type Mode string

const (
	Active   Mode = "active"
	Archived Mode = "archived"
)

// ParseMode reads a view mode, defaulting to the active partition
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(Archived)) {
		return Archived
	}
	return Active
}

func (m Mode) includes(active bool) bool {
	if m == Archived {
		return !active
	}
	return active
}

// DeadlineFilter holds the optional deadline predicates. Empty fields
// match everything; all set fields must match.
type DeadlineFilter struct {
	Term             string
	System           records.System
	Purpose          records.Purpose
	AdvisorStatus    records.AdvisorStatus
	PromoterDecision records.PromoterDecision
	EndDate          *time.Time
}

// Deadlines returns the deadlines of the partition matching the filter,
// ordered by ascending end date
func Deadlines(items []records.Deadline, mode Mode, f DeadlineFilter) []records.Deadline {
	term := strings.ToLower(strings.TrimSpace(f.Term))

	out := make([]records.Deadline, 0, len(items))
	for _, d := range items {
		if !mode.includes(d.Active()) {
			continue
		}
		if term != "" && !containsAny(term, d.ProcessNumber, d.MainSubject, d.ProceduralClass) {
			continue
		}
		if f.System != "" && d.System != f.System {
			continue
		}
		if f.Purpose != "" && d.ManifestationPurpose != f.Purpose {
			continue
		}
		if f.AdvisorStatus != "" && advisorOf(d) != f.AdvisorStatus {
			continue
		}
		if f.PromoterDecision != "" && decisionOf(d) != f.PromoterDecision {
			continue
		}
		if f.EndDate != nil && !records.SameDay(d.EndDate, *f.EndDate) {
			continue
		}
		out = append(out, d)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EndDate.Before(out[j].EndDate)
	})
	return out
}

// AudienceFilter holds the optional hearing predicates
type AudienceFilter struct {
	Process string
	Date    *time.Time
	Court   string
	Type    string
}

// Audiences returns the hearings of the partition matching the filter,
// ordered by date then time
func Audiences(items []records.Audience, mode Mode, f AudienceFilter) []records.Audience {
	process := strings.ToLower(strings.TrimSpace(f.Process))
	court := strings.ToLower(strings.TrimSpace(f.Court))
	kind := strings.ToLower(strings.TrimSpace(f.Type))

	out := make([]records.Audience, 0, len(items))
	for _, a := range items {
		if !mode.includes(a.Active()) {
			continue
		}
		if process != "" && !containsAny(process, a.ProcessNumber) {
			continue
		}
		if f.Date != nil && !records.SameDay(a.Date, *f.Date) {
			continue
		}
		if court != "" && !containsAny(court, a.CourtDivision) {
			continue
		}
		if kind != "" && !containsAny(kind, a.Type) {
			continue
		}
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool {
		di, dj := records.DateOnly(out[i].Date), records.DateOnly(out[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return out[i].Time < out[j].Time
	})
	return out
}

// AdministrativeFilter holds the optional administrative predicates
type AdministrativeFilter struct {
	Term   string
	Status records.AdminStatus
}

// Administrative returns the processes of the partition matching the
// filter in collection order
func Administrative(items []records.AdministrativeProcess, mode Mode, f AdministrativeFilter) []records.AdministrativeProcess {
	term := strings.ToLower(strings.TrimSpace(f.Term))

	out := make([]records.AdministrativeProcess, 0, len(items))
	for _, p := range items {
		if !mode.includes(p.Active()) {
			continue
		}
		if term != "" && !containsAny(term, p.ProcedureNumber, p.MainSubject) {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		out = append(out, p)
	}
	return out
}

func containsAny(lowerTerm string, fields ...string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), lowerTerm) {
			return true
		}
	}
	return false
}

func advisorOf(d records.Deadline) records.AdvisorStatus {
	if d.AdvisorStatus == "" {
		return records.AdvisorPending
	}
	return d.AdvisorStatus
}

func decisionOf(d records.Deadline) records.PromoterDecision {
	if d.PromoterDecision == "" {
		return records.DecisionPending
	}
	return d.PromoterDecision
}
