package reconcile

import (
	"sort"
	"strings"
	"time"

	"github.com/promotoria-nhamunda/controle-prazos/internal/records"
)

// Keyed is a record with a natural key and an active/archived state
type Keyed interface {
	Key() string
	Active() bool
}

// Result describes the outcome of merging a batch into a collection
type Result[T any] struct {
	// Merged is the new collection, existing records first
	Merged []T
	// Added are the batch records that were appended
	Added []T
	// Skipped counts batch records dropped as duplicates
	Skipped int
}

// Merge appends the genuinely new records of batch to existing.
//
// Within the batch only the first record of each trimmed key is kept. A
// record is then dropped when an active existing record shares its key;
// archived records never block a re-import. Nothing is merged field by
// field. existing is not modified.
func Merge[T Keyed](existing, batch []T) Result[T] {
	activeKeys := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		if item.Active() {
			activeKeys[strings.TrimSpace(item.Key())] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(batch))
	added := make([]T, 0, len(batch))
	for _, item := range batch {
		key := strings.TrimSpace(item.Key())
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if _, dup := activeKeys[key]; dup {
			continue
		}
		added = append(added, item)
	}

	merged := make([]T, 0, len(existing)+len(added))
	merged = append(merged, existing...)
	merged = append(merged, added...)

	return Result[T]{
		Merged:  merged,
		Added:   added,
		Skipped: len(batch) - len(added),
	}
}

// Append adds every record of batch without duplicate detection.
// Hearings use this: several can share a process number.
func Append[T any](existing, batch []T) Result[T] {
	merged := make([]T, 0, len(existing)+len(batch))
	merged = append(merged, existing...)
	merged = append(merged, batch...)
	return Result[T]{
		Merged: merged,
		Added:  append([]T(nil), batch...),
	}
}

// MergeDeadlines merges a deadline batch and keeps the collection ordered
// by end date
func MergeDeadlines(existing, batch []records.Deadline) Result[records.Deadline] {
	result := Merge(existing, batch)
	SortByEndDate(result.Merged)
	return result
}

// SortByEndDate orders deadlines by ascending end date. Equal end dates
// keep their insertion order.
func SortByEndDate(items []records.Deadline) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].EndDate.Before(items[j].EndDate)
	})
}

// PrepareAdministrative refreshes the derived fields of every process in
// the batch before it is merged
func PrepareAdministrative(batch []records.AdministrativeProcess, now time.Time) []records.AdministrativeProcess {
	prepared := make([]records.AdministrativeProcess, len(batch))
	for i, p := range batch {
		p.ApplyDefaults()
		p.Recompute(now)
		prepared[i] = p
	}
	return prepared
}
