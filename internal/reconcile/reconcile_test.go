package reconcile

import (
	"testing"
	"time"

	"github.com/promotoria-nhamunda/controle-prazos/internal/records"
)

func deadline(id, number string, end time.Time) records.Deadline {
	return records.Deadline{ID: id, ProcessNumber: number, EndDate: end}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ids(items []records.Deadline) []string {
	out := make([]string, len(items))
	for i, d := range items {
		out[i] = d.ID
	}
	return out
}

func TestMergeFirstOccurrenceWins(t *testing.T) {
	batch := []records.Deadline{
		deadline("a", "001", day(2024, 1, 10)),
		deadline("b", "001", day(2024, 2, 1)),
	}

	result := MergeDeadlines(nil, batch)

	if len(result.Merged) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(result.Merged))
	}
	if !result.Merged[0].EndDate.Equal(day(2024, 1, 10)) {
		t.Errorf("Expected first occurrence (2024-01-10), got %v", result.Merged[0].EndDate)
	}
	if result.Skipped != 1 {
		t.Errorf("Expected 1 skipped, got %d", result.Skipped)
	}
}

func TestMergeTrimsKeys(t *testing.T) {
	existing := []records.Deadline{deadline("a", "001", day(2024, 1, 10))}
	batch := []records.Deadline{
		deadline("b", " 001  ", day(2024, 1, 11)),
		deadline("c", "002\t", day(2024, 1, 12)),
		deadline("d", "002", day(2024, 1, 13)),
	}

	result := MergeDeadlines(existing, batch)

	if got := ids(result.Added); len(got) != 1 || got[0] != "c" {
		t.Errorf("Expected only c to be added, got %v", got)
	}
}

func TestMergeIsCaseSensitive(t *testing.T) {
	existing := []records.AdministrativeProcess{{ID: "a", ProcedureNumber: "PP 254/2024"}}
	batch := []records.AdministrativeProcess{{ID: "b", ProcedureNumber: "pp 254/2024"}}

	result := Merge(existing, batch)
	if len(result.Added) != 1 {
		t.Errorf("Expected keys differing in case to be distinct, got %d added", len(result.Added))
	}
}

func TestMergeInternalWhitespaceIsNotNormalized(t *testing.T) {
	// Known limitation: only surrounding whitespace is trimmed.
	existing := []records.Deadline{deadline("a", "0001234-55.2023 8.04", day(2024, 1, 1))}
	batch := []records.Deadline{deadline("b", "0001234-55.2023  8.04", day(2024, 1, 1))}

	result := MergeDeadlines(existing, batch)
	if len(result.Added) != 1 {
		t.Errorf("Expected internal double space to produce a distinct key, got %d added", len(result.Added))
	}
}

func TestMergeIdempotent(t *testing.T) {
	batch := []records.Deadline{
		deadline("a", "001", day(2024, 3, 1)),
		deadline("b", "002", day(2024, 1, 1)),
		deadline("c", "001", day(2024, 2, 1)),
	}

	once := MergeDeadlines(nil, batch)
	twice := MergeDeadlines(once.Merged, batch)

	if len(twice.Added) != 0 {
		t.Errorf("Expected second import to add nothing, got %d", len(twice.Added))
	}
	if got, want := ids(twice.Merged), ids(once.Merged); len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	} else {
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("Position %d: expected %s, got %s", i, want[i], got[i])
			}
		}
	}
}

func TestMergeArchivedDoesNotBlock(t *testing.T) {
	archived := deadline("old", "001", day(2023, 1, 1))
	archived.IsArchived = true

	result := MergeDeadlines([]records.Deadline{archived}, []records.Deadline{deadline("new", "001", day(2024, 1, 1))})

	if len(result.Added) != 1 {
		t.Fatalf("Expected re-import over archived record, got %d added", len(result.Added))
	}
	if len(result.Merged) != 2 {
		t.Errorf("Expected archived and new record to coexist, got %d", len(result.Merged))
	}
}

func TestMergeDeadlinesSortsByEndDate(t *testing.T) {
	existing := []records.Deadline{
		deadline("a", "001", day(2024, 5, 1)),
		deadline("b", "002", day(2024, 3, 1)),
	}
	batch := []records.Deadline{
		deadline("c", "003", day(2024, 3, 1)),
		deadline("d", "004", day(2024, 1, 1)),
	}

	result := MergeDeadlines(existing, batch)

	want := []string{"d", "b", "c", "a"}
	got := ids(result.Merged)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected order %v, got %v", want, got)
		}
	}
}

func TestMergeEmptyBatch(t *testing.T) {
	existing := []records.Deadline{deadline("a", "001", day(2024, 1, 1))}

	result := MergeDeadlines(existing, nil)
	if len(result.Merged) != 1 || len(result.Added) != 0 || result.Skipped != 0 {
		t.Errorf("Expected no-op, got merged=%d added=%d skipped=%d",
			len(result.Merged), len(result.Added), result.Skipped)
	}
}

func TestMergeInvertedDates(t *testing.T) {
	d := deadline("a", "001", day(2024, 1, 1))
	d.StartDate = day(2024, 6, 1)

	result := MergeDeadlines(nil, []records.Deadline{d})
	if len(result.Added) != 1 {
		t.Error("Expected deadline with end before start to be accepted")
	}
}

func TestAppendKeepsSharedProcessNumbers(t *testing.T) {
	batch := []records.Audience{
		{ID: "a", ProcessNumber: "001", Date: day(2024, 1, 10)},
		{ID: "b", ProcessNumber: "001", Date: day(2024, 2, 10)},
	}

	result := Append([]records.Audience{{ID: "x", ProcessNumber: "001"}}, batch)
	if len(result.Merged) != 3 {
		t.Errorf("Expected 3 hearings, got %d", len(result.Merged))
	}
	if len(result.Added) != 2 {
		t.Errorf("Expected 2 added, got %d", len(result.Added))
	}
}

func TestPrepareAdministrative(t *testing.T) {
	now := day(2024, 5, 10)
	batch := []records.AdministrativeProcess{
		{ProcedureNumber: "1", RegistrationDate: day(2022, 3, 15)},
		{ProcedureNumber: "2", RegistrationDate: day(2024, 5, 1), LegalDeadline: day(2024, 1, 1), Status: records.AdminExtended},
	}

	prepared := PrepareAdministrative(batch, now)

	if prepared[0].ID == "" {
		t.Error("Expected id to be assigned")
	}
	if !prepared[0].CNMPDeadline.Equal(day(2025, 3, 15)) {
		t.Errorf("Expected CNMP 2025-03-15, got %v", prepared[0].CNMPDeadline)
	}
	if prepared[0].Status != records.AdminLate {
		t.Errorf("Expected Atrasado for default deadline 2022-04-14, got %q", prepared[0].Status)
	}
	if prepared[1].Status != records.AdminExtended {
		t.Errorf("Expected Prorrogado to be kept, got %q", prepared[1].Status)
	}
}
