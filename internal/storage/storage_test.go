package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/promotoria-nhamunda/controle-prazos/internal/records"
	"github.com/promotoria-nhamunda/controle-prazos/pkg/logger"
)

func newTestRepository(useSeed bool) (*Repository, *MemoryBackend) {
	backend := NewMemoryBackend()
	return NewRepository(backend, logger.NewNop(), useSeed), backend
}

func TestDeadlineRoundTrip(t *testing.T) {
	repo, _ := newTestRepository(true)

	end := time.Date(2024, time.November, 15, 0, 0, 0, 0, time.Local)
	original := []records.Deadline{{
		ID:               "d1",
		ProcessNumber:    "0001234-55.2023.8.04.0001",
		System:           records.SystemSEEU,
		StartDate:        time.Date(2024, time.November, 1, 8, 30, 0, 0, time.Local),
		EndDate:          end,
		Priority:         records.PriorityHigh,
		PromoterDecision: records.DecisionSigned,
		Instruction:      "Requerer diligências",
	}}

	if err := repo.SaveDeadlines(original); err != nil {
		t.Fatalf("SaveDeadlines() error = %v", err)
	}

	loaded := repo.LoadDeadlines()
	if len(loaded) != 1 {
		t.Fatalf("Expected 1 deadline, got %d", len(loaded))
	}
	if !loaded[0].EndDate.Equal(end) {
		t.Errorf("Expected end date %v, got %v", end, loaded[0].EndDate)
	}
	if !loaded[0].StartDate.Equal(original[0].StartDate) {
		t.Errorf("Expected start date %v, got %v", original[0].StartDate, loaded[0].StartDate)
	}
	if loaded[0].Instruction != "Requerer diligências" || loaded[0].System != records.SystemSEEU {
		t.Errorf("Expected fields to survive, got %+v", loaded[0])
	}
}

func TestDatesAreStoredAsStrings(t *testing.T) {
	data, err := EncodeAudiences([]records.Audience{{
		ID:   "a1",
		Date: time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC),
	}})
	if err != nil {
		t.Fatalf("EncodeAudiences() error = %v", err)
	}
	if !strings.Contains(string(data), `"date":"2024-02-20T00:00:00Z"`) {
		t.Errorf("Expected ISO date string, got %s", data)
	}
}

func TestAdministrativeRoundTrip(t *testing.T) {
	repo, _ := newTestRepository(false)

	reg := time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC)
	original := []records.AdministrativeProcess{{
		ID:               "p1",
		ProcedureNumber:  "PP 254.2022.000010",
		RegistrationDate: reg,
		LegalDeadline:    reg.AddDate(0, 0, 30),
		CNMPDeadline:     records.CNMPDeadline(reg),
		Status:           records.AdminExtended,
		InterestedParties: []records.InterestedParty{
			{ID: "x", Name: "Maria", Type: records.PartyReporter},
		},
	}}

	if err := repo.SaveAdministrative(original); err != nil {
		t.Fatalf("SaveAdministrative() error = %v", err)
	}

	loaded := repo.LoadAdministrative()
	if len(loaded) != 1 {
		t.Fatalf("Expected 1 process, got %d", len(loaded))
	}
	got := loaded[0]
	if !got.CNMPDeadline.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected CNMP deadline to survive, got %v", got.CNMPDeadline)
	}
	if got.Status != records.AdminExtended {
		t.Errorf("Expected Prorrogado, got %q", got.Status)
	}
	if len(got.InterestedParties) != 1 || got.InterestedParties[0].Type != records.PartyReporter {
		t.Errorf("Expected party to survive, got %+v", got.InterestedParties)
	}
}

func TestLoadMissingUsesSeed(t *testing.T) {
	repo, _ := newTestRepository(true)

	deadlines := repo.LoadDeadlines()
	if len(deadlines) != 1 || deadlines[0].ProcessNumber != "0001234-55.2023.8.04.0001" {
		t.Errorf("Expected seed deadline, got %+v", deadlines)
	}
	audiences := repo.LoadAudiences()
	if len(audiences) != 1 || audiences[0].Status != records.AudienceScheduled {
		t.Errorf("Expected seed hearing, got %+v", audiences)
	}
	if admin := repo.LoadAdministrative(); len(admin) != 0 {
		t.Errorf("Expected no administrative seed, got %d", len(admin))
	}
}

func TestLoadCorruptFallsBack(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{name: "not json", blob: "{{{"},
		{name: "wrong shape", blob: `{"deadlines": 3}`},
		{name: "bad date", blob: `[{"id":"1","processNumber":"001","endDate":"sometime"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, backend := newTestRepository(true)
			backend.SetItem(DeadlinesKey, tt.blob)

			deadlines := repo.LoadDeadlines()
			if len(deadlines) != 1 || deadlines[0].ID != "1" || deadlines[0].ProcessNumber == "001" {
				t.Errorf("Expected seed deadline, got %+v", deadlines)
			}

			kept, found, _ := backend.GetItem(DeadlinesKey + corruptSuffix)
			if !found || kept != tt.blob {
				t.Errorf("Expected corrupt blob to be kept, got %q", kept)
			}
		})
	}
}

func TestLoadCorruptWithoutSeed(t *testing.T) {
	repo, backend := newTestRepository(false)
	backend.SetItem(AudiencesKey, "not json")
	backend.SetItem(AdministrativeKey, "[1, 2")

	if got := repo.LoadAudiences(); got == nil || len(got) != 0 {
		t.Errorf("Expected empty hearings, got %v", got)
	}
	if got := repo.LoadAdministrative(); got == nil || len(got) != 0 {
		t.Errorf("Expected empty processes, got %v", got)
	}
}

func TestLoadEmptyArray(t *testing.T) {
	repo, backend := newTestRepository(true)
	backend.SetItem(DeadlinesKey, "[]")

	if got := repo.LoadDeadlines(); got == nil || len(got) != 0 {
		t.Errorf("Expected stored empty collection to win over seed, got %v", got)
	}
}

func TestDecodeAcceptsDateOnlyStrings(t *testing.T) {
	items, err := DecodeDeadlines([]byte(`[{"id":"1","processNumber":"001","startDate":"2024-01-02","endDate":"2024-01-10"}]`))
	if err != nil {
		t.Fatalf("DecodeDeadlines() error = %v", err)
	}
	if !records.SameDay(items[0].EndDate, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected 2024-01-10, got %v", items[0].EndDate)
	}
}

func TestParseSeedRejectsBadDates(t *testing.T) {
	_, err := parseSeed([]byte("deadlines:\n  - id: x\n    startDate: nope\n    endDate: nope\n"))
	if err == nil {
		t.Error("Expected error for unreadable seed date")
	}
}
