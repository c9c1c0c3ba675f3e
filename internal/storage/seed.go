package storage

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/promotoria-nhamunda/controle-prazos/internal/records"
)

//go:embed seed.yaml
var seedYAML []byte

type seedDeadline struct {
	ID                   string `yaml:"id"`
	ProcessNumber        string `yaml:"processNumber"`
	System               string `yaml:"system"`
	ProceduralClass      string `yaml:"proceduralClass"`
	MainSubject          string `yaml:"mainSubject"`
	ManifestationPurpose string `yaml:"manifestationPurpose"`
	DefendantStatus      string `yaml:"defendantStatus"`
	ProsecutorOffice     string `yaml:"prosecutorOffice"`
	DeadlineDuration     string `yaml:"deadlineDuration"`
	StartDate            string `yaml:"startDate"`
	EndDate              string `yaml:"endDate"`
	Priority             string `yaml:"priority"`
	Status               string `yaml:"status"`
	AdvisorStatus        string `yaml:"advisorStatus"`
	PromoterDecision     string `yaml:"promoterDecision"`
}

type seedAudience struct {
	ID              string `yaml:"id"`
	ProcessNumber   string `yaml:"processNumber"`
	CourtDivision   string `yaml:"courtDivision"`
	ProceduralClass string `yaml:"proceduralClass"`
	MainSubject     string `yaml:"mainSubject"`
	Date            string `yaml:"date"`
	Time            string `yaml:"time"`
	Type            string `yaml:"type"`
	Mode            string `yaml:"mode"`
	Parties         string `yaml:"parties"`
	Status          string `yaml:"status"`
}

type seedFile struct {
	Deadlines []seedDeadline `yaml:"deadlines"`
	Audiences []seedAudience `yaml:"audiences"`
}

// Seed is the built-in dataset
type Seed struct {
	Deadlines []records.Deadline
	Audiences []records.Audience
}

// LoadSeed parses the embedded seed dataset
func LoadSeed() (*Seed, error) {
	return parseSeed(seedYAML)
}

func parseSeed(data []byte) (*Seed, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}

	seed := &Seed{
		Deadlines: make([]records.Deadline, 0, len(file.Deadlines)),
		Audiences: make([]records.Audience, 0, len(file.Audiences)),
	}

	for _, s := range file.Deadlines {
		start, err := records.ParseDate(s.StartDate, time.Local)
		if err != nil {
			return nil, fmt.Errorf("seed deadline %s: %w", s.ID, err)
		}
		end, err := records.ParseDate(s.EndDate, time.Local)
		if err != nil {
			return nil, fmt.Errorf("seed deadline %s: %w", s.ID, err)
		}
		d := records.Deadline{
			ID:                   s.ID,
			ProcessNumber:        s.ProcessNumber,
			System:               records.System(s.System),
			ProceduralClass:      s.ProceduralClass,
			MainSubject:          s.MainSubject,
			ManifestationPurpose: records.Purpose(s.ManifestationPurpose),
			DefendantStatus:      records.DefendantStatus(s.DefendantStatus),
			ProsecutorOffice:     s.ProsecutorOffice,
			DeadlineDuration:     s.DeadlineDuration,
			StartDate:            start,
			EndDate:              end,
			Priority:             records.Priority(s.Priority),
			Status:               s.Status,
			AdvisorStatus:        records.AdvisorStatus(s.AdvisorStatus),
			PromoterDecision:     records.PromoterDecision(s.PromoterDecision),
		}
		d.ApplyDefaults()
		seed.Deadlines = append(seed.Deadlines, d)
	}

	for _, s := range file.Audiences {
		date, err := records.ParseDate(s.Date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("seed audience %s: %w", s.ID, err)
		}
		a := records.Audience{
			ID:              s.ID,
			ProcessNumber:   s.ProcessNumber,
			CourtDivision:   s.CourtDivision,
			ProceduralClass: s.ProceduralClass,
			MainSubject:     s.MainSubject,
			Date:            date,
			Time:            s.Time,
			Type:            s.Type,
			Mode:            records.AudienceMode(s.Mode),
			Parties:         s.Parties,
			Status:          records.AudienceStatus(s.Status),
		}
		a.ApplyDefaults()
		seed.Audiences = append(seed.Audiences, a)
	}

	return seed, nil
}
