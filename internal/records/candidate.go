package records

import (
	"strings"
	"time"
)

// DeadlineCandidate is one deadline as returned by the extractor.
// Every field may be missing; Normalize turns it into a stored record.
type DeadlineCandidate struct {
	ProcessNumber        *string `json:"processNumber"`
	System               *string `json:"system"`
	CourtDivision        *string `json:"courtDivision"`
	ProceduralClass      *string `json:"proceduralClass"`
	MainSubject          *string `json:"mainSubject"`
	ManifestationPurpose *string `json:"manifestationPurpose"`
	DefendantStatus      *string `json:"defendantStatus"`
	ProsecutorOffice     *string `json:"prosecutorOffice"`
	DeadlineDuration     *string `json:"deadlineDuration"`
	StartDate            *string `json:"startDate"`
	EndDate              *string `json:"endDate"`
	Priority             *string `json:"priority"`
}

// AudienceCandidate is one hearing as returned by the extractor
type AudienceCandidate struct {
	ProcessNumber   *string `json:"processNumber"`
	System          *string `json:"system"`
	Date            *string `json:"date"`
	Time            *string `json:"time"`
	CourtDivision   *string `json:"courtDivision"`
	ProceduralClass *string `json:"proceduralClass"`
	MainSubject     *string `json:"mainSubject"`
	Type            *string `json:"type"`
	Mode            *string `json:"mode"`
	Link            *string `json:"link"`
}

// AdministrativeCandidate is one administrative process as returned by the extractor
type AdministrativeCandidate struct {
	ProcedureNumber  *string `json:"procedureNumber"`
	ProceduralClass  *string `json:"proceduralClass"`
	MainSubject      *string `json:"mainSubject"`
	OriginNumber     *string `json:"originNumber"`
	CurrentSector    *string `json:"currentSector"`
	RegistrationDate *string `json:"registrationDate"`
	SecrecyLevel     *string `json:"secrecyLevel"`
	LegalDeadline    *string `json:"legalDeadline"`
}

// Normalize converts the candidate into a new deadline with a fresh id.
// Unknown enum values fall back to their defaults and unreadable dates to now.
func (c DeadlineCandidate) Normalize(now time.Time) Deadline {
	d := NewDeadline(now)
	d.ProcessNumber = text(c.ProcessNumber, "")
	d.System = oneOf(strings.ToUpper(text(c.System, "")), systems, SystemPROJUDI)
	d.CourtDivision = text(c.CourtDivision, "")
	d.ProceduralClass = text(c.ProceduralClass, "")
	d.MainSubject = text(c.MainSubject, "")
	d.ManifestationPurpose = oneOf(text(c.ManifestationPurpose, ""), purposes, PurposeManifestation)
	d.DefendantStatus = oneOf(text(c.DefendantStatus, ""), defendantStatuses, DefendantUnknown)
	d.ProsecutorOffice = text(c.ProsecutorOffice, DefaultProsecutorOffice)
	d.DeadlineDuration = text(c.DeadlineDuration, "")
	d.StartDate = dateOr(c.StartDate, now)
	d.EndDate = dateOr(c.EndDate, now)
	d.Priority = oneOf(text(c.Priority, ""), priorities, PriorityMedium)
	return d
}

// Normalize converts the candidate into a new scheduled hearing
func (c AudienceCandidate) Normalize(now time.Time) Audience {
	a := Audience{
		ID:              NewID(),
		ProcessNumber:   text(c.ProcessNumber, ""),
		System:          text(c.System, string(SystemPROJUDI)),
		CourtDivision:   text(c.CourtDivision, DefaultCourtDivision),
		ProceduralClass: text(c.ProceduralClass, ""),
		MainSubject:     text(c.MainSubject, ""),
		Date:            dateOr(c.Date, now),
		Time:            text(c.Time, "09:00"),
		Type:            text(c.Type, "Audiência"),
		Mode:            oneOf(text(c.Mode, ""), audienceModes, ModeInPerson),
		Link:            text(c.Link, ""),
		Status:          AudienceScheduled,
	}
	return a
}

// Normalize converts the candidate into a new administrative process with
// its legal deadline defaulted and derived fields computed for now.
func (c AdministrativeCandidate) Normalize(now time.Time) AdministrativeProcess {
	p := AdministrativeProcess{
		ID:                NewID(),
		ProcedureNumber:   text(c.ProcedureNumber, ""),
		ProceduralClass:   text(c.ProceduralClass, ""),
		MainSubject:       text(c.MainSubject, ""),
		OriginNumber:      text(c.OriginNumber, ""),
		CurrentSector:     text(c.CurrentSector, ""),
		RegistrationDate:  dateOr(c.RegistrationDate, now),
		SecrecyLevel:      text(c.SecrecyLevel, "Público"),
		Status:            AdminOnTime,
		InterestedParties: []InterestedParty{},
	}
	p.LegalDeadline = dateOr(c.LegalDeadline, DefaultLegalDeadline(p.RegistrationDate))
	p.Recompute(now)
	return p
}

func text(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return fallback
	}
	return s
}

func dateOr(v *string, fallback time.Time) time.Time {
	if v == nil {
		return fallback
	}
	t, err := ParseDate(*v, fallback.Location())
	if err != nil {
		return fallback
	}
	return t
}
