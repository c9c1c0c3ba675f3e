package records

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultProsecutorOffice is used when a record does not name its office
const DefaultProsecutorOffice = "Promotoria de Justiça de Nhamundá"

// DefaultCourtDivision is the single court division of the district
const DefaultCourtDivision = "Vara Única de Nhamundá"

// Deadline is an obligation with a due date on a judicial process
type Deadline struct {
	ID                   string           `json:"id"`
	ProcessNumber        string           `json:"processNumber"`
	CourtDivision        string           `json:"courtDivision,omitempty"`
	System               System           `json:"system"`
	ProceduralClass      string           `json:"proceduralClass"`
	MainSubject          string           `json:"mainSubject"`
	ManifestationPurpose Purpose          `json:"manifestationPurpose"`
	DefendantStatus      DefendantStatus  `json:"defendantStatus"`
	ProsecutorOffice     string           `json:"prosecutorOffice"`
	DeadlineDuration     string           `json:"deadlineDuration"`
	StartDate            time.Time        `json:"startDate"`
	EndDate              time.Time        `json:"endDate"`
	Priority             Priority         `json:"priority"`
	Status               string           `json:"status"`
	IsArchived           bool             `json:"isArchived"`
	AdvisorDraftType     string           `json:"advisorDraftType,omitempty"`
	AdvisorStatus        AdvisorStatus    `json:"advisorStatus"`
	PromoterDecision     PromoterDecision `json:"promoterDecision"`
	ReturnReason         string           `json:"returnReason,omitempty"`
	Instruction          string           `json:"instruction,omitempty"`
}

// Key returns the natural key used for duplicate detection
func (d Deadline) Key() string {
	return strings.TrimSpace(d.ProcessNumber)
}

// Active reports whether the deadline belongs to the active view
func (d Deadline) Active() bool {
	return !d.IsArchived
}

// CanArchive reports whether the promoter decision allows archiving.
// Pending and returned matters are still on the promoter's desk.
func (d Deadline) CanArchive() bool {
	decision := d.PromoterDecision
	if decision == "" {
		decision = DecisionPending
	}
	return decision != DecisionPending && decision != DecisionReturned
}

// Audience is a scheduled hearing tied to a process
type Audience struct {
	ID              string         `json:"id"`
	ProcessNumber   string         `json:"processNumber"`
	System          string         `json:"system,omitempty"`
	CourtDivision   string         `json:"courtDivision,omitempty"`
	ProceduralClass string         `json:"proceduralClass,omitempty"`
	MainSubject     string         `json:"mainSubject,omitempty"`
	Date            time.Time      `json:"date"`
	Time            string         `json:"time"`
	Type            string         `json:"type"`
	Mode            AudienceMode   `json:"mode"`
	Parties         string         `json:"parties,omitempty"`
	Status          AudienceStatus `json:"status"`
	Link            string         `json:"link,omitempty"`
	Notes           string         `json:"notes,omitempty"`
}

// Active reports whether the hearing is still to happen.
// Held and cancelled hearings form the archived view.
func (a Audience) Active() bool {
	return a.Status == AudienceScheduled || a.Status == AudienceRescheduled
}

// InterestedParty is a person involved in an administrative process
type InterestedParty struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Type PartyType `json:"type"`
}

// AdministrativeProcess is an extrajudicial procedure with legal and CNMP deadlines
type AdministrativeProcess struct {
	ID                string            `json:"id"`
	ProcedureNumber   string            `json:"procedureNumber"`
	ProceduralClass   string            `json:"proceduralClass"`
	MainSubject       string            `json:"mainSubject"`
	OriginNumber      string            `json:"originNumber,omitempty"`
	CurrentSector     string            `json:"currentSector"`
	RegistrationDate  time.Time         `json:"registrationDate"`
	SecrecyLevel      string            `json:"secrecyLevel"`
	LegalDeadline     time.Time         `json:"legalDeadline"`
	CNMPDeadline      time.Time         `json:"cnmpDeadline"`
	Status            AdminStatus       `json:"status"`
	InterestedParties []InterestedParty `json:"interestedParties"`
	IsArchived        bool              `json:"isArchived"`
	Notes             string            `json:"notes,omitempty"`
}

// Key returns the natural key used for duplicate detection
func (p AdministrativeProcess) Key() string {
	return strings.TrimSpace(p.ProcedureNumber)
}

// Active reports whether the process belongs to the active view
func (p AdministrativeProcess) Active() bool {
	return !p.IsArchived
}

// NewID returns a fresh opaque record id
func NewID() string {
	return uuid.NewString()
}

// NewDeadline returns a blank manual deadline with the form defaults:
// starting now and due in five days.
func NewDeadline(now time.Time) Deadline {
	return Deadline{
		ID:                   NewID(),
		System:               SystemPROJUDI,
		ManifestationPurpose: PurposeManifestation,
		DefendantStatus:      DefendantUnknown,
		ProsecutorOffice:     DefaultProsecutorOffice,
		StartDate:            now,
		EndDate:              now.AddDate(0, 0, 5),
		Priority:             PriorityMedium,
		Status:               "Pendente",
		AdvisorStatus:        AdvisorPending,
		PromoterDecision:     DecisionPending,
	}
}

// ApplyDefaults fills empty enum and workflow fields with their defaults
func (d *Deadline) ApplyDefaults() {
	if d.ID == "" {
		d.ID = NewID()
	}
	if d.System == "" {
		d.System = SystemPROJUDI
	}
	if d.ManifestationPurpose == "" {
		d.ManifestationPurpose = PurposeManifestation
	}
	if d.DefendantStatus == "" {
		d.DefendantStatus = DefendantUnknown
	}
	if d.ProsecutorOffice == "" {
		d.ProsecutorOffice = DefaultProsecutorOffice
	}
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
	if d.Status == "" {
		d.Status = "Pendente"
	}
	if d.AdvisorStatus == "" {
		d.AdvisorStatus = AdvisorPending
	}
	if d.PromoterDecision == "" {
		d.PromoterDecision = DecisionPending
	}
}

// ApplyDefaults fills empty fields of a manually entered hearing
func (a *Audience) ApplyDefaults() {
	if a.ID == "" {
		a.ID = NewID()
	}
	if a.System == "" {
		a.System = string(SystemPROJUDI)
	}
	if a.CourtDivision == "" {
		a.CourtDivision = DefaultCourtDivision
	}
	if a.Time == "" {
		a.Time = "09:00"
	}
	if a.Type == "" {
		a.Type = "Audiência"
	}
	if a.Mode == "" {
		a.Mode = ModeInPerson
	}
	if a.Status == "" {
		a.Status = AudienceScheduled
	}
}

// ApplyDefaults fills empty fields and party ids of an administrative process
func (p *AdministrativeProcess) ApplyDefaults() {
	if p.ID == "" {
		p.ID = NewID()
	}
	if p.SecrecyLevel == "" {
		p.SecrecyLevel = "Público"
	}
	if p.LegalDeadline.IsZero() && !p.RegistrationDate.IsZero() {
		p.LegalDeadline = DefaultLegalDeadline(p.RegistrationDate)
	}
	if p.InterestedParties == nil {
		p.InterestedParties = []InterestedParty{}
	}
	for i := range p.InterestedParties {
		if p.InterestedParties[i].ID == "" {
			p.InterestedParties[i].ID = NewID()
		}
		p.InterestedParties[i].Type = oneOf(string(p.InterestedParties[i].Type), partyTypes, PartyInterestedActive)
	}
}
