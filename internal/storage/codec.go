package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/promotoria-nhamunda/controle-prazos/internal/records"
)

// Date fields are written as RFC 3339 strings and read back field by field.
// The string fields below shadow the time fields of the embedded record.

type deadlineAlias records.Deadline

type deadlineDoc struct {
	deadlineAlias
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type audienceAlias records.Audience

type audienceDoc struct {
	audienceAlias
	Date string `json:"date"`
}

type administrativeAlias records.AdministrativeProcess

type administrativeDoc struct {
	administrativeAlias
	RegistrationDate string `json:"registrationDate"`
	LegalDeadline    string `json:"legalDeadline"`
	CNMPDeadline     string `json:"cnmpDeadline"`
}

// EncodeDeadlines serializes deadlines as a JSON array
func EncodeDeadlines(items []records.Deadline) ([]byte, error) {
	docs := make([]deadlineDoc, len(items))
	for i, d := range items {
		docs[i] = deadlineDoc{
			deadlineAlias: deadlineAlias(d),
			StartDate:     encodeDate(d.StartDate),
			EndDate:       encodeDate(d.EndDate),
		}
	}
	return json.Marshal(docs)
}

// DecodeDeadlines parses a JSON array written by EncodeDeadlines
func DecodeDeadlines(data []byte) ([]records.Deadline, error) {
	var docs []deadlineDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode deadlines: %w", err)
	}

	items := make([]records.Deadline, len(docs))
	for i, doc := range docs {
		d, err := doc.record()
		if err != nil {
			return nil, err
		}
		items[i] = d
	}
	return items, nil
}

// DecodeDeadline parses a single deadline object. Dates may be RFC 3339
// timestamps or plain calendar dates.
func DecodeDeadline(data []byte) (records.Deadline, error) {
	var doc deadlineDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return records.Deadline{}, fmt.Errorf("failed to decode deadline: %w", err)
	}
	return doc.record()
}

func (doc deadlineDoc) record() (records.Deadline, error) {
	d := records.Deadline(doc.deadlineAlias)
	var err error
	if d.StartDate, err = decodeDate("startDate", doc.StartDate); err != nil {
		return d, fmt.Errorf("deadline %s: %w", d.ID, err)
	}
	if d.EndDate, err = decodeDate("endDate", doc.EndDate); err != nil {
		return d, fmt.Errorf("deadline %s: %w", d.ID, err)
	}
	return d, nil
}

// EncodeAudiences serializes hearings as a JSON array
func EncodeAudiences(items []records.Audience) ([]byte, error) {
	docs := make([]audienceDoc, len(items))
	for i, a := range items {
		docs[i] = audienceDoc{
			audienceAlias: audienceAlias(a),
			Date:          encodeDate(a.Date),
		}
	}
	return json.Marshal(docs)
}

// DecodeAudiences parses a JSON array written by EncodeAudiences
func DecodeAudiences(data []byte) ([]records.Audience, error) {
	var docs []audienceDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode audiences: %w", err)
	}

	items := make([]records.Audience, len(docs))
	for i, doc := range docs {
		a, err := doc.record()
		if err != nil {
			return nil, err
		}
		items[i] = a
	}
	return items, nil
}

// DecodeAudience parses a single hearing object
func DecodeAudience(data []byte) (records.Audience, error) {
	var doc audienceDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return records.Audience{}, fmt.Errorf("failed to decode audience: %w", err)
	}
	return doc.record()
}

func (doc audienceDoc) record() (records.Audience, error) {
	a := records.Audience(doc.audienceAlias)
	var err error
	if a.Date, err = decodeDate("date", doc.Date); err != nil {
		return a, fmt.Errorf("audience %s: %w", a.ID, err)
	}
	return a, nil
}

// EncodeAdministrative serializes administrative processes as a JSON array
func EncodeAdministrative(items []records.AdministrativeProcess) ([]byte, error) {
	docs := make([]administrativeDoc, len(items))
	for i, p := range items {
		docs[i] = administrativeDoc{
			administrativeAlias: administrativeAlias(p),
			RegistrationDate:    encodeDate(p.RegistrationDate),
			LegalDeadline:       encodeDate(p.LegalDeadline),
			CNMPDeadline:        encodeDate(p.CNMPDeadline),
		}
	}
	return json.Marshal(docs)
}

// DecodeAdministrative parses a JSON array written by EncodeAdministrative
func DecodeAdministrative(data []byte) ([]records.AdministrativeProcess, error) {
	var docs []administrativeDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode administrative processes: %w", err)
	}

	items := make([]records.AdministrativeProcess, len(docs))
	for i, doc := range docs {
		p, err := doc.record()
		if err != nil {
			return nil, err
		}
		items[i] = p
	}
	return items, nil
}

// DecodeAdministrativeProcess parses a single administrative process object
func DecodeAdministrativeProcess(data []byte) (records.AdministrativeProcess, error) {
	var doc administrativeDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return records.AdministrativeProcess{}, fmt.Errorf("failed to decode administrative process: %w", err)
	}
	return doc.record()
}

func (doc administrativeDoc) record() (records.AdministrativeProcess, error) {
	p := records.AdministrativeProcess(doc.administrativeAlias)
	var err error
	if p.RegistrationDate, err = decodeDate("registrationDate", doc.RegistrationDate); err != nil {
		return p, fmt.Errorf("administrative process %s: %w", p.ID, err)
	}
	if p.LegalDeadline, err = decodeDate("legalDeadline", doc.LegalDeadline); err != nil {
		return p, fmt.Errorf("administrative process %s: %w", p.ID, err)
	}
	if p.CNMPDeadline, err = decodeDate("cnmpDeadline", doc.CNMPDeadline); err != nil {
		return p, fmt.Errorf("administrative process %s: %w", p.ID, err)
	}
	if p.InterestedParties == nil {
		p.InterestedParties = []records.InterestedParty{}
	}
	return p, nil
}

func encodeDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

// decodeDate reads one stored date field. An empty value is a zero time.
func decodeDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	t, err := records.ParseDate(value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	return t, nil
}
