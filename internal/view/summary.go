package view

import (
	"sort"

	"github.com/promotoria-nhamunda/controle-prazos/internal/records"
)

// topPurposes is how many purposes the workload chart shows
const topPurposes = 5

// Count is one labelled bucket of a grouping
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary is the dashboard overview of the office's workload
type Summary struct {
	Total              int     `json:"total"`
	Active             int     `json:"active"`
	Archived           int     `json:"archived"`
	Urgent             int     `json:"urgent"`
	ActivePercent      int     `json:"activePercent"`
	ScheduledAudiences int     `json:"scheduledAudiences"`
	Workload           []Count `json:"workload"`
	Systems            []Count `json:"systems"`
	Custody            []Count `json:"custody"`
}

// Summarize groups the deadline and hearing collections for the dashboard.
// Only active deadlines count towards workload, systems and custody.
func Summarize(deadlines []records.Deadline, audiences []records.Audience) Summary {
	s := Summary{Total: len(deadlines)}

	purposes := map[string]int{}
	systems := map[string]int{}
	custody := map[string]int{}

	for _, d := range deadlines {
		if !d.Active() {
			s.Archived++
			continue
		}
		s.Active++
		if d.Priority == records.PriorityUrgent {
			s.Urgent++
		}

		purpose := string(d.ManifestationPurpose)
		if purpose == "" {
			purpose = string(records.PurposeOther)
		}
		purposes[purpose]++

		switch d.System {
		case records.SystemPROJUDI, records.SystemSEEU:
			systems[string(d.System)]++
		default:
			systems["OUTROS"]++
		}

		status := d.DefendantStatus
		if status == "" {
			status = records.DefendantUnknown
		}
		custody[string(status)]++
	}

	if s.Total > 0 {
		s.ActivePercent = (s.Active*100 + s.Total/2) / s.Total
	}

	for _, a := range audiences {
		if a.Status == records.AudienceScheduled {
			s.ScheduledAudiences++
		}
	}

	s.Workload = ranked(purposes)
	if len(s.Workload) > topPurposes {
		s.Workload = s.Workload[:topPurposes]
	}
	s.Systems = ordered(systems, string(records.SystemPROJUDI), string(records.SystemSEEU), "OUTROS")
	s.Custody = ordered(custody,
		string(records.DefendantInCustody),
		string(records.DefendantAtLiberty),
		string(records.DefendantUnknown),
	)

	return s
}

// ranked sorts buckets by descending count, then by name
func ranked(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for name, n := range m {
		out = append(out, Count{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ordered returns the non-empty buckets in a fixed order
func ordered(m map[string]int, names ...string) []Count {
	out := make([]Count, 0, len(names))
	for _, name := range names {
		if m[name] > 0 {
			out = append(out, Count{Name: name, Count: m[name]})
		}
	}
	return out
}
