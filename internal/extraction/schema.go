package extraction

import (
	"strings"

	"google.golang.org/genai"

	"github.com/promotoria-nhamunda/controle-prazos/internal/records"
)

func stringField() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString}
}

func enumField(values ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Enum: values}
}

func listOf(key string, item *genai.Schema) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			key: {Type: genai.TypeArray, Items: item},
		},
		Required: []string{key},
	}
}

func deadlineSchema() *genai.Schema {
	systems := make([]string, 0, len(records.Systems()))
	for _, s := range records.Systems() {
		systems = append(systems, string(s))
	}

	item := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"processNumber":        stringField(),
			"system":               enumField(systems...),
			"proceduralClass":      stringField(),
			"mainSubject":          stringField(),
			"manifestationPurpose": stringField(),
			"defendantStatus":      enumField(string(records.DefendantInCustody), string(records.DefendantAtLiberty), string(records.DefendantUnknown)),
			"prosecutorOffice":     stringField(),
			"deadlineDuration":     stringField(),
			"priority":             enumField(string(records.PriorityLow), string(records.PriorityMedium), string(records.PriorityHigh), string(records.PriorityUrgent)),
			"startDate":            stringField(),
			"endDate":              stringField(),
		},
		Required: []string{"processNumber", "endDate", "startDate", "defendantStatus", "priority"},
	}

	schema := listOf("deadlines", item)
	schema.Properties["groupMetadata"] = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"detectedPurpose":        stringField(),
			"totalRecordsInDocument": {Type: genai.TypeInteger},
		},
	}
	return schema
}

func audienceSchema() *genai.Schema {
	return listOf("audiences", &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"processNumber": stringField(),
			"system":        stringField(),
			"date":          stringField(),
			"time":          stringField(),
			"courtDivision": stringField(),
			"type":          stringField(),
			"mode":          enumField(string(records.ModeVirtual), string(records.ModeInPerson), string(records.ModeHybrid)),
			"link":          stringField(),
		},
		Required: []string{"processNumber", "date", "time"},
	})
}

func administrativeSchema() *genai.Schema {
	return listOf("processes", &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"procedureNumber":  stringField(),
			"proceduralClass":  stringField(),
			"mainSubject":      stringField(),
			"originNumber":     stringField(),
			"currentSector":    stringField(),
			"registrationDate": stringField(),
			"secrecyLevel":     stringField(),
			"legalDeadline":    stringField(),
		},
		Required: []string{"procedureNumber", "registrationDate"},
	})
}

func purposeList() string {
	names := make([]string, 0, len(records.Purposes()))
	for _, p := range records.Purposes() {
		names = append(names, `"`+string(p)+`"`)
	}
	return strings.Join(names, ", ")
}
