package records

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var whitespace = regexp.MustCompile(`\s+`)

// timestampFormats carry their own offset
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
}

// calendarFormats are interpreted in the caller's location
var calendarFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"02/01/2006 15:04",
}

// ParseDate parses the date formats produced by the extractor and by the
// Brazilian court systems (ISO and DD/MM/YYYY)
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = whitespace.ReplaceAllString(strings.TrimSpace(value), " ")
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if loc == nil {
		loc = time.Local
	}

	for _, format := range timestampFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, nil
		}
	}
	for _, format := range calendarFormats {
		if t, err := time.ParseInLocation(format, value, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", value)
}
