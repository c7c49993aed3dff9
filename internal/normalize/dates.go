package normalize

import (
	"strings"
	"time"
)

// Date formats seen across the normalized extracts: ISO, LEIE compact
// YYYYMMDD, NPPES MM/DD/YYYY, and bare year-month.
var dateFormats = []string{
	"2006-01-02",
	"20060102",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"2006-01",
}

// ParseDate attempts to parse a date string in multiple common formats.
// Returns nil if the input is empty or unparseable.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// ParseOptionalDate is ParseDate over a nullable column.
func ParseOptionalDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	return ParseDate(*s)
}
