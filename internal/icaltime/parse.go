// Package icaltime parses iCalendar DATE and DATE-TIME property values into
// time.Time instants.
package icaltime

import (
	"fmt"
	"strings"
	"time"
)

const (
	layoutDate         = "20060102"
	layoutDateTimeUTC  = "20060102T150405Z"
	layoutDateTimeOnly = "20060102T150405"
)

// ParseValue parses a single DATE or DATE-TIME value. Date-only values
// (either declared via VALUE=DATE or written without a time part) are stored
// as midnight UTC. Floating date-times honor a TZID parameter when present
// and fall back to UTC otherwise.
func ParseValue(value string, params map[string][]string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("icaltime: empty value")
	}

	if isDateOnly(params) || !strings.ContainsRune(value, 'T') {
		t, err := time.Parse(layoutDate, value)
		if err != nil {
			return time.Time{}, fmt.Errorf("icaltime: parse date %q: %w", value, err)
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	if strings.HasSuffix(value, "Z") {
		t, err := time.Parse(layoutDateTimeUTC, value)
		if err != nil {
			return time.Time{}, fmt.Errorf("icaltime: parse date-time %q: %w", value, err)
		}
		return t, nil
	}

	loc := time.UTC
	if tzid := firstParam(params, "TZID"); tzid != "" {
		l, err := time.LoadLocation(tzid)
		if err != nil {
			return time.Time{}, fmt.Errorf("icaltime: unknown TZID %q: %w", tzid, err)
		}
		loc = l
	}
	t, err := time.ParseInLocation(layoutDateTimeOnly, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("icaltime: parse date-time %q: %w", value, err)
	}
	return t, nil
}

// ParseList parses a comma-separated DATE or DATE-TIME value list, as
// carried by RDATE and EXDATE properties.
func ParseList(value string, params map[string][]string) ([]time.Time, error) {
	var out []time.Time
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, err := ParseValue(part, params)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func isDateOnly(params map[string][]string) bool {
	return strings.EqualFold(firstParam(params, "VALUE"), "DATE")
}

func firstParam(params map[string][]string, name string) string {
	if params == nil {
		return ""
	}
	if vals := params[name]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}
