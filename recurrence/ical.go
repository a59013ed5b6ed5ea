package recurrence

import (
	"fmt"
	"time"

	"github.com/emersion/go-ical"

	"github.com/cyp0633/icalexpand/internal/icaltime"
)

// ExtractInfo reads every recurrence-bearing property of an iCal component.
// RRULE values are kept verbatim; RDATE and EXDATE values are parsed into
// instants, in property order (callers sort).
func ExtractInfo(comp *ical.Component) (Info, error) {
	var info Info

	for _, prop := range comp.Props.Values(ical.PropRecurrenceRule) {
		if prop.Value != "" {
			info.RRules = append(info.RRules, prop.Value)
		}
	}

	rdates, err := componentDates(comp, ical.PropRecurrenceDates)
	if err != nil {
		return Info{}, err
	}
	info.RDates = rdates

	exdates, err := componentDates(comp, ical.PropExceptionDates)
	if err != nil {
		return Info{}, err
	}
	info.ExDates = exdates

	return info, nil
}

// componentDates collects all instants carried by a multi-valued date
// property, across repeated property lines and comma-separated value lists.
func componentDates(comp *ical.Component, name string) ([]time.Time, error) {
	var out []time.Time
	for _, prop := range comp.Props.Values(name) {
		if prop.Value == "" {
			continue
		}
		dates, err := icaltime.ParseList(prop.Value, prop.Params)
		if err != nil {
			return nil, fmt.Errorf("recurrence: property %s: %w", name, err)
		}
		out = append(out, dates...)
	}
	return out, nil
}
