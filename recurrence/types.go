package recurrence

import (
	"time"
)

// Info holds the recurrence-bearing property values of an event definition.
type Info struct {
	RRules  []string    // RRULE property values (without the "RRULE:" prefix)
	RDates  []time.Time // explicit additional occurrence instants
	ExDates []time.Time // explicit excluded instants
}

// IsRecurring reports whether any recurrence-bearing property is present.
func (i Info) IsRecurring() bool {
	return len(i.RRules) > 0 || len(i.RDates) > 0 || len(i.ExDates) > 0
}
