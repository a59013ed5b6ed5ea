package recurrence

import (
	"sort"
	"time"

	"github.com/samber/mo"
)

// dateList is a strictly ascending sequence of instants with a forward-only
// read cursor. Insertion keeps the sequence ordered via binary search; equal
// instants end up adjacent and are not deduplicated.
type dateList struct {
	dates []time.Time
	next  int
}

func newDateList(dates []time.Time) *dateList {
	l := &dateList{}
	for _, t := range dates {
		l.insert(t)
	}
	return l
}

// insertionPoint returns the lower-bound index for t.
func (l *dateList) insertionPoint(t time.Time) int {
	return sort.Search(len(l.dates), func(i int) bool {
		return !l.dates[i].Before(t)
	})
}

func (l *dateList) insert(t time.Time) {
	i := l.insertionPoint(t)
	l.dates = append(l.dates, time.Time{})
	copy(l.dates[i+1:], l.dates[i:])
	l.dates[i] = t
}

// seek positions the cursor at the first entry not before t. The cursor
// never moves backwards.
func (l *dateList) seek(t time.Time) {
	if i := l.insertionPoint(t); i > l.next {
		l.next = i
	}
}

// peek returns the entry under the cursor, or None once exhausted.
func (l *dateList) peek() mo.Option[time.Time] {
	if l.next >= len(l.dates) {
		return mo.None[time.Time]()
	}
	return mo.Some(l.dates[l.next])
}

func (l *dateList) advance() {
	if l.next < len(l.dates) {
		l.next++
	}
}
