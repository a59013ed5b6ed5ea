package recurrence

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

// maxNextAttempts bounds the work of a single Next call. Rule generators may
// be infinite, so a dense enough exclusion set could otherwise stall the
// merge loop forever.
const maxNextAttempts = 500

// Cursor is a forward-only iterator over the occurrence instants of one
// event definition: the merged output of its rule generators and explicit
// additional dates, minus its excluded dates.
//
// A cursor is exclusively owned by its caller; Next is not safe for
// concurrent use without external synchronization.
type Cursor struct {
	id         uuid.UUID
	start      time.Time
	last       time.Time
	generators []Generator
	extra      *dateList
	excluded   *dateList
	recurring  bool
	done       bool
	logger     *slog.Logger
}

// Option configures a Cursor at construction or resume time.
type Option func(*Cursor)

// WithLogger attaches a logger. By default all cursor logging is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cursor) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// New builds a cursor for the given event definition, anchored at start
// (normally the event's DTSTART instant).
//
// The anchor itself is never produced by the cursor: the caller already
// holds it, and every rule generator is advanced past it during
// construction. The one exception is a non-recurring definition, whose
// single occurrence is the anchor and is delivered exactly once.
func New(comp *ical.Component, start time.Time, opts ...Option) (*Cursor, error) {
	if comp == nil {
		return nil, ErrNilDefinition
	}
	if start.IsZero() {
		return nil, fmt.Errorf("%w: zero anchor", ErrInvalidStart)
	}

	c := &Cursor{
		id:       uuid.New(),
		start:    start,
		last:     start,
		extra:    newDateList(nil),
		excluded: newDateList(nil),
		logger:   discardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	info, err := ExtractInfo(comp)
	if err != nil {
		return nil, err
	}

	if !info.IsRecurring() {
		c.extra.insert(start)
		c.done = true
		return c, nil
	}

	c.recurring = true
	for _, text := range info.RRules {
		g, err := newRuleGenerator(text, start)
		if err != nil {
			return nil, err
		}
		// skip the anchor occurrence, which the caller holds already
		g.Advance()
		if !g.Completed() {
			c.generators = append(c.generators, g)
		}
	}
	for _, t := range info.RDates {
		c.extra.insert(t)
	}
	for _, t := range info.ExDates {
		c.excluded.insert(t)
	}
	c.extra.seek(start)
	c.excluded.seek(start)

	c.logger.Debug("cursor created",
		"cursor", c.id,
		"start", c.start,
		"rules", len(c.generators),
		"rdates", len(c.extra.dates),
		"exdates", len(c.excluded.dates))
	return c, nil
}

// ID identifies this cursor across snapshots and log lines.
func (c *Cursor) ID() uuid.UUID { return c.id }

// Start returns the anchor instant.
func (c *Cursor) Start() time.Time { return c.start }

// Last returns the most recently selected instant, or the anchor before the
// first call.
func (c *Cursor) Last() time.Time { return c.last }

// Recurring reports whether the definition carried any recurrence-bearing
// property. Non-recurring cursors emit the anchor itself exactly once;
// recurring cursors never emit it.
func (c *Cursor) Recurring() bool { return c.recurring }

// Done reports whether the expansion has terminated.
func (c *Cursor) Done() bool { return c.done }

// Next produces the next occurrence instant.
//
// It returns ErrExhausted once no further occurrence exists, and
// ErrUnsatisfiable when no acceptable occurrence was found within the
// attempt bound. Successive results never decrease in time.
func (c *Cursor) Next() (time.Time, error) {
	for attempt := 0; attempt < maxNextAttempts; attempt++ {
		extra := c.extra.peek()
		gen := c.selectGenerator()

		if extra.IsAbsent() && gen == nil {
			c.done = true
			return time.Time{}, ErrExhausted
		}

		// Pick the globally earliest candidate. On a tie the explicit
		// date wins and the generator is left in place; its stale
		// duplicate is swallowed by the last-value check below.
		var next time.Time
		if v, ok := extra.Get(); !ok || (gen != nil && v.After(gen.Pending())) {
			next = gen.Pending()
			gen.Advance()
		} else {
			next = v
		}

		if v, ok := c.extra.peek().Get(); ok && v.Equal(next) {
			c.extra.advance()
		}

		// The anchor and any already-delivered instant are never
		// emitted again.
		if c.recurring && next.Equal(c.last) {
			continue
		}
		c.last = next

		if c.dropExcluded() {
			continue
		}
		return c.last, nil
	}
	return time.Time{}, fmt.Errorf("%w (%d attempts)", ErrUnsatisfiable, maxNextAttempts)
}

// selectGenerator prunes completed generators and returns the live one with
// the earliest pending value, or nil when none remain. Ties keep the
// first-scanned generator.
func (c *Cursor) selectGenerator() Generator {
	var chosen Generator
	live := c.generators[:0]
	for _, g := range c.generators {
		if g.Completed() {
			continue
		}
		live = append(live, g)
		if chosen == nil || g.Pending().Before(chosen.Pending()) {
			chosen = g
		}
	}
	c.generators = live
	return chosen
}

// dropExcluded advances the exclusion cursor past stale entries and reports
// whether the current candidate is suppressed by an exact match.
func (c *Cursor) dropExcluded() bool {
	for {
		ex, ok := c.excluded.peek().Get()
		if !ok || !ex.Before(c.last) {
			break
		}
		c.excluded.advance()
	}
	if ex, ok := c.excluded.peek().Get(); ok && ex.Equal(c.last) {
		c.excluded.advance()
		c.logger.Debug("occurrence excluded", "cursor", c.id, "instant", c.last)
		return true
	}
	return false
}
