// Package recurrence expands recurring iCalendar events into their ordered
// occurrence instants without materializing the full (possibly infinite)
// sequence.
//
// The central type is Cursor: a forward-only, pull-based iterator over the
// occurrences produced by an event's RRULE properties, merged with its RDATE
// values and filtered by its EXDATE values. A cursor can be snapshotted at
// any point between calls and resumed later, yielding exactly the sequence
// the original cursor would have yielded.
//
// Engine layers range-oriented convenience queries (with optional caching)
// on top of the cursor for callers that think in time windows rather than
// streams.
package recurrence
