package recurrence

import "errors"

var (
	// ErrNilDefinition is returned by New when no component is supplied.
	ErrNilDefinition = errors.New("recurrence: nil definition component")

	// ErrInvalidStart is returned when a cursor is constructed or resumed
	// without a usable anchor instant.
	ErrInvalidStart = errors.New("recurrence: invalid start instant")

	// ErrExhausted is returned by Cursor.Next once no further occurrence
	// exists. It is the terminal signal, not a failure.
	ErrExhausted = errors.New("recurrence: expansion exhausted")

	// ErrUnsatisfiable is returned by Cursor.Next when no acceptable
	// occurrence could be produced within the per-call attempt bound,
	// typically because the exclusion set swallows everything the rules
	// produce.
	ErrUnsatisfiable = errors.New("recurrence: no satisfiable occurrence within attempt bound")
)
