package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
)

// Engine answers range-oriented occurrence queries by driving a Cursor, with
// optional result caching.
type Engine struct {
	cache  *Cache
	config EngineConfig
}

const (
	opBetween = "between"
	opHas     = "has"
)

// NewEngine creates an engine with the default configuration.
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultEngineConfig)
}

// NewEngineWithConfig creates an engine with custom configuration.
func NewEngineWithConfig(config EngineConfig) *Engine {
	if config.MaxOccurrences <= 0 {
		config.MaxOccurrences = defaultMaxOccurrences
	}
	var cache *Cache
	if config.CacheEnabled {
		cache = NewCache(config.CacheConfig)
	}
	return &Engine{cache: cache, config: config}
}

// Close releases the engine's cache, if any.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

// OccurrencesBetween returns the occurrence instants of comp that fall in
// [rangeStart, rangeEnd), anchored at start. The result includes the anchor
// occurrence itself when it lies in the range and is not excluded, and is
// capped at the configured occurrence limit.
func (e *Engine) OccurrencesBetween(comp *ical.Component, start, rangeStart, rangeEnd time.Time) ([]time.Time, error) {
	info, err := ExtractInfo(comp)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if cached, ok := e.cache.Get(opBetween, start, info, rangeStart, rangeEnd); ok {
			return cached.([]time.Time), nil
		}
	}

	occurrences, err := e.expandBetween(comp, start, info, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.cache.Set(opBetween, start, info, rangeStart, rangeEnd, occurrences)
	}
	return occurrences, nil
}

// HasOccurrenceInRange reports whether comp has at least one occurrence in
// [rangeStart, rangeEnd) without collecting them all.
func (e *Engine) HasOccurrenceInRange(comp *ical.Component, start, rangeStart, rangeEnd time.Time) (bool, error) {
	info, err := ExtractInfo(comp)
	if err != nil {
		return false, err
	}

	if e.cache != nil {
		if cached, ok := e.cache.Get(opHas, start, info, rangeStart, rangeEnd); ok {
			return cached.(bool), nil
		}
	}

	found, err := e.hasOccurrence(comp, start, info, rangeStart, rangeEnd)
	if err != nil {
		return false, err
	}

	if e.cache != nil {
		e.cache.Set(opHas, start, info, rangeStart, rangeEnd, found)
	}
	return found, nil
}

func (e *Engine) expandBetween(comp *ical.Component, start time.Time, info Info, rangeStart, rangeEnd time.Time) ([]time.Time, error) {
	cur, err := New(comp, start)
	if err != nil {
		return nil, err
	}

	var out []time.Time
	// A recurring cursor delivers the anchor out of band; a non-recurring
	// one emits it itself.
	if cur.Recurring() && anchorInRange(start, info, rangeStart, rangeEnd) {
		out = append(out, start)
	}

	// MaxOccurrences bounds cursor pulls, not just collected results, so a
	// far-future window over an unbounded rule cannot scan without limit.
	for i := 0; i < e.config.MaxOccurrences && len(out) < e.config.MaxOccurrences; i++ {
		t, err := cur.Next()
		if errors.Is(err, ErrExhausted) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("expand occurrences: %w", err)
		}
		if t.Before(rangeStart) {
			continue
		}
		if !t.Before(rangeEnd) {
			break
		}
		out = append(out, t)
	}
	return out, nil
}

func (e *Engine) hasOccurrence(comp *ical.Component, start time.Time, info Info, rangeStart, rangeEnd time.Time) (bool, error) {
	if anchorInRange(start, info, rangeStart, rangeEnd) {
		return true, nil
	}

	cur, err := New(comp, start)
	if err != nil {
		return false, err
	}
	for i := 0; i < e.config.MaxOccurrences; i++ {
		t, err := cur.Next()
		if errors.Is(err, ErrExhausted) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("check occurrences: %w", err)
		}
		if !t.Before(rangeEnd) {
			return false, nil
		}
		if !t.Before(rangeStart) {
			return true, nil
		}
	}
	return false, nil
}

// anchorInRange reports whether the anchor occurrence itself falls in the
// queried window and survives the exclusion list.
func anchorInRange(start time.Time, info Info, rangeStart, rangeEnd time.Time) bool {
	if start.Before(rangeStart) || !start.Before(rangeEnd) {
		return false
	}
	for _, ex := range info.ExDates {
		if ex.Equal(start) {
			return false
		}
	}
	return true
}
