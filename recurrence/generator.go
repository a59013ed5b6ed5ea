package recurrence

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// Generator expands one repetition rule into successive instants. The cursor
// drives any number of generators uniformly through this contract; one
// implementation exists per rule pattern.
//
// A generator holds exactly one not-yet-consumed pending instant. Advance
// moves to the next one; Completed reports that no further instant exists,
// after which Pending must not be consulted.
type Generator interface {
	Pending() time.Time
	Advance()
	Completed() bool
	State() (GeneratorState, error)
}

// GeneratorState is the serializable form of a generator, tagged with the
// kind that knows how to restore it.
type GeneratorState struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// RestoreFunc rebuilds a generator from its serialized data.
type RestoreFunc func(data json.RawMessage) (Generator, error)

const kindRRule = "rrule"

var generatorKinds = map[string]RestoreFunc{
	kindRRule: restoreRuleGenerator,
}

// RegisterGeneratorKind makes a custom generator kind restorable from
// snapshots. The built-in "rrule" kind is registered by default.
func RegisterGeneratorKind(kind string, fn RestoreFunc) {
	generatorKinds[kind] = fn
}

func restoreGenerator(state GeneratorState) (Generator, error) {
	fn, ok := generatorKinds[state.Kind]
	if !ok {
		return nil, fmt.Errorf("recurrence: unknown generator kind %q", state.Kind)
	}
	return fn(state.Data)
}

// ruleGenerator expands a single RRULE property value.
type ruleGenerator struct {
	text    string
	dtstart time.Time
	rule    *rrule.RRule
	pending time.Time
	done    bool
}

type ruleGeneratorState struct {
	RRule   string    `json:"rrule"`
	DTStart time.Time `json:"dtstart"`
	Pending time.Time `json:"pending"`
	Done    bool      `json:"done"`
}

// newRuleGenerator seeds a generator at dtstart: its initial pending value
// is the rule's first occurrence at or after the anchor.
func newRuleGenerator(text string, dtstart time.Time) (*ruleGenerator, error) {
	rule, err := parseRule(text, dtstart)
	if err != nil {
		return nil, err
	}
	g := &ruleGenerator{text: text, dtstart: dtstart, rule: rule}
	first := rule.After(dtstart, true)
	if first.IsZero() {
		g.done = true
	} else {
		g.pending = first
	}
	return g, nil
}

func parseRule(text string, dtstart time.Time) (*rrule.RRule, error) {
	rule, err := rrule.StrToRRule(text)
	if err != nil {
		return nil, fmt.Errorf("recurrence: parse RRULE %q: %w", text, err)
	}
	rule.DTStart(dtstart)
	return rule, nil
}

func (g *ruleGenerator) Pending() time.Time { return g.pending }

func (g *ruleGenerator) Completed() bool { return g.done }

func (g *ruleGenerator) Advance() {
	if g.done {
		return
	}
	next := g.rule.After(g.pending, false)
	if next.IsZero() {
		g.done = true
		return
	}
	g.pending = next
}

func (g *ruleGenerator) State() (GeneratorState, error) {
	data, err := json.Marshal(ruleGeneratorState{
		RRule:   g.text,
		DTStart: g.dtstart,
		Pending: g.pending,
		Done:    g.done,
	})
	if err != nil {
		return GeneratorState{}, fmt.Errorf("recurrence: serialize rrule generator: %w", err)
	}
	return GeneratorState{Kind: kindRRule, Data: data}, nil
}

func restoreRuleGenerator(data json.RawMessage) (Generator, error) {
	var st ruleGeneratorState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("recurrence: restore rrule generator: %w", err)
	}
	rule, err := parseRule(st.RRule, st.DTStart)
	if err != nil {
		return nil, err
	}
	return &ruleGenerator{
		text:    st.RRule,
		dtstart: st.DTStart,
		rule:    rule,
		pending: st.Pending,
		done:    st.Done,
	}, nil
}
