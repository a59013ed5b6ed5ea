package recurrence

import (
	"encoding/json"
	"testing"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumeEquivalence(t *testing.T) {
	event := newEvent(map[string]string{
		ical.PropRecurrenceRule:  "FREQ=DAILY", // unbounded
		ical.PropRecurrenceDates: "20240115T100000Z",
		ical.PropExceptionDates:  "20240104T090000Z",
	})

	original, err := New(event, day(1))
	require.NoError(t, err)

	// consume a prefix, then pause
	for i := 0; i < 3; i++ {
		_, err := original.Next()
		require.NoError(t, err)
	}

	snap, err := original.Snapshot()
	require.NoError(t, err)

	// round-trip through the wire form
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))

	restored, err := Resume(decoded)
	require.NoError(t, err)
	assert.Equal(t, original.ID(), restored.ID())
	assert.True(t, original.Last().Equal(restored.Last()))

	for i := 0; i < 12; i++ {
		want, errWant := original.Next()
		got, errGot := restored.Next()
		require.Equal(t, errWant, errGot, "call %d", i)
		assert.True(t, want.Equal(got), "call %d: original %v restored %v", i, want, got)
	}
}

func TestSnapshotNonRecurring(t *testing.T) {
	cur, err := New(newEvent(nil), day(1))
	require.NoError(t, err)

	snap, err := cur.Snapshot()
	require.NoError(t, err)
	assert.True(t, snap.Done)
	assert.False(t, snap.Recurring)
	require.Len(t, snap.RDates, 1)
	assert.True(t, snap.RDates[0].Equal(day(1)))

	restored, err := Resume(snap)
	require.NoError(t, err)
	first, err := restored.Next()
	require.NoError(t, err)
	assert.True(t, first.Equal(day(1)))
	_, err = restored.Next()
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestSnapshotAfterExhaustion(t *testing.T) {
	cur, err := New(newEvent(map[string]string{
		ical.PropRecurrenceRule: "FREQ=DAILY;COUNT=2",
	}), day(1))
	require.NoError(t, err)
	collect(t, cur, 10)
	require.True(t, cur.Done())

	snap, err := cur.Snapshot()
	require.NoError(t, err)
	restored, err := Resume(snap)
	require.NoError(t, err)
	assert.True(t, restored.Done())
	_, err = restored.Next()
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestResumeRejectsBadSnapshots(t *testing.T) {
	_, err := Resume(Snapshot{})
	assert.ErrorIs(t, err, ErrInvalidStart)

	_, err = Resume(Snapshot{Start: day(1), ID: "not-a-uuid"})
	assert.Error(t, err)

	_, err = Resume(Snapshot{
		Start: day(1),
		Rules: []GeneratorState{{Kind: "bogus"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown generator kind")
}
