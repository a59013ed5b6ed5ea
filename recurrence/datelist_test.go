package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateListInsertKeepsOrder(t *testing.T) {
	l := newDateList([]time.Time{day(5), day(1), day(3), day(3), day(2)})

	require.Len(t, l.dates, 5)
	for i := 1; i < len(l.dates); i++ {
		assert.False(t, l.dates[i].Before(l.dates[i-1]), "out of order at %d", i)
	}
	// duplicates sit adjacently
	assert.True(t, l.dates[2].Equal(day(3)))
	assert.True(t, l.dates[3].Equal(day(3)))
}

func TestDateListPeekAdvance(t *testing.T) {
	l := newDateList([]time.Time{day(1), day(2)})

	v, ok := l.peek().Get()
	require.True(t, ok)
	assert.True(t, v.Equal(day(1)))

	l.advance()
	v, ok = l.peek().Get()
	require.True(t, ok)
	assert.True(t, v.Equal(day(2)))

	l.advance()
	assert.True(t, l.peek().IsAbsent())

	// advancing past the end stays put
	l.advance()
	assert.True(t, l.peek().IsAbsent())
}

func TestDateListSeekIsLowerBoundAndForwardOnly(t *testing.T) {
	l := newDateList([]time.Time{day(1), day(3), day(5)})

	l.seek(day(2))
	v, ok := l.peek().Get()
	require.True(t, ok)
	assert.True(t, v.Equal(day(3)))

	// seeking an exact match lands on it
	l.seek(day(3))
	v, ok = l.peek().Get()
	require.True(t, ok)
	assert.True(t, v.Equal(day(3)))

	// the cursor never moves backwards
	l.advance()
	l.seek(day(1))
	v, ok = l.peek().Get()
	require.True(t, ok)
	assert.True(t, v.Equal(day(5)))

	l.seek(day(9))
	assert.True(t, l.peek().IsAbsent())
}

func TestDateListEmpty(t *testing.T) {
	l := newDateList(nil)
	assert.True(t, l.peek().IsAbsent())
	l.seek(day(1))
	assert.True(t, l.peek().IsAbsent())
}
