package recurrence

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:             time.Minute,
		MaxEntries:      100,
		CleanupInterval: time.Hour,
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache := NewCache(testCacheConfig())
	defer cache.Close()

	info := Info{RRules: []string{"FREQ=DAILY"}}
	want := []time.Time{day(2), day(3)}

	_, ok := cache.Get(opBetween, day(1), info, midnight(1), midnight(5))
	assert.False(t, ok)

	cache.Set(opBetween, day(1), info, midnight(1), midnight(5), want)
	got, ok := cache.Get(opBetween, day(1), info, midnight(1), midnight(5))
	require.True(t, ok)
	assert.Equal(t, want, got)

	// a different operation over the same inputs is a distinct entry
	_, ok = cache.Get(opHas, day(1), info, midnight(1), midnight(5))
	assert.False(t, ok)
}

func TestCacheKeyCoversRecurrenceInfo(t *testing.T) {
	cache := NewCache(testCacheConfig())
	defer cache.Close()

	a := Info{RRules: []string{"FREQ=DAILY"}}
	b := Info{RRules: []string{"FREQ=DAILY"}, ExDates: []time.Time{day(2)}}

	cache.Set(opBetween, day(1), a, midnight(1), midnight(5), true)
	_, ok := cache.Get(opBetween, day(1), b, midnight(1), midnight(5))
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	config := testCacheConfig()
	config.TTL = -time.Second // everything is born expired
	cache := NewCache(config)
	defer cache.Close()

	cache.Set(opBetween, day(1), Info{}, midnight(1), midnight(5), true)
	_, ok := cache.Get(opBetween, day(1), Info{}, midnight(1), midnight(5))
	assert.False(t, ok)
}

func TestCacheEviction(t *testing.T) {
	config := testCacheConfig()
	config.MaxEntries = 2
	cache := NewCache(config)
	defer cache.Close()

	for i := 0; i < 5; i++ {
		cache.Set(fmt.Sprintf("op-%d", i), day(1), Info{}, midnight(1), midnight(5), i)
	}
	assert.LessOrEqual(t, cache.Stats().TotalEntries, 2)
}

func TestCacheStatsAndClose(t *testing.T) {
	cache := NewCache(testCacheConfig())

	cache.Set(opBetween, day(1), Info{}, midnight(1), midnight(5), true)
	stats := cache.Stats()
	assert.Equal(t, 1, stats.TotalEntries)
	assert.Equal(t, 1, stats.ActiveEntries)
	assert.Equal(t, 0, stats.ExpiredEntries)

	cache.Close()
	assert.Equal(t, 0, cache.Stats().TotalEntries)
}
