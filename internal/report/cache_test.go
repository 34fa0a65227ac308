package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyNormalizesWhitespaceAndCase(t *testing.T) {
	assert.Equal(t,
		Key("SELECT * FROM DimCard"),
		Key("select   *\n  from dimcard"))
	assert.NotEqual(t,
		Key("SELECT * FROM DimCard"),
		Key("SELECT * FROM DimDate"))
}

func TestCacheHitAndExpiry(t *testing.T) {
	cache := NewCache(true, 5*time.Minute)

	clock := time.Now()
	cache.now = func() time.Time { return clock }

	result := &ResultSet{Columns: []string{"n"}, Rows: [][]string{{"1"}}}
	cache.Put("SELECT 1", result)

	got, ok := cache.Get("SELECT 1")
	require.True(t, ok)
	assert.Same(t, result, got)

	// Formatting variants hit the same entry
	_, ok = cache.Get("select   1")
	assert.True(t, ok)

	clock = clock.Add(5 * time.Minute)
	_, ok = cache.Get("SELECT 1")
	assert.False(t, ok, "entry at TTL boundary should be expired")

	// Expired entry was evicted on the way out
	assert.Equal(t, 0, cache.Stats().TotalEntries)
}

func TestCacheDisabled(t *testing.T) {
	cache := NewCache(false, time.Minute)

	cache.Put("SELECT 1", &ResultSet{})
	_, ok := cache.Get("SELECT 1")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Stats().TotalEntries)
}

func TestCacheClear(t *testing.T) {
	cache := NewCache(true, time.Minute)
	cache.Put("SELECT 1", &ResultSet{})
	cache.Put("SELECT 2", &ResultSet{})
	require.Equal(t, 2, cache.Stats().TotalEntries)

	cache.Clear()
	assert.Equal(t, 0, cache.Stats().TotalEntries)
}

func TestCacheStatsCountsExpired(t *testing.T) {
	cache := NewCache(true, time.Minute)

	clock := time.Now()
	cache.now = func() time.Time { return clock }

	cache.Put("SELECT 1", &ResultSet{})
	clock = clock.Add(2 * time.Minute)
	cache.Put("SELECT 2", &ResultSet{})

	stats := cache.Stats()
	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, 1, stats.ValidEntries)
	assert.Equal(t, 1, stats.ExpiredEntries)
	assert.True(t, stats.Enabled)
	assert.Equal(t, time.Minute, stats.TTL)
}
