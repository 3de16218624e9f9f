package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestCache(max int) (*Cache, *fakeClock) {
	clk := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New(max, WithClock(clk.Now)), clk
}

func TestCache_SetGet(t *testing.T) {
	c, _ := newTestCache(10)

	c.Set("k", "payload", 100*time.Millisecond)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "payload", got)
}

func TestCache_TTLExpiry(t *testing.T) {
	c, clk := newTestCache(10)

	c.Set("k", "v", 100*time.Millisecond)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	clk.Advance(101 * time.Millisecond)

	got, ok = c.Get("k")
	assert.False(t, ok)
	assert.Nil(t, got)
	// Lazy expiry removed the entry on read.
	assert.Equal(t, 0, c.Len())
}

func TestCache_MissOnAbsentKey(t *testing.T) {
	c, _ := newTestCache(10)

	_, ok := c.Get("nope")
	assert.False(t, ok)
	assert.Equal(t, uint64(1), c.Stats().Misses)
}

func TestCache_FIFOEviction(t *testing.T) {
	c, _ := newTestCache(3)

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Set("c", 3, time.Minute)

	// Touch "a" so LRU would keep it; FIFO must still evict it first.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("d", 4, time.Minute)

	_, ok = c.Get("a")
	assert.False(t, ok, "oldest-inserted entry must be evicted regardless of access")
	for _, k := range []string{"b", "c", "d"} {
		_, ok := c.Get(k)
		assert.True(t, ok, "key %s should survive", k)
	}
	assert.Equal(t, uint64(1), c.Stats().Evictions)
}

func TestCache_OverwriteKeepsInsertionPosition(t *testing.T) {
	c, _ := newTestCache(2)

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Set("a", 10, time.Minute) // overwrite, still oldest
	c.Set("c", 3, time.Minute)  // evicts "a"

	_, ok := c.Get("a")
	assert.False(t, ok)

	got, ok := c.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestCache_Counters(t *testing.T) {
	c, clk := newTestCache(10)

	c.Set("k", "v", time.Second)
	_, _ = c.Get("k")
	_, _ = c.Get("k")
	_, _ = c.Get("missing")
	clk.Advance(2 * time.Second)
	_, _ = c.Get("k") // expired counts as miss

	stats := c.Stats()
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(2), stats.Misses)
}

func TestCache_BoundedSize(t *testing.T) {
	c, _ := newTestCache(5)

	for i := 0; i < 20; i++ {
		c.Set(fmt.Sprintf("k%d", i), i, time.Minute)
	}
	assert.Equal(t, 5, c.Len())
}

func TestCache_ZeroTTLIgnored(t *testing.T) {
	c, _ := newTestCache(5)

	c.Set("k", "v", 0)
	_, ok := c.Get("k")
	assert.False(t, ok)
}
