package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheGetSet(t *testing.T) {
	t.Parallel()
	c := New(true, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_, _, ok := c.Get("k")
	assert.False(t, ok)

	etag := c.Set("k", []byte(`{"a":1}`))
	data, got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, etag, got)
	assert.JSONEq(t, `{"a":1}`, string(data))

	now = now.Add(2 * time.Minute)
	_, _, ok = c.Get("k")
	assert.False(t, ok, "expired")

	c.evict()
	assert.Equal(t, 0, c.Stats()["total_keys"])
}

func TestCacheDisabled(t *testing.T) {
	t.Parallel()
	c := New(false, time.Minute)
	etag := c.Set("k", []byte("x"))
	assert.NotEmpty(t, etag)
	_, _, ok := c.Get("k")
	assert.False(t, ok)
}

func TestInvalidatePrefix(t *testing.T) {
	t.Parallel()
	c := New(true, time.Minute)
	c.Set("table:master/tf/batting_stats.csv", []byte("a"))
	c.Set("table:master/tf/bowling_stats.csv", []byte("b"))
	c.Set("table:virat_kohli/agg/batting_stats.csv", []byte("c"))

	assert.Equal(t, 2, c.InvalidatePrefix("table:master/"))
	_, _, ok := c.Get("table:virat_kohli/agg/batting_stats.csv")
	assert.True(t, ok)
}

func TestETag(t *testing.T) {
	t.Parallel()
	etag := ComputeETag([]byte("hello"))
	assert.Equal(t, etag, ComputeETag([]byte("hello")))
	assert.NotEqual(t, etag, ComputeETag([]byte("hello!")))
	assert.Regexp(t, `^W/"[0-9a-f]{16}"$`, etag)

	assert.False(t, CheckETagMatch("", etag))
	assert.True(t, CheckETagMatch("*", etag))
	assert.True(t, CheckETagMatch(`W/"0", `+etag, etag))
	assert.False(t, CheckETagMatch(`W/"0"`, etag))
}
