package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d3vil404/alice/internal/search"
)

func TestKeyNormalization(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"Daft Punk One More Time", "daft punk one more time"},
		{"  spaced   out  ", "spaced out"},
		{"https://youtu.be/abc", "HTTPS://youtu.be/abc"},
	}
	for _, tt := range tests {
		assert.Equal(t, Key(tt.a), Key(tt.b))
	}
	assert.Equal(t, "alice:track:hello world", Key("Hello   World"))
}

func TestMemoryGetSet(t *testing.T) {
	c := New("", time.Hour)
	ctx := context.Background()

	_, ok := c.Get(ctx, Key("missing"))
	assert.False(t, ok)

	track := &search.Track{ID: "a", Title: "Song", WebpageURL: "https://youtu.be/a"}
	c.Set(ctx, Key("song"), track)

	got, ok := c.Get(ctx, Key("song"))
	require.True(t, ok)
	assert.Equal(t, "Song", got.Title)

	// Returned track is a copy, mutating it must not poison the cache.
	got.Title = "Mutated"
	again, ok := c.Get(ctx, Key("song"))
	require.True(t, ok)
	assert.Equal(t, "Song", again.Title)
}

func TestMemoryExpiry(t *testing.T) {
	c := New("", time.Minute)
	ctx := context.Background()

	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set(ctx, Key("song"), &search.Track{Title: "Song"})

	_, ok := c.Get(ctx, Key("song"))
	require.True(t, ok)

	c.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, ok = c.Get(ctx, Key("song"))
	assert.False(t, ok)

	// Expired entries are evicted on read.
	c.mu.Lock()
	_, present := c.mem[Key("song")]
	c.mu.Unlock()
	assert.False(t, present)
}

func TestInvalidRedisURLFallsBack(t *testing.T) {
	c := New("not a url", time.Hour)
	assert.Nil(t, c.rdb)

	ctx := context.Background()
	c.Set(ctx, Key("song"), &search.Track{Title: "Song"})
	_, ok := c.Get(ctx, Key("song"))
	assert.True(t, ok)

	assert.NoError(t, c.Close())
}
