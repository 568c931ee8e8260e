// Package cache memoizes yt-dlp extraction results so replaying a saved
// playlist does not shell out once per song. Backed by Redis when REDIS_URL
// is configured, otherwise by an in-process map.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/d3vil404/alice/internal/search"
)

const keyPrefix = "alice:track:"

type memEntry struct {
	track     search.Track
	expiresAt time.Time
}

type Cache struct {
	rdb *redis.Client
	ttl time.Duration

	mu  sync.Mutex
	mem map[string]memEntry
	now func() time.Time
}

// New builds a cache. An empty or unparsable redisURL silently degrades to
// the in-process map, matching how the bot treats Redis as optional.
func New(redisURL string, ttl time.Duration) *Cache {
	c := &Cache{
		ttl: ttl,
		mem: make(map[string]memEntry),
		now: time.Now,
	}
	if redisURL == "" {
		return c
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		logrus.WithError(err).Warn("invalid REDIS_URL, falling back to in-memory cache")
		return c
	}
	c.rdb = redis.NewClient(opt)
	return c
}

// Key normalizes a query so "Daft Punk  one more time" and
// "daft punk one more time" share an entry.
func Key(query string) string {
	return keyPrefix + strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

func (c *Cache) Get(ctx context.Context, key string) (*search.Track, bool) {
	if c.rdb != nil {
		raw, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil {
			var t search.Track
			if json.Unmarshal(raw, &t) == nil {
				return &t, true
			}
		} else if err != redis.Nil {
			logrus.WithError(err).Debug("redis get failed")
		}
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.mem[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.mem, key)
		return nil, false
	}
	t := e.track
	return &t, true
}

func (c *Cache) Set(ctx context.Context, key string, t *search.Track) {
	if c.rdb != nil {
		raw, err := json.Marshal(t)
		if err != nil {
			return
		}
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			logrus.WithError(err).Debug("redis set failed")
		}
		return
	}

	c.mu.Lock()
	c.mem[key] = memEntry{track: *t, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *Cache) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}
