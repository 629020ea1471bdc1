package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rshade/pxpantheon/internal/logging"
)

// commandOutputPrefix namespaces keys for list sub-command output.
const commandOutputPrefix = "commandOutput."

// Producer yields the raw JSON to cache on a miss.
type Producer func(ctx context.Context) (json.RawMessage, error)

// Cache is a TTL cache of JSON values keyed by string. The check-then-set sequence is
// guarded, and concurrent misses for one key share a single producer call.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*CacheEntry
	store   Store
	enabled bool
	now     func() time.Time
	group   singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithStore persists entries through s in addition to memory.
func WithStore(s Store) Option {
	return func(c *Cache) { c.store = s }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithEnabled turns caching off when false: every Get calls the producer.
func WithEnabled(enabled bool) Option {
	return func(c *Cache) { c.enabled = enabled }
}

// New returns an empty in-memory cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]*CacheEntry),
		enabled: true,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CommandOutputKey returns the cache key for a list sub-command, e.g. "org:list" becomes
// "commandOutput.org.list".
func CommandOutputKey(subCommand string) string {
	return commandOutputPrefix + strings.ReplaceAll(subCommand, ":", ".")
}

// Get returns the live value for key, or calls produce once, validates its output as
// JSON, stores it with expiresAt = now + ttl and returns it. Producer errors and invalid
// JSON are returned and nothing is stored.
func (c *Cache) Get(ctx context.Context, key string, ttl time.Duration, produce Producer) (json.RawMessage, error) {
	if key == "" {
		return nil, ErrInvalidCacheKey
	}

	log := logging.FromContext(ctx)

	if !c.enabled {
		return produceJSON(ctx, key, produce)
	}

	if data, ok := c.lookup(ctx, key); ok {
		log.Debug().Ctx(ctx).Str("component", "cache").Str("cache_key", key).Msg("cache hit")
		return data, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Another caller may have filled the entry while this one waited.
		if data, ok := c.lookup(ctx, key); ok {
			return data, nil
		}

		log.Debug().Ctx(ctx).Str("component", "cache").Str("cache_key", key).Msg("cache miss")

		data, produceErr := produceJSON(ctx, key, produce)
		if produceErr != nil {
			return nil, produceErr
		}

		entry := NewCacheEntryAt(key, data, ttl, c.now())
		c.put(ctx, entry)
		return entry.Data, nil
	})
	if err != nil {
		return nil, err
	}

	return clone(v.(json.RawMessage)), nil
}

// Invalidate removes key from memory and the backing store.
func (c *Cache) Invalidate(key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	return c.store.Delete(key)
}

// Clear removes every entry from memory and the backing store.
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.entries = make(map[string]*CacheEntry)
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	return c.store.Clear()
}

// lookup returns a live copy of key from memory, falling back to the store.
func (c *Cache) lookup(ctx context.Context, key string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if entry, ok := c.entries[key]; ok {
		if !entry.IsExpiredAt(now) {
			return clone(entry.Data), true
		}
		delete(c.entries, key)
	}

	if c.store == nil {
		return nil, false
	}

	entry, err := c.store.Get(key)
	if err != nil {
		if !errors.Is(err, ErrCacheNotFound) {
			logging.FromContext(ctx).Warn().
				Ctx(ctx).
				Str("component", "cache").
				Str("cache_key", key).
				Err(err).
				Msg("ignoring unreadable cache entry")
		}
		return nil, false
	}
	if entry.IsExpiredAt(now) || !json.Valid(entry.Data) {
		return nil, false
	}

	c.entries[key] = entry
	return clone(entry.Data), true
}

func (c *Cache) put(ctx context.Context, entry *CacheEntry) {
	c.mu.Lock()
	c.entries[entry.Key] = entry
	c.mu.Unlock()

	if c.store == nil {
		return
	}
	if err := c.store.Set(entry); err != nil {
		logging.FromContext(ctx).Warn().
			Ctx(ctx).
			Str("component", "cache").
			Str("cache_key", entry.Key).
			Err(err).
			Msg("failed to persist cache entry")
	}
}

func produceJSON(ctx context.Context, key string, produce Producer) (json.RawMessage, error) {
	raw, err := produce(ctx)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: key %s", ErrInvalidJSON, key)
	}
	return clone(trimmed), nil
}

func clone(data json.RawMessage) json.RawMessage {
	if data == nil {
		return nil
	}
	return append(json.RawMessage(nil), data...)
}
