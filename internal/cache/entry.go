package cache

import (
	"encoding/json"
	"time"
)

// CacheEntry is one cached JSON value. A JSON null is a valid value.
//
//nolint:revive // CacheEntry reads better than Entry at call sites outside the package.
type CacheEntry struct {
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// NewCacheEntryAt returns an entry created at now that expires after ttl. data is copied.
func NewCacheEntryAt(key string, data json.RawMessage, ttl time.Duration, now time.Time) *CacheEntry {
	return &CacheEntry{
		Key:       key,
		Data:      clone(data),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpiredAt reports whether the entry is expired at now. The expiration instant
// itself counts as expired.
func (e *CacheEntry) IsExpiredAt(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Remaining is how long the entry stays live after now, or zero once expired.
func (e *CacheEntry) Remaining(now time.Time) time.Duration {
	if e.IsExpiredAt(now) {
		return 0
	}
	return e.ExpiresAt.Sub(now)
}
