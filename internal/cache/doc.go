// Package cache memoizes JSON command output with TTL expiration.
//
// Cache.Get returns a live entry without calling the producer; on a miss or after the
// expiration instant it calls the producer exactly once, validates the output as JSON,
// stores it and returns it. Invalid output and producer errors are returned, never
// stored. Entries live in memory and, when a Store is configured, in JSON files under
// ~/.pxpantheon/cache/ so lookups such as organization and upstream lists survive
// across invocations.
package cache
