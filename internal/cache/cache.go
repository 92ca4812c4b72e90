// Package cache provides the pluggable TTL'd key-value store used to
// memoize single-node execution results.
package cache

import "time"

// Cache is the store interface the single-node executor consults. The
// engine does not assume thread safety on a caller-supplied Cache;
// implementations intended for concurrent use must guarantee their own.
type Cache interface {
	// Get returns the stored value and true on a live hit. Entries older
	// than their TTL are treated as absent.
	Get(key string) (any, bool)

	// Set stores value under key with the given time-to-live.
	Set(key string, value any, ttl time.Duration)

	// Delete removes key if present.
	Delete(key string)
}
