// Package cache provides session cache implementations for the client
// side of treelate.
package cache

// SessionCache is the interface for session-scoped translation caching.
type SessionCache interface {
	// Get retrieves a cached translation. Returns empty string and false
	// if not found or expired.
	Get(key string) (string, bool)

	// Set stores a translation in the cache.
	Set(key string, value string) error
}
