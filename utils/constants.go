package utils

import "time"

const (
	// AuthCachePrefix prefixes verified token hashes in the auth cache.
	AuthCachePrefix = "auth:instructor:"
	// AuthCacheTTL is the sliding lifetime of an auth cache entry.
	AuthCacheTTL = 10 * time.Minute

	// ClientCachePrefix prefixes the cached client roster of each instructor.
	ClientCachePrefix = "clients:identities:"
)
