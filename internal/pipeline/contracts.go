// Package pipeline contains the mediator middleware that wrap every request:
// panic recovery, metrics, slow-request logging, authorization, validation,
// read-through caching and cache invalidation.
package pipeline

// Cacheable is implemented by queries whose result may be cached.
// The key must be deterministic for the query's parameters.
type Cacheable interface {
	CacheKey() string
	CacheFamily() string
}

// CacheInvalidator is implemented by commands that make cached reads of
// whole families stale once they succeed.
type CacheInvalidator interface {
	InvalidatedFamilies() []string
}

// KeyInvalidator is implemented by commands that evict individual keys.
type KeyInvalidator interface {
	InvalidatedKeys() []string
}

// Secured is implemented by requests that need a permission.
type Secured interface {
	RequiredPermission() string
}
