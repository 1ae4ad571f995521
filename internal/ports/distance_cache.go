package ports

import "geodistance-service/internal/domain"

// Bounded in-memory memoization of computed distances.
type DistanceCache interface {
	// Return the cached result for key, if any.
	Get(key domain.CacheKey) (*domain.DistanceResult, bool)
	// Store result under key and return the instance now held by the cache.
	// If key is already present the existing instance is kept and returned.
	Put(key domain.CacheKey, result *domain.DistanceResult) *domain.DistanceResult
}
