package cache

import "geodistance-service/internal/domain"

// DistanceCache memoizes computed distances keyed by point pair, unit and algorithm.
type DistanceCache = LRU[domain.CacheKey, *domain.DistanceResult]

func NewDistanceCache(capacity int) *DistanceCache {
	return NewLRU[domain.CacheKey, *domain.DistanceResult]("distance", capacity)
}
