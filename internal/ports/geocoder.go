package ports

import (
	"context"
	"geodistance-service/internal/domain"
)

// Contract for resolving a free-text address to coordinates.
type Geocoder interface {
	// Provider name used for cache keys and logging.
	Name() string
	// Resolve a single address.
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}

// Persistent store of previously geocoded addresses, partitioned by provider.
type GeocodeCache interface {
	// Fetch cached coordinates for the given addresses. Misses are absent from the map.
	GetMany(ctx context.Context, provider string, addresses []string) (map[string]domain.Coordinates, error)
	// Store address -> coordinate mappings.
	PutMany(ctx context.Context, provider string, results map[string]domain.Coordinates) error
}
