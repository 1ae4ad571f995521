package ports

import "geodistance-service/internal/domain"

// Contract for computing the surface distance between two validated points.
type DistanceSolver interface {
	// Return the distance in kilometers.
	Kilometers(p, q domain.Coordinates) (float64, error)
}
