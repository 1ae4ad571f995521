package geodesic

import (
	"geodistance-service/internal/domain"
	"math"
)

// HaversineSolver computes great-circle distance on a sphere.
type HaversineSolver struct {
	Model EarthModel
}

// NewHaversineSolver returns a solver using the model's mean radius.
func NewHaversineSolver(model EarthModel) *HaversineSolver {
	return &HaversineSolver{Model: model}
}

// Kilometers returns the great-circle distance between p and q.
// It never fails; the error is part of the solver contract shared with Vincenty.
func (h *HaversineSolver) Kilometers(p, q domain.Coordinates) (float64, error) {
	return haversineKm(h.Model.MeanRadiusKm, p, q), nil
}

func haversineKm(radius float64, p, q domain.Coordinates) float64 {
	lat1 := toRad(p.Lat)
	lat2 := toRad(q.Lat)
	dLat := lat2 - lat1
	dLon := toRad(q.Lon) - toRad(p.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	// Rounding can push a past 1 for antipodal points.
	a = math.Min(math.Max(a, 0), 1)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return radius * c
}
