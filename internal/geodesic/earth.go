// Package geodesic computes surface distances between geographic coordinates.
//
// Both solvers are pure functions of their inputs and are safe for concurrent use.
package geodesic

import "math"

// EarthModel holds the physical constants used by the solvers.
type EarthModel struct {
	// Mean radius of the spherical model, in kilometers.
	MeanRadiusKm float64
	// Semi-major axis of the ellipsoid, in meters.
	SemiMajorAxis float64
	// Ellipsoid flattening.
	Flattening float64
}

// WGS84 is the default model: mean radius 6371.01 km, a = 6378137 m, f = 1/298.257223563.
var WGS84 = EarthModel{
	MeanRadiusKm:  6371.01,
	SemiMajorAxis: 6378137.0,
	Flattening:    1 / 298.257223563,
}

// SemiMinorAxis returns b = (1-f)·a in meters.
func (m EarthModel) SemiMinorAxis() float64 {
	return (1 - m.Flattening) * m.SemiMajorAxis
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
