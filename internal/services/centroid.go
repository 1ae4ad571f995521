package services

import (
	"fmt"
	"geodistance-service/internal/domain"
	"iter"
	"math"
)

// DefaultBatchSize is the number of points summed per batch when none is given.
const DefaultBatchSize = 1000

// CalculateCentroid returns the arithmetic mean of the latitudes and
// longitudes in points. The sequence is consumed once in batches of
// batchSize so arbitrarily long inputs need constant memory.
//
// The mean is taken in coordinate space; it is not a spherical centroid.
func CalculateCentroid(points iter.Seq[domain.Coordinates], batchSize int) (domain.Coordinates, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	var (
		totalLat, totalLon float64
		batchLat, batchLon float64
		inBatch, count     int
		bad                error
	)

	for p := range points {
		if !finite(p.Lat) || !finite(p.Lon) {
			bad = fmt.Errorf("centroid: %w: index %d (%s)", domain.ErrInvalidPoint, count, p)
			break
		}

		batchLat += p.Lat
		batchLon += p.Lon
		inBatch++
		count++

		if inBatch == batchSize {
			totalLat += batchLat
			totalLon += batchLon
			batchLat, batchLon, inBatch = 0, 0, 0
		}
	}
	if bad != nil {
		return domain.Coordinates{}, bad
	}

	totalLat += batchLat
	totalLon += batchLon

	if count == 0 {
		return domain.Coordinates{}, fmt.Errorf("centroid: %w", domain.ErrNoPoints)
	}

	return domain.Coordinates{
		Lat: totalLat / float64(count),
		Lon: totalLon / float64(count),
	}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
