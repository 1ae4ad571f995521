package domain

import (
	"fmt"
	"math"
)

// Immutable geographic coordinates in degrees (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lon float64
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%g,%g", c.Lat, c.Lon)
}

// Operand identifies which side of a point pair an input came from.
type Operand string

const (
	FirstPoint  Operand = "first"
	SecondPoint Operand = "second"
)

// Validate checks that c lies inside the geographic domain and names the
// offending operand on failure.
func Validate(which Operand, c Coordinates) (Coordinates, error) {
	switch {
	case math.IsNaN(c.Lat) || math.IsNaN(c.Lon):
		return Coordinates{}, &InvalidCoordinateError{Point: which, Coordinates: c, Reason: "latitude and longitude must be numbers"}
	case math.Abs(c.Lat) > 90:
		return Coordinates{}, &InvalidCoordinateError{Point: which, Coordinates: c, Reason: "latitude must be between -90 and 90"}
	case math.Abs(c.Lon) > 180:
		return Coordinates{}, &InvalidCoordinateError{Point: which, Coordinates: c, Reason: "longitude must be between -180 and 180"}
	}

	return c, nil
}
