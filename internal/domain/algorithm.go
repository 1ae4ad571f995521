package domain

import (
	"fmt"
	"strings"
)

// Algorithm selects the surface model used to compute a distance.
type Algorithm string

const (
	// Great-circle distance on a sphere.
	Haversine Algorithm = "haversine"
	// Geodesic distance on the WGS84 ellipsoid.
	Vincenty Algorithm = "vincenty"
)

func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(s))); a {
	case Haversine, Vincenty:
		return a, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s)
}

func (a Algorithm) Valid() bool {
	return a == Haversine || a == Vincenty
}
